package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ============================================================
// Export Storage
// ============================================================

// ExportStorage складывает выданные выгрузки в каталог пользователя.
type ExportStorage struct {
	root string
}

func NewExportStorage(root string) *ExportStorage {
	return &ExportStorage{root: root}
}

func (s *ExportStorage) UserDir(userID string) string {
	return filepath.Join(s.root, userID)
}

func (s *ExportStorage) Path(userID, filename string) string {
	return filepath.Join(s.UserDir(userID), filepath.Base(filename))
}

func (s *ExportStorage) EnsureDir(userID string) error {
	if err := os.MkdirAll(s.UserDir(userID), 0o755); err != nil {
		return fmt.Errorf("mkdir export dir: %w", err)
	}
	return nil
}

// Save пишет файл и возвращает путь к нему.
func (s *ExportStorage) Save(userID, filename string, data []byte) (string, error) {
	if s.root == "" {
		return "", nil
	}
	if err := s.EnsureDir(userID); err != nil {
		return "", err
	}
	target := s.Path(userID, filename)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return target, nil
}

// List возвращает имена сохраненных выгрузок пользователя.
func (s *ExportStorage) List(userID string) []string {
	entries, err := os.ReadDir(s.UserDir(userID))
	if err != nil {
		return []string{}
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		out = append(out, e.Name())
	}
	return out
}
