package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"stroycalc/internal/account/models"
	"stroycalc/internal/calculator"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

var ErrUnknownFormat = errors.New("unknown export format")

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
	FormatTXT  = "txt"
	FormatPDF  = "pdf"
)

var contentTypes = map[string]string{
	FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	FormatCSV:  "text/csv; charset=utf-8",
	FormatTXT:  "text/plain; charset=utf-8",
	FormatPDF:  "application/pdf",
}

// Export - готовый файл выгрузки.
type Export struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ============================================================
// Export Renderer
// ============================================================

// ExportRenderer собирает отчеты по расчетам и сметам. Для кириллицы
// в pdf нужен TTF шрифт (FontPath); без него текст транслитерируется.
type ExportRenderer struct {
	FontPath string
}

func NewExportRenderer(fontPath string) *ExportRenderer {
	return &ExportRenderer{FontPath: fontPath}
}

// Calculation выгружает расчет в xlsx, csv, txt или pdf.
func (r *ExportRenderer) Calculation(c *models.Calculation, format string) (*Export, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatXLSX:
		data, err = calculationXLSX(c)
	case FormatCSV:
		data, err = calculationCSV(c)
	case FormatTXT:
		data = []byte(strings.Join(calculationLines(c), "\n") + "\n")
	case FormatPDF:
		data, err = r.pdf("Расчет", calculationLines(c))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("Расчет_%s_%s.%s", fileSafe(calculator.DisplayName(c.Type)), c.CreatedAt.Format("2006-01-02"), format)
	return &Export{Filename: name, ContentType: contentTypes[format], Data: data}, nil
}

// Budget выгружает смету в xlsx или pdf.
func (r *ExportRenderer) Budget(b *models.Budget, format string) (*Export, error) {
	var (
		data []byte
		err  error
	)
	switch format {
	case FormatXLSX:
		data, err = budgetXLSX(b)
	case FormatPDF:
		data, err = r.pdf("Смета", budgetLines(b))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, err
	}

	name := fmt.Sprintf("Смета_%s_%s.%s", fileSafe(b.Title), b.CreatedAt.Format("2006-01-02"), format)
	return &Export{Filename: name, ContentType: contentTypes[format], Data: data}, nil
}

// ============================================================
// Calculation report
// ============================================================

var paramNames = map[string]string{
	"length":                   "Длина",
	"width":                    "Ширина",
	"height":                   "Высота",
	"depth":                    "Глубина",
	"area":                     "Площадь",
	"perimeter":                "Периметр",
	"volume":                   "Объем",
	"thickness":                "Толщина",
	"quantity":                 "Количество",
	"weight":                   "Вес",
	"density":                  "Плотность",
	"coats":                    "Количество слоев",
	"consumption":              "Расход краски",
	"wall_area":                "Площадь стен",
	"tile_width":               "Ширина плитки",
	"tile_height":              "Длина плитки",
	"gap_width":                "Ширина шва",
	"roll_width":               "Ширина рулона",
	"roll_length":              "Длина рулона",
	"wall_height":              "Высота стен",
	"wall_length":              "Длина стены",
	"laminate_width":           "Ширина ламината",
	"laminate_length":          "Длина ламината",
	"pack_count":               "Штук в упаковке",
	"concrete_per_cubic":       "Бетон на куб.м",
	"brick_length":             "Длина кирпича",
	"brick_height":             "Высота кирпича",
	"wall_thickness":           "Толщина стены",
	"roof_length":              "Длина крыши",
	"roof_width":               "Ширина крыши",
	"roof_slope":               "Уклон крыши",
	"sheet_length":             "Длина листа",
	"sheet_width":              "Ширина листа",
	"overlap":                  "Нахлест",
	"insulation_thickness":     "Толщина утеплителя",
	"insulation_area_per_pack": "Площадь в упаковке",
}

// ParamName переводит имя параметра; неизвестные имена остаются как есть.
func ParamName(key string) string {
	if name, ok := paramNames[key]; ok {
		return name
	}
	return key
}

type param struct {
	name  string
	value float64
}

// params: сначала поля в порядке формы, затем остальные по алфавиту.
func params(c *models.Calculation) []param {
	seen := map[string]bool{}
	var out []param
	add := func(key string) {
		v, ok := c.InputData[key]
		if !ok || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, param{name: ParamName(key), value: v})
	}

	if def, ok := calculator.Lookup(c.Category, c.Type); ok {
		for _, f := range def.Fields {
			add(f.Name)
		}
	}
	rest := make([]string, 0, len(c.InputData))
	for k := range c.InputData {
		if !seen[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		add(k)
	}
	return out
}

func resultText(c *models.Calculation) string {
	switch {
	case c.Result.Details != "":
		return c.Result.Details
	case c.Result.TotalArea != nil:
		return fmt.Sprintf("Площадь: %s м²", formatValue(*c.Result.TotalArea))
	default:
		return "Нет данных"
	}
}

func calculationLines(c *models.Calculation) []string {
	lines := []string{
		"===== РАСЧЕТ =====",
		"Тип: " + calculator.DisplayName(c.Type),
		"Дата создания: " + formatDate(c.CreatedAt),
		"",
		"=== ВВЕДЕННЫЕ ПАРАМЕТРЫ ===",
	}
	for _, p := range params(c) {
		lines = append(lines, p.name+": "+formatValue(p.value))
	}
	lines = append(lines, "", "=== РЕЗУЛЬТАТЫ И ОБЪЕМ РАБОТ ===", resultText(c), "", "=== НЕОБХОДИМЫЕ МАТЕРИАЛЫ ===")
	if len(c.Result.Materials) == 0 {
		lines = append(lines, "Не требуется")
	}
	for _, m := range c.Result.Materials {
		lines = append(lines, fmt.Sprintf("- %s: %s %s", m.Name, formatValue(m.Quantity), m.Unit))
	}
	return lines
}

// Строки отчета: string - текст, float64 и money - числа.
// В xlsx числами становятся только числовые ячейки, текст не разбирается.
type money float64

func calculationRows(c *models.Calculation) [][]any {
	rows := [][]any{
		{"Тип расчета", calculator.DisplayName(c.Type)},
		{"Дата создания", formatDate(c.CreatedAt)},
		{},
		{"Введенные параметры", "Значение"},
	}
	for _, p := range params(c) {
		rows = append(rows, []any{p.name, p.value})
	}
	rows = append(rows, []any{}, []any{"Результаты и объем работ", resultText(c)}, []any{},
		[]any{"Материалы", "Количество", "Единица измерения"})
	if len(c.Result.Materials) == 0 {
		rows = append(rows, []any{"Нет материалов", "", ""})
	}
	for _, m := range c.Result.Materials {
		rows = append(rows, []any{m.Name, m.Quantity, m.Unit})
	}
	return rows
}

func cellText(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case float64:
		return formatValue(v)
	case money:
		return formatMoney(float64(v))
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func textRows(rows [][]any) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = cellText(v)
		}
	}
	return out
}

// calculationCSV: разделитель ';' и BOM, чтобы Excel открыл кириллицу.
func calculationCSV(c *models.Calculation) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\ufeff")

	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.WriteAll(textRows(calculationRows(c))); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func calculationXLSX(c *models.Calculation) ([]byte, error) {
	return writeSheet("Расчет", calculationRows(c))
}

// ============================================================
// Budget report
// ============================================================

func budgetRows(b *models.Budget) [][]any {
	rows := [][]any{
		{"Смета", b.Title},
		{"Описание", b.Description},
		{"Дата создания", formatDate(b.CreatedAt)},
		{},
		{"Расчет", "Категория", PlannedLabel, ActualLabel, "Примечание"},
	}
	for _, it := range b.Items {
		name, category := "Расчет удален", ""
		if it.Calculation != nil {
			name = calculator.DisplayName(it.Calculation.Type)
			category = it.Calculation.Category
		}
		rows = append(rows, []any{name, category, cost(it.PlannedCost), cost(it.ActualCost), it.Notes})
	}
	rows = append(rows, []any{}, []any{"Итого", "", money(b.TotalPlanned), money(b.TotalActual), ""})
	return rows
}

func budgetLines(b *models.Budget) []string {
	lines := []string{
		"===== СМЕТА =====",
		"Название: " + b.Title,
	}
	if b.Description != "" {
		lines = append(lines, "Описание: "+b.Description)
	}
	lines = append(lines, "Дата создания: "+formatDate(b.CreatedAt), "", "=== ПОЗИЦИИ ===")
	if len(b.Items) == 0 {
		lines = append(lines, "Нет позиций")
	}
	for _, row := range textRows(budgetRows(b)[5:]) {
		if len(row) == 0 || row[0] == "Итого" {
			continue
		}
		line := fmt.Sprintf("- %s: план %s, факт %s", row[0], dash(row[2]), dash(row[3]))
		if row[4] != "" {
			line += " (" + row[4] + ")"
		}
		lines = append(lines, line)
	}
	lines = append(lines, "",
		PlannedLabel+": "+formatMoney(b.TotalPlanned),
		ActualLabel+": "+formatMoney(b.TotalActual))
	return lines
}

func budgetXLSX(b *models.Budget) ([]byte, error) {
	return writeSheet("Смета", budgetRows(b))
}

// ============================================================
// Writers
// ============================================================

func writeSheet(sheet string, rows [][]any) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	for i, row := range rows {
		for j, v := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			value := v
			if m, ok := v.(money); ok {
				value = float64(m)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", 30); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "B", "E", 20); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *ExportRenderer) pdf(title string, lines []string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetTitle(title, true)

	text := func(s string) string { return s }
	family := "Arial"
	if r.FontPath != "" {
		family = "DejaVu"
		pdf.AddUTF8Font(family, "", r.FontPath)
	} else {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		text = func(s string) string { return tr(translit(s)) }
	}

	pdf.AddPage()
	for _, line := range lines {
		size := 11.0
		if strings.HasPrefix(line, "===") {
			size = 13
		}
		pdf.SetFont(family, "", size)
		if line == "" {
			pdf.Ln(4)
			continue
		}
		pdf.MultiCell(0, 6, text(line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// ============================================================
// Formatting
// ============================================================

var months = [...]string{
	"января", "февраля", "марта", "апреля", "мая", "июня",
	"июля", "августа", "сентября", "октября", "ноября", "декабря",
}

// formatDate: "1 мая 2024 г."
func formatDate(t time.Time) string {
	return fmt.Sprintf("%d %s %d г.", t.Day(), months[t.Month()-1], t.Year())
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// cost - пустая ячейка для незаданной суммы.
func cost(v *float64) any {
	if v == nil {
		return ""
	}
	return money(*v)
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func fileSafe(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "без_названия"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, s)
}

var translitTable = map[rune]string{
	'а': "a", 'б': "b", 'в': "v", 'г': "g", 'д': "d", 'е': "e", 'ё': "e", 'ж': "zh",
	'з': "z", 'и': "i", 'й': "y", 'к': "k", 'л': "l", 'м': "m", 'н': "n", 'о': "o",
	'п': "p", 'р': "r", 'с': "s", 'т': "t", 'у': "u", 'ф': "f", 'х': "kh", 'ц': "ts",
	'ч': "ch", 'ш': "sh", 'щ': "shch", 'ъ': "", 'ы': "y", 'ь': "", 'э': "e", 'ю': "yu",
	'я': "ya", '²': "2", '³': "3",
}

// translit переводит кириллицу в латиницу для встроенных шрифтов pdf.
func translit(s string) string {
	var b strings.Builder
	for _, r := range s {
		lower := []rune(strings.ToLower(string(r)))[0]
		t, ok := translitTable[lower]
		if !ok {
			b.WriteRune(r)
			continue
		}
		if lower != r && t != "" {
			t = strings.ToUpper(t[:1]) + t[1:]
		}
		b.WriteString(t)
	}
	return b.String()
}
