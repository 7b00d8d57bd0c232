package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"stroycalc/internal/account/models"
	vmodels "stroycalc/internal/visualizer/models"
)

var ErrVisualizerUnavailable = errors.New("visualizer unavailable")

// UpstreamError - ответ визуализатора со статусом >= 300.
type UpstreamError struct {
	Status int
	Body   []byte
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("visualizer status %d", e.Status)
}

// ============================================================
// Visualizer Client
// ============================================================

type VisualizerClient struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

func NewVisualizerClient(baseURL string, timeout time.Duration) *VisualizerClient {
	return &VisualizerClient{
		baseURL: baseURL,
		timeout: timeout,
		client:  &http.Client{},
	}
}

type sceneRequest struct {
	CalculationType string                      `json:"calculation_type"`
	Inputs          map[string]float64          `json:"inputs"`
	Result          *vmodels.Result             `json:"result,omitempty"`
	Selections      []vmodels.MaterialSelection `json:"selections,omitempty"`
}

// Scene отправляет сохраненный расчет в визуализатор /scene и
// возвращает тело ответа как есть.
func (v *VisualizerClient) Scene(ctx context.Context, calc *models.Calculation, selections []vmodels.MaterialSelection) (json.RawMessage, error) {
	if v.baseURL == "" {
		return nil, fmt.Errorf("%w: url is empty", ErrVisualizerUnavailable)
	}

	payload, err := json.Marshal(sceneRequest{
		CalculationType: calc.Type,
		Inputs:          calc.InputData,
		Result:          &calc.Result,
		Selections:      selections,
	})
	if err != nil {
		return nil, err
	}

	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.baseURL+"/scene", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVisualizerUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 300 {
		return nil, &UpstreamError{Status: resp.StatusCode, Body: data}
	}

	return data, nil
}
