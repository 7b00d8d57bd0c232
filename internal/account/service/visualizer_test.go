package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	vmodels "stroycalc/internal/visualizer/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisualizerClientScene(t *testing.T) {
	var got sceneRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/scene", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"layout":{"type":"paint"}}`))
	}))
	defer srv.Close()

	client := NewVisualizerClient(srv.URL, time.Second)
	body, err := client.Scene(context.Background(), paintCalculation(),
		[]vmodels.MaterialSelection{{Group: "walls", Color: "#00ff00"}})
	require.NoError(t, err)

	assert.JSONEq(t, `{"layout":{"type":"paint"}}`, string(body))
	assert.Equal(t, "paint", got.CalculationType)
	assert.Equal(t, 4.0, got.Inputs["length"])
	require.Len(t, got.Selections, 1)
	assert.Equal(t, "#00ff00", got.Selections[0].Color)
}

func TestVisualizerClientUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"invalid input"}`))
	}))
	defer srv.Close()

	_, err := NewVisualizerClient(srv.URL, time.Second).Scene(context.Background(), paintCalculation(), nil)

	var upstream *UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.Status)
	assert.JSONEq(t, `{"error":"invalid input"}`, string(upstream.Body))
}

func TestVisualizerClientUnavailable(t *testing.T) {
	_, err := NewVisualizerClient("", time.Second).Scene(context.Background(), paintCalculation(), nil)
	assert.ErrorIs(t, err, ErrVisualizerUnavailable)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err = NewVisualizerClient(url, time.Second).Scene(context.Background(), paintCalculation(), nil)
	assert.ErrorIs(t, err, ErrVisualizerUnavailable)
}
