package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/arunman1kandan/autoregressive-bigram/pkg/bigram"
	"github.com/arunman1kandan/autoregressive-bigram/pkg/heatmap"
)

// ModelAPI holds the dependencies for the model API handlers.
type ModelAPI struct {
	models   *modelHolder
	store    *Store
	renderer *heatmap.Renderer
	defaults *GenerateConfig
	retrain  func(context.Context) error
	logger   *slog.Logger
}

// NewModelAPI creates a new instance of the ModelAPI.
func NewModelAPI(models *modelHolder, store *Store, renderer *heatmap.Renderer, defaults *GenerateConfig, retrain func(context.Context) error, logger *slog.Logger) *ModelAPI {
	return &ModelAPI{
		models:   models,
		store:    store,
		renderer: renderer,
		defaults: defaults,
		retrain:  retrain,
		logger:   logger,
	}
}

// RegisterRoutes sets up the routing for all /api/model endpoints.
func (m *ModelAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/model/generate", m.handleGenerate)
	mux.HandleFunc("/api/model/vocabulary", m.handleVocabulary)
	mux.HandleFunc("/api/model/counts", m.handleCounts)
	mux.HandleFunc("/api/model/heatmap", m.handleHeatmap)
	mux.HandleFunc("/api/model/stats", m.handleStats)
	mux.HandleFunc("/api/model/retrain", m.handleRetrain)
}

// GenerateRequest overrides the configured sampling defaults. Zero-valued
// fields keep the defaults; Temperature is a pointer so an explicit 0 can
// request deterministic sampling.
type GenerateRequest struct {
	Count       int      `json:"count"`
	MaxLength   int      `json:"max_length"`
	Temperature *float64 `json:"temperature"`
	TopK        int      `json:"top_k"`
}

type GenerateResponse struct {
	Words []string `json:"words"`
}

// handleGenerate samples one or more words from the trained model.
func (m *ModelAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	model := m.models.Get()
	if model == nil {
		respondWithError(w, http.StatusServiceUnavailable, "No trained model available; upload a corpus first")
		return
	}

	req := GenerateRequest{
		Count:     m.defaults.Count,
		MaxLength: m.defaults.MaxLength,
		TopK:      m.defaults.TopK,
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
			return
		}
	}
	if req.Count <= 0 {
		req.Count = m.defaults.Count
	}
	temperature := m.defaults.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}

	metricGenerateRequests.Inc()

	opts := []bigram.SampleOption{
		bigram.WithMaxLength(req.MaxLength),
		bigram.WithTemperature(temperature),
		bigram.WithTopK(req.TopK),
	}

	words := make([]string, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		word, err := model.Sample(opts...)
		if err != nil {
			if errors.Is(err, bigram.ErrLengthExceeded) || errors.Is(err, bigram.ErrDegenerateRow) {
				respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Sampling failed: %v", err))
				return
			}
			m.logger.Error("Failed to sample word", "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Sampling failed: %v", err))
			return
		}
		words = append(words, word)
	}
	metricWordsGenerated.Add(float64(len(words)))

	if err := m.store.LogGenerated(r.Context(), words); err != nil {
		// The generated words are still good; log and serve them.
		m.logger.Warn("Failed to log generated words", "error", err)
	}

	respondWithJSON(w, http.StatusOK, GenerateResponse{Words: words})
}

// handleVocabulary returns the model's index-to-symbol mapping.
func (m *ModelAPI) handleVocabulary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	model := m.models.Get()
	if model == nil {
		respondWithError(w, http.StatusServiceUnavailable, "No trained model available")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"labels": model.Vocab().Labels(),
	})
}

// handleCounts exposes the raw transition counts and their labels as JSON.
func (m *ModelAPI) handleCounts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	model := m.models.Get()
	if model == nil {
		respondWithError(w, http.StatusServiceUnavailable, "No trained model available")
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]any{
		"labels": model.Vocab().Labels(),
		"counts": model.Counts(),
	})
}

// handleHeatmap renders the count matrix as an SVG heatmap.
func (m *ModelAPI) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	model := m.models.Get()
	if model == nil {
		respondWithError(w, http.StatusServiceUnavailable, "No trained model available")
		return
	}

	w.Header().Set("Content-Type", "image/svg+xml")
	if err := m.renderer.Render(w, model.Counts(), model.Vocab().Labels()); err != nil {
		m.logger.Error("Failed to render heatmap", "error", err)
	}
}

// handleStats returns model statistics plus the total of logged generations.
func (m *ModelAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	model := m.models.Get()
	if model == nil {
		respondWithError(w, http.StatusServiceUnavailable, "No trained model available")
		return
	}

	generated, err := m.store.GeneratedCount(r.Context())
	if err != nil {
		m.logger.Error("Failed to count generation log", "error", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to read generation log")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]any{
		"model":           model.Stats(),
		"words_generated": generated,
	})
}

// handleRetrain rebuilds the model from the words file and stored corpora.
func (m *ModelAPI) handleRetrain(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err := m.retrain(r.Context()); err != nil {
		m.logger.Error("Failed to retrain model", "error", err)
		respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Retraining failed: %v", err))
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
