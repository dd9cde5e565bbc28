package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
)

// CorpusAPI holds the dependencies for the corpus API handlers.
type CorpusAPI struct {
	store   *Store
	retrain func(context.Context) error
	logger  *slog.Logger
}

// NewCorpusAPI creates a new instance of the CorpusAPI.
func NewCorpusAPI(store *Store, retrain func(context.Context) error, logger *slog.Logger) *CorpusAPI {
	return &CorpusAPI{
		store:   store,
		retrain: retrain,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routing for all /api/corpus endpoints.
func (c *CorpusAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/corpus", c.handleListAndSave)
	mux.HandleFunc("/api/corpus/", c.handleCorpusByName)
}

type SaveCorpusRequest struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// handleListAndSave handles GET for listing and POST for uploading corpora.
func (c *CorpusAPI) handleListAndSave(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		corpora, err := c.store.ListCorpora(r.Context())
		if err != nil {
			c.logger.Error("Failed to list corpora", "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to list corpora: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, corpora)

	case http.MethodPost:
		var req SaveCorpusRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
			return
		}
		if req.Name == "" || len(req.Words) == 0 {
			respondWithError(w, http.StatusBadRequest, "Corpus name and a non-empty word list are required")
			return
		}
		if err := c.store.SaveCorpus(r.Context(), req.Name, req.Words); err != nil {
			c.logger.Error("Failed to save corpus", "name", req.Name, "error", err)
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to save corpus: %v", err))
			return
		}
		if err := c.retrain(r.Context()); err != nil {
			c.logger.Error("Failed to retrain after corpus upload", "name", req.Name, "error", err)
			respondWithError(w, http.StatusUnprocessableEntity, fmt.Sprintf("Corpus saved but retraining failed: %v", err))
			return
		}
		w.WriteHeader(http.StatusCreated)

	default:
		w.Header().Set("Allow", "GET, POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}

// handleCorpusByName handles DELETE for a specific corpus.
func (c *CorpusAPI) handleCorpusByName(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/api/corpus/")
	if name == "" {
		respondWithError(w, http.StatusBadRequest, "Corpus name not specified")
		return
	}

	if r.Method != http.MethodDelete {
		w.Header().Set("Allow", "DELETE")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	if err := c.store.RemoveCorpus(r.Context(), name); err != nil {
		c.logger.Error("Failed to remove corpus", "name", name, "error", err)
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to remove corpus: %v", err))
		return
	}
	if err := c.retrain(r.Context()); err != nil {
		c.logger.Warn("Retraining after corpus removal failed", "name", name, "error", err)
	}
	w.WriteHeader(http.StatusNoContent)
}
