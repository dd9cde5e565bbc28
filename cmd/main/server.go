package main

import (
	"bufio"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arunman1kandan/autoregressive-bigram/pkg/bigram"
	"github.com/arunman1kandan/autoregressive-bigram/pkg/heatmap"
)

const (
	actionShutdown = "shutdown"
	actionRestart  = "restart"
)

var (
	metricGenerateRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigram_generate_requests_total",
		Help: "Number of generation API requests served.",
	})
	metricWordsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigram_words_generated_total",
		Help: "Number of words sampled from the model.",
	})
	metricRetrains = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bigram_retrains_total",
		Help: "Number of times the model was rebuilt from the corpus.",
	})
)

// modelHolder provides concurrency-safe access to the current trained model.
// The model itself is immutable; the holder only guards the swap that happens
// on retraining. A nil model means no corpus has been trained yet.
type modelHolder struct {
	mu    sync.RWMutex
	model *bigram.Model
}

func (h *modelHolder) Get() *bigram.Model {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.model
}

func (h *modelHolder) Set(model *bigram.Model) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.model = model
}

// Server wires the trained model, the corpus store, and the API handlers
// together behind a single mux.
type Server struct {
	config    *Config
	db        *sql.DB
	logger    *slog.Logger
	store     *Store
	models    *modelHolder
	modelAPI  *ModelAPI
	corpusAPI *CorpusAPI
	apiMux    *http.ServeMux
}

// NewServer creates the server, trains the initial model from the words file
// and any stored corpora, and registers all routes.
func NewServer(config *Config, logger *slog.Logger, db *sql.DB, actionChan chan string) (*Server, error) {
	store, err := NewStore(db)
	if err != nil {
		return nil, fmt.Errorf("error creating corpus store: %w", err)
	}
	store.SetLogger(logger)

	server := &Server{
		config: config,
		db:     db,
		logger: logger,
		store:  store,
		models: &modelHolder{},
		apiMux: http.NewServeMux(),
	}

	renderer := heatmap.New()
	server.modelAPI = NewModelAPI(server.models, store, renderer, config.Generate, server.retrain, logger)
	server.corpusAPI = NewCorpusAPI(store, server.retrain, logger)

	server.modelAPI.RegisterRoutes(server.apiMux)
	server.corpusAPI.RegisterRoutes(server.apiMux)

	server.apiMux.Handle("/metrics", promhttp.Handler())
	server.apiMux.HandleFunc("/api/health", handleHealthCheck)
	server.apiMux.HandleFunc("/api/server/shutdown", handleAction(actionChan, actionShutdown))
	server.apiMux.HandleFunc("/api/server/restart", handleAction(actionChan, actionRestart))

	if err = server.retrain(context.Background()); err != nil {
		return nil, fmt.Errorf("initial training failed: %w", err)
	}

	return server, nil
}

// Close releases the server's prepared statements.
func (s *Server) Close() {
	s.store.Close()
}

// retrain rebuilds the model from the configured words file plus every corpus
// in the store and swaps it in. When no training words exist at all, the
// current model is cleared rather than treated as an error, so a fresh
// deployment can start empty and accept corpus uploads.
func (s *Server) retrain(ctx context.Context) error {
	words, err := s.loadTrainingWords(ctx)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		s.models.Set(nil)
		s.logger.Warn("No training words available; model cleared")
		return nil
	}

	model, err := bigram.Train(words)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}
	model.SetLogger(s.logger)
	s.models.Set(model)
	metricRetrains.Inc()

	stats := model.Stats()
	s.logger.Info("Model trained",
		slog.Int("words", stats.Words),
		slog.Int("vocab_size", stats.VocabSize),
		slog.Int("transitions", stats.Transitions),
	)
	return nil
}

// loadTrainingWords gathers the words file (if present) and all stored
// corpora into one training list.
func (s *Server) loadTrainingWords(ctx context.Context) ([]string, error) {
	var words []string

	if path := s.config.Server.WordsPath; path != "" {
		file, err := os.Open(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to open words file: %w", err)
			}
			s.logger.Debug("Words file not found, relying on stored corpora", "path", path)
		} else {
			scanner := bufio.NewScanner(file)
			for scanner.Scan() {
				words = append(words, scanner.Text())
			}
			closeErr := file.Close()
			if err = scanner.Err(); err != nil {
				return nil, fmt.Errorf("failed to read words file: %w", err)
			}
			if closeErr != nil {
				return nil, fmt.Errorf("failed to close words file: %w", closeErr)
			}
		}
	}

	stored, err := s.store.AllWords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stored corpora: %w", err)
	}
	return append(words, stored...), nil
}

// handleHealthCheck reports liveness; it stays unauthenticated so that
// something like docker can use it.
func handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAction returns a handler that pushes a lifecycle action to the main loop.
func handleAction(actionChan chan string, action string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", "POST")
			respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
			return
		}
		w.WriteHeader(http.StatusAccepted)
		actionChan <- action
	}
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		err := json.NewEncoder(w).Encode(payload)
		if err != nil {
			fmt.Printf("ERROR: Failed to encode JSON response: %v\n", err)
		}
	}
}
