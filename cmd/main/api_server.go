package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/CTAG07/charlm/pkg/charlm"
)

// maxGenerateLength bounds the length a single API request may ask for.
const maxGenerateLength = 100_000

// ModelAPI holds the dependencies for the model API handlers. The model's
// random source is mutable, so every access goes through mu.
type ModelAPI struct {
	mu     sync.Mutex
	model  *charlm.Model
	source string
	logger *slog.Logger
}

// NewModelAPI creates a new instance of the ModelAPI.
func NewModelAPI(model *charlm.Model, source string, logger *slog.Logger) *ModelAPI {
	return &ModelAPI{
		model:  model,
		source: source,
		logger: logger,
	}
}

// RegisterRoutes sets up the routing for all /api endpoints.
func (m *ModelAPI) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/generate", m.handleGenerate)
	mux.HandleFunc("/api/stats", m.handleStats)
	mux.HandleFunc("/api/windows/", m.handleWindow)
}

type GenerateRequest struct {
	SeedText string `json:"seed_text"`
	Length   int    `json:"length"`
}

type GenerateResponse struct {
	Text            string `json:"text"`
	TerminatedEarly bool   `json:"terminated_early"`
}

type StatsResponse struct {
	Source string `json:"source"`
	charlm.Stats
}

type WindowResponse struct {
	Window  string                  `json:"window"`
	Entries []charlm.FrequencyEntry `json:"entries"`
}

// handleGenerate handles POST requests for generating text.
func (m *ModelAPI) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", "POST")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid JSON request body")
		return
	}
	if req.Length <= 0 || req.Length > maxGenerateLength {
		respondWithError(w, http.StatusBadRequest, fmt.Sprintf("length must be between 1 and %d", maxGenerateLength))
		return
	}

	m.mu.Lock()
	text := m.model.Generate(r.Context(), req.SeedText, req.Length)
	m.mu.Unlock()

	m.logger.Debug("Generated text", "seed_text", req.SeedText, "length", req.Length, "generated_length", utf8.RuneCountInString(text))
	respondWithJSON(w, http.StatusOK, GenerateResponse{
		Text:            text,
		TerminatedEarly: utf8.RuneCountInString(text) < req.Length,
	})
}

// handleStats returns the statistics of the served model.
func (m *ModelAPI) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	m.mu.Lock()
	stats := m.model.Stats()
	m.mu.Unlock()
	respondWithJSON(w, http.StatusOK, StatsResponse{Source: m.source, Stats: stats})
}

// handleWindow returns the entry list of a single window.
func (m *ModelAPI) handleWindow(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		respondWithError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	window := strings.TrimPrefix(r.URL.Path, "/api/windows/")
	if window == "" {
		respondWithError(w, http.StatusBadRequest, "Window not specified")
		return
	}

	m.mu.Lock()
	list, ok := m.model.Table().Get(window)
	var entries []charlm.FrequencyEntry
	if ok {
		entries = list.Entries()
	}
	m.mu.Unlock()

	if !ok {
		respondWithError(w, http.StatusNotFound, fmt.Sprintf("Window '%s' was never observed", window))
		return
	}
	respondWithJSON(w, http.StatusOK, WindowResponse{Window: window, Entries: entries})
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
