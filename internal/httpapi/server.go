package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/cors"

	"github.com/mshojaei77/cortex-search-engine/internal/enhance"
	"github.com/mshojaei77/cortex-search-engine/internal/engine"
)

const serviceName = "search-enhancement-api"

// Server is the REST surface over the enhancement service. A nil enhancer
// means the model backend was not configured; enhancement endpoints then
// answer 503 while health and info stay up.
type Server struct {
	enhancer *enhance.Service
	version  string
	log      *slog.Logger
}

func NewServer(enhancer *enhance.Service, version string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{enhancer: enhancer, version: version, log: log}
}

// Handler builds the full handler chain: routes, panic recovery, CORS.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /enhance-results", s.handleEnhanceResults)
	mux.HandleFunc("POST /suggest-queries", s.handleSuggestQueries)
	mux.HandleFunc("POST /extract-intent", s.handleExtractIntent)
	mux.HandleFunc("GET /info", s.handleInfo)
	mux.HandleFunc("GET /{$}", s.handleRoot)

	c := cors.New(cors.Options{
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return s.recoverer(c.Handler(mux))
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				s.log.Error("panic in handler", slog.String("path", r.URL.Path), slog.Any("panic", rec))
				respondError(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"service": serviceName,
		"version": s.version,
		"docs":    "/info",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{
		"status":        "healthy",
		"service":       serviceName,
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
		"llm_available": s.enhancer != nil,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	model := ""
	if s.enhancer != nil {
		model = s.enhancer.Model()
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"service":       serviceName,
		"version":       s.version,
		"model":         model,
		"llm_available": s.enhancer != nil,
		"endpoints": map[string]string{
			"health":          "GET /health",
			"enhance_results": "POST /enhance-results",
			"suggest_queries": "POST /suggest-queries",
			"extract_intent":  "POST /extract-intent",
			"info":            "GET /info",
		},
		"metrics": engine.GetMetrics(),
	})
}

type enhanceRequest struct {
	Query           string                `json:"query"`
	Results         []engine.SearchResult `json:"results"`
	EnhancementType string                `json:"enhancement_type"`
}

func (r enhanceRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required),
		validation.Field(&r.EnhancementType,
			validation.In("", "summarize", "extract_key_points", "score_relevance", "all")),
	)
}

func (s *Server) handleEnhanceResults(w http.ResponseWriter, r *http.Request) {
	if s.enhancer == nil {
		respondError(w, http.StatusServiceUnavailable, "LLM service not available")
		return
	}
	var req enhanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	enhanced := s.enhancer.Enhance(r.Context(), req.Query, req.Results, req.EnhancementType)
	respondJSON(w, http.StatusOK, map[string]any{
		"query":            req.Query,
		"enhanced_results": enhanced,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
}

type suggestRequest struct {
	Query   string `json:"query"`
	Context string `json:"context"`
}

func (r suggestRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required),
	)
}

func (s *Server) handleSuggestQueries(w http.ResponseWriter, r *http.Request) {
	if s.enhancer == nil {
		respondError(w, http.StatusServiceUnavailable, "LLM service not available")
		return
	}
	var req suggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	suggestions := s.enhancer.SuggestQueries(r.Context(), req.Query, req.Context)
	respondJSON(w, http.StatusOK, map[string]any{
		"original_query": req.Query,
		"suggestions":    suggestions,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}

type intentRequest struct {
	Query string `json:"query"`
}

func (r intentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Query, validation.Required),
	)
}

func (s *Server) handleExtractIntent(w http.ResponseWriter, r *http.Request) {
	if s.enhancer == nil {
		respondError(w, http.StatusServiceUnavailable, "LLM service not available")
		return
	}
	var req intentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	intent := s.enhancer.ExtractIntent(r.Context(), req.Query)
	respondJSON(w, http.StatusOK, intent)
}
