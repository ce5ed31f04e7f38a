package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/psantana5/textwrap/internal/config"
	"github.com/psantana5/textwrap/internal/logging"
	"github.com/psantana5/textwrap/internal/metrics"
	"github.com/psantana5/textwrap/internal/tracing"
	"github.com/psantana5/textwrap/pkg/hyphenation"
	"github.com/psantana5/textwrap/pkg/textwrap"
)

// WrapRequest is the body of POST /wrap
type WrapRequest struct {
	Text             string `json:"text"`
	Width            int    `json:"width"`
	InitialIndent    string `json:"initial_indent,omitempty"`
	SubsequentIndent string `json:"subsequent_indent,omitempty"`
	BreakWords       *bool  `json:"break_words,omitempty"`
	Splitter         string `json:"splitter,omitempty"`
	Language         string `json:"language,omitempty"`
}

// WrapResponse is returned by POST /wrap
type WrapResponse struct {
	Lines []string `json:"lines"`
	Text  string   `json:"text"`
	Width int      `json:"width"`
}

// HyphenateResponse is returned by GET /hyphenate/{lang}/{word}
type HyphenateResponse struct {
	Language   hyphenation.Language `json:"language"`
	Word       string               `json:"word"`
	Hyphenated string               `json:"hyphenated"`
	Breaks     []int                `json:"breaks"`
}

// Options configure a Handler. Zero values take the server defaults.
type Options struct {
	Registry     *hyphenation.Registry
	Metrics      *metrics.Recorder
	Logger       *logging.Logger
	Tracer       trace.Tracer
	Language     hyphenation.Language
	MaxBodyBytes int64
	MaxWidth     int
}

// Handler serves the wrap API
type Handler struct {
	registry *hyphenation.Registry
	metrics  *metrics.Recorder
	logger   *logging.Logger
	tracer   trace.Tracer
	language hyphenation.Language
	maxBody  int64
	maxWidth int
	started  time.Time
}

// NewHandler creates a new API handler
func NewHandler(opts Options) *Handler {
	h := &Handler{
		registry: opts.Registry,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		tracer:   opts.Tracer,
		language: opts.Language,
		maxBody:  opts.MaxBodyBytes,
		maxWidth: opts.MaxWidth,
		started:  time.Now(),
	}
	if h.registry == nil {
		h.registry = hyphenation.NewRegistry(nil)
	}
	if h.metrics == nil {
		h.metrics = metrics.NewRecorder()
	}
	if h.logger == nil {
		h.logger = logging.NewLogger(logging.INFO, false)
	}
	if h.tracer == nil {
		h.tracer = noop.NewTracerProvider().Tracer("")
	}
	if h.language == "" {
		h.language = hyphenation.EnglishUS
	}
	if h.maxBody <= 0 {
		h.maxBody = 1 << 20
	}
	if h.maxWidth <= 0 {
		h.maxWidth = 1000
	}
	return h
}

// RegisterRoutes registers all API routes
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/wrap", h.Wrap).Methods("POST")
	r.HandleFunc("/hyphenate/{lang}/{word}", h.Hyphenate).Methods("GET")
	r.HandleFunc("/languages", h.ListLanguages).Methods("GET")
	r.HandleFunc("/health", h.Health).Methods("GET")
	r.Handle("/metrics", h.metrics.Handler()).Methods("GET")
}

// Wrap handles POST /wrap
func (h *Handler) Wrap(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBody)

	var req WrapRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", h.maxBody))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Width <= 0 || req.Width > h.maxWidth {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("width must be between 1 and %d", h.maxWidth))
		return
	}

	splitter, status, err := h.splitterFor(r.Context(), req.Splitter, req.Language)
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	wrapper := textwrap.WithSplitter(req.Width, splitter)
	wrapper.InitialIndent = req.InitialIndent
	wrapper.SubsequentIndent = req.SubsequentIndent
	if req.BreakWords != nil {
		wrapper.BreakWords = *req.BreakWords
	}

	lines := wrapper.Wrap(req.Text)
	if lines == nil {
		lines = []string{}
	}
	h.metrics.RecordWrap(len(lines))

	writeJSON(w, http.StatusOK, WrapResponse{
		Lines: lines,
		Text:  wrapper.Fill(req.Text),
		Width: req.Width,
	})
}

// splitterFor resolves a splitter name, loading a corpus for "dictionary".
// The returned status is the HTTP code to use when err is not nil.
func (h *Handler) splitterFor(ctx context.Context, name, language string) (textwrap.WordSplitter, int, error) {
	switch name {
	case "", config.SplitterHyphen:
		return textwrap.HyphenSplitter{}, 0, nil
	case config.SplitterNone:
		return textwrap.NoHyphenation{}, 0, nil
	case config.SplitterDictionary:
		dict, status, err := h.corpus(ctx, language)
		if err != nil {
			return nil, status, err
		}
		return textwrap.DictionarySplitter{Dict: dict}, 0, nil
	default:
		return nil, http.StatusBadRequest, fmt.Errorf("invalid splitter %q: want none, hyphen or dictionary", name)
	}
}

func (h *Handler) corpus(ctx context.Context, language string) (*hyphenation.Standard, int, error) {
	ctx, span := h.tracer.Start(ctx, "hyphenation.corpus")
	defer span.End()

	lang := h.language
	if language != "" {
		parsed, err := hyphenation.ParseLanguage(language)
		if err != nil {
			return nil, http.StatusBadRequest, err
		}
		lang = parsed
	}

	span.SetAttributes(attribute.String("language", string(lang)))

	dict, err := h.registry.Get(lang)
	h.metrics.RecordCorpusLoad(string(lang), err)
	if err != nil {
		tracing.SetError(ctx, err)
		if errors.Is(err, hyphenation.ErrUnsupportedLanguage) {
			return nil, http.StatusNotFound, err
		}
		h.logger.Error("Failed to load hyphenation corpus", map[string]interface{}{
			"language":   lang,
			"error":      err.Error(),
			"request_id": RequestID(ctx),
		})
		return nil, http.StatusInternalServerError, fmt.Errorf("failed to load corpus for %s", lang)
	}
	return dict, 0, nil
}

// Hyphenate handles GET /hyphenate/{lang}/{word}
func (h *Handler) Hyphenate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	dict, status, err := h.corpus(r.Context(), vars["lang"])
	if err != nil {
		writeError(w, status, err.Error())
		return
	}

	word := vars["word"]
	breaks := dict.Hyphenate(word)
	if breaks == nil {
		breaks = []int{}
	}
	h.metrics.RecordHyphenation(string(dict.Language()))

	writeJSON(w, http.StatusOK, HyphenateResponse{
		Language:   dict.Language(),
		Word:       word,
		Hyphenated: dict.Hyphenated(word, "-"),
		Breaks:     breaks,
	})
}

// ListLanguages handles GET /languages
func (h *Handler) ListLanguages(w http.ResponseWriter, r *http.Request) {
	languages, err := h.registry.Loader().Languages()
	if err != nil {
		h.logger.Error("Failed to list languages", map[string]interface{}{
			"error":      err.Error(),
			"request_id": RequestID(r.Context()),
		})
		writeError(w, http.StatusInternalServerError, "failed to list languages")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"languages": languages,
		"count":     len(languages),
	})
}

// HostStats is the host snapshot reported by GET /health
type HostStats struct {
	CPUs              int     `json:"cpus"`
	MemoryTotalBytes  uint64  `json:"memory_total_bytes"`
	MemoryUsedPercent float64 `json:"memory_used_percent"`
}

// hostStats is best effort: fields stay zero where the platform has no data.
func hostStats() HostStats {
	var stats HostStats
	if n, err := cpu.Counts(true); err == nil {
		stats.CPUs = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		stats.MemoryTotalBytes = vm.Total
		stats.MemoryUsedPercent = vm.UsedPercent
	}
	return stats
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "healthy",
		"uptime_seconds": int(time.Since(h.started).Seconds()),
		"cached_corpora": h.registry.Len(),
		"host":           hostStats(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
