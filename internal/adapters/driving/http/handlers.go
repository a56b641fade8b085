package http

import (
	"encoding/json"
	"errors"
	"io"
	"math"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/custodia-labs/microverse/internal/core/domain"
	"github.com/custodia-labs/microverse/internal/core/ports/driving"
	"github.com/custodia-labs/microverse/internal/logger"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// DefaultTaskName is used by /api/utter when no task is given.
const DefaultTaskName = "Attend to the image."

type errorResponse struct {
	Error string `json:"error"`
}

type searchRequest struct {
	Text any `json:"text"`
	K    any `json:"k"`
}

type intentRequest struct {
	Query any `json:"query"`
	TopK  any `json:"topK"`
}

type embedRequest struct {
	Text any `json:"text"`
}

type utterRequest struct {
	Task *struct {
		Name any `json:"name"`
	} `json:"task"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if !decode(w, r, &req) {
		return
	}
	text, _ := req.Text.(string)
	text = strings.TrimSpace(text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.cfg.Retrieval.Retrieve(r.Context(), text, intParam(req.K, domain.DefaultTopK))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if result.Results == nil {
		result.Results = []domain.ScoredDocument{}
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleIntent(w http.ResponseWriter, r *http.Request) {
	var req intentRequest
	if !decode(w, r, &req) {
		return
	}
	query, _ := req.Query.(string)
	query = strings.TrimSpace(query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "Missing query")
		return
	}

	patch, err := s.cfg.Intent.Intent(r.Context(), query, intParam(req.TopK, driving.DefaultIntentTopK))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, patch)
}

func (s *Server) handleEmbed(w http.ResponseWriter, r *http.Request) {
	var req embedRequest
	if !decode(w, r, &req) {
		return
	}
	text := stringParam(req.Text)
	if text == "" {
		writeError(w, http.StatusBadRequest, "Missing text")
		return
	}

	vec, err := s.cfg.Retrieval.Embed(r.Context(), text)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]float64{"embedding": vec})
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.cfg.Retrieval.Count(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

// handleUtter styles a task name into a spoken prompt. Malformed bodies
// fall back to the default task.
func (s *Server) handleUtter(w http.ResponseWriter, r *http.Request) {
	var req utterRequest
	body, _ := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	_ = json.Unmarshal(body, &req)

	name := DefaultTaskName
	if req.Task != nil {
		name = stringParam(req.Task.Name)
	}
	writeJSON(w, http.StatusOK, map[string]string{"text": Utter(name)})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Utter renders the narration line for a task.
func Utter(task string) string {
	return "Attend: " + task + ". Consider the play of light and sound; act, then observe."
}

func post(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		if ct := r.Header.Get("Content-Type"); ct != "" {
			mt, _, err := mime.ParseMediaType(ct)
			if err != nil || mt != "application/json" {
				writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
				return
			}
		}
		h(w, r)
	}
}

func get(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet)
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		h(w, r)
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

// intParam reads a loosely typed count. Missing, zero or non-numeric
// values select def.
func intParam(v any, def int) int {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return def
		}
		f = parsed
	default:
		return def
	}
	if math.IsNaN(f) || f == 0 {
		return def
	}
	if math.IsInf(f, 0) || math.Abs(f) > float64(domain.MaxTopK) {
		return int(math.Copysign(float64(domain.MaxTopK), f))
	}
	return int(f)
}

func stringParam(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		raw, _ := json.Marshal(s)
		return string(raw)
	}
}

func writeServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrMissingQuery), errors.Is(err, domain.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrEmbeddingUnavailable):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		logger.Error("request failed: %v", err)
	}
	writeError(w, status, err.Error())
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("encode response: %v", err)
	}
}
