package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"tespell/internal/corrector"
	"tespell/internal/metrics"
	"tespell/internal/model"
)

type ctxKey int

const requestIDKey ctxKey = iota

type correctRequest struct {
	Text string `json:"text"`
}

type wordResponse struct {
	Word        string  `json:"word"`
	Known       bool    `json:"known"`
	Count       int64   `json:"count"`
	Probability float64 `json:"probability"`
	Correction  string  `json:"correction"`
}

type suggestResponse struct {
	Word        string                       `json:"word"`
	Suggestions []corrector.RankedSuggestion `json:"suggestions"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sc := s.Corrector()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "words": sc.Model().Len()})
}

func (s *Server) handleCorrect(w http.ResponseWriter, r *http.Request) {
	var req correctRequest
	body := http.MaxBytesReader(w, r.Body, s.maxBodySize)
	if err := json.NewDecoder(body).Decode(&req); err != nil || strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, "invalid request")
		return
	}
	sc := s.Corrector()
	res := sc.CorrectText(req.Text)
	if s.metrics != nil {
		for _, t := range res.Tokens {
			o := metrics.OutcomeKnown
			if !t.Known {
				o = metrics.Outcome(t.Suggestions)
			}
			s.metrics.Lookups.WithLabelValues(o).Inc()
		}
	}
	if res.Tokens == nil {
		res.Tokens = []corrector.TokenResult{}
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleWord(w http.ResponseWriter, r *http.Request) {
	word := model.Normalize(mux.Vars(r)["word"])
	if word == "" {
		writeError(w, http.StatusBadRequest, "word must contain Telugu characters")
		return
	}
	sc := s.Corrector()
	count, known := sc.Model().Count(word)
	writeJSON(w, http.StatusOK, wordResponse{
		Word:        word,
		Known:       known,
		Count:       count,
		Probability: sc.Probability(word),
		Correction:  sc.Correction(word),
	})
}

func (s *Server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	word := model.Normalize(mux.Vars(r)["word"])
	if word == "" {
		writeError(w, http.StatusBadRequest, "word must contain Telugu characters")
		return
	}
	start := time.Now()
	suggs := s.Corrector().Candidates(word)
	s.metrics.ObserveLookup(suggs, start)
	if suggs == nil {
		suggs = []corrector.RankedSuggestion{}
	}
	writeJSON(w, http.StatusOK, suggestResponse{Word: word, Suggestions: suggs})
}

// requestID tags every request with an X-Request-ID, reusing the caller's.
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (s *Server) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = tpl
			}
		}
		if s.metrics != nil {
			s.metrics.Requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		}
		id, _ := r.Context().Value(requestIDKey).(string)
		s.logger.Info("request",
			"method", r.Method,
			"route", route,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", id,
		)
	})
}
