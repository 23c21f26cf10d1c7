package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/mesh-intelligence/lexicon/internal/filter"
	"github.com/mesh-intelligence/lexicon/internal/logger"
	"github.com/mesh-intelligence/lexicon/internal/metrics"
	"github.com/mesh-intelligence/lexicon/internal/nlquery"
	"github.com/mesh-intelligence/lexicon/pkg/types"
)

// listResponse is the body of GET /strings.
type listResponse struct {
	Data           []types.StringRecord `json:"data"`
	Count          int                  `json:"count"`
	FiltersApplied types.Filters        `json:"filters_applied"`
}

// interpretedQuery echoes the natural-language query and what it parsed to.
type interpretedQuery struct {
	Original      string        `json:"original"`
	ParsedFilters types.Filters `json:"parsed_filters"`
}

// nlResponse is the body of GET /strings/filter-by-natural-language.
type nlResponse struct {
	Data             []types.StringRecord `json:"data"`
	Count            int                  `json:"count"`
	InterpretedQuery interpretedQuery     `json:"interpreted_query"`
}

// healthResponse is the body of GET /healthz.
type healthResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("POST /strings", s.handleCreate)
	mux.HandleFunc("GET /strings", s.handleList)
	mux.HandleFunc("GET /strings/filter-by-natural-language", s.handleNaturalLanguage)
	mux.HandleFunc("GET /strings/{value}", s.handleGet)
	mux.HandleFunc("DELETE /strings/{value}", s.handleDelete)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		mux.Handle("GET /metrics", s.metrics.Handler())
	}
}

// handleCreate stores the string in the body's "value" field.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	value, err := s.decodeValue(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rec, err := s.store.Insert(value)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if s.metrics != nil {
		s.metrics.StringsCreated.Inc()
		s.metrics.StringsStored.Inc()
	}
	logger.Logger.Debugw("string created", "id", shortID(rec.ID), "length", rec.Properties.Length)
	writeJSON(w, r, http.StatusCreated, rec)
}

// decodeValue reads the request body as a JSON object and returns its
// "value" member. Presence is checked before type.
func (s *Server) decodeValue(w http.ResponseWriter, r *http.Request) (string, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		return "", errors.Wrap(types.ErrValidation, "request body too large or unreadable")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return "", errors.Wrap(types.ErrValidation, "invalid body or missing 'value' field")
	}

	raw, ok := fields["value"]
	if !ok {
		return "", errors.Wrap(types.ErrValidation, "invalid body or missing 'value' field")
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", errors.Wrap(types.ErrValidation, "invalid 'value' field")
	}
	str, ok := v.(string)
	if !ok {
		return "", errors.Wrap(types.ErrType, "'value' must be a string")
	}
	return str, nil
}

// handleList returns every stored string matching the query-parameter filters.
func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	filters, err := filter.Parse(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	all, err := s.store.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := filter.Apply(all, filters)

	if s.metrics != nil {
		s.metrics.QueriesTotal.WithLabelValues(metrics.QueryStructured).Inc()
	}
	writeJSON(w, r, http.StatusOK, listResponse{
		Data:           data,
		Count:          len(data),
		FiltersApplied: filters,
	})
}

// handleNaturalLanguage interprets the query parameter and applies the
// resulting filters with the same engine as handleList.
func (s *Server) handleNaturalLanguage(w http.ResponseWriter, r *http.Request) {
	original := r.URL.Query().Get("query")

	filters, err := nlquery.Interpret(original)
	if err != nil {
		writeError(w, r, err)
		return
	}

	all, err := s.store.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	data := filter.Apply(all, filters)

	if s.metrics != nil {
		s.metrics.QueriesTotal.WithLabelValues(metrics.QueryNaturalLanguage).Inc()
	}
	writeJSON(w, r, http.StatusOK, nlResponse{
		Data:  data,
		Count: len(data),
		InterpretedQuery: interpretedQuery{
			Original:      original,
			ParsedFilters: filters,
		},
	})
}

// handleGet returns the record keyed by the path value.
func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.store.Get(r.PathValue("value"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// handleDelete removes the record keyed by the path value.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.PathValue("value")); err != nil {
		writeError(w, r, err)
		return
	}
	if s.metrics != nil {
		s.metrics.StringsDeleted.Inc()
		s.metrics.StringsStored.Dec()
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	all, err := s.store.List()
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, healthResponse{Status: "ok", Count: len(all)})
}
