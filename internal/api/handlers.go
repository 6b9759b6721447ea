// SPDX-License-Identifier: MIT

package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/patlas/patlas/internal/catalog"
	"github.com/patlas/patlas/internal/expr"
	"github.com/patlas/patlas/internal/jobs"
	"github.com/patlas/patlas/internal/metrics"
	"github.com/patlas/patlas/internal/search"
	"github.com/patlas/patlas/internal/store"
)

const defaultSearchLimit = 20

// snapshot returns the live catalog view, or nil before the first
// successful reindex.
func (s *Server) snapshot() *jobs.Snapshot {
	if s.holder == nil {
		return nil
	}
	return s.holder.Current()
}

func (s *Server) handleListPatterns(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeServiceUnavailable(w, "catalog not loaded")
		return
	}

	patterns := snap.Catalog.Patterns
	if raw := r.URL.Query().Get("category"); raw != "" {
		cat, ok := catalog.ParseCategory(strings.ToLower(raw))
		if !ok {
			writeError(w, fmt.Errorf("unknown category %q", raw))
			return
		}
		patterns = snap.Catalog.ByCategory(cat)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"patterns": patterns,
		"count":    len(patterns),
	})
}

func (s *Server) handleGetPattern(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeServiceUnavailable(w, "catalog not loaded")
		return
	}

	slug := strings.ToLower(chi.URLParam(r, "slug"))
	p, err := snap.Catalog.BySlug(slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeNotFound(w)
			return
		}
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeServiceUnavailable(w, "catalog not loaded")
		return
	}

	counts := snap.Catalog.Counts()
	out := make([]map[string]any, 0, 3)
	for _, cat := range catalog.Categories() {
		out = append(out, map[string]any{
			"category": cat,
			"count":    counts[cat],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

func (s *Server) handlePrinciples(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeServiceUnavailable(w, "catalog not loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"principles": snap.Catalog.Principles,
		"count":      len(snap.Catalog.Principles),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeServiceUnavailable(w, "catalog not loaded")
		return
	}

	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeError(w, errors.New("query parameter q is required"))
		return
	}
	limit := defaultSearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, fmt.Errorf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	// Results are cached as a JSON string so the value survives the
	// Redis backend's round trip through json.Unmarshal into any.
	key := fmt.Sprintf("search:%s:%d:%s", search.Normalize(q), limit, snap.Catalog.LoadedAt.Format(time.RFC3339Nano))
	if s.cache != nil {
		if cached, ok := s.cache.Get(key); ok {
			if raw, ok := cached.(string); ok {
				var results []search.Result
				if err := json.Unmarshal([]byte(raw), &results); err == nil {
					metrics.RecordSearch("hit")
					writeJSON(w, http.StatusOK, map[string]any{"query": q, "results": results})
					return
				}
			}
		}
	}

	results := snap.Index.Query(q, limit)
	metrics.RecordSearch("miss")
	if s.cache != nil {
		if payload, err := json.Marshal(results); err == nil {
			s.cache.Set(key, string(payload), s.cfg.CacheTTL)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"query": q, "results": results})
}

func (s *Server) handleReindex(w http.ResponseWriter, r *http.Request) {
	if s.runner == nil {
		writeServiceUnavailable(w, "reindex not available")
		return
	}

	rec, err := s.runner.Run(r.Context(), "api")
	if errors.Is(err, jobs.ErrAlreadyRunning) {
		writeConflict(w, "reindex already running")
		return
	}
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error": err.Error(),
			"job":   rec,
		})
		return
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	writeJSON(w, http.StatusOK, map[string]any{"job": rec})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := map[string]any{
		"version":  s.cfg.Version,
		"uptime_s": int64(time.Since(s.startTime).Seconds()),
	}
	if s.runner != nil {
		resp["reindexing"] = s.runner.Busy()
	}

	if snap := s.snapshot(); snap != nil {
		counts := snap.Catalog.Counts()
		byCategory := make(map[string]int, len(counts))
		for cat, n := range counts {
			byCategory[string(cat)] = n
		}
		resp["catalog"] = map[string]any{
			"patterns":    len(snap.Catalog.Patterns),
			"principles":  len(snap.Catalog.Principles),
			"by_category": byCategory,
			"source":      snap.Catalog.SourcePath,
			"loaded_at":   snap.Catalog.LoadedAt,
		}
	}

	if s.jobs != nil {
		if last, err := s.jobs.LastJob(r.Context()); err == nil {
			resp["last_job"] = last
		} else if !errors.Is(err, store.ErrNotFound) {
			writeInternalError(w, err)
			return
		}
	}

	if s.cache != nil {
		resp["cache"] = s.cache.Stats()
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleInterpreterDemo evaluates a toy additive expression, the worked
// example behind the catalog's Interpreter entry. Variables come in as
// "x=3,y=4".
func (s *Server) handleInterpreterDemo(w http.ResponseWriter, r *http.Request) {
	input := strings.TrimSpace(r.URL.Query().Get("expr"))
	if input == "" {
		writeError(w, errors.New("query parameter expr is required"))
		return
	}

	p := expr.New()
	if raw := r.URL.Query().Get("vars"); raw != "" {
		for _, pair := range strings.Split(raw, ",") {
			name, value, ok := strings.Cut(strings.TrimSpace(pair), "=")
			if !ok {
				writeError(w, fmt.Errorf("invalid variable binding %q", pair))
				return
			}
			n, err := strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				writeError(w, fmt.Errorf("invalid variable value %q", value))
				return
			}
			p.Variables[strings.TrimSpace(name)] = n
		}
	}

	result, ok := p.Calculate(input)
	writeJSON(w, http.StatusOK, map[string]any{
		"expr":   input,
		"result": result,
		"ok":     ok,
	})
}

func (s *Server) handleCatalogExport(w http.ResponseWriter, r *http.Request) {
	snap := s.snapshot()
	if snap == nil {
		writeServiceUnavailable(w, "catalog not loaded")
		return
	}
	writeJSON(w, http.StatusOK, snap.Catalog)
}
