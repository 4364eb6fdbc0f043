package server

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/poiesic/ideasurf/core"
	"github.com/poiesic/ideasurf/ingestion"
	"github.com/poiesic/ideasurf/search"
)

type searchResponse struct {
	Query   string          `json:"query"`
	Results []projectResult `json:"results"`
}

type projectResult struct {
	Name             string    `json:"name"`
	ShortDescription *string   `json:"short_description,omitempty"`
	LongDescription  *string   `json:"long_description,omitempty"`
	URL              string    `json:"url"`
	Source           string    `json:"source"`
	Tags             []string  `json:"tags,omitempty"`
	Batch            *string   `json:"batch,omitempty"`
	Founded          *string   `json:"founded,omitempty"`
	TeamSize         *string   `json:"team_size,omitempty"`
	Status           *string   `json:"status,omitempty"`
	Location         *string   `json:"location,omitempty"`
	IngestedAt       time.Time `json:"ingested_at"`
	Similarity       float32   `json:"similarity"`
}

type scrapeRequest struct {
	Batches []string `json:"batches"`
}

type scrapeResponse struct {
	Source  string             `json:"source"`
	Batches []string           `json:"batches"`
	Tallies []*ingestion.Tally `json:"tallies"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	if !s.allow(r) {
		s.respondError(w, http.StatusTooManyRequests, "rate limit exceeded")
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	sources, err := parseSources(r.URL.Query().Get("sources"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			s.respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	results, err := s.searcher.Search(r.Context(), query, sources, limit)
	if err != nil {
		if errors.Is(err, search.ErrEmptyQuery) || errors.Is(err, core.ErrUnknownSource) {
			s.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		// Search trouble (provider down, store unreadable) degrades to an
		// empty result set rather than a failed request.
		s.logger.Error("search failed", "query", query, "error", err)
		results = nil
	}

	response := searchResponse{Query: query, Results: make([]projectResult, 0, len(results))}
	for _, result := range results {
		record := result.Record
		response.Results = append(response.Results, projectResult{
			Name:             record.Name,
			ShortDescription: record.ShortDescription,
			LongDescription:  record.LongDescription,
			URL:              record.CanonicalURL,
			Source:           string(record.Source),
			Tags:             record.Tags,
			Batch:            record.Batch,
			Founded:          record.Founded,
			TeamSize:         record.TeamSize,
			Status:           record.Status,
			Location:         record.Location,
			IngestedAt:       record.IngestedAt,
			Similarity:       result.Score,
		})
	}
	s.respondJSON(w, http.StatusOK, response)
}

func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	source, err := core.ParseSource(chi.URLParam(r, "source"))
	if err != nil {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}

	var request scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && err != io.EOF {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(request.Batches) == 0 {
		// Sources without a batch dimension run once with an empty batch.
		request.Batches = []string{""}
	}

	s.logger.Info("scrape requested", "source", source, "batches", request.Batches)
	tallies, err := s.ingestor.Scrape(r.Context(), source, request.Batches)
	if err != nil {
		s.logger.Error("scrape failed", "source", source, "error", err)
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, scrapeResponse{
		Source:  string(source),
		Batches: request.Batches,
		Tallies: tallies,
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"message": "ideasurf api"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// allow consults the rate limiter, failing open when the limiter itself
// is unavailable.
func (s *Server) allow(r *http.Request) bool {
	allowed, err := s.limiter.Allow(r.Context(), clientKey(r))
	if err != nil {
		s.logger.Error("rate limiter unavailable, allowing request", "error", err)
		return true
	}
	return allowed
}

// clientKey identifies the caller for rate limiting.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func parseSources(raw string) ([]core.Source, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	var sources []core.Source
	for _, part := range strings.Split(raw, ",") {
		source, err := core.ParseSource(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, nil
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encoding response failed", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
