package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/neo1908/cv-terminal/internal/cache"
)

// maxRequestBytes caps JSON request bodies.
const maxRequestBytes = 64 << 10

// handleHealthz handles GET /healthz.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, HealthzResponse{
		Status:        "ok",
		UptimeSeconds: int64(time.Since(s.startedAt).Seconds()),
		Cached:        s.cache.Status().Cached,
	})
}

// handleExecute handles POST /execute. Command failures are still 200: the
// result kind carries them.
func (s *Server) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req ExecuteRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	res := s.exec.Execute(r.Context(), req.Line)
	respondJSON(w, http.StatusOK, ExecuteResponse{
		Content:   res.Content,
		Kind:      string(res.Kind),
		Failure:   string(res.Failure),
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// handleCacheStatus handles GET /cache.
func (s *Server) handleCacheStatus(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, cacheStatusResponse(s.cache.Status()))
}

// handleCacheInvalidate handles DELETE /cache.
func (s *Server) handleCacheInvalidate(w http.ResponseWriter, r *http.Request) {
	s.cache.Invalidate()
	s.logger.Info("cache invalidated via API", "request_id", middleware.GetReqID(r.Context()))
	w.WriteHeader(http.StatusNoContent)
}

// handleCacheTTL handles PUT /cache/ttl.
func (s *Server) handleCacheTTL(w http.ResponseWriter, r *http.Request) {
	var req CacheTTLRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	ttl, err := time.ParseDuration(req.TTL)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "ttl must be a duration such as 5m")
		return
	}
	if ttl < 0 {
		s.writeError(w, http.StatusBadRequest, "ttl must not be negative")
		return
	}

	s.cache.Reconfigure(ttl)
	s.logger.Info("cache ttl changed via API", "ttl", ttl.String())
	respondJSON(w, http.StatusOK, cacheStatusResponse(s.cache.Status()))
}

func cacheStatusResponse(st cache.Status) CacheStatusResponse {
	resp := CacheStatusResponse{
		Cached: st.Cached,
		State:  st.State.String(),
		TTLMS:  st.TTL.Milliseconds(),
	}
	if st.Cached {
		age := st.Age.Milliseconds()
		fetchedAt := st.FetchedAt.UTC()
		resp.AgeMS = &age
		resp.FetchedAt = &fetchedAt
		resp.Digest = st.Digest
	}
	return resp
}

func respondJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response
func (s *Server) writeError(w http.ResponseWriter, statusCode int, message string) {
	respondJSON(w, statusCode, ErrorResponse{Error: message})
}
