package api

import "time"

// ExecuteRequest is the JSON body for POST /execute.
type ExecuteRequest struct {
	Line string `json:"line"`
}

// ExecuteResponse mirrors dispatch.Result plus the request id for log correlation.
type ExecuteResponse struct {
	Content   string `json:"content"`
	Kind      string `json:"kind"`
	Failure   string `json:"failure,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// CacheStatusResponse is returned by GET /cache.
type CacheStatusResponse struct {
	Cached    bool       `json:"cached"`
	State     string     `json:"state"`
	AgeMS     *int64     `json:"age_ms,omitempty"`
	TTLMS     int64      `json:"ttl_ms"`
	FetchedAt *time.Time `json:"fetched_at,omitempty"`
	Digest    string     `json:"digest,omitempty"`
}

// CacheTTLRequest is the JSON body for PUT /cache/ttl. TTL uses Go duration syntax.
type CacheTTLRequest struct {
	TTL string `json:"ttl"`
}

// ErrorResponse is returned on errors
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthzResponse is returned by GET /healthz.
type HealthzResponse struct {
	Status        string `json:"status"`
	UptimeSeconds int64  `json:"uptime_seconds"`
	Cached        bool   `json:"cached"`
}
