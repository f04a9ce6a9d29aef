// Package doctor checks a cv-terminal setup: configuration sanity and
// whether the CV source is reachable and renders.
package doctor

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"github.com/neo1908/cv-terminal/internal/config"
	"github.com/neo1908/cv-terminal/internal/cv"
)

// Result holds the outcome of a validation run.
type Result struct {
	Valid    bool    `json:"valid"`
	Errors   []Issue `json:"errors,omitempty"`
	Warnings []Issue `json:"warnings,omitempty"`
	// Source is filled when the probe fetched the document.
	Source *SourceReport `json:"source,omitempty"`
}

// Issue describes a single validation error or warning.
type Issue struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Field    string `json:"field,omitempty"`
}

// SourceReport summarizes a successful probe of the CV endpoint.
type SourceReport struct {
	URL        string `json:"url"`
	Digest     string `json:"digest"`
	Bytes      int    `json:"bytes"`
	DurationMS int64  `json:"duration_ms"`
	Name       string `json:"name"`
}

// Fetcher is the probe's view of the CV source.
type Fetcher interface {
	Fetch(ctx context.Context) (*cv.Snapshot, error)
}

// Doctor validates a loaded configuration and probes its source.
type Doctor struct {
	cfg     *config.Config
	fetcher Fetcher
}

// New creates a Doctor. A nil fetcher skips the source probe.
func New(cfg *config.Config, fetcher Fetcher) *Doctor {
	return &Doctor{cfg: cfg, fetcher: fetcher}
}

// Validate runs all checks and returns a result.
func (d *Doctor) Validate(ctx context.Context) *Result {
	r := &Result{Valid: true}

	d.checkService(r)
	d.checkSource(r)
	d.checkAPI(r)
	if d.fetcher != nil {
		d.probeSource(ctx, r)
	}

	r.Valid = len(r.Errors) == 0
	return r
}

func (d *Doctor) addError(r *Result, category, field, msg string) {
	r.Errors = append(r.Errors, Issue{Category: category, Field: field, Message: msg})
}

func (d *Doctor) addWarning(r *Result, category, field, msg string) {
	r.Warnings = append(r.Warnings, Issue{Category: category, Field: field, Message: msg})
}

// checkService warns when repl logs would be lost.
func (d *Doctor) checkService(r *Result) {
	logFile := d.cfg.Service.LogFile
	if logFile == "" {
		return
	}
	dir := filepath.Dir(logFile)
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		d.addError(r, "service", "service.log_file",
			fmt.Sprintf("log directory %q does not exist", dir))
	}
}

func (d *Doctor) checkSource(r *Result) {
	src := d.cfg.Source
	if src.TTL == 0 {
		d.addWarning(r, "source", "source.ttl", "ttl is 0: every data command fetches the document")
	}
	if src.Timeout > 0 && src.TTL > 0 && src.Timeout >= src.TTL {
		d.addWarning(r, "source", "source.timeout",
			fmt.Sprintf("timeout %s is not shorter than ttl %s", src.Timeout, src.TTL))
	}
}

func (d *Doctor) checkAPI(r *Result) {
	host, _, err := net.SplitHostPort(d.cfg.API.Listen)
	if err != nil {
		d.addError(r, "api", "api.listen", err.Error())
		return
	}
	ip := net.ParseIP(host)
	public := host == "" || (ip != nil && !ip.IsLoopback())
	if public && d.cfg.API.RateLimit == 0 {
		d.addWarning(r, "api", "api.rate_limit",
			"API listens beyond loopback with rate limiting disabled")
	}
}

// probeSource fetches the document once and checks that it has something to show.
func (d *Doctor) probeSource(ctx context.Context, r *Result) {
	start := time.Now()
	snap, err := d.fetcher.Fetch(ctx)
	if err != nil {
		d.addError(r, "source", "source.url", err.Error())
		return
	}
	if snap == nil || snap.Document == nil {
		d.addError(r, "source", "source.url", "fetcher returned no document")
		return
	}

	doc := snap.Document
	r.Source = &SourceReport{
		URL:        d.cfg.Source.URL,
		Digest:     snap.Digest,
		Bytes:      snap.Bytes,
		DurationMS: time.Since(start).Milliseconds(),
		Name:       doc.Basics.Name,
	}

	if doc.Basics.Name == "" {
		d.addWarning(r, "document", "basics.name", "document has no name; whoami and info render blank")
	}
	if doc.Basics.Email == "" {
		d.addWarning(r, "document", "basics.email", "document has no email; contact renders blank")
	}
	sections := []struct {
		field string
		n     int
	}{
		{"work", len(doc.Work)},
		{"education", len(doc.Education)},
		{"skills", len(doc.Skills)},
		{"projects", len(doc.Projects)},
		{"languages", len(doc.Languages)},
		{"interests", len(doc.Interests)},
	}
	for _, s := range sections {
		if s.n == 0 {
			d.addWarning(r, "document", s.field, fmt.Sprintf("section %q is empty", s.field))
		}
	}
}
