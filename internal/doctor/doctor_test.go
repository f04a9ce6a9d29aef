package doctor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neo1908/cv-terminal/internal/config"
	"github.com/neo1908/cv-terminal/internal/cv"
)

type stubFetcher struct {
	snap *cv.Snapshot
	err  error
}

func (s stubFetcher) Fetch(ctx context.Context) (*cv.Snapshot, error) {
	return s.snap, s.err
}

func fullDocument() *cv.Document {
	return &cv.Document{
		Basics:    cv.Basics{Name: "Ada", Email: "ada@example.com"},
		Work:      []cv.Work{{Company: "Acme"}},
		Education: []cv.Education{{Institution: "Leeds"}},
		Skills:    []cv.Skill{{Name: "Go"}},
		Projects:  []cv.Project{{Name: "cv"}},
		Languages: []cv.Language{{Language: "English"}},
		Interests: []cv.Interest{{Name: "Climbing"}},
	}
}

func fieldsOf(issues []Issue) []string {
	out := make([]string, 0, len(issues))
	for _, i := range issues {
		out = append(out, i.Field)
	}
	return out
}

func TestValidateDefaults(t *testing.T) {
	t.Parallel()
	r := New(config.Defaults(), nil).Validate(context.Background())
	assert.True(t, r.Valid)
	assert.Empty(t, r.Errors)
	assert.Empty(t, r.Warnings)
	assert.Nil(t, r.Source)
}

func TestValidateWarnings(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Source.TTL = 0
	cfg.API.Listen = "0.0.0.0:8080"
	cfg.API.RateLimit = 0

	r := New(cfg, nil).Validate(context.Background())
	assert.True(t, r.Valid)
	assert.ElementsMatch(t, []string{"source.ttl", "api.rate_limit"}, fieldsOf(r.Warnings))
}

func TestValidateTimeoutVsTTL(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Source.TTL = 5 * time.Second
	cfg.Source.Timeout = 10 * time.Second

	r := New(cfg, nil).Validate(context.Background())
	assert.Equal(t, []string{"source.timeout"}, fieldsOf(r.Warnings))
}

func TestValidateMissingLogDir(t *testing.T) {
	t.Parallel()
	cfg := config.Defaults()
	cfg.Service.LogFile = filepath.Join(t.TempDir(), "missing", "cv.log")

	r := New(cfg, nil).Validate(context.Background())
	assert.False(t, r.Valid)
	assert.Equal(t, []string{"service.log_file"}, fieldsOf(r.Errors))
}

func TestProbeSuccess(t *testing.T) {
	t.Parallel()
	f := stubFetcher{snap: &cv.Snapshot{Document: fullDocument(), Digest: "abc", Bytes: 42}}

	r := New(config.Defaults(), f).Validate(context.Background())
	assert.True(t, r.Valid)
	assert.Empty(t, r.Warnings)
	require.NotNil(t, r.Source)
	assert.Equal(t, "abc", r.Source.Digest)
	assert.Equal(t, 42, r.Source.Bytes)
	assert.Equal(t, "Ada", r.Source.Name)
}

func TestProbeFailure(t *testing.T) {
	t.Parallel()
	f := stubFetcher{err: errors.Join(cv.ErrFetchFailed, errors.New("unexpected status 503"))}

	r := New(config.Defaults(), f).Validate(context.Background())
	assert.False(t, r.Valid)
	require.Len(t, r.Errors, 1)
	assert.Equal(t, "source", r.Errors[0].Category)
	assert.Contains(t, r.Errors[0].Message, "unexpected status 503")
}

func TestProbeSparseDocument(t *testing.T) {
	t.Parallel()
	doc := fullDocument()
	doc.Basics.Email = ""
	doc.Projects = nil
	f := stubFetcher{snap: &cv.Snapshot{Document: doc}}

	r := New(config.Defaults(), f).Validate(context.Background())
	assert.True(t, r.Valid)
	assert.ElementsMatch(t, []string{"basics.email", "projects"}, fieldsOf(r.Warnings))
}

func TestProbeNilSnapshot(t *testing.T) {
	t.Parallel()
	r := New(config.Defaults(), stubFetcher{}).Validate(context.Background())
	assert.False(t, r.Valid)
}
