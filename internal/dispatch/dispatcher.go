package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/neo1908/cv-terminal/internal/cache"
	"github.com/neo1908/cv-terminal/internal/cv"
	"github.com/neo1908/cv-terminal/internal/events"
	"github.com/neo1908/cv-terminal/internal/log"
)

// DocumentSource is the slice of the cache the dispatcher depends on.
type DocumentSource interface {
	Get(ctx context.Context) (*cv.Document, error)
	Status() cache.Status
}

// Dispatcher resolves command lines against a DocumentSource.
type Dispatcher struct {
	source DocumentSource
	events events.Publisher
	logger *slog.Logger
}

// New creates a Dispatcher. pub may be nil.
func New(source DocumentSource, pub events.Publisher) *Dispatcher {
	return &Dispatcher{
		source: source,
		events: pub,
		logger: log.WithComponent("dispatch"),
	}
}

// Warm loads the document ahead of the first command. Failures are logged and returned;
// the next data command retries through the cache as usual.
func (d *Dispatcher) Warm(ctx context.Context) error {
	if _, err := d.source.Get(ctx); err != nil {
		d.logger.Warn("failed to load CV data", "error", err)
		return err
	}
	return nil
}

// Execute runs one command line to completion. It never panics and never
// returns a Go error: every failure becomes an error-kind Result.
func (d *Dispatcher) Execute(ctx context.Context, line string) (res Result) {
	id := uuid.NewString()
	cmdLogger := d.logger.With("command_id", id)
	start := time.Now()

	inv, err := Parse(line)

	defer func() {
		if r := recover(); r != nil {
			cmdLogger.Error("command panicked", "command", inv.Name, "panic", r)
			res = Result{
				Content: fmt.Sprintf("Error executing command: %v", r),
				Kind:    KindError,
				Failure: FailureInternal,
			}
		}
		if errors.Is(err, ErrEmptyLine) {
			return
		}
		cmdLogger.Info("command executed",
			"command", inv.Name,
			"kind", res.Kind,
			"failure", res.Failure,
			"duration_ms", time.Since(start).Milliseconds(),
		)
		if d.events != nil {
			d.events.Publish(events.CommandExecuted, map[string]any{
				"command_id": id,
				"command":    inv.Name,
				"kind":       res.Kind,
				"failure":    res.Failure,
			})
		}
	}()

	var nf *NotFoundError
	switch {
	case errors.Is(err, ErrEmptyLine):
		return infoResult("")
	case errors.As(err, &nf):
		return notFound(nf.Token)
	case err != nil:
		return Result{Content: "Error: " + err.Error(), Kind: KindError, Failure: FailureInternal}
	}

	var doc *cv.Document
	if inv.Command.NeedsDocument() {
		doc, err = d.source.Get(ctx)
		if err != nil {
			cmdLogger.Error("document unavailable", "command", inv.Name, "error", err)
			return dataUnavailable()
		}
	}

	return d.render(inv.Command, doc)
}

// render maps each command onto its formatter. Every Command constant has a case.
func (d *Dispatcher) render(cmd Command, doc *cv.Document) Result {
	switch cmd {
	case CmdInfo:
		return successResult(formatInfo(doc))
	case CmdWhoami:
		return successResult(formatWhoami(doc))
	case CmdWork:
		return successResult(formatWork(doc))
	case CmdEducation:
		return successResult(formatEducation(doc))
	case CmdSkills:
		return successResult(formatSkills(doc))
	case CmdProjects:
		return successResult(formatProjects(doc))
	case CmdLanguages:
		return successResult(formatLanguages(doc))
	case CmdInterests:
		return successResult(formatInterests(doc))
	case CmdContact:
		return successResult(formatContact(doc))
	case CmdCache:
		return infoResult(formatCache(d.source.Status()))
	case CmdClear:
		return infoResult(ClearSentinel)
	case CmdHelp:
		return infoResult(formatHelp())
	}
	panic(fmt.Sprintf("dispatch: unhandled command %v", cmd))
}
