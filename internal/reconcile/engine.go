// Package reconcile decides, per extracted task, whether it updates an
// existing record or creates a new one, using embedding similarity of
// task titles instead of exact string matching.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/instylab/tasksync/internal/logging"
	"github.com/instylab/tasksync/internal/similarity"
	"github.com/instylab/tasksync/internal/task"
)

// DefaultThreshold is the minimum title similarity for a candidate task
// to be treated as an update of an existing record. High enough to
// avoid merging unrelated tasks, low enough to catch rewordings of the
// same task across meetings.
const DefaultThreshold = 0.90

// Record is one existing row of the task database, with its title
// embedding computed for this run. The embedding is request-scoped:
// built at the start of a reconciliation run, discarded at the end,
// never cached across runs.
type Record struct {
	ID        string
	Title     string
	Embedding []float32
}

// Embedder turns text into an embedding vector.
type Embedder interface {
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Store is the task database the engine reconciles into.
type Store interface {
	// Query returns the current records with at least id and title.
	Query(ctx context.Context, databaseID string) ([]Record, error)

	// Create inserts a new record built from the task and returns its id.
	Create(ctx context.Context, databaseID string, t task.Task) (string, error)

	// Update rewrites the record's properties from the task.
	Update(ctx context.Context, recordID string, t task.Task) error
}

// Summary aggregates the outcome of one reconciliation run. Per-task
// failures appear only in logs; the counts cover successes.
type Summary struct {
	Created int
	Updated int
}

// Engine reconciles extracted tasks into the task database.
type Engine struct {
	store     Store
	embedder  Embedder
	log       *logging.Logger
	threshold float64
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides the similarity threshold.
func WithThreshold(threshold float64) Option {
	return func(e *Engine) {
		e.threshold = threshold
	}
}

// NewEngine creates a reconciliation engine.
func NewEngine(store Store, embedder Embedder, log *logging.Logger, opts ...Option) *Engine {
	e := &Engine{
		store:     store,
		embedder:  embedder,
		log:       log.Named("reconcile"),
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Reconcile runs one reconciliation pass: snapshot the existing
// records, embed their titles, then process each candidate task in
// order, deciding create-vs-update against the pre-run snapshot.
//
// The snapshot is deliberately not extended with records created
// mid-run, so the outcome does not depend on candidate order. A failed
// snapshot query is fatal; everything after that is per-task: an
// embedding or store failure on one task is logged and the run
// continues with the next. Normalization always happens here, before
// matching and before persistence.
func (e *Engine) Reconcile(ctx context.Context, databaseID string, raws []task.Raw, meetingDate time.Time) (Summary, error) {
	var summary Summary

	records, err := e.store.Query(ctx, databaseID)
	if err != nil {
		return summary, fmt.Errorf("querying existing records: %w", err)
	}

	existing := e.embedTitles(ctx, records)

	tasks := task.Normalize(raws, meetingDate)
	skipped := len(raws) - len(tasks)
	if skipped > 0 {
		e.log.Warn("skipped tasks without a name", zap.Int("count", skipped))
	}

	vectors := make([][]float32, len(existing))
	for i := range existing {
		vectors[i] = existing[i].Embedding
	}

	for _, t := range tasks {
		if err := e.reconcileOne(ctx, databaseID, t, existing, vectors, &summary); err != nil {
			e.log.Error("failed to upsert task",
				zap.String("name", t.Name),
				zap.Error(err))
		}
	}

	e.log.Info("reconciliation complete",
		zap.Int("created", summary.Created),
		zap.Int("updated", summary.Updated))
	return summary, nil
}

// embedTitles computes a title embedding for every record in the
// snapshot. An empty title short-circuits to a nil embedding without an
// embedder call; an embedder failure degrades the record to a nil
// embedding rather than failing the run.
func (e *Engine) embedTitles(ctx context.Context, records []Record) []Record {
	for i := range records {
		if records[i].Title == "" {
			continue
		}
		vector, err := e.embedder.EmbedQuery(ctx, records[i].Title)
		if err != nil {
			e.log.Warn("failed to embed existing record title",
				zap.String("id", records[i].ID),
				zap.Error(err))
			continue
		}
		records[i].Embedding = vector
	}
	return records
}

// reconcileOne embeds one task title, finds the best-matching record in
// the snapshot and issues the create or update.
func (e *Engine) reconcileOne(ctx context.Context, databaseID string, t task.Task, existing []Record, vectors [][]float32, summary *Summary) error {
	embedding, err := e.embedder.EmbedQuery(ctx, t.Name)
	if err != nil {
		return fmt.Errorf("embedding task title: %w", err)
	}

	idx, score := similarity.BestMatch(embedding, vectors)

	if idx >= 0 && score >= e.threshold {
		if err := e.store.Update(ctx, existing[idx].ID, t); err != nil {
			return fmt.Errorf("updating record %s: %w", existing[idx].ID, err)
		}
		summary.Updated++
		e.log.Info("updated record",
			zap.String("name", t.Name),
			zap.String("matched", existing[idx].Title),
			zap.Float64("similarity", score))
		return nil
	}

	id, err := e.store.Create(ctx, databaseID, t)
	if err != nil {
		return fmt.Errorf("creating record: %w", err)
	}
	summary.Created++
	e.log.Info("created record",
		zap.String("name", t.Name),
		zap.String("id", id))
	return nil
}
