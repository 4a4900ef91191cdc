package notion

import (
	"context"
	"fmt"

	"github.com/instylab/tasksync/internal/reconcile"
	"github.com/instylab/tasksync/internal/task"
)

// TaskStore adapts the Notion client to the reconciliation engine's
// Store interface. The database schema is resolved and validated at
// construction, so a misconfigured database fails before any run work.
type TaskStore struct {
	client *Client
	schema Schema
}

// NewTaskStore resolves the schema of databaseID and returns a store
// bound to it. Schema problems (no title property, missing task
// properties) are configuration errors and fail here.
func NewTaskStore(ctx context.Context, client *Client, databaseID string) (*TaskStore, error) {
	schema, err := client.RetrieveSchema(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("retrieving database schema: %w", err)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &TaskStore{client: client, schema: schema}, nil
}

// Schema exposes the resolved schema; the note generator reads task
// details through it.
func (s *TaskStore) Schema() Schema {
	return s.schema
}

// Query returns the current records of the database with id and title.
func (s *TaskStore) Query(ctx context.Context, databaseID string) ([]reconcile.Record, error) {
	rows, err := s.client.QueryRecords(ctx, databaseID, s.schema)
	if err != nil {
		return nil, err
	}
	records := make([]reconcile.Record, len(rows))
	for i, row := range rows {
		records[i] = reconcile.Record{ID: row.ID, Title: row.Title}
	}
	return records, nil
}

// Create builds the property payload for the task and creates a page.
func (s *TaskStore) Create(ctx context.Context, databaseID string, t task.Task) (string, error) {
	props, err := BuildProperties(s.schema, t)
	if err != nil {
		return "", err
	}
	return s.client.CreatePage(ctx, databaseID, props)
}

// Update builds the property payload for the task and rewrites the page.
func (s *TaskStore) Update(ctx context.Context, recordID string, t task.Task) error {
	props, err := BuildProperties(s.schema, t)
	if err != nil {
		return err
	}
	return s.client.UpdatePage(ctx, recordID, props)
}

var _ reconcile.Store = (*TaskStore)(nil)
