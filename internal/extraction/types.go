// Package extraction turns meeting-note text into candidate task items
// using an LLM. The model output is untrusted: parsing is tolerant and
// the result is a list of loosely typed task.Raw values that the
// normalizer makes schema-safe downstream.
package extraction

import (
	"context"
	"time"

	"github.com/instylab/tasksync/internal/task"
)

// Extractor extracts candidate tasks from meeting-note text.
type Extractor interface {
	// ExtractTasks returns the task items found in meetingText. The
	// meeting date seeds default start/end dates in the prompt. An
	// empty result is not an error.
	ExtractTasks(ctx context.Context, meetingText string, meetingDate time.Time) ([]task.Raw, error)
}

// Config holds provider configuration for the extractor.
type Config struct {
	APIKey    string
	Model     string
	BaseURL   string
	MaxTokens int
	Timeout   int // seconds
}
