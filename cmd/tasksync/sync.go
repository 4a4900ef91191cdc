package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/instylab/tasksync/internal/config"
	"github.com/instylab/tasksync/internal/embeddings"
	"github.com/instylab/tasksync/internal/extraction"
	"github.com/instylab/tasksync/internal/logging"
	"github.com/instylab/tasksync/internal/notion"
	"github.com/instylab/tasksync/internal/reconcile"
)

// syncCmd runs the full pipeline for one meeting-note file.
var syncCmd = &cobra.Command{
	Use:   "sync <meetingnote.txt>",
	Short: "Extract tasks from meeting notes and upsert them",
	Long: `Read a meeting-note file containing Notion page links, fetch each
page's text, extract task items with the LLM and reconcile them into
the task database.

Examples:
  # Sync the pages referenced in meeting.txt
  tasksync sync meeting.txt

  # With an explicit config file
  tasksync sync --config ./config.yaml meeting.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading meeting note file: %w", err)
	}

	pageIDs, err := notion.ParsePageIDs(string(raw))
	if err != nil {
		return fmt.Errorf("parsing page ids from %s: %w", args[0], err)
	}
	log.Info("parsed meeting note pages", zap.Strings("page_ids", pageIDs))

	ctx := cmd.Context()

	client, err := notion.NewClient(notion.Config{
		APIKey:  cfg.Notion.APIKey,
		BaseURL: cfg.Notion.BaseURL,
		Version: cfg.Notion.Version,
		Timeout: cfg.Notion.Timeout,
	})
	if err != nil {
		return err
	}

	// Schema problems are configuration errors: fail before touching
	// any page.
	store, err := notion.NewTaskStore(ctx, client, cfg.Notion.DatabaseID)
	if err != nil {
		return err
	}

	extractor, err := extraction.NewAnthropicExtractor(extraction.Config{
		APIKey:    cfg.Anthropic.APIKey,
		Model:     cfg.Anthropic.Model,
		BaseURL:   cfg.Anthropic.BaseURL,
		MaxTokens: cfg.Anthropic.MaxTokens,
		Timeout:   cfg.Anthropic.Timeout,
	})
	if err != nil {
		return err
	}

	embedder, err := embeddings.NewService(embeddings.Config{
		BaseURL: cfg.Embeddings.BaseURL,
		Model:   cfg.Embeddings.Model,
		APIKey:  cfg.Embeddings.APIKey,
	})
	if err != nil {
		return err
	}

	engine := reconcile.NewEngine(store, embedder, log,
		reconcile.WithThreshold(cfg.Reconcile.Threshold))

	meetingDate := time.Now().In(cfg.Location())

	for _, pageID := range pageIDs {
		pageLog := log.With(zap.String("page_id", pageID))
		pageLog.Info("processing meeting note page")

		text, err := client.PageText(ctx, pageID)
		if err != nil {
			pageLog.Error("failed to fetch page text", zap.Error(err))
			continue
		}
		pageLog.Info("fetched meeting text", zap.Int("length", len(text)))

		raws, err := extractor.ExtractTasks(ctx, text, meetingDate)
		if err != nil {
			pageLog.Error("task extraction failed", zap.Error(err))
			continue
		}
		pageLog.Info("extracted tasks", zap.Int("count", len(raws)))
		if len(raws) == 0 {
			pageLog.Warn("no tasks extracted")
			continue
		}

		summary, err := engine.Reconcile(ctx, cfg.Notion.DatabaseID, raws, meetingDate)
		if err != nil {
			pageLog.Error("reconciliation failed", zap.Error(err))
			continue
		}
		pageLog.Info("upsert complete",
			zap.Int("created", summary.Created),
			zap.Int("updated", summary.Updated))
	}

	return nil
}
