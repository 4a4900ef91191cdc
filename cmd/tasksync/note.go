package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/instylab/tasksync/internal/config"
	"github.com/instylab/tasksync/internal/logging"
	"github.com/instylab/tasksync/internal/note"
	"github.com/instylab/tasksync/internal/notion"
)

var noteField string

// noteCmd generates a meeting-note draft from the task database.
var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Generate a weekly meeting-note draft for a work area",
	Long: `Query the task database for one work area and write a Markdown
meeting-note draft listing updated and new tasks.

Examples:
  # Draft for the AI team
  tasksync note --field AI`,
	RunE: runNote,
}

func init() {
	noteCmd.Flags().StringVar(&noteField, "field", "", "work area to draft for (e.g. AI, 기획, 개발)")
	noteCmd.MarkFlagRequired("field") //nolint:errcheck
}

func runNote(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	log, err := logging.NewLogger(&cfg.Logging)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

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

	schema, err := client.RetrieveSchema(ctx, cfg.Notion.DatabaseID)
	if err != nil {
		return err
	}

	details, err := client.QueryTaskDetails(ctx, cfg.Notion.DatabaseID, schema)
	if err != nil {
		return err
	}

	tasks := note.FilterByField(details, noteField)
	if len(tasks) == 0 {
		log.Warn("no tasks found for field", zap.String("field", noteField))
		return nil
	}

	md := note.Generate(noteField, tasks, time.Now().In(cfg.Location()))

	outputFile := fmt.Sprintf("meeting_note_%s.md", noteField)
	if err := os.WriteFile(outputFile, []byte(md), 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", outputFile, err)
	}
	log.Info("meeting note generated", zap.String("file", outputFile))
	return nil
}
