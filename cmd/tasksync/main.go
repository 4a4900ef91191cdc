// Package main implements the tasksync CLI: meeting notes in, task
// database records out.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// configPath is the optional config file override.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tasksync",
	Short: "Sync meeting-note tasks into the task database",
	Long: `tasksync extracts actionable task items from meeting notes with an LLM
and reconciles them into a Notion task database, updating existing
records when a task title is semantically close enough and creating new
records otherwise.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.config/tasksync/config.yaml)")
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(noteCmd)
}
