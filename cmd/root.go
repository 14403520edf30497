package cmd

import (
	"fmt"
	"os"

	"github.com/iksnae/chat-recorder/internal"
	"github.com/spf13/cobra"
)

var (
	verbose    bool
	configPath string
	logDirFlag string
	cfg        = internal.DefaultConfig()
	version    string = "dev"
	commit     string = "unknown"
	date       string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chat-recorder",
	Short: "Record a live chat feed into a deduplicated message log",
	Long: `A CLI tool that records a live chat feed into a durable, append-only
message log.

The recorder polls a capture of the visible chat, gives every message a stable
identity (ignoring live price quotes that rewrite themselves in place), drops
messages it has already recorded and links replies to the message they answer.

Features:
  • Watch a capture file or feed database and append new messages
  • Survives restarts: the master log is reloaded and deduplicated against
  • Offline dedupe pass for logs written by older versions
  • List, show and export the recorded log (JSON, JSONL, YAML, Markdown)

Quick Start:
  chat-recorder watch --source capture/elements.json   # Record new messages
  chat-recorder list --limit 20                         # Recent messages
  chat-recorder dedupe --dry-run                        # Preview cleanup`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := internal.LoadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logDirFlag != "" {
			loaded.LogDir = logDirFlag
		}
		cfg = loaded

		level, err := internal.ParseLogLevel(cfg.LogLevel)
		if err != nil {
			return err
		}
		internal.SetLogLevel(level)
		if verbose {
			internal.SetVerbose(true)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: chat-recorder.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logDirFlag, "log-dir", "", "Directory holding MASTER_LOG.json (overrides config)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
