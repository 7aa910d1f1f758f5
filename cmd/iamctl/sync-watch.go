package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/config"
)

// syncWatchCmd represents the sync watch command
var syncWatchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Watch a trigger file and resynchronise when it changes",
	Long: `Watch a trigger file and resynchronise accounts when it changes.

To trigger a sync, write an account ID to the watched file. Write an
empty file to synchronise every registered account.

Example:
  iamctl sync watch /run/iam-mirror/sync-trigger`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchSyncTrigger(cmd.Context(), args[0]); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch trigger file: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	syncCmd.AddCommand(syncWatchCmd)
}

func watchSyncTrigger(ctx context.Context, filename string) error {
	gormDB, err := connectDB()
	if err != nil {
		return err
	}

	store := analyzer.NewGormStore(gormDB)
	a, err := buildAnalyzer(ctx, store)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filename); err != nil {
		return fmt.Errorf("failed to watch file %s: %w", filename, err)
	}

	fmt.Printf("Watching %s for sync triggers\n", filename)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] Trigger file modified, synchronising...\n", time.Now().Format(time.RFC3339))

				content, err := os.ReadFile(filename)
				if err != nil {
					fmt.Fprintf(os.Stderr, "Error reading file: %v\n", err)
					continue
				}

				runTriggeredSync(ctx, a, strings.TrimSpace(string(content)))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func runTriggeredSync(ctx context.Context, a *analyzer.Analyzer, accountID string) {
	syncCtx, cancel := context.WithTimeout(ctx, config.Get().SyncTimeout())
	defer cancel()

	if accountID != "" {
		report, err := a.SyncAccount(syncCtx, accountID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error synchronising %s: %v\n", accountID, err)
			return
		}
		printReports([]analyzer.AccountReport{report})
		return
	}

	reports, err := a.SyncAll(syncCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error synchronising accounts: %v\n", err)
		return
	}
	printReports(reports)
}
