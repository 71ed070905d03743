package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hlvm-dev/hqlc/index"
)

// IndexCmd inspects or rebuilds the project file index.
var IndexCmd = &cobra.Command{
	Use:   "index",
	Short: "Inspect or rebuild the project file index",
	Long: `Inspect or rebuild the project file index.

Without flags, builds (or serves from cache) the snapshot for the
project root and prints its size. With --refresh the cache is dropped
first. With --watch the command keeps running and invalidates the
snapshot when files change.

Examples:
  hqlc index                # build and summarize the snapshot
  hqlc index --refresh      # force a rebuild
  hqlc index --watch        # invalidate on filesystem changes`,
	RunE: func(cmd *cobra.Command, args []string) error {
		refresh, _ := cmd.Flags().GetBool("refresh")
		watch, _ := cmd.Flags().GetBool("watch")
		return runIndex(cmd, refresh, watch)
	},
}

func init() {
	IndexCmd.Flags().Bool("refresh", false, "Drop the cached snapshot and rebuild")
	IndexCmd.Flags().Bool("watch", false, "Keep running and invalidate on file changes")
}

// indexSummary is the JSON shape of the snapshot summary.
type indexSummary struct {
	Root    string    `json:"root"`
	Files   int       `json:"files"`
	Dirs    int       `json:"dirs"`
	BuiltAt time.Time `json:"built_at"`
}

func runIndex(cmd *cobra.Command, refresh, watch bool) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	if refresh {
		e.indexer.Invalidate()
	}

	snap, err := e.indexer.Get(context.Background(), refresh)
	if err != nil {
		return err
	}

	summary := indexSummary{
		Root:    e.indexer.Root(),
		Files:   len(snap.Files),
		Dirs:    len(snap.Dirs),
		BuiltAt: snap.BuiltAt,
	}

	if jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
	} else {
		pterm.Success.Printf("Indexed %d files and %d directories under %s\n",
			summary.Files, summary.Dirs, summary.Root)
	}

	if !watch {
		return nil
	}

	watcher, err := index.NewWatcher(e.indexer)
	if err != nil {
		return err
	}
	defer watcher.Close()

	pterm.Info.Println("Watching for changes (Ctrl+C to stop)...")
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	pterm.Info.Println("\nStopping watcher")
	return nil
}
