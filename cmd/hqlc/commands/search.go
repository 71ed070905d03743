package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// SearchCmd fuzzy-searches the project file index.
var SearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy-search the project file index",
	Long: `Fuzzy-search the project file index.

The query matches as a subsequence against every indexed path, the same
matcher the @-mention dropdown uses. Absolute and home-relative queries
bypass the index and list the filesystem directly.

Examples:
  hqlc search main          # fuzzy match against indexed paths
  hqlc search src/fi        # path-shaped queries favor filename hits
  hqlc search /etc/host     # absolute paths list the filesystem`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		return runSearch(cmd, args[0], limit)
	},
}

func init() {
	SearchCmd.Flags().IntP("limit", "n", 20, "Maximum number of results")
}

func runSearch(cmd *cobra.Command, query string, limit int) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	entries, err := e.indexer.Search(context.Background(), query, limit)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	if len(entries) == 0 {
		pterm.Info.Println("No matches")
		return nil
	}
	for _, entry := range entries {
		if entry.IsDir {
			pterm.FgCyan.Println(entry.Path)
		} else {
			pterm.Println(entry.Path)
		}
	}
	return nil
}
