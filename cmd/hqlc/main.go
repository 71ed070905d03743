package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hlvm-dev/hqlc/cmd/hqlc/commands"
	"github.com/hlvm-dev/hqlc/logger"
)

var rootCmd = &cobra.Command{
	Use:   "hqlc",
	Short: "hqlc - completion engine for the HQL REPL",
	Long: `hqlc - completion engine for the HQL REPL.

hqlc powers the REPL dropdown: symbol completion from the language
registry and user bindings, @-mention file completion backed by a cached
project index, and slash-command completion.

Available commands:
  complete - Run one completion query against a buffer
  search   - Fuzzy-search the project file index
  index    - Inspect or rebuild the project file index

Examples:
  hqlc complete --buffer "(ma" --cursor 3
  hqlc complete --buffer "@src/" --cursor 5
  hqlc search "main"
  hqlc index --refresh`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		jsonOutput, _ := cmd.Flags().GetBool("json")
		if err := logger.Initialize(jsonOutput); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Emit machine-readable JSON output")
	rootCmd.PersistentFlags().StringP("root", "r", ".", "Project root to index")

	rootCmd.AddCommand(commands.CompleteCmd)
	rootCmd.AddCommand(commands.SearchCmd)
	rootCmd.AddCommand(commands.IndexCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
