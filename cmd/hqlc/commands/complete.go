package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hlvm-dev/hqlc/dropdown"
	"github.com/hlvm-dev/hqlc/provider"
)

// CompleteCmd runs one completion query against a buffer snapshot.
var CompleteCmd = &cobra.Command{
	Use:   "complete",
	Short: "Run one completion query against a buffer",
	Long: `Run one completion query against a buffer snapshot.

The buffer and cursor are matched against the provider registry the same
way the REPL does per keystroke: file mentions (@path) hit the project
index, a leading slash completes REPL commands, and anything else
completes symbols.

Examples:
  hqlc complete --buffer "(ma" --cursor 3
  hqlc complete --buffer "@src/" --cursor 5
  hqlc complete --buffer "/cl" --cursor 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		buffer, _ := cmd.Flags().GetString("buffer")
		cursor, _ := cmd.Flags().GetInt("cursor")
		if cursor < 0 {
			cursor = len(buffer)
		}
		return runComplete(cmd, buffer, cursor)
	},
}

func init() {
	CompleteCmd.Flags().StringP("buffer", "b", "", "Buffer text to complete against")
	CompleteCmd.Flags().IntP("cursor", "c", -1, "Cursor offset (defaults to end of buffer)")
}

// completionRow is the JSON shape of one result row.
type completionRow struct {
	Label       string `json:"label"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Score       int    `json:"score"`
}

func runComplete(cmd *cobra.Command, buffer string, cursor int) error {
	e, err := newEnv(cmd)
	if err != nil {
		return err
	}

	cc := e.builder.Build(buffer, cursor)
	p, ok := e.registry.Match(cc)
	if !ok {
		pterm.Info.Println("No provider matched this context")
		return nil
	}

	res, err := p.Completions(context.Background(), cc)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Root().PersistentFlags().GetBool("json"); jsonOut {
		rows := make([]completionRow, len(res.Items))
		for i, it := range res.Items {
			rows[i] = completionRow{
				Label:       it.Label,
				Type:        it.Type.String(),
				Description: it.Description,
				Score:       it.Score,
			}
		}
		data, err := json.MarshalIndent(rows, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	renderItems(res.Items, p.HelpText(), e.cfg.Dropdown.VisibleRows)
	return nil
}

// renderItems paints the first dropdown window the way the REPL would.
func renderItems(items []provider.Item, helpText string, visibleRows int) {
	if len(items) == 0 {
		pterm.Info.Println("No completions")
		return
	}

	start, end := dropdown.Window(0, len(items), visibleRows)

	data := pterm.TableData{{"", "Label", "Type", "Description"}}
	for i := start; i < end; i++ {
		marker := " "
		if i == 0 {
			marker = ">"
		}
		it := items[i]
		data = append(data, []string{marker, it.Label, it.Type.String(), it.Description})
	}

	if err := pterm.DefaultTable.WithHasHeader().WithData(data).Render(); err != nil {
		fmt.Println(pterm.Sprint(data))
	}
	if end < len(items) {
		pterm.Printf("… %d more\n", len(items)-end)
	}
	if helpText != "" {
		pterm.FgGray.Println(helpText)
	}
}
