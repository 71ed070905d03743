// Package commands implements the hqlc CLI subcommands.
package commands

import (
	"github.com/spf13/cobra"

	"github.com/hlvm-dev/hqlc/config"
	"github.com/hlvm-dev/hqlc/index"
	"github.com/hlvm-dev/hqlc/logger"
	"github.com/hlvm-dev/hqlc/provider"
	"github.com/hlvm-dev/hqlc/textctx"
)

// env bundles the wired completion stack for one CLI invocation.
type env struct {
	cfg      *config.Config
	indexer  *index.Indexer
	registry *provider.Registry
	builder  *textctx.Builder
}

// newEnv loads configuration and wires the provider stack rooted at the
// --root flag.
func newEnv(cmd *cobra.Command) (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		logger.Warnw("config load failed, using defaults", "error", err)
		cfg = config.Default()
	}

	root, _ := cmd.Flags().GetString("root")
	if root == "" {
		root = "."
	}

	ix := index.New(root,
		index.WithTTL(cfg.IndexTTL()),
		index.WithMaxDepth(cfg.Index.MaxDepth),
		index.WithExtraSkipDirs(cfg.Index.ExtraSkipDirs),
	)

	ids := provider.NewIDAllocator()
	fileProvider := provider.NewFileProvider(ids, ix)
	fileProvider.SetLimit(cfg.Limits.FileResults)
	fileProvider.SetDebounce(cfg.Debounce())
	symbolProvider := provider.NewSymbolProvider(ids)
	symbolProvider.SetLimits(cfg.Limits.SymbolTyped, cfg.Limits.SymbolBrowse)

	registry := provider.NewRegistry(
		fileProvider,
		provider.NewCommandProvider(ids),
		symbolProvider,
	)

	return &env{
		cfg:      cfg,
		indexer:  ix,
		registry: registry,
		builder:  textctx.NewBuilder(demoTables()),
	}, nil
}

// demoTables is a small HQL core vocabulary so the CLI is usable without a
// live REPL feeding real session tables.
func demoTables() textctx.Tables {
	return textctx.Tables{
		Keywords: setOf("def", "let", "fn", "if", "cond", "loop", "recur", "do", "quote"),
		Macros:   setOf("when", "unless", "defn", "defmacro", "->", "->>"),
		Operators: setOf(
			"+", "-", "*", "/", "=", "<", ">", "<=", ">=", "and", "or", "not",
		),
		Builtins: setOf(
			"map", "filter", "reduce", "count", "first", "rest", "cons",
			"get", "assoc", "dissoc", "keys", "vals", "str", "print",
			"recall", "remember", "forget",
		),
		Signatures: map[string][]string{
			"map":    {"f", "coll"},
			"filter": {"pred", "coll"},
			"reduce": {"f", "init", "coll"},
			"assoc":  {"m", "k", "v"},
			"get":    {"m", "k"},
		},
		Docstrings: map[string]string{
			"map":    "Applies f to each element of coll.",
			"filter": "Keeps elements of coll for which pred returns true.",
			"reduce": "Folds coll with f starting from init.",
			"recall": "Loads a persisted memory by name.",
			"forget": "Deletes a persisted memory by name.",
		},
	}
}

func setOf(names ...string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
