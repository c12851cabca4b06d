package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqlcoach/internal/content"
	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/policy"
	"github.com/abhisek/sqlcoach/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "sqlcoach",
	Short: "Adaptive guidance engine for SQL practice",
	Long: "sqlcoach — adaptive guidance policy engine that decides, from a learner's\n" +
		"attempt history, whether to show a hint, escalate to an explanation, or\n" +
		"save the struggle as a note, and which content to show.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		v, _ := cmd.Flags().GetBool("verbose")
		logging.SetVerbose(v)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides SQLCOACH_DB env var)")
	rootCmd.PersistentFlags().String("catalog", "", "Path to a content catalog JSON file (default: built-in catalog)")
	rootCmd.PersistentFlags().String("thresholds", "", "Path to a YAML strategy-threshold overrides file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug output")

	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest
// priority), then SQLCOACH_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	return store.DefaultDBPath()
}

// openStore opens the store for a command.
func openStore(cmd *cobra.Command) (*store.Store, error) {
	dbPath, err := resolveDBPath(cmd)
	if err != nil {
		return nil, fmt.Errorf("resolve DB path: %w", err)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// resolveCatalog loads the --catalog file, or the built-in catalog.
func resolveCatalog(cmd *cobra.Command) (*content.Catalog, error) {
	if p, _ := cmd.Flags().GetString("catalog"); p != "" {
		return content.LoadCatalogFile(p)
	}
	return content.Seed(), nil
}

// resolveEngine builds a policy engine, applying --thresholds overrides
// when given.
func resolveEngine(cmd *cobra.Command) (*policy.Engine, error) {
	if p, _ := cmd.Flags().GetString("thresholds"); p != "" {
		table, err := policy.LoadThresholdOverrides(p)
		if err != nil {
			return nil, err
		}
		return policy.NewEngineWithThresholds(table), nil
	}
	return policy.NewEngine(), nil
}
