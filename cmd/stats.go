package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqlcoach/internal/event"
	"github.com/abhisek/sqlcoach/internal/logging"
)

var statsCmd = &cobra.Command{
	Use:   "stats <learner-id>",
	Short: "Show per-kind interaction counts for a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		eventRepo, err := st.EventRepo()
		if err != nil {
			return err
		}

		counts, err := eventRepo.CountByKind(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			logging.Warnf("no events recorded for %s", args[0])
			return nil
		}

		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, string(k))
		}
		sort.Strings(kinds)

		for _, k := range kinds {
			fmt.Printf("%-20s %d\n", k, counts[event.Kind(k)])
		}
		return nil
	},
}
