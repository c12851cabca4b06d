package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/policy"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or set a learner's strategy profile",
}

var profileGetCmd = &cobra.Command{
	Use:   "get <learner-id>",
	Short: "Show a learner's strategy",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		profile, err := st.ProfileRepo().Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if profile == nil {
			logging.Warnf("no profile for %s; the engine will fall back to present-hint", args[0])
			return nil
		}

		t := policy.ThresholdsFor(profile.Strategy)
		fmt.Printf("learner:   %s\n", profile.LearnerID)
		fmt.Printf("strategy:  %s\n", profile.Strategy)
		fmt.Printf("escalate:  %s\n", formatThreshold(t.Escalate))
		fmt.Printf("aggregate: %s\n", formatThreshold(t.Aggregate))
		return nil
	},
}

var profileSetCmd = &cobra.Command{
	Use:   "set <learner-id> <strategy>",
	Short: "Set a learner's strategy",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy := policy.Strategy(args[1])
		if !strategy.Valid() {
			return fmt.Errorf("unknown strategy %q (valid: %v)", args[1], policy.AllStrategies())
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		err = st.ProfileRepo().Put(cmd.Context(), policy.Profile{
			LearnerID: args[0],
			Strategy:  strategy,
		})
		if err != nil {
			return err
		}
		logging.Success(fmt.Sprintf("%s → %s", args[0], strategy))
		return nil
	},
}

func formatThreshold(n int) string {
	if n == policy.Unlimited {
		return "unlimited"
	}
	return fmt.Sprintf("%d", n)
}

func init() {
	profileCmd.AddCommand(profileGetCmd)
	profileCmd.AddCommand(profileSetCmd)
}
