package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqlcoach/internal/logging"
)

var resetCmd = &cobra.Command{
	Use:   "reset <learner-id>",
	Short: "Delete all events and the profile for a learner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		confirmed, _ := cmd.Flags().GetBool("yes")
		if !confirmed {
			return fmt.Errorf("refusing to delete data for %s without --yes", args[0])
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		eventRepo, err := st.EventRepo()
		if err != nil {
			return err
		}
		if err := eventRepo.DeleteLearner(cmd.Context(), args[0]); err != nil {
			return err
		}
		logging.Success(fmt.Sprintf("deleted all data for %s", args[0]))
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm the deletion")
}
