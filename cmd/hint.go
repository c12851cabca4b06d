package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sqlcoach/internal/content"
	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/tutor"
)

var hintCmd = &cobra.Command{
	Use:   "hint",
	Short: "Request the next piece of guidance for a problem",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		session, _ := cmd.Flags().GetString("session")
		problem, _ := cmd.Flags().GetString("problem")
		subtype, _ := cmd.Flags().GetString("subtype")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		catalog, err := resolveCatalog(cmd)
		if err != nil {
			return err
		}
		engine, err := resolveEngine(cmd)
		if err != nil {
			return err
		}
		eventRepo, err := st.EventRepo()
		if err != nil {
			return err
		}

		svc := tutor.NewService(engine, catalog, eventRepo, st.ProfileRepo())

		req := content.Auto()
		if subtype != "" {
			req = content.Override(subtype)
		}

		result, err := svc.RequestHelp(cmd.Context(), learner, session, problem, req)
		if errors.Is(err, tutor.ErrHelpInFlight) {
			logging.Warn("a help request is already in flight; ignoring")
			return nil
		}
		if err != nil {
			return fmt.Errorf("request help: %w", err)
		}

		logging.Debugf("rule fired: %s (%s)", result.Decision.RuleFired, result.Decision.Reasoning)

		fmt.Printf("decision: %s\n", result.Decision.Decision)
		if result.Selection != nil {
			fmt.Printf("subtype:  %s (row %s, level %d)\n",
				result.Selection.Subtype, result.Selection.RowID, result.Selection.Level)
			fmt.Println(result.Selection.Text)
		}
		if result.HelpIndex > 0 {
			logging.Debugf("recorded help request #%d", result.HelpIndex)
		}
		if result.Duplicate {
			logging.Warn("duplicate emission dropped; content shown without re-recording")
		}
		return nil
	},
}

var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Record a query execution from the grading boundary",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		session, _ := cmd.Flags().GetString("session")
		problem, _ := cmd.Flags().GetString("problem")
		subtype, _ := cmd.Flags().GetString("error")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		eventRepo, err := st.EventRepo()
		if err != nil {
			return err
		}
		svc := tutor.NewService(nil, content.Seed(), eventRepo, st.ProfileRepo())

		if err := svc.RecordExecution(cmd.Context(), learner, session, problem, subtype); err != nil {
			return err
		}
		logging.Success("execution recorded")
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{hintCmd, recordCmd} {
		c.Flags().String("learner", "", "Learner ID")
		c.Flags().String("session", "", "Session ID")
		c.Flags().String("problem", "", "Problem ID")
		c.MarkFlagRequired("learner")
		c.MarkFlagRequired("session")
		c.MarkFlagRequired("problem")
	}
	hintCmd.Flags().String("subtype", "", "Instructor override: force an error subtype")
	recordCmd.Flags().String("error", "", "Error subtype of a failed run (empty = success)")
}
