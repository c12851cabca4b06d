package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/abhisek/sqlcoach/internal/logging"
	"github.com/abhisek/sqlcoach/internal/policy"
	"github.com/abhisek/sqlcoach/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Re-derive historical guidance decisions for audit",
	Long: "Replays a learner's stored events for one problem through the decision\n" +
		"engine and prints each decision point. Pass --strategy to compare what a\n" +
		"different strategy would have decided on the same history.",
	RunE: func(cmd *cobra.Command, args []string) error {
		learner, _ := cmd.Flags().GetString("learner")
		session, _ := cmd.Flags().GetString("session")
		problem, _ := cmd.Flags().GetString("problem")
		strategyName, _ := cmd.Flags().GetString("strategy")

		strategy := policy.Strategy(strategyName)
		if !strategy.Valid() {
			return fmt.Errorf("unknown strategy %q", strategyName)
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		engine, err := resolveEngine(cmd)
		if err != nil {
			return err
		}
		eventRepo, err := st.EventRepo()
		if err != nil {
			return err
		}

		events, err := eventRepo.ForProblem(cmd.Context(), learner, session, problem)
		if err != nil {
			return fmt.Errorf("load events: %w", err)
		}
		if len(events) == 0 {
			logging.Warn("no events found for that scope")
			return nil
		}

		trace := replay.ReplayWithEngine(engine, events, strategy)
		printTrace(trace)
		return nil
	},
}

var (
	hintColor        = color.New(color.FgGreen).SprintFunc()
	explanationColor = color.New(color.FgYellow).SprintFunc()
	notesColor       = color.New(color.FgMagenta).SprintFunc()
	driftColor       = color.New(color.FgRed).SprintFunc()
)

// printTrace renders a replay trace, one decision point per line.
func printTrace(trace []replay.DecisionPoint) {
	for i, p := range trace {
		decision := string(p.Decision.Decision)
		switch p.Decision.Decision {
		case policy.PresentHint:
			decision = hintColor(decision)
		case policy.PresentExplanation:
			decision = explanationColor(decision)
		case policy.AddToNotes:
			decision = notesColor(decision)
		}

		drift := ""
		if p.VersionDrift {
			drift = " " + driftColor("[version drift]")
		}

		fmt.Printf("%3d  %-17s  %-20s  rule=%s%s\n",
			i+1, p.Event.Kind, decision, p.Decision.RuleFired, drift)
	}
}

func init() {
	replayCmd.Flags().String("learner", "", "Learner ID")
	replayCmd.Flags().String("session", "", "Session ID")
	replayCmd.Flags().String("problem", "", "Problem ID")
	replayCmd.Flags().String("strategy", string(policy.StrategyAdaptiveMedium), "Strategy to replay under")
	replayCmd.MarkFlagRequired("learner")
	replayCmd.MarkFlagRequired("session")
	replayCmd.MarkFlagRequired("problem")
}
