package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crewcheck/crewcheck/internal/remind"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Dry-run the reminder sweep and print what would fire",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		checker := remind.NewChecker(st, nil, cfg.Remind, cfg.Admin.OwnerID)
		reminders, err := checker.Sweep(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if len(reminders) == 0 {
			fmt.Fprintln(out, "напоминаний нет")
			return nil
		}
		for _, r := range reminders {
			fmt.Fprintln(out, r.Text)
		}
		fmt.Fprintf(out, "\nвсего: %d\n", len(reminders))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
