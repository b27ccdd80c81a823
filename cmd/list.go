package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crewcheck/crewcheck/internal/eligibility"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Print the readiness roster",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		persons, err := st.ListRegistered(cmd.Context())
		if err != nil {
			return err
		}

		now := time.Now()
		out := cmd.OutOrStdout()
		for i := range persons {
			rep := eligibility.Evaluate(&persons[i], now)
			verdict := "допущен"
			if !rep.Cleared() {
				verdict = fmt.Sprintf("отстранен (%d)", len(rep.BanReasons()))
			}
			fmt.Fprintf(out, "%-40s %s  %s\n", persons[i].FIO, rep.Summary(), verdict)
		}
		fmt.Fprintf(out, "\nвсего: %d\n", len(persons))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
