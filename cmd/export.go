package main

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/crewcheck/crewcheck/internal/export"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the readiness roster to an xlsx workbook",
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

		f, err := os.Create(exportOut)
		if err != nil {
			return eris.Wrapf(err, "export: create %s", exportOut)
		}
		defer f.Close()

		if err := export.WriteRoster(f, persons, time.Now()); err != nil {
			return err
		}
		zap.L().Info("roster exported",
			zap.String("path", exportOut), zap.Int("persons", len(persons)))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "roster.xlsx", "output file path")
	rootCmd.AddCommand(exportCmd)
}
