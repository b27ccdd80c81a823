package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crewcheck/crewcheck/internal/infobase"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Manage the reference info base",
}

var infoAddCmd = &cobra.Command{
	Use:   "add <keyword> <content...>",
	Short: "Add an info entry",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		e, err := st.AddInfo(cmd.Context(), args[0], strings.Join(args[1:], " "))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "добавлено: %s\n", e.ID)
		return nil
	},
}

var infoDelCmd = &cobra.Command{
	Use:   "del <id>",
	Short: "Delete an info entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.DeleteInfo(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "удалено")
		return nil
	},
}

var infoFindCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search the info base",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer st.Close()

		entries, err := st.SearchInfo(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			fmt.Fprintf(out, "[%s] %s\n%s\n\n", e.ID, e.Keyword, infobase.Annotate(e.Keyword, e.Content))
		}
		fmt.Fprintf(out, "всего: %d\n", len(entries))
		return nil
	},
}

func init() {
	infoCmd.AddCommand(infoAddCmd, infoDelCmd, infoFindCmd)
	rootCmd.AddCommand(infoCmd)
}
