// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/writing-desk/internal/draft"
	"github.com/pdiddy/writing-desk/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past submissions of this draft",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := ""
		if all, _ := cmd.Flags().GetBool("all"); !all {
			path, _ := cmd.Flags().GetString("project")
			p, err := draft.LoadProject(path)
			if err != nil {
				return err
			}
			sessionID = p.SessionID
		}

		st, err := store.NewStore(cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
		ctx := context.Background()

		if format, _ := cmd.Flags().GetString("format"); format != "" {
			return st.ExportHistory(ctx, os.Stdout, sessionID, store.Format(format))
		}

		records, err := st.List(ctx, sessionID)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No submissions yet.")
			return nil
		}
		fmt.Printf("%-36s  %-16s  %-12s  %5s  %4s\n", "ID", "Submitted", "Code", "Words", "AI%")
		fmt.Println(strings.Repeat("-", 82))
		for _, r := range records {
			fmt.Printf("%-36s  %-16s  %-12s  %5d  %4d\n",
				r.ID, r.Timestamp.Local().Format("2006-01-02 15:04"), r.AssignmentCode, r.WordCount, r.AIPercentage)
		}
		return nil
	},
}

var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Print the manual-save payload of the draft as JSON",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		return printJSON(draft.Save(s.project.Title, s.buffer.Snapshot()))
	},
}

func init() {
	historyCmd.Flags().Bool("all", false, "list submissions of every session")
	historyCmd.Flags().String("format", "", "export as yaml or json instead of a table")
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(saveCmd)
}
