// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [code]",
	Short: "Check an assignment code",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := newValidator().Validate(context.Background(), args[0])
		if res.Valid {
			fmt.Printf("%s: valid\n", res.Code)
			if a := res.Assignment; a != nil {
				fmt.Printf("  %s (week %d, due %s)\n", a.Title, a.WeekNumber, a.DueDate)
				if a.IsOverdue {
					fmt.Println("  overdue")
				}
			}
			return nil
		}
		if res.Message == "" {
			return fmt.Errorf("%s: code too short", res.Code)
		}
		fmt.Printf("%s: %s\n", res.Code, res.Message)
		return err
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
