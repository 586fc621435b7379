package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Clear all local state (session and cart)",
	Long: `Reset empties the durable local storage: the session entries and the
cart snapshot. The remote catalog is not touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sf, err := newStorefront()
		if err != nil {
			return err
		}
		defer sf.Close(context.Background()) //nolint:errcheck

		if err := sf.Storage.Clear(); err != nil {
			return fmt.Errorf("clear local state: %w", err)
		}
		fmt.Println("Local state cleared.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetCmd)
}
