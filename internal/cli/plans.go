package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newPlansCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "List the paid plans",
		RunE: func(cmd *cobra.Command, args []string) error {
			pw, err := apiClient.Plans(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get plans: %w", err)
			}

			if format := getOutputFormat(); format != "table" {
				return printOutput(pw)
			}

			fmt.Println(pw.Title)
			fmt.Println(pw.Message)
			fmt.Println()

			t := NewTable("ID", "NAME", "PRICE", "PERIOD", "NOTE")
			for _, p := range pw.Plans {
				name := p.Name
				if p.Featured {
					name += " *"
				}
				t.AddRow(p.ID, name, p.Price, p.Period, p.Note)
			}
			t.Render()

			if pw.CheckoutURL != "" {
				fmt.Printf("\nCheckout: %s\n", pw.CheckoutURL)
			}
			return nil
		},
	}
}
