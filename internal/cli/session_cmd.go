package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the locally cached session",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, ok := sessions.Current()
			if !ok {
				fmt.Println("No session. Run 'ytgate auth login' first.")
				return nil
			}
			if format := getOutputFormat(); format != "table" {
				return printOutput(Session{Token: truncate(s.Token, 16), Label: s.Label})
			}
			fmt.Printf("Label: %s\n", s.Label)
			fmt.Printf("Token: %s\n", truncate(s.Token, 16))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "adopt <url>",
		Short: "Adopt the session token carried in a verification link",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stripped, adopted, err := sessions.AdoptFromURL(args[0])
			if err != nil {
				return err
			}
			if !adopted {
				fmt.Println("The link carries no session token.")
				return nil
			}
			fmt.Printf("Session adopted as %q\n", AdoptedLabel)
			fmt.Println(stripped)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget the cached session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessions.Clear(); err != nil {
				return err
			}
			fmt.Println("Session cleared")
			return nil
		},
	})

	return cmd
}
