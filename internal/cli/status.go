package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show server health and the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			live, liveErr := apiClient.Health(ctx)
			ready, readyErr := apiClient.Ready(ctx)
			s, loggedIn := sessions.Current()

			format := getOutputFormat()
			if format != "table" {
				summary := map[string]interface{}{
					"logged_in": loggedIn,
				}
				if liveErr == nil {
					summary["status"] = live.Status
				}
				if readyErr == nil {
					summary["accounts"] = ready.Accounts
					if ready.Gate != nil {
						summary["free_limit"] = ready.Gate.FreeLimit
						summary["youtube_mode"] = ready.Gate.YouTubeMode
					}
				}
				if loggedIn {
					summary["session"] = s.Label
				}
				return printOutput(summary)
			}

			fmt.Println("ytgate")
			fmt.Println(strings.Repeat("=", 40))

			if liveErr != nil {
				fmt.Printf("  Server:    (error: %v)\n", liveErr)
			} else {
				fmt.Printf("  Server:    %s\n", formatStatus(live.Status))
			}

			if readyErr != nil {
				fmt.Printf("  Accounts:  (error: %v)\n", readyErr)
			} else {
				fmt.Printf("  Accounts:  %s\n", formatStatus(ready.Accounts))
				if ready.Gate != nil {
					fmt.Printf("  Free tier: %d lookups\n", ready.Gate.FreeLimit)
					fmt.Printf("  YouTube:   %s client\n", ready.Gate.YouTubeMode)
				}
			}

			if loggedIn {
				fmt.Printf("  Session:   %s\n", s.Label)
			} else {
				fmt.Println("  Session:   none")
			}
			return nil
		},
	}
}
