package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Authentication commands",
	}

	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthRegisterCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthWhoamiCmd())

	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Login with email and password",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput("Email: ")
			}
			if password == "" {
				password = promptPassword("Password: ")
			}

			resp, err := apiClient.Login(context.Background(), email, password)
			if err != nil {
				return fmt.Errorf("login failed: %w", err)
			}

			if err := sessions.Set(resp.Token, email); err != nil {
				return fmt.Errorf("failed to save session: %w", err)
			}

			fmt.Printf("Logged in as %s (session valid until %s)\n", email, resp.ExpiresAt.Local().Format("2006-01-02 15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func newAuthRegisterCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			if email == "" {
				email = promptInput("Email: ")
			}
			if password == "" {
				password = promptPassword("Password: ")
				confirm := promptPassword("Confirm password: ")
				if password != confirm {
					return fmt.Errorf("passwords do not match")
				}
			}

			resp, err := apiClient.Register(context.Background(), email, password)
			if err != nil {
				return fmt.Errorf("registration failed: %w", err)
			}

			fmt.Printf("%s Run 'ytgate auth login --email %s' to start a session.\n", resp.Message, resp.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")

	return cmd
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := sessions.Clear(); err != nil {
				return fmt.Errorf("failed to clear session: %w", err)
			}
			apiClient.Logout()

			fmt.Println("Logged out successfully")
			return nil
		},
	}
}

func newAuthWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the account and remaining free lookups",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(); err != nil {
				return err
			}

			acct, err := apiClient.Account(context.Background())
			if err != nil {
				return fmt.Errorf("failed to get account info: %w", err)
			}

			format := getOutputFormat()
			if format != "table" {
				return printOutput(acct)
			}

			fmt.Printf("Email:      %s\n", acct.Email)
			fmt.Printf("ID:         %d\n", acct.ID)
			fmt.Printf("Plan:       %s\n", formatStatus(acct.SubscriptionStatus))
			if acct.SubscriptionEndsAt != nil {
				fmt.Printf("Renews:     %s\n", acct.SubscriptionEndsAt.Local().Format("2006-01-02"))
			}
			if acct.Paid {
				fmt.Println("Lookups:    unlimited")
			} else {
				fmt.Printf("Lookups:    %d of %d free lookups left\n", acct.Remaining, acct.FreeLimit)
			}
			return nil
		},
	}
}

func promptInput(prompt string) string {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func promptPassword(prompt string) string {
	fmt.Print(prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		return ""
	}
	return string(password)
}
