package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pratik-mahalle/ytgate/pkg/client"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile      string
	outputFormat string
	serverURL    string
	apiClient    *client.Client
	sessions     *SessionStore
)

var rootCmd = &cobra.Command{
	Use:   "ytgate",
	Short: "ytgate CLI - YouTube metadata lookups behind a free-tier gate",
	Long: `ytgate CLI provides command-line access to the ytgate API: register,
log in, look up YouTube video metadata with your own API key, and check how
many free lookups remain on your account.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initClient()
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.ytgate/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format: table, json, yaml")
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (overrides config)")

	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("server_url", rootCmd.PersistentFlags().Lookup("server"))

	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newVideoCmd())
	rootCmd.AddCommand(newPlansCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatusCmd())
}

func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".ytgate", "config.yaml")
	}
	return filepath.Join(home, ".ytgate", "config.yaml")
}

func initConfig() {
	sessions = NewSessionStore(viper.GetViper(), configPath())

	viper.SetEnvPrefix("YTGATE")
	viper.AutomaticEnv()

	viper.SetDefault("server_url", "http://localhost:8080")
	viper.SetDefault("output", "table")

	if err := viper.ReadInConfig(); err != nil {
		if _, statErr := os.Stat(sessions.Path()); statErr == nil {
			fmt.Fprintln(os.Stderr, "Warning: could not read config:", err)
		}
	}
}

func initClient() error {
	url := viper.GetString("server_url")
	if serverURL != "" {
		url = serverURL
	}

	apiClient = client.NewClient(client.Config{
		BaseURL: url,
	})

	if s, ok := sessions.Current(); ok {
		apiClient.SetToken(s.Token)
	}
	return nil
}

func requireSession() (Session, error) {
	s, ok := sessions.Current()
	if !ok {
		return Session{}, fmt.Errorf("not logged in. Run 'ytgate auth login' first")
	}
	return s, nil
}

func getOutputFormat() string {
	if outputFormat != "" && outputFormat != "table" {
		return outputFormat
	}
	return viper.GetString("output")
}
