package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zhengjr9/chat-relay/internal/chatclient"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "chatctl",
	Short: "Terminal client for the chat backend",
	Long: `chatctl talks to the chat backend's /api endpoints.
Run without a subcommand for an interactive session.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runREPL(cmd.Context(), newClient(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default: ./chatctl.yaml or $HOME/.chatctl/chatctl.yaml)")
	flags.String("api-url", "", "chat backend base URL (env: CHATCTL_API_URL)")
	flags.Duration("timeout", 0, "per-request timeout (env: CHATCTL_TIMEOUT)")
	flags.String("log-level", "", "log level (debug/info/warn/error)")

	_ = viper.BindPFlag("api_url", flags.Lookup("api-url"))
	_ = viper.BindPFlag("timeout", flags.Lookup("timeout"))
	_ = viper.BindPFlag("log_level", flags.Lookup("log-level"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("chatctl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.chatctl")
	}

	viper.SetEnvPrefix("CHATCTL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			fmt.Fprintf(os.Stderr, "Failed to read config: %v\n", err)
			os.Exit(1)
		}
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log_level"))); err != nil {
		level = slog.LevelWarn
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	slog.Debug("configuration loaded", "config_file", viper.ConfigFileUsed(), "api_url", viper.GetString("api_url"))
}

func setDefaults() {
	viper.SetDefault("api_url", "http://localhost:8080/api")
	viper.SetDefault("timeout", 30*time.Second)
	viper.SetDefault("log_level", "warn")
}

func newClient() *chatclient.Client {
	return chatclient.NewClient(viper.GetString("api_url"), viper.GetDuration("timeout"))
}
