package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zhengjr9/chat-relay/internal/chatclient"
)

var sendCmd = &cobra.Command{
	Use:   "send <message...>",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		message := strings.TrimSpace(strings.Join(args, " "))
		if message == "" {
			return chatclient.ErrEmptyMessage
		}
		reply, err := newClient().Chat(cmd.Context(), message)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), reply)
		return err
	},
}

var suggestionsCmd = &cobra.Command{
	Use:   "suggestions",
	Short: "List the suggested prompts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		suggestions, err := newClient().Suggestions(cmd.Context())
		if err != nil {
			return err
		}
		return chatclient.RenderSuggestions(cmd.OutOrStdout(), suggestions)
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear the backend's conversation history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !newConfirmer(cmd.InOrStdin(), cmd.OutOrStdout()).Confirm(chatclient.ClearPrompt) {
			return errors.New("aborted")
		}
		if err := newClient().Clear(cmd.Context()); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cmd.OutOrStdout(), "Conversation history cleared")
		return err
	},
}

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the backend is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := newClient()
		if err := c.Health(cmd.Context()); err != nil {
			return fmt.Errorf("backend at %s is not healthy: %w", c.BaseURL(), err)
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "backend at %s is healthy\n", c.BaseURL())
		return err
	},
}

func init() {
	clearCmd.Flags().BoolP("yes", "y", false, "skip the confirmation prompt")

	rootCmd.AddCommand(sendCmd, suggestionsCmd, clearCmd, healthCmd)
}
