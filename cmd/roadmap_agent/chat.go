package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/roadmap-generator/internal/types"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask the mentor a question about a roadmap",
	Long:  "Send one question to the mentor, optionally with a profile, a roadmap summary and earlier exchanges, and print the reply.",
	RunE:  runChat,
}

var (
	chatMessage     string
	chatProfileFile string
	chatSummary     string
	chatHistoryFile string
)

func init() {
	chatCmd.Flags().StringVarP(&chatMessage, "message", "m", "", "Question to ask (required)")
	chatCmd.Flags().StringVarP(&chatProfileFile, "profile", "p", "", "Path to profile JSON file")
	chatCmd.Flags().StringVar(&chatSummary, "summary", "", "Short summary of the learner's roadmap")
	chatCmd.Flags().StringVar(&chatHistoryFile, "history", "", "Path to JSON array of earlier {user, assistant} exchanges")
	_ = chatCmd.MarkFlagRequired("message")

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	chat := types.ChatContext{RoadmapSummary: chatSummary}
	if chatProfileFile != "" {
		var profile types.Profile
		if err := readJSON(chatProfileFile, &profile); err != nil {
			return err
		}
		chat.Profile = &profile
	}
	if chatHistoryFile != "" {
		if err := readJSON(chatHistoryFile, &chat.History); err != nil {
			return err
		}
	}

	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	reply, err := a.analyzer.Chat(cmd.Context(), chatMessage, chat)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
