package cmd

import (
	"context"
	"fmt"

	"github.com/powperpay/reportctl/internal"
	"github.com/spf13/cobra"
)

// editCmd represents the edit command
var editCmd = &cobra.Command{
	Use:   "edit <conversation-id>",
	Short: "Resume an existing report conversation",
	Long: `Resume a report conversation from the dashboard list.

The full conversation history is fetched from the backend, staged as a
hand-off payload and replayed into a chat session, so follow-up messages
continue the same conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID := args[0]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := internal.NewClient(cfg)

		ctx := context.Background()
		messages, err := client.ListAllMessages(ctx, conversationID)
		if err != nil {
			return fmt.Errorf("failed to fetch conversation history: %w", err)
		}

		db, err := internal.OpenStateDB(cfg.StatePath())
		if err != nil {
			return fmt.Errorf("failed to open state database: %w", err)
		}
		payload := &internal.HandoffPayload{
			ConversationID: conversationID,
			Messages:       messages,
		}
		if err := db.WriteHandoff(payload); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to stage hand-off payload: %w", err)
		}
		// The chat loop reopens the database and consumes the payload
		if err := db.Close(); err != nil {
			internal.LogWarn("Failed to close state database: %v", err)
		}

		internal.LogInfo("Staged %d message(s) from conversation %s", len(messages), conversationID)
		return runChat("")
	},
}

func init() {
	rootCmd.AddCommand(editCmd)
}
