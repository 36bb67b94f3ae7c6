package cmd

import (
	"context"
	"fmt"

	"github.com/powperpay/reportctl/internal"
	"github.com/spf13/cobra"
)

var (
	nameDescription string
)

// nameCmd represents the name command
var nameCmd = &cobra.Command{
	Use:   "name <conversation-id> <report-name>",
	Short: "Assign a name to a report",
	Long: `Assign a display name to a report's conversation on the backend.

Named reports appear in 'reportctl list'. Renaming an already named
conversation replaces the previous name.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		conversationID := args[0]
		reportName := args[1]

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := internal.NewClient(cfg)

		ctx := context.Background()
		if err := client.SaveMapping(ctx, conversationID, reportName, nameDescription); err != nil {
			return fmt.Errorf("failed to save report name: %w", err)
		}
		internal.PrintSuccess(fmt.Sprintf("Report named %q", reportName))

		// Show the refreshed list so the new entry is visible right away
		displayMappings(fetchMappings(client))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(nameCmd)
	nameCmd.Flags().StringVarP(&nameDescription, "description", "d", "", "Optional description stored with the name")
}
