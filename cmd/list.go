package cmd

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/powperpay/reportctl/internal"
	"github.com/spf13/cobra"
)

var (
	listSearch string
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List named reports",
	Long: `List the named reports saved on the backend.

Each entry maps a conversation to a user-assigned report name. Use
--search to filter by name or default title.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		client := internal.NewClient(cfg)

		mappings := fetchMappings(client)
		mappings = internal.FilterMappings(mappings, listSearch)
		displayMappings(mappings)
		return nil
	},
}

// fetchMappings loads the named reports, degrading to an empty list when
// the backend is unreachable.
func fetchMappings(client *internal.Client) []internal.ReportMapping {
	mappings, err := client.ListMappings(context.Background())
	if err != nil {
		internal.LogWarn("Failed to fetch report list: %v", err)
		return nil
	}
	return mappings
}

func displayMappings(mappings []internal.ReportMapping) {
	if len(mappings) == 0 {
		fmt.Println(headerStyle.Render("📋 No reports found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 Found %d report(s)", len(mappings)))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns with better spacing
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)

	_, _ = fmt.Fprintln(w, titleStyle.Render("Name")+"\t"+titleStyle.Render("Default Title")+"\t"+titleStyle.Render("Created")+"\t"+titleStyle.Render("Conversation")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, m := range mappings {
		name := m.ReportName
		if name == "" {
			name = "Untitled"
		}
		if len(name) > 50 {
			name = name[:47] + "..."
		}

		defaultTitle := m.DefaultTitle
		if len(defaultTitle) > 40 {
			defaultTitle = defaultTitle[:37] + "..."
		}

		created := dateStyle.Render("—")
		if m.CreatedAt != "" {
			if t, err := time.Parse(time.RFC3339, m.CreatedAt); err == nil {
				created = dateStyle.Render(t.Format("2006-01-02 15:04"))
			} else {
				created = dateStyle.Render(m.CreatedAt)
			}
		}

		// Short ID for readability; the full ID works with `reportctl edit`
		shortID := m.ConversationID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", nameStyle.Render(name), defaultTitle, created, idStyle.Render(shortID))
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use the full conversation ID (e.g., ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Render(mappings[0].ConversationID) +
		idStyle.Render(") with `reportctl edit <id>`"))
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVarP(&listSearch, "search", "s", "", "Filter reports by name or default title")
}
