package cmd

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/powperpay/reportctl/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles for rendered reports
	reportHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212")).
				Padding(0, 1).
				MarginBottom(1)

	reportMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			MarginBottom(1)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62"))

	subheadingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135"))

	tableHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("212"))

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show [report-id]",
	Short: "Render a generated report",
	Long: `Render a report from local state in the terminal.

Without an argument the current report is shown. Table previews are
capped; export the report for the full result set.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		db, err := internal.OpenStateDB(cfg.StatePath())
		if err != nil {
			return fmt.Errorf("failed to open state database: %w", err)
		}
		defer func() {
			if err := db.Close(); err != nil {
				internal.LogWarn("Failed to close state database: %v", err)
			}
		}()

		store := internal.NewReportStore(internal.NewClient(cfg))
		state, err := db.LoadStoreState()
		if err != nil {
			internal.LogWarn("Failed to load saved state: %v", err)
		} else if state != nil {
			store.Restore(state)
		}

		report := store.Current()
		if len(args) == 1 {
			report = store.FindByID(args[0])
			if report == nil {
				return fmt.Errorf("report not found: %s (use 'reportctl chat' to generate one)", args[0])
			}
		}

		displayReport(report)
		return nil
	},
}

// displayReport renders a report header, its parsed content blocks and
// the capped table preview. A nil report renders a placeholder notice.
func displayReport(report *internal.Report) {
	if report == nil {
		internal.PrintWarning("No report data available. Generate a report to see the preview here.")
		return
	}

	fmt.Println(reportHeaderStyle.Render(fmt.Sprintf("📊 %s", report.Title)))

	var metaParts []string
	if report.Type != "" {
		metaParts = append(metaParts, fmt.Sprintf("Type: %s", report.Type))
	}
	metaParts = append(metaParts, fmt.Sprintf("Status: %s", report.Status))
	if !report.CreatedAt.IsZero() {
		metaParts = append(metaParts, fmt.Sprintf("Created: %s", report.CreatedAt.Format("2006-01-02 15:04")))
	}
	fmt.Println(reportMetaStyle.Render(strings.Join(metaParts, " • ")))
	fmt.Println()

	for _, block := range internal.ParseContent(report.Content) {
		displayBlock(block)
	}

	if report.Table != nil {
		fmt.Println()
		displayTablePreview(report.Table)
	}
}

func displayBlock(block internal.Block) {
	switch block.Kind {
	case internal.BlockHeading1:
		fmt.Println(headingStyle.Render(block.Text))
	case internal.BlockHeading2:
		fmt.Println(subheadingStyle.Render(block.Text))
	case internal.BlockBullet:
		fmt.Println("  • " + block.Text)
	case internal.BlockNumbered:
		fmt.Println("  " + block.Text)
	case internal.BlockBreak:
		fmt.Println()
	case internal.BlockTable:
		displayTableBlock(block.Table)
	default:
		fmt.Println(wrapText(block.Text, 80))
	}
}

// displayTablePreview renders the capped preview of a result set
func displayTablePreview(data *internal.TabularData) {
	preview, notice := internal.TabularPreview(data)
	if preview == nil {
		return
	}
	displayTableBlock(preview)
	if notice != "" {
		fmt.Println(noticeStyle.Render(notice))
	}
}

func displayTableBlock(table *internal.TableBlock) {
	if table == nil {
		return
	}

	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', 0)

	headers := make([]string, len(table.Header))
	for i, h := range table.Header {
		headers[i] = tableHeaderStyle.Render(h)
	}
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 80))

	for _, row := range table.Rows {
		_, _ = fmt.Fprintln(w, strings.Join(row, "\t")+"\t")
	}

	_ = w.Flush()
}

func init() {
	rootCmd.AddCommand(showCmd)
}
