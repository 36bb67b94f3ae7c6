package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/powperpay/reportctl/internal"
	"github.com/spf13/cobra"
)

var (
	// Styles for the chat transcript
	userMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39")).
				Bold(true).
				Padding(0, 1)

	assistantMessageStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("135")).
				Bold(true).
				Padding(0, 1)

	messageContentStyle = lipgloss.NewStyle().
				Padding(0, 2).
				MarginBottom(1)

	timestampStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// chatCmd represents the chat command
var chatCmd = &cobra.Command{
	Use:   "chat [prompt]",
	Short: "Chat with the report assistant",
	Long: `Start an interactive chat session with the report assistant.

Describe the report you want in plain language. The first message starts
a new backend conversation; follow-up messages refine the result within
the same conversation. Generated reports are kept locally and shown in
the preview after each turn.

Commands inside the session:
  /show    Render the current report
  /quit    Save state and exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(strings.Join(args, " "))
	},
}

// runChat drives the interactive session. It is shared with the edit
// command, which stages a hand-off payload before entering the loop.
func runChat(initialPrompt string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	client := internal.NewClient(cfg)

	db, err := internal.OpenStateDB(cfg.StatePath())
	if err != nil {
		return fmt.Errorf("failed to open state database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			internal.LogWarn("Failed to close state database: %v", err)
		}
	}()

	store := internal.NewReportStore(client)
	if state, err := db.LoadStoreState(); err != nil {
		internal.LogWarn("Failed to load saved state: %v", err)
	} else if state != nil {
		store.Restore(state)
	}

	ctx := context.Background()
	transcript := internal.NewTranscript(store)

	// A pending hand-off takes precedence over local state. It is
	// consumed here so a second run starts fresh.
	payload, err := db.ConsumeHandoff()
	if err != nil {
		internal.LogWarn("Failed to read hand-off payload: %v", err)
	}
	if payload != nil {
		if err := transcript.HydrateFromHandoff(ctx, payload); err != nil {
			internal.LogWarn("Failed to hydrate transcript: %v", err)
		}
	} else if current := store.Current(); current != nil && store.Session().Active() {
		if err := transcript.SynthesizeFromReport(current); err != nil {
			internal.LogWarn("Failed to rebuild transcript: %v", err)
		}
	}

	for _, msg := range transcript.Messages() {
		displayChatMessage(msg)
	}

	saveState(db, store)

	if strings.TrimSpace(initialPrompt) != "" {
		sendMessage(ctx, transcript, store, db, initialPrompt)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(promptStyle.Render("You>") + " ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		switch {
		case input == "":
			continue
		case input == "/quit" || input == "/exit":
			saveState(db, store)
			internal.PrintInfo("Session saved. Bye!")
			return nil
		case input == "/show":
			displayReport(store.Current())
			continue
		case strings.HasPrefix(input, "/"):
			internal.PrintWarning(fmt.Sprintf("Unknown command: %s (try /show or /quit)", input))
			continue
		}

		sendMessage(ctx, transcript, store, db, input)
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	saveState(db, store)
	return nil
}

// sendMessage runs one chat turn and displays the outcome
func sendMessage(ctx context.Context, transcript *internal.Transcript, store *internal.ReportStore, db *internal.StateDB, input string) {
	report, err := transcript.Send(ctx, input)
	if err != nil {
		internal.LogDebug("Report generation failed: %v", err)
	}

	messages := transcript.Messages()
	if len(messages) > 0 {
		displayChatMessage(messages[len(messages)-1])
	}

	if report != nil && report.Table != nil {
		displayTablePreview(report.Table)
	}

	saveState(db, store)
}

// saveState persists the report store, logging instead of failing
func saveState(db *internal.StateDB, store *internal.ReportStore) {
	if err := db.SaveStoreState(store.Snapshot()); err != nil {
		internal.LogWarn("Failed to save state: %v", err)
	}
}

func displayChatMessage(msg internal.ChatMessage) {
	var actorStyle lipgloss.Style
	var actorLabel string

	switch msg.Sender {
	case internal.SenderUser:
		actorStyle = userMessageStyle
		actorLabel = "👤 You"
	default:
		actorStyle = assistantMessageStyle
		actorLabel = "🤖 Assistant"
	}

	header := actorStyle.Render(actorLabel)
	if !msg.Timestamp.IsZero() {
		header += " " + timestampStyle.Render(msg.Timestamp.Format("15:04:05"))
	}
	fmt.Println(header)

	content := strings.TrimSpace(msg.Content)
	if content != "" {
		fmt.Println(messageContentStyle.Render(wrapText(content, 80)))
	} else {
		fmt.Println(messageContentStyle.Foreground(lipgloss.Color("240")).Render("(empty message)"))
	}
}

func wrapText(text string, width int) string {
	lines := strings.Split(text, "\n")
	var wrapped []string

	for _, line := range lines {
		if len(line) <= width {
			wrapped = append(wrapped, line)
			continue
		}

		words := strings.Fields(line)
		currentLine := ""
		for _, word := range words {
			if len(currentLine)+len(word)+1 > width {
				if currentLine != "" {
					wrapped = append(wrapped, currentLine)
					currentLine = word
				} else {
					wrapped = append(wrapped, word)
					currentLine = ""
				}
			} else {
				if currentLine == "" {
					currentLine = word
				} else {
					currentLine += " " + word
				}
			}
		}
		if currentLine != "" {
			wrapped = append(wrapped, currentLine)
		}
	}

	return strings.Join(wrapped, "\n")
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
