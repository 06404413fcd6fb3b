package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roboco-io/coachmd/internal/attachment"
	"github.com/roboco-io/coachmd/internal/coach"
	"github.com/roboco-io/coachmd/internal/parser"
	"github.com/roboco-io/coachmd/internal/render"
)

var (
	chatPlan     string
	chatCritique string
	chatContext  []string
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the career coach",
	Long: `Start an interactive coaching session. A saved plan and resume critique
give the coach context; other files can be added with --context.

Type a message and press enter. /exit or end of input ends the session,
/history prints the conversation so far.

Examples:
  coachmd chat --plan plan.md --critique critique.md
  coachmd chat --context notes.md --context job.txt`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().StringVar(&chatPlan, "plan", "", "saved career plan (markdown)")
	chatCmd.Flags().StringVar(&chatCritique, "critique", "", "saved resume critique (markdown)")
	chatCmd.Flags().StringArrayVar(&chatContext, "context", nil, "additional context file (repeatable)")
	addModelFlags(chatCmd)

	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	cc, err := loadChatContext(cmd, s)
	if err != nil {
		return err
	}
	chat := s.coach.NewChat(cc)
	debugf(cmd, "System instruction: %d bytes", len(chat.System()))

	if err := s.reply(cmd, coach.Welcome); err != nil {
		return err
	}
	return chatLoop(cmd, s, chat, cmd.InOrStdin())
}

func chatLoop(cmd *cobra.Command, s *session, chat *coach.Chat, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		if !quiet {
			fmt.Fprint(cmd.ErrOrStderr(), "\nyou> ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/exit", "/quit":
			return nil
		case "/history":
			for _, m := range chat.History() {
				fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s\n", m.Role, m.Text)
			}
			continue
		}

		ctx, cancel := s.context(cmd)
		reply, err := chat.Send(ctx, line)
		cancel()
		if err != nil {
			if cmd.Context() != nil && cmd.Context().Err() != nil {
				return cmd.Context().Err()
			}
			logf(cmd, "Sorry, I encountered an error. Please try again. (%v)", err)
			continue
		}
		if err := s.reply(cmd, reply); err != nil {
			return err
		}
	}
	return scanner.Err()
}

// reply prints one coach turn in the session's output mode.
func (s *session) reply(cmd *cobra.Command, text string) error {
	if outputRaw || outputJSON {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "coach> %s\n", text)
		return err
	}
	return render.Terminal(cmd.OutOrStdout(), parser.Parse(text), renderOptions(s.cfg))
}

// loadChatContext reads the plan, critique, and extra context files. PDFs
// are converted with the extractor when one is configured and skipped
// otherwise.
func loadChatContext(cmd *cobra.Command, s *session) (coach.ChatContext, error) {
	var cc coach.ChatContext
	var err error

	if cc.Plan, err = readContextFile(cmd, s, chatPlan); err != nil {
		return cc, err
	}
	if cc.Critique, err = readContextFile(cmd, s, chatCritique); err != nil {
		return cc, err
	}
	for _, path := range chatContext {
		text, err := readContextFile(cmd, s, path)
		if err != nil {
			return cc, err
		}
		cc.Extra = append(cc.Extra, text)
	}
	return cc, nil
}

func readContextFile(cmd *cobra.Command, s *session, path string) (string, error) {
	if path == "" {
		return "", nil
	}
	a, err := attachment.Load(path)
	if err != nil {
		return "", err
	}
	if a.Format.IsText() {
		return a.Text(), nil
	}

	if s.coach.Extractor == nil {
		logf(cmd, "Skipping %s: %s context needs an Upstage API key", a.Name, a.Format)
		return "", nil
	}
	ctx, cancel := s.context(cmd)
	defer cancel()
	text, err := s.coach.Extractor.Extract(ctx, a)
	if err != nil {
		return "", fmt.Errorf("failed to extract %s: %w", a.Name, err)
	}
	return text, nil
}
