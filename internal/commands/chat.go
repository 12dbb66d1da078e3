package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caixa-dev/caixa/internal/assistant"
)

const photoCommand = "/foto"

func newChatCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Talk to the assistant on stdin; a blank line sends the message",
		Long: `Talk to the assistant the way a chat user would.

Type one or more lines and finish the message with a blank line. A line
"/foto <path>" sends a receipt image. /sair or end of input quits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := a.ocrEngine()
			if err != nil {
				return err
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			asst := a.newAssistant(st, engine)
			return runChat(cmd.Context(), asst, cmd.InOrStdin(), cmd.OutOrStdout(), a.userID(), a.username())
		},
	}
}

func runChat(ctx context.Context, asst *assistant.Assistant, in io.Reader, out io.Writer, userID int64, username string) error {
	send := func(c assistant.Content) {
		// Errors are logged by the assistant and the reply already explains them.
		reply, _ := asst.Handle(ctx, assistant.Message{UserID: userID, Username: username, Content: c})
		fmt.Fprintln(out, reply.Text)
		if len(reply.Options) > 0 {
			fmt.Fprintf(out, "[%s]\n", strings.Join(reply.Options, "] ["))
		}
		fmt.Fprintln(out)
	}

	var pending []string
	flush := func() {
		if len(pending) > 0 {
			send(assistant.Text(strings.Join(pending, "\n")))
			pending = pending[:0]
		}
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
			flush()
		case line == "/sair":
			flush()
			return nil
		case line == photoCommand || strings.HasPrefix(line, photoCommand+" "):
			flush()
			path := strings.TrimSpace(strings.TrimPrefix(line, photoCommand))
			if path == "" {
				fmt.Fprintf(out, "Uso: %s <caminho da imagem>\n\n", photoCommand)
				continue
			}
			send(assistant.Image(path))
		default:
			pending = append(pending, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}
	flush()
	return nil
}
