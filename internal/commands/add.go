package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/caixa-dev/caixa/internal/assistant"
)

func newAddCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "add [line...]",
		Short: "Record value;date;description entries (read from stdin when no args)",
		Example: `  caixa add -- "-45,90;ontem;mercado" "1200;05/06;salario"
  printf '100;hoje;freela\n' | caixa add`,
		RunE: func(cmd *cobra.Command, args []string) error {
			message := strings.Join(args, "\n")
			if len(args) == 0 {
				data, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("reading stdin: %w", err)
				}
				message = string(data)
			}
			if strings.TrimSpace(message) == "" {
				return errors.New("no entries given")
			}

			st, err := a.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			reply, err := a.newAssistant(st, nil).Handle(cmd.Context(), assistant.Message{
				UserID:   a.userID(),
				Username: a.username(),
				Content:  assistant.Text(message),
			})
			fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
			return err
		},
	}
}
