package cmd

import (
	"bufio"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	contractx "github.com/tanpawarit/student-assistant/assistant/contract"
	renderx "github.com/tanpawarit/student-assistant/assistant/render"
	storex "github.com/tanpawarit/student-assistant/assistant/store"
	viewx "github.com/tanpawarit/student-assistant/assistant/view"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat with the assistant; type exit to quit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := newBackend(cmd.Context())
			if err != nil {
				return err
			}

			st := storex.New()
			st.SetActiveTool(contractx.ToolChat)
			r := renderx.New(cmd.OutOrStdout(), !noColor)
			if err := r.Transcript(st.Snapshot().Messages); err != nil {
				return err
			}

			// Print each message once, as soon as the store has it.
			var mu sync.Mutex
			printed := len(st.Snapshot().Messages)
			unsubscribe := st.Subscribe(func(s storex.State) {
				mu.Lock()
				defer mu.Unlock()
				for ; printed < len(s.Messages); printed++ {
					_ = r.Message(s.Messages[printed])
				}
			})
			defer unsubscribe()

			v := viewx.NewChatView(backend, st)
			scanner := bufio.NewScanner(cmd.InOrStdin())
			for {
				fmt.Fprint(cmd.OutOrStdout(), "> ")
				if !scanner.Scan() {
					fmt.Fprintln(cmd.OutOrStdout())
					return scanner.Err()
				}
				line := scanner.Text()
				switch strings.ToLower(strings.TrimSpace(line)) {
				case "exit", "quit":
					return nil
				}
				v.Send(cmd.Context(), line)
			}
		},
	}
	clientFlags(cmd)
	return cmd
}
