package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/emostate/internal/app"
	"github.com/danielpatrickdp/emostate/internal/orchestrator"
)

// #region chat-cmd
func newChatCmd(c *cli) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Interactive conversation loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				sessionID = uuid.NewString()
			}
			return c.chat(cmd, sessionID)
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "resume an existing session id")
	return cmd
}

// #endregion chat-cmd

// #region chat-loop
func (c *cli) chat(cmd *cobra.Command, sessionID string) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := app.Build(ctx, c.cfg, c.logger, nil)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.Close(closeCtx)
	}()
	a.Start()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "emostate chat ready.")
	fmt.Fprintf(out, "  Session: %s | Generation: %s | Persistence: %s\n",
		sessionID, c.cfg.GenerationProvider, c.cfg.PersistenceDriver)
	fmt.Fprintln(out, "Type a message ('/summary' for the session report, 'quit' to exit):")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	turnNum := 0

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}
		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if prompt == "quit" || prompt == "exit" {
			break
		}
		if prompt == "/summary" {
			printSummary(ctx, cmd, a.Orchestrator, sessionID)
			continue
		}

		turnNum++
		turnCtx, cancel := context.WithTimeout(ctx, 2*c.cfg.GenerationTimeout)
		resp := a.Orchestrator.ProcessTurn(turnCtx, orchestrator.TurnRequest{
			UserMessage: prompt,
			SessionID:   sessionID,
		})
		cancel()

		if !resp.Success {
			fmt.Fprintf(out, "\n%s\n[turn-%d] error=%s\n", resp.FallbackResponse, turnNum, resp.Error)
			continue
		}
		fmt.Fprintf(out, "\n%s\n\n", resp.Response)
		fmt.Fprintf(out, "[turn-%d] state=%d %s intensity=%s\n",
			turnNum, resp.DetectedState.ID, resp.DetectedState.Name, resp.ContextAnalysis.Intensity)
	}
	return scanner.Err()
}

func printSummary(ctx context.Context, cmd *cobra.Command, o *orchestrator.Orchestrator, sessionID string) {
	rep, err := o.SessionSummary(ctx, sessionID)
	if err != nil {
		fmt.Fprintf(cmd.OutOrStdout(), "no summary: %v\n", err)
		return
	}
	raw, _ := json.MarshalIndent(rep, "", "  ")
	fmt.Fprintf(cmd.OutOrStdout(), "%s\nsince %s\n", raw, rep.FirstInteraction.Format(time.RFC3339))
}

// #endregion chat-loop
