package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/emostate/internal/persistence"
)

// #region inspect-cmd
func newInspectCmd(c *cli) *cobra.Command {
	var (
		dbPath    string
		sessionID string
		last      int
		jsonOut   bool
	)
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the stored turns of a session",
		RunE: func(cmd *cobra.Command, args []string) error {
			if sessionID == "" {
				return fmt.Errorf("--session is required")
			}
			if dbPath == "" {
				dbPath = c.cfg.SQLitePath
			}
			store, err := persistence.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer store.Close()

			recs, err := store.SessionHistory(context.Background(), sessionID, last)
			if err != nil {
				return err
			}
			return runListMode(cmd.OutOrStdout(), recs, jsonOut)
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (default: SQLITE_PATH)")
	cmd.Flags().StringVar(&sessionID, "session", "", "session id")
	cmd.Flags().IntVar(&last, "last", 20, "show N most recent turns")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output as JSON instead of table")
	return cmd
}

// #endregion inspect-cmd

// #region list-mode

type listRow struct {
	ID        string `json:"id"`
	StateID   int    `json:"state_id"`
	StateName string `json:"state_name"`
	Message   string `json:"user_message"`
	Response  string `json:"response"`
	CreatedAt string `json:"created_at"`
}

func runListMode(w io.Writer, recs []persistence.TurnRecord, jsonOut bool) error {
	if len(recs) == 0 {
		fmt.Fprintln(w, "no turns found")
		return nil
	}

	// store returns DESC, reverse for chronological
	rows := make([]listRow, 0, len(recs))
	for _, r := range slices.Backward(recs) {
		rows = append(rows, listRow{
			ID:        r.ID,
			StateID:   int(r.StateID),
			StateName: r.StateName,
			Message:   r.UserMessage,
			Response:  r.Response,
			CreatedAt: r.Timestamp.Format("2006-01-02T15:04:05Z"),
		})
	}

	if jsonOut {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return printListTable(w, rows)
}

func printListTable(w io.Writer, rows []listRow) error {
	fmt.Fprintf(w, "%-12s  %5s  %-26s  %-40s  %s\n", "Turn", "State", "Name", "Message", "Time")
	fmt.Fprintf(w, "%-12s+-%5s+-%-26s+-%-40s+-%s\n",
		"------------", "-----", "--------------------------", "----------------------------------------", "--------------------")
	for _, r := range rows {
		fmt.Fprintf(w, "%-12s  %5d  %-26s  %-40s  %s\n",
			shortID(r.ID), r.StateID, clip(r.StateName, 26), clip(r.Message, 40), r.CreatedAt)
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func clip(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// #endregion list-mode
