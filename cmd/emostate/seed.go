package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/danielpatrickdp/emostate/internal/persistence"
	"github.com/danielpatrickdp/emostate/internal/states"
)

// newSeedCmd fills the SQLite state_briefs table, from a YAML map of
// state id to description or from the built-in catalog.
func newSeedCmd(c *cli) *cobra.Command {
	var (
		dbPath string
		file   string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed state descriptions into the SQLite store",
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				dbPath = c.cfg.SQLitePath
			}
			briefs, err := loadBriefs(file)
			if err != nil {
				return err
			}

			store, err := persistence.NewSQLiteStore(dbPath)
			if err != nil {
				return fmt.Errorf("open store: %w", err)
			}
			defer store.Close()

			ids := make([]int, 0, len(briefs))
			for id := range briefs {
				ids = append(ids, int(id))
			}
			sort.Ints(ids)

			ctx := context.Background()
			for _, id := range ids {
				if err := store.PutStateBrief(ctx, states.StateID(id), briefs[states.StateID(id)]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d state briefs into %s\n", len(ids), dbPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite path (default: SQLITE_PATH)")
	cmd.Flags().StringVar(&file, "file", "", "YAML map of state id to description (default: built-in catalog)")
	return cmd
}

func loadBriefs(path string) (map[states.StateID]string, error) {
	if path == "" {
		out := make(map[states.StateID]string)
		for _, m := range states.All() {
			out[m.ID] = m.Description
		}
		return out, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read briefs: %w", err)
	}
	var raw map[int]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode briefs: %w", err)
	}
	out := make(map[states.StateID]string, len(raw))
	for id, brief := range raw {
		if !states.StateID(id).Valid() {
			return nil, fmt.Errorf("decode briefs: state %d out of range", id)
		}
		out[states.StateID(id)] = brief
	}
	return out, nil
}
