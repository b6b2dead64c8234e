package main

import (
	"encoding/json"
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/emostate/internal/classifier"
	"github.com/danielpatrickdp/emostate/internal/states"
)

type classifyOutput struct {
	State    states.Meta         `json:"state"`
	Result   classifier.Result   `json:"result"`
	Analysis classifier.Analysis `json:"analysis"`
}

func newClassifyCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <message>",
		Short: "Classify a message and explain the decision",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			clf, err := c.classifier()
			if err != nil {
				return err
			}
			msg := strings.Join(args, " ")
			res := clf.Explain(msg)

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(classifyOutput{
				State:    states.Describe(res.State),
				Result:   res,
				Analysis: classifier.Analyze(msg),
			})
		},
	}
}

func (c *cli) classifier() (*classifier.Classifier, error) {
	if c.cfg.LexiconFile == "" {
		return classifier.Default(), nil
	}
	lex, err := states.LoadFile(c.cfg.LexiconFile)
	if err != nil {
		return nil, err
	}
	return classifier.New(lex)
}
