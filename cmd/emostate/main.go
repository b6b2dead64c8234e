package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/config"
	"github.com/danielpatrickdp/emostate/internal/logging"
)

// #region main
func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// #endregion main

// #region root

// cli carries what every subcommand shares.
type cli struct {
	cfg    *config.Config
	logger *zap.Logger

	envFile  string
	logLevel string
	lexicon  string
}

func newRootCmd() *cobra.Command {
	c := &cli{}
	root := &cobra.Command{
		Use:           "emostate",
		Short:         "Emotional-state classification and conversation service",
		Long:          "emostate classifies French messages into emotional states and answers them through a generation service.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.init()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logger != nil {
				_ = c.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	root.PersistentFlags().StringVar(&c.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&c.lexicon, "lexicon", "", "YAML lexicon file (overrides LEXICON_FILE)")

	root.AddCommand(
		newServeCmd(c),
		newClassifyCmd(c),
		newChatCmd(c),
		newStatesCmd(),
		newSeedCmd(c),
		newInspectCmd(c),
	)
	return root
}

func (c *cli) init() error {
	if c.envFile != "" {
		if err := godotenv.Load(c.envFile); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("load %s: %w", c.envFile, err)
		}
	}

	c.cfg = config.Load()
	if c.logLevel != "" {
		c.cfg.LogLevel = c.logLevel
	}
	if c.lexicon != "" {
		c.cfg.LexiconFile = c.lexicon
	}

	logger, err := logging.New(logging.Config{Env: c.cfg.Environment, Level: c.cfg.LogLevel})
	if err != nil {
		return err
	}
	c.logger = logger
	return nil
}

// #endregion root
