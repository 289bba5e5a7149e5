package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/liliang-cn/docassist/internal/config"
)

var version = "dev"

// app carries state shared by every subcommand
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "docassist",
		Short: "Documentation assistant",
		Long: `docassist learns a folder of documentation (.md, .txt, .rst, .pdf)
and answers questions about it with a local LLM.

  docassist serve                 # start the backend
  docassist chat                  # open the terminal chat widget
  docassist ask "Qu'est-ce que X ?"
  docassist reload`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(a.configPath)
			if err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "Path to config file")

	root.AddCommand(
		newServeCmd(a),
		newChatCmd(a),
		newAskCmd(a),
		newStatsCmd(a),
		newReloadCmd(a),
		newConfigCmd(a),
	)

	return root
}

// newLogger builds the server logger from the log section
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// newFileLogger logs to path, or nowhere when path is empty.
// Terminal front ends use it so logs never corrupt the screen.
func newFileLogger(cfg config.LogConfig, path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	zcfg := zap.NewProductionConfig()
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log.level: %w", err)
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	zcfg.OutputPaths = []string{path}
	zcfg.ErrorOutputPaths = []string{path}
	return zcfg.Build()
}
