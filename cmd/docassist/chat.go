package main

import (
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/liliang-cn/docassist/internal/client"
	"github.com/liliang-cn/docassist/internal/tui"
)

func newChatCmd(a *app) *cobra.Command {
	var (
		transcript string
		markdown   bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Open the terminal chat widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newFileLogger(a.cfg.Log, a.cfg.Client.LogFile)
			if err != nil {
				return err
			}
			defer logger.Sync()

			backend := client.New(a.cfg.Client.BaseURL, a.cfg.Client.Timeout)
			model := tui.New(backend, tui.Options{
				Markdown: markdown || a.cfg.Client.Markdown,
				Logger:   logger,
			})
			defer model.Close()

			p := tea.NewProgram(model,
				tea.WithAltScreen(),
				tea.WithMouseCellMotion(),
				tea.WithContext(cmd.Context()),
			)
			if _, err := p.Run(); err != nil {
				// A signal ends the session like esc does
				if !errors.Is(err, tea.ErrProgramKilled) || cmd.Context().Err() == nil {
					return fmt.Errorf("failed to run chat: %w", err)
				}
			}

			if transcript != "" {
				return writeTranscript(model.Screen(), transcript)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&transcript, "transcript", "", "Write the conversation as HTML to this file on exit")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Render answers as markdown")

	return cmd
}

func writeTranscript(screen *tui.Screen, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create transcript: %w", err)
	}
	if err := screen.WriteTranscript(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
