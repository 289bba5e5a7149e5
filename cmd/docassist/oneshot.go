package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/liliang-cn/docassist/internal/client"
	"github.com/liliang-cn/docassist/internal/tui"
	"github.com/liliang-cn/docassist/internal/widget"
)

var errCommandFailed = errors.New("command failed")

func newAskCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask one question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := tui.NewScreen()
			screen.Input.SetValue(strings.Join(args, " "))

			if err := a.dispatch(cmd.Context(), screen, widget.SubmitQuestion{}); err != nil {
				return err
			}

			msgs := screen.Log.Messages()
			if len(msgs) == 0 {
				return fmt.Errorf("%w: empty question", errCommandFailed)
			}
			last := msgs[len(msgs)-1]
			fmt.Fprintln(cmd.OutOrStdout(), tui.TerminalText(last.Text))
			if last.Kind != widget.KindAssistant {
				return errCommandFailed
			}
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print how many documentation sections are available",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := tui.NewScreen()
			if err := a.dispatch(cmd.Context(), screen, widget.Initialize{}); err != nil {
				return err
			}

			text := screen.Stats.Text()
			fmt.Fprintln(cmd.OutOrStdout(), tui.TerminalText(text))
			if text == widget.StatsErrorText || text == widget.StatsNetworkText {
				return errCommandFailed
			}
			return nil
		},
	}
}

func newReloadCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Make the backend relearn the documentation folder",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			screen := tui.NewScreen()
			if err := a.dispatch(cmd.Context(), screen, widget.ReloadDocuments{}); err != nil {
				return err
			}

			msgs := screen.Log.Messages()
			printLog(cmd.OutOrStdout(), msgs)
			if last := msgs[len(msgs)-1].Text; last == widget.ReloadFailedText || last == widget.ConnectionErrText {
				return errCommandFailed
			}
			return nil
		},
	}
}

// dispatch runs one widget command against the configured backend
func (a *app) dispatch(ctx context.Context, screen *tui.Screen, cmd widget.Command) error {
	logger, err := newFileLogger(a.cfg.Log, a.cfg.Client.LogFile)
	if err != nil {
		return err
	}
	defer logger.Sync()

	backend := client.New(a.cfg.Client.BaseURL, a.cfg.Client.Timeout)
	widget.New(screen.Ports(), backend, widget.WithLogger(logger)).Dispatch(ctx, cmd)
	return nil
}

func printLog(w io.Writer, msgs []widget.Message) {
	for _, m := range msgs {
		fmt.Fprintln(w, tui.TerminalText(m.Text))
	}
}
