package main

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fwojciec/campus"
	bt "github.com/fwojciec/campus/bubbletea"
	"github.com/fwojciec/campus/goldmark"
	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v3"
)

// titleWidth is the column budget for session and post titles in listings.
const titleWidth = 40

func modeFlag() cli.Flag {
	return &cli.BoolFlag{Name: "think", Aliases: []string{"t"}, Usage: "use deep-thinking mode"}
}

func sessionFlag() cli.Flag {
	return &cli.Int64Flag{Name: "session", Aliases: []string{"s"}, Usage: "continue session `ID` instead of starting a new one"}
}

// mode resolves the reasoning mode from --think and the configured default.
func (a *app) mode(cmd *cli.Command) campus.Mode {
	if cmd.Bool("think") {
		return campus.ModeDeepThinking
	}
	return a.cfg.ChatMode()
}

func (a *app) askCommand() *cli.Command {
	return &cli.Command{
		Name:      "ask",
		Usage:     "ask one question and print the reply",
		ArgsUsage: "QUESTION",
		Flags: []cli.Flag{
			modeFlag(),
			sessionFlag(),
			&cli.BoolFlag{Name: "sync", Usage: "wait for the complete reply instead of streaming"},
		},
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			text := textArg(cmd)
			if text == "" {
				return fmt.Errorf("ask: a question is required: %w", campus.ErrValidation)
			}
			ctx, _, err := a.identity(ctx)
			if err != nil {
				return err
			}
			req := campus.AskRequest{SessionID: cmd.Int64("session"), Mode: a.mode(cmd), Text: text}

			var res campus.AskResult
			if cmd.Bool("sync") {
				res, err = a.assistant.AskSync(ctx, req)
				if err == nil {
					fmt.Fprint(a.stdout, campus.Sanitize(res.Reply))
				}
			} else {
				w := &replyWriter{out: a.stdout}
				res, err = a.assistant.Ask(ctx, req, campus.StreamHandler{OnContent: w.update})
			}
			fmt.Fprintln(a.stdout)
			if res.NewSession {
				fmt.Fprintf(a.stderr, "session %d\n", res.SessionID)
			}
			return err
		}),
	}
}

// replyWriter prints the part of each accumulated reply not yet written.
// Text is sanitized before it is compared with what was written.
type replyWriter struct {
	out     io.Writer
	written string
}

func (w *replyWriter) update(text string) {
	text = campus.Sanitize(text)
	if strings.HasPrefix(text, w.written) {
		fmt.Fprint(w.out, text[len(w.written):])
	} else {
		fmt.Fprint(w.out, "\n"+text)
	}
	w.written = text
}

func (a *app) chatCommand() *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "open the interactive chat",
		Flags: []cli.Flag{modeFlag(), sessionFlag()},
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			ctx, id, err := a.identity(ctx)
			if err != nil {
				return err
			}
			opts := []bt.Option{bt.WithMode(a.mode(cmd))}
			if sid := cmd.Int64("session"); sid != 0 {
				history, err := a.client.Messages(ctx, sid)
				if err != nil {
					return fmt.Errorf("load session %d: %w", sid, err)
				}
				opts = append(opts, bt.WithSession(sid, history))
			}

			ask := func(turnCtx context.Context, req campus.AskRequest, h campus.StreamHandler) (campus.AskResult, error) {
				return a.assistant.Ask(campus.NewContextWithIdentity(turnCtx, id), req, h)
			}
			if err := bt.Run(ctx, bt.New(ask, campus.DefaultTheme(), opts...)); err != nil {
				return fmt.Errorf("TUI: %w", err)
			}
			return nil
		}),
	}
}

func (a *app) sessionsCommand() *cli.Command {
	return &cli.Command{
		Name:  "sessions",
		Usage: "list chat sessions by date",
		Action: a.action(func(ctx context.Context, _ *cli.Command) error {
			sessions, err := a.client.Sessions(ctx)
			if err != nil {
				return loginHint(err)
			}
			groups := campus.GroupSessions(sessions, a.now())
			if len(groups) == 0 {
				fmt.Fprintln(a.stdout, "No recent sessions.")
				return nil
			}
			for i, g := range groups {
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				fmt.Fprintln(a.stdout, g.Range.String())
				t := table.New().Border(lipgloss.HiddenBorder())
				for _, s := range g.Sessions {
					t.Row(strconv.FormatInt(s.ID, 10), runewidth.Truncate(campus.Sanitize(s.Title), titleWidth, "…"), s.CreatedAt.Format("Jan 2 15:04"))
				}
				fmt.Fprintln(a.stdout, t.Render())
			}
			return nil
		}),
		Commands: []*cli.Command{{
			Name:      "rm",
			Usage:     "delete a session",
			ArgsUsage: "ID",
			Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
				id, err := idArg(cmd)
				if err != nil {
					return err
				}
				if err := a.client.DeleteSession(ctx, id); err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "Deleted session %d.\n", id)
				return nil
			}),
		}},
	}
}

func (a *app) historyCommand() *cli.Command {
	return &cli.Command{
		Name:      "history",
		Usage:     "print the messages of a session",
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "raw", Usage: "print replies as markdown source"},
		},
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			id, err := idArg(cmd)
			if err != nil {
				return err
			}
			msgs, err := a.client.Messages(ctx, id)
			if err != nil {
				return loginHint(err)
			}
			styles := bt.NewStyles(campus.DefaultTheme())
			for i, m := range msgs {
				if i > 0 {
					fmt.Fprintln(a.stdout)
				}
				switch m.Role {
				case campus.RoleUser:
					fmt.Fprintln(a.stdout, styles.UserMsg.Render("> ")+campus.Sanitize(m.Content))
				default:
					body := campus.Sanitize(m.Content)
					if !cmd.Bool("raw") {
						body = goldmark.Render(body, goldmark.DefaultWidth, campus.DefaultTheme())
					}
					fmt.Fprintln(a.stdout, body)
				}
			}
			return nil
		}),
	}
}

func idArg(cmd *cli.Command) (int64, error) {
	arg := cmd.Args().First()
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: a positive numeric ID is required, got %q: %w", cmd.Name, arg, campus.ErrValidation)
	}
	return id, nil
}
