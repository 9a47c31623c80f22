package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atinyakov/savingsboard/internal/client"
)

// app bundles the dashboard with its terminal I/O.
type app struct {
	dash   *client.Dashboard
	prompt *client.Prompter
	render *client.Renderer
	out    io.Writer
}

func newApp(cmd *cobra.Command) *app {
	session := client.NewSession(sessionFile)
	if err := session.Load(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "session unreadable, starting fresh: %v\n", err)
	}
	out := cmd.OutOrStdout()
	return &app{
		dash:   client.NewDashboard(client.NewAPIClient(apiURL, nil), session, client.NewFeedback()),
		prompt: client.NewPrompter(cmd.InOrStdin(), out),
		render: client.NewRenderer(out),
		out:    out,
	}
}

// login prompts until the credentials are accepted or input ends.
func (a *app) login(ctx context.Context) error {
	for {
		user, pin, err := a.prompt.Login()
		if err != nil {
			return err
		}
		err = a.dash.Login(ctx, user, pin)
		a.render.Banners(a.dash.Feedback)
		if err == nil {
			return nil
		}
	}
}

// shell runs the board command loop.
func (a *app) shell(ctx context.Context) error {
	if a.dash.BoardCode != "" {
		_ = a.dash.Refresh(ctx)
	}
	a.render.Dashboard(a.dash)

	for {
		line, err := a.prompt.Line("board> ")
		if errors.Is(err, client.ErrInputClosed) {
			return nil
		}
		if err != nil {
			return err
		}
		args := strings.Fields(line)
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "help":
			a.render.Help()
			continue
		case "create":
			_ = a.dash.CreateBoard(ctx, strings.TrimSpace(strings.TrimPrefix(line, args[0])))
		case "join":
			if len(args) < 2 {
				fmt.Fprintln(a.out, "Usage: join <code>")
				continue
			}
			_ = a.dash.JoinBoard(ctx, args[1])
		case "refresh":
			_ = a.dash.Refresh(ctx)
		case "boards":
			if a.dash.ListBoards(ctx) == nil {
				a.render.Boards(a.dash.Boards)
			}
			a.render.Banners(a.dash.Feedback)
			continue
		case "add":
			form, err := a.prompt.Item(a.dash.Form)
			if err != nil {
				return nil
			}
			_ = a.dash.AddItem(ctx, form)
		case "analyze":
			if len(args) < 2 {
				fmt.Fprintln(a.out, "Usage: analyze <id>")
				continue
			}
			id, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				fmt.Fprintln(a.out, "Usage: analyze <id>")
				continue
			}
			fmt.Fprintln(a.out, "Analyzing...")
			_ = a.dash.Analyze(ctx, id)
		case "show":
		case "logout":
			if err := a.dash.Logout(); err != nil {
				return fmt.Errorf("clear session: %w", err)
			}
			fmt.Fprintln(a.out, "Logged out.")
			return nil
		case "exit":
			fmt.Fprintln(a.out, "Bye")
			return nil
		default:
			fmt.Fprintln(a.out, "Unknown command. Type 'help' for a list of commands.")
			continue
		}
		a.render.Dashboard(a.dash)
	}
}
