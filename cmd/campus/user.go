package main

import (
	"context"
	"fmt"

	"github.com/fwojciec/campus"
	"github.com/urfave/cli/v3"
)

func (a *app) loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "log in and store the session token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "username", Aliases: []string{"u"}, Required: true},
			&cli.StringFlag{Name: "password", Aliases: []string{"p"}, Sources: cli.EnvVars("CAMPUS_PASSWORD"), Usage: "password (or set CAMPUS_PASSWORD)"},
		},
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			res, err := a.auth.Login(ctx, campus.Credentials{
				Username: cmd.String("username"),
				Password: cmd.String("password"),
			})
			if err != nil {
				return err
			}
			info, _, err := a.auth.Refresh(ctx)
			if err != nil {
				// The token is stored; the profile can be fetched later.
				a.log.Warn().Err(err).Msg("fetch profile")
				fmt.Fprintln(a.stdout, nonEmpty(res.Message, "Logged in."))
				return nil
			}
			fmt.Fprintf(a.stdout, "Logged in as %s.\n", info.User.Username)
			return nil
		}),
	}
}

func (a *app) logoutCommand() *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "forget the stored session token",
		Action: a.action(func(_ context.Context, _ *cli.Command) error {
			if err := a.auth.Logout(); err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, "Logged out.")
			return nil
		}),
	}
}

func (a *app) whoamiCommand() *cli.Command {
	return &cli.Command{
		Name:  "whoami",
		Usage: "show the logged-in user",
		Action: a.action(func(ctx context.Context, _ *cli.Command) error {
			info, _, err := a.auth.Refresh(ctx)
			if err != nil {
				return loginHint(err)
			}
			u := info.User
			fmt.Fprintf(a.stdout, "%s (id %s)\n", u.Username, u.ID)
			if u.Degree != "" {
				fmt.Fprintf(a.stdout, "degree:    %s\n", u.Degree)
			}
			fmt.Fprintf(a.stdout, "posts:     %d\n", u.ArtCount)
			fmt.Fprintf(a.stdout, "following: %d\n", u.FollowCount)
			fmt.Fprintf(a.stdout, "followers: %d\n", u.FansCount)
			fmt.Fprintf(a.stdout, "likes:     %d\n", u.LikeCount)
			return nil
		}),
	}
}

func nonEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
