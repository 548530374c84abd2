package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fwojciec/campus"
	campushttp "github.com/fwojciec/campus/http"
	campusjson "github.com/fwojciec/campus/json"
	campuskeyring "github.com/fwojciec/campus/keyring"
	campuskoanf "github.com/fwojciec/campus/koanf"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

// app holds the services shared by every command. It is built lazily by
// setup once the global flags are parsed.
type app struct {
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time

	// keyringService names the keyring entries. Tests swap it to stay
	// isolated from the user's real credentials.
	keyringService string

	cfg       campus.Config
	log       zerolog.Logger
	store     campus.Store
	client    *campushttp.Client
	auth      *campus.Auth
	assistant *campus.Assistant
}

func newApp(stdout, stderr io.Writer) *cli.Command {
	a := &app{
		stdout:         stdout,
		stderr:         stderr,
		now:            time.Now,
		keyringService: campuskeyring.DefaultService,
	}
	return a.command()
}

func (a *app) command() *cli.Command {
	return &cli.Command{
		Name:      "campus",
		Usage:     "chat with the campus assistant and browse the community feed",
		Writer:    a.stdout,
		ErrWriter: a.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "base-url", Usage: "backend base URL"},
			&cli.StringFlag{Name: "config", Usage: "path to config.yaml (default: $XDG_CONFIG_HOME/campus/config.yaml)"},
			&cli.StringFlag{Name: "store", Usage: "credential store: file or keyring"},
			&cli.StringFlag{Name: "store-path", Usage: "credentials file for the file store"},
			&cli.StringFlag{Name: "log-level", Usage: "trace, debug, info, warn or error"},
		},
		Commands: []*cli.Command{
			a.loginCommand(),
			a.logoutCommand(),
			a.whoamiCommand(),
			a.askCommand(),
			a.chatCommand(),
			a.sessionsCommand(),
			a.historyCommand(),
			a.feedCommand(),
			a.postCommand(),
			a.publishCommand(),
			a.toggleCommand("like", "like a post", campus.CommunityService.Like),
			a.toggleCommand("collect", "bookmark a post", campus.CommunityService.Collect),
		},
	}
}

// action wraps fn so it runs after setup.
func (a *app) action(fn cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := a.setup(cmd.Root()); err != nil {
			return err
		}
		return fn(ctx, cmd)
	}
}

// setup resolves configuration and wires the services.
func (a *app) setup(root *cli.Command) error {
	cfg, err := campuskoanf.Load(root.String("config"))
	if err != nil {
		return err
	}
	cfg, err = applyFlags(cfg, root)
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log = zerolog.New(zerolog.ConsoleWriter{Out: a.stderr, TimeFormat: time.Kitchen}).
		Level(cfg.Level()).
		With().Timestamp().Logger()

	switch cfg.Store {
	case campus.StoreKeyring:
		a.store = campuskeyring.NewStore(a.keyringService)
	default:
		a.store = campusjson.NewStore(cfg.StorePath)
	}

	// The client reads the token through auth, which is built on the client.
	var tokens campus.TokenFunc = func() (string, error) { return a.auth.Token() }
	a.client = campushttp.New(
		campushttp.WithBaseURL(cfg.BaseURL),
		campushttp.WithTokenSource(tokens),
		campushttp.WithClock(a.now),
		campushttp.WithLogger(a.log.With().Str("component", "http").Logger()),
	)
	a.auth = campus.NewAuth(a.client, a.store)
	a.assistant = campus.NewAssistant(a.client, campus.WithAssistantLogger(a.log.With().Str("component", "assistant").Logger()))

	a.log.Debug().Str("base_url", cfg.BaseURL).Str("store", string(cfg.Store)).Msg("configured")
	return nil
}

// applyFlags overrides cfg with the global flags that were set.
func applyFlags(cfg campus.Config, root *cli.Command) (campus.Config, error) {
	if root.IsSet("base-url") {
		cfg.BaseURL = root.String("base-url")
	}
	if root.IsSet("store") {
		cfg.Store = campus.StoreKind(root.String("store"))
	}
	if root.IsSet("store-path") {
		cfg.StorePath = root.String("store-path")
	}
	if root.IsSet("log-level") {
		cfg.LogLevel = root.String("log-level")
	}
	if err := cfg.Validate(); err != nil {
		return campus.Config{}, err
	}
	return cfg, nil
}

// identity refreshes the profile and returns ctx carrying the caller's
// identity.
func (a *app) identity(ctx context.Context) (context.Context, campus.Identity, error) {
	_, id, err := a.auth.Refresh(ctx)
	if err != nil {
		return ctx, campus.Identity{}, loginHint(err)
	}
	return campus.NewContextWithIdentity(ctx, id), id, nil
}

// loginHint points the user at the login command when the stored token is
// missing or rejected.
func loginHint(err error) error {
	if errors.Is(err, campus.ErrNotLoggedIn) || errors.Is(err, campus.ErrUnauthorized) {
		return fmt.Errorf("%w (run \"campus login\")", err)
	}
	return err
}

// textArg joins the positional arguments into one string.
func textArg(cmd *cli.Command) string {
	return strings.TrimSpace(strings.Join(cmd.Args().Slice(), " "))
}
