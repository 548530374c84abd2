package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/fwojciec/campus"
	"github.com/fwojciec/campus/goldmark"
	"github.com/mattn/go-runewidth"
	"github.com/urfave/cli/v3"
)

func (a *app) feedCommand() *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "list community posts",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "page", Value: campus.DefaultPageNum, Usage: "page number, starting at 1"},
			&cli.IntFlag{Name: "size", Usage: "posts per page (default: page_size from config)"},
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "only posts matching `KEYWORD`"},
		},
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			q := campus.PageQuery{
				PageNum:  int(cmd.Int("page")),
				PageSize: int(cmd.Int("size")),
				Keyword:  strings.TrimSpace(cmd.String("search")),
			}
			if q.PageSize == 0 {
				q.PageSize = a.cfg.PageSize
			}

			var page campus.PostPage
			var err error
			if q.Keyword != "" {
				page, err = a.client.Search(ctx, q)
			} else {
				page, err = a.client.Page(ctx, q)
			}
			if err != nil {
				return err
			}
			if len(page.List) == 0 {
				fmt.Fprintln(a.stdout, "No posts.")
				return nil
			}

			t := table.New().
				Border(lipgloss.HiddenBorder()).
				Headers("ID", "TITLE", "AUTHOR", "LIKES", "POSTED")
			for _, p := range page.List {
				t.Row(p.ID, runewidth.Truncate(campus.Sanitize(p.Title), titleWidth, "…"), campus.Sanitize(p.Name), strconv.Itoa(p.Likes), postedAt(p))
			}
			fmt.Fprintln(a.stdout, t.Render())

			pages := (page.Total + q.PageSize - 1) / q.PageSize
			fmt.Fprintf(a.stdout, "page %d of %d, %d posts\n", q.PageNum, max(pages, 1), page.Total)
			return nil
		}),
	}
}

func (a *app) postCommand() *cli.Command {
	return &cli.Command{
		Name:      "post",
		Usage:     "show a community post",
		ArgsUsage: "ID",
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("post: an ID is required: %w", campus.ErrValidation)
			}
			p, err := a.client.Post(ctx, id)
			if err != nil {
				return err
			}

			theme := campus.DefaultTheme()
			heading := lipgloss.NewStyle().Bold(true)
			fmt.Fprintln(a.stdout, heading.Render(campus.Sanitize(p.Title)))
			fmt.Fprintf(a.stdout, "%s · %s\n\n", campus.Sanitize(p.Name), postedAt(p))
			fmt.Fprintln(a.stdout, goldmark.Render(p.Content, goldmark.DefaultWidth, theme))
			for _, u := range p.Photos {
				fmt.Fprintln(a.stdout, "image: "+campus.Sanitize(u))
			}
			for _, u := range p.Videos {
				fmt.Fprintln(a.stdout, "video: "+campus.Sanitize(u))
			}
			for _, u := range p.Links {
				fmt.Fprintln(a.stdout, "link:  "+campus.Sanitize(u))
			}
			fmt.Fprintf(a.stdout, "\n%d likes%s · %d comments · %d bookmarks%s\n",
				p.Likes, mark(p.IsLiked), p.Comments, p.Collection, mark(p.IsCollected))
			return nil
		}),
	}
}

func (a *app) publishCommand() *cli.Command {
	return &cli.Command{
		Name:  "publish",
		Usage: "publish a community post",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Required: true},
			&cli.StringFlag{Name: "content", Required: true, Usage: "post body, markdown allowed"},
			&cli.StringSliceFlag{Name: "image", Aliases: []string{"i"}, Usage: "image file or glob such as 'shots/**/*.png' (repeatable)"},
			&cli.StringSliceFlag{Name: "link", Usage: "link to attach (repeatable)"},
		},
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			ctx, id, err := a.identity(ctx)
			if err != nil {
				return err
			}
			draft := campus.PostDraft{
				Name:    id.Username,
				Title:   cmd.String("title"),
				Content: cmd.String("content"),
				Links:   cmd.StringSlice("link"),
			}
			if err := draft.Validate(); err != nil {
				return err
			}

			files, err := readImages(cmd.StringSlice("image"))
			if err != nil {
				return err
			}
			if len(files) > 0 {
				urls, err := a.client.UploadImages(ctx, files)
				if err != nil {
					return fmt.Errorf("upload images: %w", err)
				}
				draft.Photos = urls
				a.log.Debug().Int("count", len(urls)).Msg("images uploaded")
			}

			if err := a.client.AddPost(ctx, draft); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Published %q", draft.Title)
			if n := len(draft.Photos); n > 0 {
				fmt.Fprintf(a.stdout, " with %d image(s)", n)
			}
			fmt.Fprintln(a.stdout, ".")
			return nil
		}),
	}
}

// toggleCommand builds the like and collect commands, which differ only in
// the flag they set.
func (a *app) toggleCommand(name, usage string, set func(campus.CommunityService, context.Context, string, bool) error) *cli.Command {
	return &cli.Command{
		Name:      name,
		Usage:     usage,
		ArgsUsage: "ID",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "undo", Usage: "clear instead of set"},
		},
		Action: a.action(func(ctx context.Context, cmd *cli.Command) error {
			id := cmd.Args().First()
			if id == "" {
				return fmt.Errorf("%s: an ID is required: %w", name, campus.ErrValidation)
			}
			on := !cmd.Bool("undo")
			if err := set(a.client, ctx, id, on); err != nil {
				return loginHint(err)
			}
			verb := "Done"
			if !on {
				verb = "Undone"
			}
			fmt.Fprintf(a.stdout, "%s: %s %s.\n", verb, name, id)
			return nil
		}),
	}
}

// readImages expands each pattern with doublestar and reads the matches in
// order, skipping duplicates. Every pattern must match at least one file.
func readImages(patterns []string) ([]campus.Upload, error) {
	var uploads []campus.Upload
	seen := make(map[string]bool)
	for _, pattern := range patterns {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("image %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("image %q matched no files: %w", pattern, campus.ErrValidation)
		}
		for _, path := range matches {
			if seen[path] {
				continue
			}
			seen[path] = true
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("image: %w", err)
			}
			u := campus.Upload{Name: filepath.Base(path), Data: data}
			if err := u.Validate(); err != nil {
				return nil, err
			}
			uploads = append(uploads, u)
		}
	}
	if len(uploads) > campus.MaxPostImages {
		return nil, fmt.Errorf("%d images given, at most %d allowed: %w", len(uploads), campus.MaxPostImages, campus.ErrValidation)
	}
	return uploads, nil
}

func postedAt(p campus.Post) string {
	if p.Time.IsZero() {
		return "-"
	}
	return p.Time.Format("2006-01-02 15:04")
}

func mark(on bool) string {
	if on {
		return " (you)"
	}
	return ""
}
