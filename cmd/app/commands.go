package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/starford/inkwell/internal"
	"github.com/starford/inkwell/internal/blog"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/output"
)

// postService loads the config and builds the engine with logs kept on
// stderr so tables stay clean.
func postService(cmd *cli.Command) (*blog.Service, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := internal.NewLogger(slog.LevelWarn, os.Stderr)
	svc, _, err := internal.NewPostService(cfg, logger)
	return svc, err
}

func summaryTable(w io.Writer, posts []models.PostSummary) error {
	tbl := output.NewTable(w, "slug", "date", "category", "tags", "reading time")
	for _, p := range posts {
		tbl.AddRow(p.Slug, p.Date, p.Category, strings.Join(p.Tags, ", "), p.ReadingTime)
	}
	return tbl.Render()
}

func postsCommand() *cli.Command {
	return &cli.Command{
		Name:  "posts",
		Usage: "List posts newest first",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "category", Usage: "Only posts in this category"},
			&cli.StringFlag{Name: "tag", Usage: "Only posts carrying this tag"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := postService(cmd)
			if err != nil {
				return err
			}
			var posts []models.PostSummary
			switch {
			case cmd.String("category") != "":
				posts, err = svc.ByCategory(ctx, cmd.String("category"))
			case cmd.String("tag") != "":
				posts, err = svc.ByTag(ctx, cmd.String("tag"))
			default:
				posts, err = svc.ListAll(ctx)
			}
			if err != nil {
				return err
			}
			return summaryTable(os.Stdout, posts)
		},
	}
}

func relatedCommand() *cli.Command {
	return &cli.Command{
		Name:      "related",
		Usage:     "Show posts related to a slug with their scores",
		ArgsUsage: "<slug>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Value: blog.DefaultRelatedLimit, Usage: "Maximum number of results"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			slug := cmd.Args().First()
			if slug == "" {
				return cli.Exit("related: slug argument is required", 2)
			}
			svc, err := postService(cmd)
			if err != nil {
				return err
			}
			scored, err := svc.RelatedScored(ctx, slug, int(cmd.Int("limit")))
			if err != nil {
				return err
			}
			tbl := output.NewTable(os.Stdout, "slug", "score", "category", "tags")
			for _, sp := range scored {
				tbl.AddRow(sp.Slug, strconv.Itoa(sp.Score), sp.Category, strings.Join(sp.Tags, ", "))
			}
			return tbl.Render()
		},
	}
}

func categoriesCommand() *cli.Command {
	return &cli.Command{
		Name:  "categories",
		Usage: "List categories with post counts",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := postService(cmd)
			if err != nil {
				return err
			}
			cats, err := svc.AllCategories(ctx)
			if err != nil {
				return err
			}
			tbl := output.NewTable(os.Stdout, "category", "posts")
			for _, c := range cats {
				tbl.AddRow(c.Name, strconv.Itoa(c.Count))
			}
			return tbl.Render()
		},
	}
}

func tagsCommand() *cli.Command {
	return &cli.Command{
		Name:  "tags",
		Usage: "List tags with usage counts",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := postService(cmd)
			if err != nil {
				return err
			}
			tags, err := svc.AllTags(ctx)
			if err != nil {
				return err
			}
			tbl := output.NewTable(os.Stdout, "tag", "uses")
			for _, t := range tags {
				tbl.AddRow(t.Name, strconv.Itoa(t.Count))
			}
			return tbl.Render()
		},
	}
}

func checkCommand() *cli.Command {
	return &cli.Command{
		Name:  "check",
		Usage: "Parse every post and report the ones that fail",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			svc, err := postService(cmd)
			if err != nil {
				return err
			}
			problems, err := svc.Check(ctx)
			if err != nil {
				return err
			}
			p := output.NewPrinter()
			if len(problems) == 0 {
				p.Success("all posts parse")
				return nil
			}
			for _, pr := range problems {
				p.Error("%s: %v", pr.Slug, pr.Err)
			}
			return cli.Exit(fmt.Sprintf("%d post(s) failed to parse", len(problems)), 1)
		},
	}
}

func newPostCommand() *cli.Command {
	return &cli.Command{
		Name:      "new",
		Usage:     "Create a post file with front matter",
		ArgsUsage: "<slug>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "title", Usage: "Post title", Required: true},
			&cli.StringFlag{Name: "excerpt", Usage: "Short summary"},
			&cli.StringFlag{Name: "date", Usage: "Publication date (YYYY-MM-DD or RFC 3339)"},
			&cli.StringFlag{Name: "author", Usage: "Author name"},
			&cli.StringFlag{Name: "category", Usage: "Category"},
			&cli.StringSliceFlag{Name: "tag", Usage: "Tag (repeatable)"},
			&cli.StringFlag{Name: "image", Usage: "Cover image path"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			slug := cmd.Args().First()
			if slug == "" {
				return cli.Exit("new: slug argument is required", 2)
			}
			svc, err := postService(cmd)
			if err != nil {
				return err
			}
			post, err := svc.CreatePost(ctx, blog.NewPost{
				Slug:     slug,
				Title:    cmd.String("title"),
				Excerpt:  cmd.String("excerpt"),
				Date:     cmd.String("date"),
				Author:   cmd.String("author"),
				Category: cmd.String("category"),
				Tags:     cmd.StringSlice("tag"),
				Image:    cmd.String("image"),
			})
			if err != nil {
				return err
			}
			p := output.NewPrinter()
			p.Success("created %s (%s)", post.Slug, post.Date)
			return nil
		},
	}
}
