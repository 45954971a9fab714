package blog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/testutil"
)

func TestCreatePost(t *testing.T) {
	svc, dir := newTestService(t)

	post, err := svc.CreatePost(context.Background(), NewPost{
		Slug:     "ice-machine-care",
		Title:    "Ice Machine Care",
		Category: "Tips",
		Tags:     []string{" ice ", "", "cleaning"},
		Body:     "Descale monthly.",
	})
	if err != nil {
		t.Fatalf("CreatePost: %v", err)
	}
	if post.Title != "Ice Machine Care" || post.Category != "Tips" {
		t.Errorf("post = %+v", post.PostSummary)
	}
	if !slices.Equal(post.Tags, []string{"ice", "cleaning"}) {
		t.Errorf("tags = %v", post.Tags)
	}
	if post.Date != "2025-06-01" {
		t.Errorf("date = %q, want clock date", post.Date)
	}
	if post.Author != "RapidPro Memphis" {
		t.Errorf("author = %q, want default", post.Author)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "ice-machine-care.mdx"))
	if err != nil {
		t.Fatalf("read written file: %v", err)
	}
	if !strings.HasPrefix(string(raw), "---\n") || strings.Contains(string(raw), "author:") {
		t.Errorf("unexpected document:\n%s", raw)
	}
}

func TestCreatePost_Duplicate(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WritePost(t, dir, "taken", "2024-01-01", "Tips", nil)

	_, err := svc.CreatePost(context.Background(), NewPost{Slug: "taken", Title: "Again"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreatePost_DuplicateMalformed(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WriteFile(t, dir, "broken", "---\ntitle: [oops\n---\n")

	_, err := svc.CreatePost(context.Background(), NewPost{Slug: "broken", Title: "Fix"})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("err = %v, want ErrAlreadyExists", err)
	}
}

func TestCreatePost_Invalid(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name string
		in   NewPost
	}{
		{name: "missing slug", in: NewPost{Title: "T"}},
		{name: "uppercase slug", in: NewPost{Slug: "Hello", Title: "T"}},
		{name: "path slug", in: NewPost{Slug: "../x", Title: "T"}},
		{name: "missing title", in: NewPost{Slug: "ok"}},
		{name: "bad date", in: NewPost{Slug: "ok", Title: "T", Date: "next week"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreatePost(context.Background(), tt.in)
			if !errors.Is(err, apperr.ErrInvalid) {
				t.Errorf("err = %v, want ErrInvalid", err)
			}
		})
	}
}
