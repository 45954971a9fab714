package blog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/models"
	"github.com/starford/inkwell/internal/storage"
	"github.com/starford/inkwell/internal/testutil"
)

var frozen = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, opts ...Option) (*Service, string) {
	t.Helper()
	dir, store := testutil.TestContent(t)
	opts = append([]Option{WithClock(testutil.FixedClock(frozen)), WithLogger(quietLogger())}, opts...)
	return NewService(store, opts...), dir
}

// scenario writes the A/B/C fixture: two Repair posts and one Tips post.
func scenario(t *testing.T, dir string) {
	t.Helper()
	testutil.WritePost(t, dir, "a", "2024-01-03", "Repair", []string{"fryer", "oven"})
	testutil.WritePost(t, dir, "b", "2024-01-05", "Repair", []string{"oven"})
	testutil.WritePost(t, dir, "c", "2024-01-01", "Tips", []string{"fryer"})
}

func summarySlugs(items []models.PostSummary) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Slug
	}
	return out
}

func TestGetPost_Full(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WriteFile(t, dir, "fryer-repair", "---\ntitle: Fryer Repair\nexcerpt: Quick checks\ndate: 2024-01-03\nauthor: Dana\ncategory: Repair\ntags: [fryer, oil]\nimage: /images/fryer.jpg\nreadingTime: 42 min read\n---\n"+strings.Repeat("word ", 450))

	post, found, err := svc.GetPost(context.Background(), "fryer-repair")
	if err != nil || !found {
		t.Fatalf("GetPost = %v, %v", found, err)
	}
	want := models.PostSummary{
		Slug:        "fryer-repair",
		Title:       "Fryer Repair",
		Excerpt:     "Quick checks",
		Date:        "2024-01-03",
		Author:      "Dana",
		Category:    "Repair",
		Tags:        []string{"fryer", "oil"},
		Image:       "/images/fryer.jpg",
		ReadingTime: "3 min read",
	}
	got := post.PostSummary
	if got.Slug != want.Slug || got.Title != want.Title || got.Excerpt != want.Excerpt ||
		got.Date != want.Date || got.Author != want.Author || got.Category != want.Category ||
		got.Image != want.Image || got.ReadingTime != want.ReadingTime {
		t.Errorf("summary = %+v\nwant      %+v", got, want)
	}
	if !slices.Equal(got.Tags, want.Tags) {
		t.Errorf("tags = %v, want %v", got.Tags, want.Tags)
	}
	if !got.PublishedAt.Equal(time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("published = %v", got.PublishedAt)
	}
	if got.Checksum == "" {
		t.Error("checksum should be set")
	}
	if !strings.HasPrefix(strings.TrimSpace(post.Body), "word word") {
		t.Errorf("body = %q", post.Body[:20])
	}
}

func TestGetPost_Missing(t *testing.T) {
	svc, _ := newTestService(t)
	post, found, err := svc.GetPost(context.Background(), "missing-slug")
	if err != nil {
		t.Fatalf("missing slug should not be an error: %v", err)
	}
	if found || post != nil {
		t.Errorf("GetPost = %v, %v; want nil, false", post, found)
	}
}

func TestGetPost_MissingStore(t *testing.T) {
	store, err := storage.NewFS(t.TempDir() + "/nowhere")
	if err != nil {
		t.Fatal(err)
	}
	svc := NewService(store, WithLogger(quietLogger()))
	_, found, err := svc.GetPost(context.Background(), "anything")
	if err != nil || found {
		t.Errorf("GetPost = %v, %v; want not found", found, err)
	}
	all, err := svc.ListAll(context.Background())
	if err != nil || len(all) != 0 {
		t.Errorf("ListAll = %v, %v; want empty", all, err)
	}
}

func TestGetPost_MalformedIsDistinct(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WriteFile(t, dir, "broken", "---\ntitle: [oops\n---\nBody\n")

	_, found, err := svc.GetPost(context.Background(), "broken")
	if !found {
		t.Error("malformed post should still be reported as found")
	}
	if !errors.Is(err, apperr.ErrMalformed) {
		t.Fatalf("err = %v, want ErrMalformed", err)
	}
	var pe *apperr.ParseError
	if !errors.As(err, &pe) || pe.Slug != "broken" {
		t.Errorf("ParseError slug = %+v", pe)
	}
}

func TestGetPost_InvalidSlug(t *testing.T) {
	svc, _ := newTestService(t)
	_, _, err := svc.GetPost(context.Background(), "../etc/passwd")
	if !errors.Is(err, apperr.ErrInvalid) {
		t.Errorf("err = %v, want ErrInvalid", err)
	}
}

func TestGetPost_Defaults(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WriteFile(t, dir, "bare", "Just some words in a body with no header at all.\n")

	post, found, err := svc.GetPost(context.Background(), "bare")
	if err != nil || !found {
		t.Fatalf("GetPost = %v, %v", found, err)
	}
	if post.Title != "Untitled" {
		t.Errorf("title = %q", post.Title)
	}
	if post.Excerpt != "" {
		t.Errorf("excerpt = %q", post.Excerpt)
	}
	if post.Author != "RapidPro Memphis" {
		t.Errorf("author = %q", post.Author)
	}
	if post.Category != "General" {
		t.Errorf("category = %q", post.Category)
	}
	if post.Tags == nil || len(post.Tags) != 0 {
		t.Errorf("tags = %#v, want empty non-nil", post.Tags)
	}
	if post.Image != "" {
		t.Errorf("image = %q", post.Image)
	}
	if post.ReadingTime != "1 min read" {
		t.Errorf("reading time = %q", post.ReadingTime)
	}
	if post.Date != "2025-06-01T12:00:00.000Z" || !post.PublishedAt.Equal(frozen) {
		t.Errorf("date = %q / %v, want the frozen clock", post.Date, post.PublishedAt)
	}
}

func TestGetPost_EmptyValuesFallBack(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WriteFile(t, dir, "blank", "---\ntitle: \"\"\ncategory: \"\"\nauthor: \"\"\ndate: 2024-01-01\n---\nbody\n")

	post, _, err := svc.GetPost(context.Background(), "blank")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.Title != "Untitled" || post.Category != "General" || post.Author != "RapidPro Memphis" {
		t.Errorf("empty strings should fall back: %+v", post.PostSummary)
	}
}

func TestGetPost_CustomDefaults(t *testing.T) {
	svc, dir := newTestService(t, WithDefaults(Defaults{Category: "Service Tips"}))
	testutil.WriteFile(t, dir, "bare", "body\n")

	post, _, err := svc.GetPost(context.Background(), "bare")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.Category != "Service Tips" {
		t.Errorf("category = %q", post.Category)
	}
	if post.Title != "Untitled" {
		t.Errorf("unset default should keep built-in value, got %q", post.Title)
	}
}

func TestGetPost_RequireDate(t *testing.T) {
	svc, dir := newTestService(t, WithRequireDate(true))
	testutil.WriteFile(t, dir, "undated", "---\ntitle: No Date\n---\nbody\n")

	_, found, err := svc.GetPost(context.Background(), "undated")
	if !found || !errors.Is(err, apperr.ErrMalformed) {
		t.Errorf("GetPost = %v, %v; want found with ErrMalformed", found, err)
	}
}

func TestGetPost_BadDate(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WriteFile(t, dir, "bad-date", "---\ndate: sometime soon\n---\nbody\n")

	_, _, err := svc.GetPost(context.Background(), "bad-date")
	if !errors.Is(err, apperr.ErrMalformed) {
		t.Errorf("err = %v, want ErrMalformed", err)
	}
}

func TestGetPost_WordsPerMinute(t *testing.T) {
	svc, dir := newTestService(t, WithWordsPerMinute(100))
	testutil.WriteFile(t, dir, "long", strings.Repeat("word ", 250))

	post, _, err := svc.GetPost(context.Background(), "long")
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if post.ReadingTime != "3 min read" {
		t.Errorf("reading time = %q, want 3 min read", post.ReadingTime)
	}
}

func TestListAll_SortedByDateDesc(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if want := []string{"b", "a", "c"}; !slices.Equal(summarySlugs(got), want) {
		t.Errorf("order = %v, want %v", summarySlugs(got), want)
	}
	for i := 1; i < len(got); i++ {
		if got[i-1].PublishedAt.Before(got[i].PublishedAt) {
			t.Errorf("not date-descending at %d", i)
		}
	}
}

func TestListAll_TieBreakBySlug(t *testing.T) {
	svc, dir := newTestService(t)
	for _, slug := range []string{"delta", "alpha", "charlie", "bravo"} {
		testutil.WritePost(t, dir, slug, "2024-05-05", "Repair", nil)
	}
	testutil.WritePost(t, dir, "newest", "2024-05-06", "Repair", nil)

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	want := []string{"newest", "alpha", "bravo", "charlie", "delta"}
	if !slices.Equal(summarySlugs(got), want) {
		t.Errorf("order = %v, want %v", summarySlugs(got), want)
	}
}

func TestListAll_MixedDatePrecision(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WritePost(t, dir, "morning", "2024-01-03T09:00:00Z", "Repair", nil)
	testutil.WritePost(t, dir, "day", "2024-01-03", "Repair", nil)
	testutil.WritePost(t, dir, "evening", "2024-01-03T18:30:00-06:00", "Repair", nil)

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if want := []string{"evening", "morning", "day"}; !slices.Equal(summarySlugs(got), want) {
		t.Errorf("order = %v, want %v", summarySlugs(got), want)
	}
}

func TestListAll_SkipsMalformed(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)
	testutil.WriteFile(t, dir, "broken", "---\ntags: {oops\n---\nbody\n")

	got, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll should not fail on one bad post: %v", err)
	}
	if want := []string{"b", "a", "c"}; !slices.Equal(summarySlugs(got), want) {
		t.Errorf("order = %v, want %v", summarySlugs(got), want)
	}
}

func TestListAll_Idempotent(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)
	testutil.WriteFile(t, dir, "undated", "no header\n")

	first, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !slices.EqualFunc(first, second, func(a, b models.PostSummary) bool {
		return a.Slug == b.Slug && a.Date == b.Date && a.Checksum == b.Checksum && slices.Equal(a.Tags, b.Tags)
	}) {
		t.Errorf("repeated ListAll differ:\n%v\n%v", first, second)
	}
}

func TestListAll_ReflectsStoreChanges(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)
	if got, _ := svc.ListAll(context.Background()); len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	testutil.WritePost(t, dir, "d", "2024-02-01", "Tips", nil)
	got, _ := svc.ListAll(context.Background())
	if len(got) != 4 || got[0].Slug != "d" {
		t.Errorf("new post not visible: %v", summarySlugs(got))
	}
}

func TestListAll_Cancelled(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := svc.ListAll(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestByCategory(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)

	got, err := svc.ByCategory(context.Background(), "repair")
	if err != nil {
		t.Fatalf("ByCategory: %v", err)
	}
	if want := []string{"b", "a"}; !slices.Equal(summarySlugs(got), want) {
		t.Errorf("ByCategory(repair) = %v, want %v", summarySlugs(got), want)
	}

	got, _ = svc.ByCategory(context.Background(), "Repairs")
	if len(got) != 0 {
		t.Errorf("partial match should not count: %v", summarySlugs(got))
	}
}

func TestByTag(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)

	got, err := svc.ByTag(context.Background(), "FRYER")
	if err != nil {
		t.Fatalf("ByTag: %v", err)
	}
	if want := []string{"a", "c"}; !slices.Equal(summarySlugs(got), want) {
		t.Errorf("ByTag(FRYER) = %v, want %v", summarySlugs(got), want)
	}

	got, _ = svc.ByTag(context.Background(), "ice")
	if got == nil || len(got) != 0 {
		t.Errorf("ByTag(ice) = %#v, want empty", got)
	}
}

func TestAllCategories(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WritePost(t, dir, "p1", "2024-01-06", "Tips", nil)
	testutil.WritePost(t, dir, "p2", "2024-01-05", "Repair", nil)
	testutil.WritePost(t, dir, "p3", "2024-01-04", "Repair", nil)
	testutil.WritePost(t, dir, "p4", "2024-01-03", "News", nil)
	testutil.WritePost(t, dir, "p5", "2024-01-02", "News", nil)
	testutil.WritePost(t, dir, "p6", "2024-01-01", "Recipes", nil)

	got, err := svc.AllCategories(context.Background())
	if err != nil {
		t.Fatalf("AllCategories: %v", err)
	}
	want := []models.CategoryCount{
		{Name: "Repair", Count: 2},
		{Name: "News", Count: 2},
		{Name: "Tips", Count: 1},
		{Name: "Recipes", Count: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("AllCategories = %v, want %v", got, want)
	}

	sum := 0
	for _, c := range got {
		sum += c.Count
	}
	if sum != 6 {
		t.Errorf("counts sum to %d, want 6", sum)
	}
}

func TestAllTags(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)
	testutil.WritePost(t, dir, "d", "2023-12-01", "Tips", []string{"oven", "oven", "ice"})

	got, err := svc.AllTags(context.Background())
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	// Listing order is b, a, c, d: oven is seen before fryer.
	want := []models.TagCount{
		{Name: "oven", Count: 4},
		{Name: "fryer", Count: 2},
		{Name: "ice", Count: 1},
	}
	if !slices.Equal(got, want) {
		t.Errorf("AllTags = %v, want %v", got, want)
	}

	sum := 0
	for _, c := range got {
		sum += c.Count
	}
	if sum != 7 {
		t.Errorf("counts sum to %d, want 7 tag occurrences", sum)
	}
}

func TestAllTags_Empty(t *testing.T) {
	svc, _ := newTestService(t)
	got, err := svc.AllTags(context.Background())
	if err != nil {
		t.Fatalf("AllTags: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("AllTags = %#v, want empty", got)
	}
}

func TestCheck(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)
	testutil.WriteFile(t, dir, "broken", "---\ntitle: [oops\n---\nbody\n")
	testutil.WriteFile(t, dir, "bad-date", "---\ndate: tomorrow-ish\n---\nbody\n")

	problems, err := svc.Check(context.Background())
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if len(problems) != 2 || problems[0].Slug != "bad-date" || problems[1].Slug != "broken" {
		t.Fatalf("problems = %+v", problems)
	}
	for _, p := range problems {
		if !errors.Is(p.Err, apperr.ErrMalformed) {
			t.Errorf("%s: err = %v, want ErrMalformed", p.Slug, p.Err)
		}
	}
}

func TestListAll_DottedStem(t *testing.T) {
	svc, dir := newTestService(t)
	scenario(t, dir)
	testutil.WritePost(t, dir, "v1.2..final", "2024-02-01", "Releases", []string{"oven"})

	all, err := svc.ListAll(context.Background())
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if got, want := summarySlugs(all), []string{"v1.2..final", "b", "a", "c"}; !slices.Equal(got, want) {
		t.Errorf("ListAll = %v, want %v", got, want)
	}

	post, found, err := svc.GetPost(context.Background(), "v1.2..final")
	if err != nil || !found {
		t.Fatalf("GetPost = %v, %v", found, err)
	}
	if post.Category != "Releases" {
		t.Errorf("category = %q", post.Category)
	}

	tagged, err := svc.ByTag(context.Background(), "oven")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(summarySlugs(tagged), "v1.2..final") {
		t.Errorf("ByTag(oven) = %v, missing dotted slug", summarySlugs(tagged))
	}
}

func TestByTag_ScalarTag(t *testing.T) {
	svc, dir := newTestService(t)
	testutil.WriteFile(t, dir, "single", "---\ntitle: Single\ndate: 2024-03-01\ntags: oven\n---\nBody\n")

	got, err := svc.ByTag(context.Background(), "oven")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(summarySlugs(got), []string{"single"}) {
		t.Errorf("ByTag(oven) = %v, want [single]", summarySlugs(got))
	}
}
