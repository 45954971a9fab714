package readtime

import (
	"strings"
	"testing"
)

func TestCountWords(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"   \n\t ", 0},
		{"one", 1},
		{"one two  three\nfour", 4},
		{"Don't skip the walk-in cooler.", 5},
		{"## Heading\n\n- item one\n- item *two*", 5},
		{"Call 901-555-0100 today!", 3},
		{"日本語", 3},
		{"fryer 修理", 3},
		{"--- --- ***", 0},
	}
	for _, c := range cases {
		if got := CountWords(c.in); got != c.want {
			t.Errorf("CountWords(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestEstimate(t *testing.T) {
	cases := []struct {
		words int
		wpm   int
		want  string
	}{
		{0, 200, "0 min read"},
		{1, 200, "1 min read"},
		{200, 200, "1 min read"},
		{210, 200, "2 min read"},
		{600, 200, "3 min read"},
		{600, 0, "3 min read"},
		{600, 300, "2 min read"},
	}
	for _, c := range cases {
		body := strings.TrimSpace(strings.Repeat("word ", c.words))
		got := Estimate(body, c.wpm)
		if got.Text != c.want {
			t.Errorf("Estimate(%d words, %d wpm) = %q, want %q", c.words, c.wpm, got.Text, c.want)
		}
		if got.Words != c.words {
			t.Errorf("Words = %d, want %d", got.Words, c.words)
		}
	}
}

func TestEstimate_Deterministic(t *testing.T) {
	body := strings.Repeat("The oven needs a new thermostat. ", 90)
	first := Label(body)
	for i := 0; i < 5; i++ {
		if got := Label(body); got != first {
			t.Fatalf("Label changed between calls: %q then %q", first, got)
		}
	}
	if first != "3 min read" {
		t.Errorf("Label = %q, want 3 min read", first)
	}
}
