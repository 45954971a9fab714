// Package parser splits a post into its typed front matter and its body.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/starford/inkwell/internal/apperr"
)

// FrontMatter holds the recognised header attributes. A nil pointer means
// the attribute was not authored; defaults are applied by the caller.
type FrontMatter struct {
	Title    *string
	Excerpt  *string
	Date     *string
	Author   *string
	Category *string
	Tags     []string
	Image    *string
}

// Result holds the output of parsing a post.
type Result struct {
	FrontMatter FrontMatter
	Body        string
}

// header is the decode target. Date is left untyped because YAML and TOML
// decoders may hand back a timestamp instead of the authored text. Tags is
// untyped so a single scalar can stand for a one-element list.
type header struct {
	Title    *string  `yaml:"title" toml:"title" json:"title"`
	Excerpt  *string  `yaml:"excerpt" toml:"excerpt" json:"excerpt"`
	Date     any      `yaml:"date" toml:"date" json:"date"`
	Author   *string  `yaml:"author" toml:"author" json:"author"`
	Category *string  `yaml:"category" toml:"category" json:"category"`
	Tags     any      `yaml:"tags" toml:"tags" json:"tags"`
	Image    *string  `yaml:"image" toml:"image" json:"image"`
}

// Parse extracts the front matter (YAML "---", TOML "+++" or JSON ";;;")
// and body from raw post bytes. Content without a header is all body.
// A header that cannot be decoded yields an error wrapping
// apperr.ErrMalformed.
func Parse(data []byte) (*Result, error) {
	var h header
	body, err := frontmatter.Parse(bytes.NewReader(data), &h)
	if err != nil {
		return nil, fmt.Errorf("parser: front matter: %v: %w", err, apperr.ErrMalformed)
	}

	date, err := normaliseDate(h.Date)
	if err != nil {
		return nil, err
	}
	tags, err := normaliseTags(h.Tags)
	if err != nil {
		return nil, err
	}

	fm := FrontMatter{
		Title:    h.Title,
		Excerpt:  h.Excerpt,
		Date:     date,
		Author:   h.Author,
		Category: h.Category,
		Tags:     tags,
		Image:    h.Image,
	}
	return &Result{
		FrontMatter: fm,
		Body:        string(body),
	}, nil
}

// normaliseDate turns whatever the decoder produced for "date" into text.
func normaliseDate(raw any) (*string, error) {
	var s string
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		s = v
	case time.Time:
		s = FormatDate(v)
	case fmt.Stringer:
		s = v.String()
	default:
		return nil, fmt.Errorf("parser: date has unsupported type %T: %w", raw, apperr.ErrMalformed)
	}
	return &s, nil
}

// normaliseTags accepts a list of scalars or one scalar ("tags: oven").
// Mappings and nested lists are malformed.
func normaliseTags(raw any) ([]string, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			t, err := tagText(item)
			if err != nil {
				return nil, err
			}
			out = append(out, t)
		}
		return out, nil
	case []string:
		return v, nil
	default:
		t, err := tagText(v)
		if err != nil {
			return nil, err
		}
		return []string{t}, nil
	}
}

func tagText(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case int, int64, uint64, float64, bool:
		return fmt.Sprint(t), nil
	default:
		return "", fmt.Errorf("parser: tag has unsupported type %T: %w", v, apperr.ErrMalformed)
	}
}

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses an authored ISO-8601 date or datetime. Values without a
// zone are read as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parser: unrecognised date %q: %w", s, apperr.ErrMalformed)
}

// ISOLayout renders instants the way a JavaScript Date.toISOString does.
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// FormatDate renders a decoded timestamp. Midnight values are written as a
// plain date, anything else as an ISO instant in UTC.
func FormatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
		return t.Format("2006-01-02")
	}
	return t.UTC().Format(ISOLayout)
}

// composeHeader is the YAML shape written by Compose.
type composeHeader struct {
	Title    string   `yaml:"title"`
	Excerpt  string   `yaml:"excerpt,omitempty"`
	Date     string   `yaml:"date,omitempty"`
	Author   string   `yaml:"author,omitempty"`
	Category string   `yaml:"category,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Image    string   `yaml:"image,omitempty"`
}

// Compose renders a post document with a YAML header. Unset attributes are
// left out so readers fall back to their defaults.
func Compose(fm FrontMatter, body string) ([]byte, error) {
	h := composeHeader{
		Title:    deref(fm.Title),
		Excerpt:  deref(fm.Excerpt),
		Date:     deref(fm.Date),
		Author:   deref(fm.Author),
		Category: deref(fm.Category),
		Tags:     fm.Tags,
		Image:    deref(fm.Image),
	}
	out, err := yaml.Marshal(h)
	if err != nil {
		return nil, fmt.Errorf("parser: compose header: %w", err)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	buf.Write(out)
	buf.WriteString("---\n\n")
	buf.WriteString(body)
	if !strings.HasSuffix(body, "\n") {
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
