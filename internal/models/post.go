// Package models defines the domain types for Inkwell.
package models

import "time"

// PostSummary is a post without its body, returned by listing operations.
type PostSummary struct {
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Excerpt     string    `json:"excerpt"`
	Date        string    `json:"date"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	Image       string    `json:"image,omitempty"`
	ReadingTime string    `json:"readingTime"`
	Checksum    string    `json:"checksum"`
	PublishedAt time.Time `json:"-"`
}

// Post is a fully assembled content item.
type Post struct {
	PostSummary
	Body string `json:"body"`
}

// Summary returns the post without its body.
func (p *Post) Summary() PostSummary {
	return p.PostSummary
}

// CategoryCount is the number of posts filed under one category.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TagCount is the number of times a tag is used across all posts.
type TagCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}
