// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes Inkwell content queries to LLM clients over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/inkwell/internal/apperr"
	"github.com/starford/inkwell/internal/blog"
	"github.com/starford/inkwell/internal/storage"
)

const postFormatURI = "inkwell://post-format"

// Server wraps the MCP server with Inkwell tools.
type Server struct {
	mcp    *server.MCPServer
	posts  *blog.Service
	assets *storage.AssetDir
}

// New creates a new MCP server with all Inkwell tools registered. assets
// may be nil, in which case upload_image reports an error.
func New(posts *blog.Service, assets *storage.AssetDir, version string) *Server {
	s := &Server{posts: posts, assets: assets}

	s.mcp = server.NewMCPServer(
		"Inkwell",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List every post (without body), newest first."),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("get_post",
		mcp.WithDescription("Read one post with its metadata and body."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug (file name without extension)")),
	), s.getPost)

	s.mcp.AddTool(mcp.NewTool("related_posts",
		mcp.WithDescription("Rank other posts by relatedness: +2 for the same category, +1 per shared tag."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug")),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results (default 3)")),
	), s.relatedPosts)

	s.mcp.AddTool(mcp.NewTool("posts_by_category",
		mcp.WithDescription("List posts in a category (case-insensitive)."),
		mcp.WithString("category", mcp.Required(), mcp.Description("Category name")),
	), s.postsByCategory)

	s.mcp.AddTool(mcp.NewTool("posts_by_tag",
		mcp.WithDescription("List posts carrying a tag (case-insensitive)."),
		mcp.WithString("tag", mcp.Required(), mcp.Description("Tag")),
	), s.postsByTag)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("Count posts per category, largest first."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("list_tags",
		mcp.WithDescription("Count tag usage across posts, largest first."),
	), s.listTags)

	s.mcp.AddTool(mcp.NewTool("create_post",
		mcp.WithDescription("Create a new post. Refuses existing slugs. "+
			"Read the contract first via the get_post_contract tool or the "+
			postFormatURI+" resource."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Lowercase words joined by hyphens")),
		mcp.WithString("title", mcp.Required(), mcp.Description("Post title")),
		mcp.WithString("excerpt", mcp.Description("One-sentence summary")),
		mcp.WithString("date", mcp.Description("ISO-8601 date (default today)")),
		mcp.WithString("author", mcp.Description("Author name")),
		mcp.WithString("category", mcp.Description("Category; reuse an existing one where possible")),
		mcp.WithArray("tags", mcp.WithStringItems(), mcp.Description("Tags")),
		mcp.WithString("image", mcp.Description("Image path returned by upload_image")),
		mcp.WithString("body", mcp.Description("Markdown or MDX body")),
	), s.createPost)

	s.mcp.AddTool(mcp.NewTool("upload_image",
		mcp.WithDescription("Store an image for use as a post image. Accepts a base64 data URI. "+
			"Returns the /assets path to put in the image field."),
		mcp.WithString("source", mcp.Required(), mcp.Description("data:image/...;base64,... URI")),
		mcp.WithString("filename", mcp.Description("Optional file name (defaults to a random one)")),
	), s.uploadImage)

	s.mcp.AddTool(mcp.NewTool("get_post_contract",
		mcp.WithDescription("Returns the post format contract. "+
			"Call this before creating posts to ensure correct structure."),
	), s.getPostContract)

	s.mcp.AddResource(
		mcp.NewResource(postFormatURI, "Post Format Contract",
			mcp.WithResourceDescription("Front matter fields, defaults and rules for post documents."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPostFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPosts(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	posts, err := s.posts.ListAll(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(posts)
}

func (s *Server) getPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, found, err := s.posts.GetPost(ctx, slug)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !found {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug)), nil
	}
	return jsonResult(post)
}

func (s *Server) relatedPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	posts, err := s.posts.RelatedScored(ctx, slug, req.GetInt("limit", blog.DefaultRelatedLimit))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(posts)
}

func (s *Server) postsByCategory(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category, err := req.RequireString("category")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	posts, err := s.posts.ByCategory(ctx, category)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(posts)
}

func (s *Server) postsByTag(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tag, err := req.RequireString("tag")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	posts, err := s.posts.ByTag(ctx, tag)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(posts)
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.posts.AllCategories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cats)
}

func (s *Server) listTags(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := s.posts.AllTags(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(tags)
}

func (s *Server) createPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	post, err := s.posts.CreatePost(ctx, blog.NewPost{
		Slug:     slug,
		Title:    title,
		Excerpt:  req.GetString("excerpt", ""),
		Date:     req.GetString("date", ""),
		Author:   req.GetString("author", ""),
		Category: req.GetString("category", ""),
		Tags:     req.GetStringSlice("tags", nil),
		Image:    req.GetString("image", ""),
		Body:     req.GetString("body", ""),
	})
	if err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return mcp.NewToolResultError(fmt.Sprintf("post already exists: %s", slug)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("created: %s (%s)", post.Slug, post.ReadingTime)), nil
}

func (s *Server) getPostContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostFormatContract), nil
}

func (s *Server) readPostFormatResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      postFormatURI,
			MIMEType: "text/markdown",
			Text:     PostFormatContract,
		},
	}, nil
}
