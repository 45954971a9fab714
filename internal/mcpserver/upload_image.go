package mcpserver

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/inkwell/internal/apperr"
)

const maxImageSize = 10 << 20 // 10 MB

var (
	imageExtensions = map[string]bool{
		".png": true, ".jpg": true, ".jpeg": true,
		".gif": true, ".webp": true, ".svg": true,
	}

	imageMIMEs = map[string]string{
		"image/png":     ".png",
		"image/jpeg":    ".jpg",
		"image/gif":     ".gif",
		"image/webp":    ".webp",
		"image/svg+xml": ".svg",
	}

	unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)
)

type uploadResult struct {
	Path        string `json:"path"`
	FrontMatter string `json:"frontMatter"`
}

func (s *Server) uploadImage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if s.assets == nil {
		return mcp.NewToolResultError("image uploads are not configured"), nil
	}
	source, err := req.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if !strings.HasPrefix(source, "data:") {
		return mcp.NewToolResultError("source must be a base64 data URI"), nil
	}
	data, ext, err := decodeDataURI(source)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(data) > maxImageSize {
		return mcp.NewToolResultError(fmt.Sprintf("image too large: %d bytes (max %d)", len(data), maxImageSize)), nil
	}

	name := req.GetString("filename", "")
	if name == "" {
		name = generatedName(ext)
	}
	name = sanitizeName(name)

	nameExt := strings.ToLower(filepath.Ext(name))
	if !imageExtensions[nameExt] {
		return mcp.NewToolResultError(fmt.Sprintf("unsupported image extension %q (allowed: png, jpg, jpeg, gif, webp, svg)", nameExt)), nil
	}
	if err := checkContent(data, nameExt); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.assets.Save(name, data); err != nil {
		if errors.Is(err, apperr.ErrAlreadyExists) {
			return mcp.NewToolResultError(fmt.Sprintf("image already exists: %s", name)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}

	urlPath := "/assets/" + name
	out, _ := json.Marshal(uploadResult{
		Path:        urlPath,
		FrontMatter: "image: " + urlPath,
	})
	return mcp.NewToolResultText(string(out)), nil
}

// decodeDataURI parses a data:<mediatype>;base64,<data> URI.
func decodeDataURI(uri string) ([]byte, string, error) {
	meta, encoded, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, "", fmt.Errorf("invalid data URI: missing comma separator")
	}
	if !strings.HasSuffix(meta, ";base64") {
		return nil, "", fmt.Errorf("only base64 data URIs are supported")
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, "", fmt.Errorf("invalid base64 data: %w", err)
		}
	}

	mime, _, _ := strings.Cut(strings.TrimSuffix(meta, ";base64"), ";")
	ext := imageMIMEs[mime]
	if ext == "" {
		return nil, "", fmt.Errorf("unsupported image type in data URI: %s", mime)
	}
	return data, ext, nil
}

// generatedName returns a random file name with ext.
func generatedName(ext string) string {
	return uuid.NewString() + ext
}

// sanitizeName strips directories and replaces unsafe characters.
func sanitizeName(name string) string {
	name = unsafeNameRe.ReplaceAllString(filepath.Base(name), "_")
	name = strings.TrimLeft(name, ".")
	if name == "" {
		name = uuid.NewString()
	}
	return name
}

// checkContent verifies the bytes match the declared image extension.
func checkContent(data []byte, ext string) error {
	if ext == ".svg" {
		head := data
		if len(head) > 1024 {
			head = head[:1024]
		}
		if !bytes.Contains(head, []byte("<svg")) {
			return fmt.Errorf("content does not appear to be an SVG image")
		}
		return nil
	}

	detected, _, _ := strings.Cut(http.DetectContentType(data), ";")
	want := ext
	if want == ".jpeg" {
		want = ".jpg"
	}
	if imageMIMEs[detected] != want {
		return fmt.Errorf("content does not match extension %s (detected: %s)", ext, detected)
	}
	return nil
}
