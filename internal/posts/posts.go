// Package posts stores blog posts as flat markdown files with yaml
// front-matter. The slug is the filename minus the .md extension. Rendering
// markdown to HTML is delegated to goldmark.
package posts

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

var (
	// ErrNotFound is returned when no post exists for a slug.
	ErrNotFound = errors.New("post not found")

	// ErrMissingTitle is returned for a post file without a title in its
	// front-matter.
	ErrMissingTitle = errors.New("post front-matter is missing a title")
)

// Post is a blog post. HTML is only populated by Get; listings carry just
// the slug and title.
type Post struct {
	Slug     string
	Title    string
	Markdown string
	HTML     template.HTML
}

// NewPost is the input for creating or updating a post.
type NewPost struct {
	Slug     string
	Title    string
	Markdown string
}

// frontMatter is the yaml metadata block at the top of each post file.
type frontMatter struct {
	Title string `yaml:"title"`
}

// Store reads and writes post files under a single directory.
type Store struct {
	dir    string
	md     goldmark.Markdown
	logger zerolog.Logger
}

// NewStore creates a post store rooted at dir, creating it if needed.
func NewStore(dir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create posts directory: %w", err)
	}
	return &Store{
		dir:    dir,
		md:     goldmark.New(),
		logger: logger,
	}, nil
}

// List returns the slug and title of every post, skipping files that are
// not valid posts.
func (s *Store) List() ([]Post, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read posts directory: %w", err)
	}

	var result []Post
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		slug := strings.TrimSuffix(entry.Name(), ".md")
		raw, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read post %s: %w", entry.Name(), err)
		}
		attrs, _, err := parseFrontMatter(raw)
		if err != nil {
			s.logger.Warn().Str("file", entry.Name()).Err(err).Msg("Skipping invalid post file")
			continue
		}
		result = append(result, Post{Slug: slug, Title: attrs.Title})
	}
	return result, nil
}

// Get loads a post by slug and renders its markdown to HTML.
func (s *Store) Get(slug string) (*Post, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, slug+".md"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read post %s: %w", slug, err)
	}

	attrs, body, err := parseFrontMatter(raw)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := s.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("failed to render post %s: %w", slug, err)
	}

	return &Post{
		Slug:     slug,
		Title:    attrs.Title,
		Markdown: string(body),
		HTML:     template.HTML(buf.String()),
	}, nil
}

// Create writes a new post file and returns the rendered post.
func (s *Store) Create(p NewPost) (*Post, error) {
	if err := s.write(p.Slug, p.Title, p.Markdown); err != nil {
		return nil, err
	}
	s.logger.Info().Str("slug", p.Slug).Msg("Post created")
	return s.Get(p.Slug)
}

// Update rewrites an existing post, moving the file when the slug changed.
func (s *Store) Update(oldSlug string, p NewPost) (*Post, error) {
	if _, err := s.Get(oldSlug); err != nil {
		return nil, err
	}

	if err := s.write(oldSlug, p.Title, p.Markdown); err != nil {
		return nil, err
	}
	if p.Slug != oldSlug {
		oldPath := filepath.Join(s.dir, oldSlug+".md")
		newPath := filepath.Join(s.dir, p.Slug+".md")
		if err := os.Rename(oldPath, newPath); err != nil {
			return nil, fmt.Errorf("failed to rename post %s: %w", oldSlug, err)
		}
	}
	s.logger.Info().Str("slug", p.Slug).Msg("Post updated")
	return s.Get(p.Slug)
}

// write serializes front-matter plus body to <slug>.md.
func (s *Store) write(slug, title, markdown string) error {
	if title == "" {
		return ErrMissingTitle
	}
	content := fmt.Sprintf("---\ntitle: %s\n---\n\n%s", title, markdown)
	path := filepath.Join(s.dir, slug+".md")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write post %s: %w", slug, err)
	}
	return nil
}

// parseFrontMatter splits a post file into its yaml metadata and markdown
// body. Files must start with a "---" front-matter block holding a title.
func parseFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var attrs frontMatter

	trimmed := bytes.TrimLeft(raw, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte("---")) {
		return attrs, nil, ErrMissingTitle
	}
	rest := trimmed[3:]
	end := bytes.Index(rest, []byte("\n---"))
	if end < 0 {
		return attrs, nil, ErrMissingTitle
	}

	if err := yaml.Unmarshal(rest[:end], &attrs); err != nil {
		return attrs, nil, fmt.Errorf("invalid post front-matter: %w", err)
	}
	if attrs.Title == "" {
		return attrs, nil, ErrMissingTitle
	}

	body := rest[end+len("\n---"):]
	// Drop the newline terminating the closing marker and any blank line
	// separating it from the body.
	body = bytes.TrimLeft(body, "\n\r")
	return attrs, body, nil
}
