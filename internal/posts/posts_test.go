package posts

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewStore() unexpected error: %v", err)
	}
	return store, dir
}

func TestCreateAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	created, err := store.Create(NewPost{
		Slug:     "my-first-post",
		Title:    "My First Post",
		Markdown: "# Hello\n\nSome **bold** text.",
	})
	if err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}
	if created.Title != "My First Post" {
		t.Errorf("Title = %q, want My First Post", created.Title)
	}

	got, err := store.Get("my-first-post")
	if err != nil {
		t.Fatalf("Get() unexpected error: %v", err)
	}
	if !strings.Contains(string(got.HTML), "<strong>bold</strong>") {
		t.Errorf("rendered HTML missing markdown output: %q", got.HTML)
	}
	if !strings.Contains(got.Markdown, "# Hello") {
		t.Errorf("Markdown source not preserved: %q", got.Markdown)
	}
}

func TestGetMissing(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.Get("no-such-post"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestList(t *testing.T) {
	store, dir := newTestStore(t)

	for _, p := range []NewPost{
		{Slug: "a", Title: "Post A", Markdown: "aaa"},
		{Slug: "b", Title: "Post B", Markdown: "bbb"},
	} {
		if _, err := store.Create(p); err != nil {
			t.Fatalf("Create(%s) unexpected error: %v", p.Slug, err)
		}
	}

	// A file without front-matter is skipped, not fatal
	if err := os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no front matter"), 0o644); err != nil {
		t.Fatalf("failed to write broken file: %v", err)
	}

	all, err := store.List()
	if err != nil {
		t.Fatalf("List() unexpected error: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() returned %d posts, want 2", len(all))
	}

	titles := map[string]string{}
	for _, p := range all {
		titles[p.Slug] = p.Title
	}
	if titles["a"] != "Post A" || titles["b"] != "Post B" {
		t.Errorf("List() = %v, want slugs a and b with their titles", titles)
	}
}

func TestUpdateRenamesSlug(t *testing.T) {
	store, dir := newTestStore(t)

	if _, err := store.Create(NewPost{Slug: "old-slug", Title: "Old", Markdown: "body"}); err != nil {
		t.Fatalf("Create() unexpected error: %v", err)
	}

	updated, err := store.Update("old-slug", NewPost{
		Slug:     "new-slug",
		Title:    "New Title",
		Markdown: "new body",
	})
	if err != nil {
		t.Fatalf("Update() unexpected error: %v", err)
	}
	if updated.Slug != "new-slug" || updated.Title != "New Title" {
		t.Errorf("Update() = %+v, want new slug and title", updated)
	}

	if _, err := os.Stat(filepath.Join(dir, "old-slug.md")); !errors.Is(err, os.ErrNotExist) {
		t.Error("old post file still exists after slug rename")
	}
	if _, err := store.Get("new-slug"); err != nil {
		t.Errorf("Get(new-slug) unexpected error: %v", err)
	}
}

func TestUpdateMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Update("ghost", NewPost{Slug: "ghost", Title: "T", Markdown: "m"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Update() error = %v, want ErrNotFound", err)
	}
}

func TestParseFrontMatter(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantTitle string
		wantBody  string
		wantErr   bool
	}{
		{
			name:      "valid post",
			raw:       "---\ntitle: Hello World\n---\n\nbody text",
			wantTitle: "Hello World",
			wantBody:  "body text",
		},
		{
			name:    "missing front matter",
			raw:     "just markdown",
			wantErr: true,
		},
		{
			name:    "missing title",
			raw:     "---\nauthor: bob\n---\n\nbody",
			wantErr: true,
		},
		{
			name:    "unterminated front matter",
			raw:     "---\ntitle: Hello",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs, body, err := parseFrontMatter([]byte(tt.raw))
			if tt.wantErr {
				if err == nil {
					t.Error("parseFrontMatter() expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseFrontMatter() unexpected error: %v", err)
			}
			if attrs.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", attrs.Title, tt.wantTitle)
			}
			if string(body) != tt.wantBody {
				t.Errorf("body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}
