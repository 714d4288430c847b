package quill

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestImportDir(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()

	writeFile(t, dir, "hello.md", `---
title: Hello World
date: "2024-03-01"
tags: [go, web]
summary: greeting
---

# Hello
`)
	writeFile(t, dir, "draft.md", `---
title: Work in Progress
draft: true
---
body
`)
	writeFile(t, dir, "plain.md", "no frontmatter here\n")
	writeFile(t, dir, "notes.txt", "not markdown")

	n, err := ImportDir(s, dir)
	if err != nil {
		t.Fatalf("ImportDir failed: %v", err)
	}
	if n != 3 {
		t.Errorf("imported = %d, want 3", n)
	}

	post, err := s.GetPost("hello-world")
	if err != nil {
		t.Fatalf("imported post missing: %v", err)
	}
	if post.Title != "Hello World" || post.Date != "2024-03-01" || post.Summary != "greeting" {
		t.Errorf("unexpected post: %+v", post)
	}
	if len(post.Tags) != 2 {
		t.Errorf("tags = %v, want [go web]", post.Tags)
	}
	if post.Content != "# Hello\n" {
		t.Errorf("content = %q", post.Content)
	}

	// drafts import as unpublished
	draft, err := s.GetPostAny("work-in-progress")
	if err != nil {
		t.Fatalf("draft missing: %v", err)
	}
	if draft.Published {
		t.Error("draft should be unpublished")
	}

	// files without frontmatter fall back to the filename slug
	plain, err := s.GetPost("plain")
	if err != nil {
		t.Fatalf("plain post missing: %v", err)
	}
	if plain.Content != "no frontmatter here\n" {
		t.Errorf("plain content = %q", plain.Content)
	}
}

func TestImportDirBadFrontmatter(t *testing.T) {
	s := setupTestStore(t)
	dir := t.TempDir()

	writeFile(t, dir, "bad.md", "---\ntitle: [unterminated\n---\nbody\n")

	if _, err := ImportDir(s, dir); err == nil {
		t.Fatal("expected an error for malformed frontmatter")
	}
}

func TestSplitFrontmatter(t *testing.T) {
	meta, body, err := splitFrontmatter([]byte("---\ntitle: T\nslug: custom\n---\nbody text"))
	if err != nil {
		t.Fatalf("splitFrontmatter failed: %v", err)
	}
	if meta.Title != "T" || meta.Slug != "custom" {
		t.Errorf("meta = %+v", meta)
	}
	if body != "body text" {
		t.Errorf("body = %q", body)
	}

	// unknown keys land in the inline params map
	meta, _, err = splitFrontmatter([]byte("---\ntitle: T\nlayout: wide\n---\nx"))
	if err != nil {
		t.Fatalf("splitFrontmatter failed: %v", err)
	}
	if meta.Params["layout"] != "wide" {
		t.Errorf("params = %v", meta.Params)
	}
}
