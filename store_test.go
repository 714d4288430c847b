package quill

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(filepath.Join(t.TempDir(), "content.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndGetPost(t *testing.T) {
	s := setupTestStore(t)

	post := Post{
		Slug:      "test-post",
		Title:     "Test Post",
		Date:      "2024-01-15",
		Tags:      []string{"go", "testing"},
		Summary:   "A test post summary",
		Content:   "# Test Content\n\nThis is test content.",
		Published: true,
	}

	if err := s.SavePost(post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	got, err := s.GetPost("test-post")
	if err != nil {
		t.Fatalf("GetPost failed: %v", err)
	}

	if got.Slug != post.Slug {
		t.Errorf("Slug = %q, want %q", got.Slug, post.Slug)
	}
	if got.Title != post.Title {
		t.Errorf("Title = %q, want %q", got.Title, post.Title)
	}
	if got.Content != post.Content {
		t.Errorf("Content = %q, want %q", got.Content, post.Content)
	}
	if got.Link != "/blog/test-post" {
		t.Errorf("Link = %q, want %q", got.Link, "/blog/test-post")
	}
	if !got.Published {
		t.Error("Published should be true")
	}
	if len(got.Tags) != 2 || got.Tags[0] != "go" || got.Tags[1] != "testing" {
		t.Errorf("Tags = %v, want [go testing]", got.Tags)
	}
}

func TestGetPostNotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetPost("nonexistent")
	if err != sql.ErrNoRows {
		t.Errorf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestGetPostUnpublished(t *testing.T) {
	s := setupTestStore(t)

	post := Post{
		Slug:      "unpublished-post",
		Title:     "Unpublished Post",
		Date:      "2024-01-01",
		Tags:      []string{"draft"},
		Content:   "Draft content",
		Published: false,
	}

	if err := s.SavePost(post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}

	if _, err := s.GetPost("unpublished-post"); err != sql.ErrNoRows {
		t.Errorf("GetPost should return ErrNoRows for unpublished, got %v", err)
	}

	got, err := s.GetPostAny("unpublished-post")
	if err != nil {
		t.Fatalf("GetPostAny failed: %v", err)
	}
	if got.Published {
		t.Error("Published should be false")
	}
}

func TestListPosts(t *testing.T) {
	s := setupTestStore(t)

	posts := []Post{
		{Slug: "post-1", Title: "Post 1", Date: "2024-01-01", Tags: []string{"go"}, Content: "c1", Published: true},
		{Slug: "post-2", Title: "Post 2", Date: "2024-01-02", Tags: []string{"go", "web"}, Content: "c2", Published: true},
		{Slug: "post-3", Title: "Post 3", Date: "2024-01-03", Tags: []string{"rust"}, Content: "c3", Published: true},
		{Slug: "post-4", Title: "Post 4", Date: "2024-01-04", Tags: []string{"go"}, Content: "c4", Published: false},
	}
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}

	got, err := s.ListPosts("")
	if err != nil {
		t.Fatalf("ListPosts failed: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("ListPosts count = %d, want 3 (excluding unpublished)", len(got))
	}
	if got[0].Slug != "post-3" {
		t.Errorf("first post should be post-3 (latest), got %s", got[0].Slug)
	}

	got, err = s.ListPosts("go")
	if err != nil {
		t.Fatalf("ListPosts with tag failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListPosts(go) count = %d, want 2", len(got))
	}
}

func TestListTags(t *testing.T) {
	s := setupTestStore(t)

	posts := []Post{
		{Slug: "p1", Title: "P1", Date: "2024-01-01", Tags: []string{"Go", "Web"}, Content: "c1", Published: true},
		{Slug: "p2", Title: "P2", Date: "2024-01-02", Tags: []string{"go", "api"}, Content: "c2", Published: true},
		{Slug: "p3", Title: "P3", Date: "2024-01-03", Tags: []string{"rust"}, Content: "c3", Published: false},
	}
	for _, p := range posts {
		if err := s.SavePost(p); err != nil {
			t.Fatalf("SavePost failed: %v", err)
		}
	}

	got, err := s.ListTags()
	if err != nil {
		t.Fatalf("ListTags failed: %v", err)
	}

	expected := []string{"api", "go", "web"}
	if len(got) != len(expected) {
		t.Fatalf("ListTags = %v, want %v", got, expected)
	}
	for i, tag := range expected {
		if got[i] != tag {
			t.Errorf("ListTags[%d] = %q, want %q", i, got[i], tag)
		}
	}
}

func TestDeletePost(t *testing.T) {
	s := setupTestStore(t)

	post := Post{Slug: "to-delete", Title: "To Delete", Date: "2024-01-01", Content: "c", Published: true}
	if err := s.SavePost(post); err != nil {
		t.Fatalf("SavePost failed: %v", err)
	}
	if err := s.DeletePost("to-delete"); err != nil {
		t.Fatalf("DeletePost failed: %v", err)
	}
	if _, err := s.GetPost("to-delete"); err != sql.ErrNoRows {
		t.Errorf("post should not exist after delete, got err: %v", err)
	}

	// deleting a nonexistent post is not an error
	if err := s.DeletePost("nonexistent"); err != nil {
		t.Errorf("DeletePost on nonexistent should not error, got: %v", err)
	}
}

func TestSaveAndGetPage(t *testing.T) {
	s := setupTestStore(t)

	page := Page{
		Slug:      "about",
		Title:     "About",
		Content:   "## About this site",
		Updated:   "2024-02-01",
		Published: true,
	}
	if err := s.SavePage(page); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}

	got, err := s.GetPage("about")
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if got.Title != "About" || got.Content != page.Content || got.Updated != "2024-02-01" {
		t.Errorf("GetPage = %+v, want %+v", got, page)
	}
}

func TestListPagesSkipsUnpublished(t *testing.T) {
	s := setupTestStore(t)

	pages := []Page{
		{Slug: "about", Title: "About", Content: "a", Updated: "2024-01-01", Published: true},
		{Slug: "contact", Title: "Contact", Content: "c", Updated: "2024-01-02", Published: true},
		{Slug: "draft", Title: "Draft", Content: "d", Updated: "2024-01-03", Published: false},
	}
	for _, p := range pages {
		if err := s.SavePage(p); err != nil {
			t.Fatalf("SavePage failed: %v", err)
		}
	}

	got, err := s.ListPages()
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("ListPages count = %d, want 2", len(got))
	}
	if got[0].Slug != "about" || got[1].Slug != "contact" {
		t.Errorf("pages should be ordered by title, got %v", got)
	}

	all, err := s.ListAllPages()
	if err != nil {
		t.Fatalf("ListAllPages failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("ListAllPages count = %d, want 3", len(all))
	}
}

func TestDeletePage(t *testing.T) {
	s := setupTestStore(t)

	if err := s.SavePage(Page{Slug: "tmp", Title: "Tmp", Content: "x", Updated: "2024-01-01", Published: true}); err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}
	if err := s.DeletePage("tmp"); err != nil {
		t.Fatalf("DeletePage failed: %v", err)
	}
	if _, err := s.GetPage("tmp"); err != sql.ErrNoRows {
		t.Errorf("page should not exist after delete, got err: %v", err)
	}
}

func TestImageMetadata(t *testing.T) {
	s := setupTestStore(t)

	img := Image{
		Filename:     "cover.jpg",
		OriginalName: "Cover.png",
		Width:        800,
		Height:       600,
		Size:         12345,
		UploadedAt:   "2024-01-01T00:00:00Z",
	}
	if err := s.SaveImage(img); err != nil {
		t.Fatalf("SaveImage failed: %v", err)
	}

	images, err := s.ListImages()
	if err != nil {
		t.Fatalf("ListImages failed: %v", err)
	}
	if len(images) != 1 || images[0] != img {
		t.Errorf("ListImages = %v, want [%v]", images, img)
	}

	if err := s.DeleteImage("cover.jpg"); err != nil {
		t.Fatalf("DeleteImage failed: %v", err)
	}
	images, _ = s.ListImages()
	if len(images) != 0 {
		t.Errorf("image should be gone after delete, got %v", images)
	}
}

func TestParseTags(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", nil},
		{",", nil},
		{",go,", []string{"go"}},
		{",go,web,", []string{"go", "web"}},
		{",go, web ,rust,", []string{"go", "web", "rust"}},
	}

	for _, tt := range tests {
		got := ParseTags(tt.input)
		if len(got) != len(tt.want) {
			t.Errorf("ParseTags(%q) = %v, want %v", tt.input, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("ParseTags(%q)[%d] = %q, want %q", tt.input, i, got[i], tt.want[i])
			}
		}
	}
}
