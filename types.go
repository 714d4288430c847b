package quill

import "github.com/halvorsen/quill/hooks"

// Post is the core content type stored in SQLite and rendered by templates.
type Post struct {
	Title     string
	Date      string
	Tags      []string
	Summary   string
	Link      string
	Slug      string
	Content   string
	Published bool
}

// FrontMatter returns the post's structured metadata in the shape the
// content-API filters operate on.
func (p Post) FrontMatter() hooks.Frontmatter {
	return hooks.Frontmatter{
		"id":      p.Slug,
		"slug":    p.Slug,
		"title":   p.Title,
		"date":    p.Date,
		"tags":    p.Tags,
		"summary": p.Summary,
	}
}

// Page is a standalone content page (about, contact, ...) outside the blog
// post lifecycle.
type Page struct {
	Slug      string
	Title     string
	Content   string
	Updated   string
	Published bool
}

// FrontMatter returns the page's structured metadata for the content API.
func (p Page) FrontMatter() hooks.Frontmatter {
	return hooks.Frontmatter{
		"id":      p.Slug,
		"slug":    p.Slug,
		"title":   p.Title,
		"updated": p.Updated,
	}
}

// Image is metadata for an uploaded editor image.
type Image struct {
	Filename     string `json:"filename"`
	OriginalName string `json:"original_name"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	Size         int    `json:"size"`
	UploadedAt   string `json:"uploaded_at"`
}
