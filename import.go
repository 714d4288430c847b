package quill

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// importMeta is the YAML frontmatter of an imported markdown file.
// Unrecognised keys land in Params and are ignored by the importer.
type importMeta struct {
	Title   string         `yaml:"title"`
	Slug    string         `yaml:"slug"`
	Date    string         `yaml:"date"`
	Tags    []string       `yaml:"tags"`
	Summary string         `yaml:"summary"`
	Draft   bool           `yaml:"draft"`
	Params  map[string]any `yaml:",inline"`
}

// splitFrontmatter separates `---` delimited YAML frontmatter from the
// markdown body. Files without frontmatter yield a zero meta and the whole
// input as body.
func splitFrontmatter(raw []byte) (importMeta, string, error) {
	meta := importMeta{}
	parts := bytes.SplitN(raw, []byte("---"), 3)
	if len(parts) >= 3 && len(bytes.TrimSpace(parts[0])) == 0 {
		if err := yaml.Unmarshal(parts[1], &meta); err != nil {
			return importMeta{}, "", fmt.Errorf("parse frontmatter: %w", err)
		}
		return meta, strings.TrimLeft(string(parts[2]), "\n"), nil
	}
	return meta, string(raw), nil
}

// ImportDir walks dir for .md files, parses their YAML frontmatter, and
// upserts them as posts. Returns the number of posts imported. A file whose
// frontmatter fails to parse aborts the import with its path in the error.
func ImportDir(store *Store, dir string) (int, error) {
	imported := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".md" {
			return nil
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		meta, body, err := splitFrontmatter(raw)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		slug := strings.TrimSpace(meta.Slug)
		if slug == "" {
			slug = Slugify(meta.Title)
		}
		if slug == "" {
			slug = Slugify(strings.TrimSuffix(d.Name(), ".md"))
		}
		if slug == "" {
			return fmt.Errorf("%s: cannot derive a slug", path)
		}
		title := strings.TrimSpace(meta.Title)
		if title == "" {
			title = slug
		}
		date := strings.TrimSpace(meta.Date)
		if date == "" {
			date = time.Now().Format("2006-01-02")
		}

		if err := store.SavePost(Post{
			Slug:      slug,
			Title:     title,
			Date:      date,
			Tags:      FilterEmpty(meta.Tags),
			Summary:   meta.Summary,
			Content:   body,
			Published: !meta.Draft,
		}); err != nil {
			return fmt.Errorf("save %s: %w", slug, err)
		}
		imported++
		return nil
	})
	return imported, err
}
