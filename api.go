package quill

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/halvorsen/quill/hooks"
)

// Content API handlers. Each handler resolves content, builds the
// hooks.ContentItem payload, and passes it through the filter registered
// under the matching name before serialisation. The filters decide, based
// on the request query, whether the payload is returned whole or trimmed
// down to frontmatter.

func (a *App) handleAPIPosts(c echo.Context) error {
	posts, err := a.Cache.ListPosts(c.QueryParam("tag"))
	if err != nil {
		return err
	}
	items := make([]hooks.ContentItem, len(posts))
	for i, p := range posts {
		items[i] = hooks.ContentItem{Frontmatter: p.FrontMatter(), Content: p.Content}
	}
	payload := a.Filters.Apply(hooks.FilterPosts, items, c.QueryParams())
	return c.JSON(http.StatusOK, payload)
}

func (a *App) handleAPIPages(c echo.Context) error {
	pages, err := a.Cache.ListPages()
	if err != nil {
		return err
	}
	items := make([]hooks.ContentItem, len(pages))
	for i, p := range pages {
		items[i] = hooks.ContentItem{Frontmatter: p.FrontMatter(), Content: p.Content}
	}
	payload := a.Filters.Apply(hooks.FilterPages, items, c.QueryParams())
	return c.JSON(http.StatusOK, payload)
}

func (a *App) handleAPIPost(c echo.Context) error {
	post, err := a.Cache.GetPost(c.Param("slug"))
	if err != nil {
		if err == ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "post not found")
		}
		return err
	}
	posts, err := a.Cache.ListPosts("")
	if err != nil {
		return err
	}

	item := hooks.ContentItem{Frontmatter: post.FrontMatter(), Content: post.Content}
	for _, rel := range FilterRelated(post, posts) {
		item.RelatedPosts = append(item.RelatedPosts, rel.FrontMatter())
	}

	payload := a.Filters.Apply(hooks.FilterPost, item, c.QueryParams())
	return c.JSON(http.StatusOK, payload)
}
