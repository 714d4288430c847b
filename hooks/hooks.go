// Package hooks implements the content-API response-shaping filter layer.
// Resolved content passes through named filters immediately before JSON
// serialisation; the filters trim payloads down to frontmatter (or a subset
// of it) when the request asks for it via query parameters.
package hooks

import (
	"net/url"
	"strings"
)

// Frontmatter is the structured metadata of a content item: a free-form
// mapping from key to scalar, list or nested values.
type Frontmatter map[string]any

// ContentItem is a resolved piece of content as handed to a filter.
// RelatedPosts carries frontmatter-shaped records for related content;
// it is only populated on single-item payloads.
type ContentItem struct {
	Frontmatter  Frontmatter   `json:"frontmatter"`
	Content      string        `json:"content"`
	RelatedPosts []Frontmatter `json:"relatedPostsData,omitempty"`
}

// Filter transforms a response payload before serialisation. Filters are
// pure and never mutate the request query; a filter may return its payload
// unchanged.
type Filter func(payload any, query url.Values) any

// Registry is the capability a host provides for registering named filters.
// The host looks filters up by name when shaping responses.
type Registry interface {
	Register(name string, f Filter)
}

// Well-known filter names the host dispatches on.
const (
	FilterPosts = "api_posts"
	FilterPages = "api_pages"
	FilterPost  = "api_post"
)

// Setup registers the payload-minimisation filters on r. It is called once
// at startup; the registered filters hold no state between invocations.
func Setup(r Registry) {
	r.Register(FilterPosts, CollectionFilter)
	r.Register(FilterPages, CollectionFilter)
	r.Register(FilterPost, PostFilter)
}

// FilterMap is a map-backed Registry for hosts that do not bring their own.
type FilterMap map[string]Filter

// NewFilterMap returns an empty FilterMap.
func NewFilterMap() FilterMap {
	return make(FilterMap)
}

// Register associates name with f, replacing any previous filter.
func (m FilterMap) Register(name string, f Filter) {
	m[name] = f
}

// Apply runs the filter registered under name. An unknown name is a
// pass-through.
func (m FilterMap) Apply(name string, payload any, query url.Values) any {
	f, ok := m[name]
	if !ok {
		return payload
	}
	return f(payload, query)
}

// shapeOptions is the interpreted form of the two recognised query
// parameters. hasAllowList distinguishes "properties absent" from
// "properties supplied but empty": the latter still switches projection
// to subset mode and yields an empty mapping.
type shapeOptions struct {
	frontmatterOnly bool
	allowList       []string
	hasAllowList    bool
}

func parseShapeOptions(query url.Values) shapeOptions {
	opts := shapeOptions{
		frontmatterOnly: query.Get("frontmatterOnly") == "true",
	}
	if query.Has("properties") {
		opts.hasAllowList = true
		for _, tok := range strings.Split(query.Get("properties"), ",") {
			if tok = strings.TrimSpace(tok); tok != "" {
				opts.allowList = append(opts.allowList, tok)
			}
		}
	}
	return opts
}

// Project restricts fm to the allow-listed keys. Without an allow-list the
// frontmatter is returned as is; otherwise the result is a fresh mapping
// holding exactly the allow-listed keys present in fm, values shallow-copied.
// Keys absent from fm are dropped, never invented.
func Project(fm Frontmatter, allowList []string, restrict bool) Frontmatter {
	if !restrict {
		return fm
	}
	out := make(Frontmatter, len(allowList))
	for _, k := range allowList {
		if v, ok := fm[k]; ok {
			out[k] = v
		}
	}
	return out
}

// CollectionFilter shapes list payloads. It is registered as both
// "api_posts" and "api_pages" so the host can invoke it from separate code
// paths. Without frontmatterOnly=true the payload passes through untouched;
// with it, every item is replaced by its (optionally projected) frontmatter,
// preserving order and length.
func CollectionFilter(payload any, query url.Values) any {
	opts := parseShapeOptions(query)
	if !opts.frontmatterOnly {
		return payload
	}
	items, ok := payload.([]ContentItem)
	if !ok {
		return payload
	}
	out := make([]Frontmatter, len(items))
	for i, item := range items {
		out[i] = Project(item.Frontmatter, opts.allowList, opts.hasAllowList)
	}
	return out
}

// PostFilter shapes a single-item payload. Unlike the collection filter it
// never replaces the primary item with its frontmatter; its sole job is to
// keep the relatedPostsData sub-collection consistent with the allow-list.
// Related elements are frontmatter-shaped already, so projection applies to
// them directly. The input is received by value, so the caller's item is
// never mutated; pass-through cases return the payload as is.
func PostFilter(payload any, query url.Values) any {
	opts := parseShapeOptions(query)
	if !opts.frontmatterOnly {
		return payload
	}
	post, ok := payload.(ContentItem)
	if !ok {
		return payload
	}
	if len(post.RelatedPosts) == 0 || !opts.hasAllowList {
		return payload
	}
	trimmed := make([]Frontmatter, len(post.RelatedPosts))
	for i, rel := range post.RelatedPosts {
		trimmed[i] = Project(rel, opts.allowList, true)
	}
	post.RelatedPosts = trimmed
	return post
}
