// Package quill is a content management engine built with Go, Echo, and templ.
// It provides content CRUD, an admin dashboard with a markdown editor, a
// query-shaped content API, and user management out of the box.
//
// Users provide their own templ templates via the ViewFuncs struct, and quill
// handles the handler logic, middleware, response-shaping hooks, and storage.
package quill

import (
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"

	"github.com/halvorsen/quill/hooks"
	"github.com/halvorsen/quill/users"
)

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages. This is the inversion-of-control mechanism that
// lets users own and customize all templates.
type ViewFuncs struct {
	Home             func(posts []Post, activeTag string, tags []string, siteURL string) templ.Component
	Post             func(post Post, related []Post, siteURL string) templ.Component
	Page             func(page Page, siteURL string) templ.Component
	AdminLogin       func(showError bool, csrfToken string) templ.Component
	AdminDashboard   func(posts []Post, pages []Page, message string, csrfToken string) templ.Component
	AdminFormPartial func(post Post, csrfToken string) templ.Component
	NotFound         func() templ.Component
	ServerError      func() templ.Component
}

// App is the central quill application. It wires together the stores, cache,
// response-shaping filters, handlers, middleware, and user-provided templates.
type App struct {
	Config  SiteConfig
	Echo    *echo.Echo
	Store   *Store
	Cache   *ContentCache
	Users   *users.Store
	Filters hooks.FilterMap
	Views   ViewFuncs

	loginLimiter *LoginLimiter
	userWatcher  *users.Watcher
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new quill App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Start initializes the stores, cache, filters, middleware, and routes, then
// starts the server.
func (a *App) Start() error {
	// Validate required config
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("quill: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("quill: SessionSecret is required")
	}

	// Initialize content store
	store, err := NewStore(a.Config.DatabasePath)
	if err != nil {
		return fmt.Errorf("quill: init store: %w", err)
	}
	a.Store = store

	// Initialize cache
	a.Cache = NewContentCache(a.Store, a.Config.ContentCacheTTL)

	// Initialize user store
	userStore, err := users.NewStore(a.Config.UsersPath)
	if err != nil {
		return fmt.Errorf("quill: init user store: %w", err)
	}
	a.Users = userStore
	if a.Config.WatchUsers {
		watcher, err := users.NewWatcher(userStore)
		if err != nil {
			return fmt.Errorf("quill: init user watcher: %w", err)
		}
		a.userWatcher = watcher
		go watcher.Start()
	}

	// Initialize login limiter
	a.loginLimiter = NewLoginLimiter(5, loginWindow)

	// Register response-shaping filters. Registration happens once here;
	// the filters live for the process lifetime.
	a.Filters = hooks.NewFilterMap()
	hooks.Setup(a.Filters)

	// Setup middleware
	a.setupMiddleware()

	// Setup routes
	a.setupRoutes()

	// Apply custom routes
	for _, fn := range a.customRoutes {
		fn(a)
	}

	// Start server
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Serve embedded framework assets (editor.js, toast.js). These are
	// served under /public/ and fall through to the user's static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/editor.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/toast.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// User's static assets
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/blog", handleBlogRedirect)
	e.GET("/", a.handleHome)
	e.GET("/blog/:slug/", a.handlePost)
	e.GET("/pages/:slug/", a.handlePage)

	// Content API — payloads pass through the named filters before
	// serialisation.
	e.GET("/api/posts", a.handleAPIPosts)
	e.GET("/api/pages", a.handleAPIPages)
	e.GET("/api/posts/:slug", a.handleAPIPost)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/post/:slug/", a.handleAdminPost)
	e.POST("/admin/save/", a.handleAdminSave)
	e.DELETE("/admin/post/:slug/", a.handleAdminDelete)
	e.POST("/admin/pages/save/", a.handleAdminPageSave)
	e.DELETE("/admin/pages/:slug/", a.handleAdminPageDelete)
	e.GET("/admin/images/", a.handleImageList)
	e.POST("/admin/images/upload/", a.handleImageUpload)
	e.DELETE("/admin/images/:filename/", a.handleImageDelete)

	// User management API
	userHandler := users.NewHandler(a.Users)
	adminOnly := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAdmin(c) {
				return c.NoContent(http.StatusUnauthorized)
			}
			return next(c)
		}
	}
	userHandler.RegisterRoutes(e.Group("/admin/api/users", adminOnly))
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.userWatcher != nil {
		a.userWatcher.Stop()
	}
	if a.Store != nil {
		a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatalf("quill: required environment variable %s is not set", key)
	}
	return v
}
