// internal/router/router.go
package router

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/friendstream/webapp/internal/cache"
	"github.com/friendstream/webapp/internal/config"
	"github.com/friendstream/webapp/internal/feed"
	"github.com/friendstream/webapp/internal/handlers"
	"github.com/friendstream/webapp/internal/middleware"
	"github.com/friendstream/webapp/internal/profileview"
	"github.com/friendstream/webapp/internal/services"
	"github.com/friendstream/webapp/internal/session"
)

func Initialize(cfg *config.Config) (*gin.Engine, error) {
	// Any 401 from any backend kills the whole session, not just the one
	// client that saw it. The hook is late bound because the auth and
	// profile clients exist before the store does.
	var store *session.Store
	onUnauthorized := func(ctx context.Context) {
		if store != nil {
			store.InvalidateFromContext(ctx)
		}
	}

	// Initialize service clients
	authService := services.NewAuthService(cfg, onUnauthorized)
	profileService, err := services.NewProfileService(cfg, onUnauthorized)
	if err != nil {
		return nil, fmt.Errorf("profile service: %w", err)
	}
	postService := services.NewPostService(cfg, onUnauthorized)
	socialService := services.NewSocialService(cfg, onUnauthorized)

	store, err = session.NewStore(cfg, authService, profileService)
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}

	// Per-session view state lives as long as the session cookie does.
	sessionTTL := time.Duration(cfg.Session.TTL) * time.Hour
	cleanup := time.Duration(cfg.Cache.CleanupInterval) * time.Second

	feedStates, err := cache.NewExpiring[string, *feed.State](cache.Config{
		Name:            "feed-states",
		TTL:             sessionTTL,
		CleanupInterval: cleanup,
	})
	if err != nil {
		return nil, err
	}
	profileViews, err := cache.NewExpiring[string, *profileview.View](cache.Config{
		Name:            "profile-views",
		TTL:             sessionTTL,
		CleanupInterval: cleanup,
	})
	if err != nil {
		return nil, err
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(store, cfg.Session)
	feedHandler := handlers.NewFeedHandler(postService, socialService, feedStates, cfg.Feed.PostLimit)
	profileHandler := handlers.NewProfileHandler(profileService, socialService, profileViews)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// Templates and static assets
	r.SetFuncMap(handlers.TemplateFuncs())
	r.LoadHTMLGlob(cfg.Server.TemplateGlob)
	r.Static("/static", cfg.Server.StaticDir)

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Public routes
	r.GET("/login", authHandler.ShowLogin)
	r.GET("/signup", authHandler.ShowSignup)
	r.POST("/login", middleware.AuthRateLimit(), authHandler.Login)
	r.POST("/signup", middleware.AuthRateLimit(), authHandler.Signup)

	// Authenticated routes
	protected := r.Group("")
	protected.Use(middleware.RequireSession(store, cfg.Session))
	{
		protected.POST("/logout", authHandler.Logout)

		protected.GET("/", feedHandler.Home)
		protected.POST("/posts", feedHandler.CreatePost)
		protected.GET("/posts/:id", feedHandler.ShowPost)
		protected.POST("/posts/:id/delete", feedHandler.DeletePost)
		protected.POST("/posts/:id/like", feedHandler.ToggleLike)
		protected.POST("/posts/:id/comments", feedHandler.AddComment)

		protected.GET("/create-profile", profileHandler.ShowCreate)
		protected.POST("/profile", profileHandler.Create)

		// ":username" may be the literal "me", resolved to the viewer.
		profiles := protected.Group("/profile/:username")
		{
			profiles.GET("", profileHandler.Show)
			profiles.GET("/edit", profileHandler.ShowEdit)
			profiles.POST("/edit", profileHandler.Update)
			profiles.POST("/follow", profileHandler.ToggleFollow)
			profiles.GET("/followers", func(c *gin.Context) {
				profileHandler.FollowList(c, "followers")
			})
			profiles.GET("/following", func(c *gin.Context) {
				profileHandler.FollowList(c, "following")
			})
		}
	}

	// Anything unknown lands on the login page.
	r.NoRoute(func(c *gin.Context) {
		c.Redirect(http.StatusSeeOther, "/login")
	})

	return r, nil
}
