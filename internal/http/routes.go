package http

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RouteOptions carries the settings routes need beyond Env.
type RouteOptions struct {
	CORSOrigin string
	AdminToken string
}

// SetupRoutes configures all application routes and middleware. Background
// upkeep (the rate limiter sweep) stops with ctx.
func SetupRoutes(ctx context.Context, router *gin.Engine, env *Env, opts RouteOptions) {

	// --- Middleware ---

	router.Use(gin.Recovery())
	router.Use(RequestLogger(env.Log))
	router.Use(SecurityHeadersMiddleware())

	corsOrigin := opts.CORSOrigin
	if corsOrigin == "" {
		corsOrigin = "*"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{corsOrigin},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: corsOrigin != "*",
	}))

	// --- Rate Limiter Setup ---
	limiter := NewIPRateLimiter(rate.Limit(rateLimitRPS), rateLimitBurst)
	go limiter.Sweep(ctx, time.Minute)

	router.SetHTMLTemplate(loadTemplates())

	// --- API Routes ---

	api := router.Group("/api")
	{
		api.GET("/types", env.GetTypes)
		api.POST("/proposals", RateLimitMiddleware(limiter), env.CreateProposal)
		api.GET("/proposals/:id", env.GetProposal)
		api.GET("/proposals/:id/status", env.GetStatus)
		api.POST("/proposals/:id/response", env.RespondToProposal)
		api.POST("/proposals/:id/guesses", env.SubmitGuess)
		api.DELETE("/admin/expired", AdminAuthMiddleware(opts.AdminToken), env.PurgeExpired)
	}

	// --- WebSocket Route ---

	router.GET("/ws/status/:id", env.StatusSocket)

	// --- Pages ---

	router.GET("/", env.Home)
	router.GET("/healthz", env.Health)
	router.GET("/create", env.CreatePage)
	router.POST("/create", RateLimitMiddleware(limiter), env.CreateSubmit)
	router.GET("/p/:id", env.RevealPage)
	router.POST("/p/:id/respond", env.RespondSubmit)
	router.POST("/p/:id/guess", env.GuessSubmit)
	router.GET("/status/:id", env.StatusPage)
}
