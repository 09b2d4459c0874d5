package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/bilalnawaz072/Gemeni-Game-Studio/config"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/middleware"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/pkg/feed"
	"github.com/bilalnawaz072/Gemeni-Game-Studio/pkg/studio"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// App represents the game studio HTTP application
type App struct {
	engine      *gin.Engine
	config      *config.Config
	logger      zerolog.Logger
	studio      *studio.Service
	hub         *feed.Hub
	httpServer  *http.Server
	gameHandler *GameHandler
	feedHandler *FeedHandler
}

// Options holds server configuration options
type Options struct {
	Config *config.Config
	Logger zerolog.Logger
	Studio *studio.Service
	// Feed is optional; without it the live feed routes are not registered.
	Feed *feed.Hub
}

// Router is an alias for gin.Engine for convenience
type Router = gin.Engine

// New creates a new game studio application
func New(opts Options) *App {
	if opts.Config.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	app := &App{
		engine: engine,
		config: opts.Config,
		logger: opts.Logger,
		studio: opts.Studio,
		hub:    opts.Feed,
	}

	app.gameHandler = NewGameHandler(app, opts.Studio)
	if opts.Feed != nil {
		app.feedHandler = NewFeedHandler(app, opts.Feed)
	}

	return app
}

// Setup installs the common middlewares and every route.
func (a *App) Setup() *App {
	a.UseCommonMiddlewares()
	a.RegisterHealthCheck()
	a.RegisterGameRoutes()
	if a.config.Server.EnableSwagger {
		a.RegisterSwagger()
	}
	a.RegisterStatic()
	return a
}

// UseCommonMiddlewares adds common middlewares to the application
func (a *App) UseCommonMiddlewares() {
	// Trace ID first so a recovered panic still reports it
	a.engine.Use(middleware.TraceID())
	a.engine.Use(middleware.Recovery(a.logger))
	a.engine.Use(middleware.Logging(a.logger))

	if a.config.Server.EnableCORS {
		a.engine.Use(middleware.CORS())
	}
}

// RegisterHealthCheck adds health check endpoints
func (a *App) RegisterHealthCheck() {
	a.engine.GET("/health", a.healthCheck)
	a.engine.GET("/api/health", a.healthCheck)
}

func (a *App) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":       "healthy",
		"timestamp":    time.Now(),
		"service":      a.config.Environment,
		"store_driver": a.config.Store.Driver,
		"ai_provider":  a.config.AI.Provider,
	})
}

// RegisterGameRoutes registers the game API.
//
// Flow: HTTP Request -> GameHandler -> studio.Service
//
// Routes registered:
//   - POST   /generate            -> GameHandler.Generate
//   - POST   /api/games           -> GameHandler.SaveGame
//   - GET    /api/games           -> GameHandler.ListGames
//   - POST   /api/games/generate  -> GameHandler.GenerateGame
//   - GET    /api/games/feed      -> FeedHandler.Stream (SSE)
//   - GET    /api/games/feed/ws   -> FeedHandler.StreamWebSocket (WebSocket)
//   - GET    /api/games/:id       -> GameHandler.GetGame
//   - DELETE /api/games/:id       -> GameHandler.DeleteGame
//   - POST   /api/iterate         -> GameHandler.Iterate
func (a *App) RegisterGameRoutes() {
	a.engine.POST("/generate", a.gameHandler.Generate)

	api := a.engine.Group("/api")
	{
		games := api.Group("/games")
		{
			games.POST("", a.gameHandler.SaveGame)
			games.GET("", a.gameHandler.ListGames)
			games.POST("/generate", a.gameHandler.GenerateGame)
			if a.feedHandler != nil {
				games.GET("/feed", a.feedHandler.Stream)
				games.GET("/feed/ws", a.feedHandler.StreamWebSocket)
			}
			games.GET("/:id", a.gameHandler.GetGame)
			games.DELETE("/:id", a.gameHandler.DeleteGame)
		}
		api.POST("/iterate", a.gameHandler.Iterate)
	}

	a.logger.Info().Bool("feed", a.feedHandler != nil).Msg("Game routes registered")
}

// RegisterStatic serves the browser front end from server.static_dir.
// Unknown /api paths keep answering with the JSON error body.
func (a *App) RegisterStatic() {
	dir := a.config.Server.StaticDir
	info, err := os.Stat(dir)
	if dir == "" || err != nil || !info.IsDir() {
		a.logger.Debug().Str("dir", dir).Msg("Static directory not found, front end disabled")
		a.engine.NoRoute(notFound)
		return
	}

	files := http.FileServer(http.Dir(dir))
	a.engine.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || c.Request.Method != http.MethodGet {
			notFound(c)
			return
		}
		files.ServeHTTP(c.Writer, c.Request)
	})

	abs, _ := filepath.Abs(dir)
	a.logger.Info().Str("dir", abs).Msg("Serving static front end")
}

// Router returns the Gin engine for custom route registration
func (a *App) Router() *gin.Engine {
	return a.engine
}

func (a *App) newHTTPServer() *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", a.config.Server.Port),
		Handler:      a.engine,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
		IdleTimeout:  a.config.Server.IdleTimeout,
	}
}

// Run starts the HTTP server and blocks until SIGINT or SIGTERM.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.RunWithContext(ctx)
}

// RunWithContext starts the HTTP server and shuts it down when ctx ends.
func (a *App) RunWithContext(ctx context.Context) error {
	a.httpServer = a.newHTTPServer()

	errChan := make(chan error, 1)
	go func() {
		a.logger.Info().
			Int("port", a.config.Server.Port).
			Str("environment", a.config.Environment).
			Msg("Starting HTTP server")

		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		return a.shutdown()
	case err := <-errChan:
		return err
	}
}

func (a *App) shutdown() error {
	a.logger.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Live feeds never finish on their own; close them before draining.
	if a.hub != nil {
		_ = a.hub.Close()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Error during server shutdown")
		return err
	}

	a.logger.Info().Msg("Server shutdown complete")
	return nil
}

// Config returns the application configuration
func (a *App) Config() *config.Config {
	return a.config
}

// Logger returns the application logger
func (a *App) Logger() zerolog.Logger {
	return a.logger
}

// Studio returns the game service behind the handlers
func (a *App) Studio() *studio.Service {
	return a.studio
}
