// Package app sequences the one-time startup of the server: middleware,
// error handling, models, routes, the asset pipeline, and finally the
// concurrent database-connect and listener-bind join.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"

	"github.com/oakwellhq/webstarter/internal/assets"
	"github.com/oakwellhq/webstarter/internal/config"
	"github.com/oakwellhq/webstarter/internal/database"
	"github.com/oakwellhq/webstarter/internal/handler"
	"github.com/oakwellhq/webstarter/internal/mail"
	"github.com/oakwellhq/webstarter/internal/middleware"
	"github.com/oakwellhq/webstarter/internal/queue"
	"github.com/oakwellhq/webstarter/internal/render"
	"github.com/oakwellhq/webstarter/internal/repository"
	"github.com/oakwellhq/webstarter/internal/router"
	"github.com/oakwellhq/webstarter/internal/session"
)

// App owns the echo instance and every component wired at startup.
type App struct {
	cfg      config.Config
	e        *echo.Echo
	client   *mongo.Client
	users    *repository.UserRepo
	posts    *repository.BlogRepo
	store    *session.MongoStore
	manifest assets.Manifest
}

// New runs the startup sequence. Each stage depends on the prior:
// middleware, error handler, database client and models, routes, the
// asset pipeline, then the static and catch-all routes that consume the
// manifest. The database connection itself is verified in Run.
func New(cfg config.Config) (*App, error) {
	e := echo.New()
	e.HideBanner = true

	a := &App{cfg: cfg, e: e}

	a.setupMiddleware()
	a.setupErrorHandler()
	if err := a.setupModels(); err != nil {
		return nil, err
	}
	if err := a.setupRenderer(); err != nil {
		return nil, err
	}
	a.setupRoutes()
	a.setupAssets()
	a.setupStatic()
	return a, nil
}

// Echo exposes the configured instance, mainly for tests.
func (a *App) Echo() *echo.Echo { return a.e }

// setupMiddleware installs compression, body parsing limits, security
// headers, CORS, method override, request logging, panic recovery, and the
// optional Redis rate limiter.
func (a *App) setupMiddleware() {
	a.e.Use(echomw.Recover())
	a.e.Use(echomw.Logger())
	a.e.Use(echomw.Gzip())
	a.e.Use(echomw.BodyLimit("2M"))
	a.e.Use(echomw.Secure())
	a.e.Use(echomw.CORS())
	a.e.Use(echomw.MethodOverride())
	a.e.Use(middleware.RateLimit(a.cfg.RateLimit, config.NewRedisClient(a.cfg)))
}

// setupErrorHandler installs the centralized error classifier.
func (a *App) setupErrorHandler() {
	a.e.HTTPErrorHandler = a.handleError
}

// setupModels creates the lazy database client, the repositories, and the
// session store. Index creation is deferred to Run, after the connection
// is verified.
func (a *App) setupModels() error {
	client, err := database.Open(a.cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("open mongodb client: %w", err)
	}
	db := client.Database(a.cfg.MongoDB)
	a.client = client
	a.users = repository.NewUserRepo(db)
	a.posts = repository.NewBlogRepo(db)
	a.store = session.NewMongoStore(db, a.cfg.SessionMaxAge, []byte(a.cfg.SessionSecret))
	return nil
}

func (a *App) setupRenderer() error {
	r, err := render.New(a.cfg.LayoutFile)
	if err != nil {
		return fmt.Errorf("parse layout: %w", err)
	}
	a.e.Renderer = r
	return nil
}

// setupRoutes registers the resource routes with their controllers.
func (a *App) setupRoutes() {
	sessions := session.NewManager(a.store)
	a.e.Use(middleware.Identity(sessions, a.cfg.JWTSecret))

	users := handler.NewUserHandler(
		a.cfg,
		a.users,
		sessions,
		mail.NewSMTPSender(a.cfg.SMTP),
		queue.NewAMQPPublisher(a.cfg.AMQPURL),
	)
	router.RegisterUserRoutes(a.e, users)
	router.RegisterBlogRoutes(a.e, handler.NewBlogHandler(a.posts))
	a.e.GET("/healthz", handler.Health)
}

// setupAssets prepares the frontend output directories, compiles styles,
// collects scripts, renders the per-environment bundles, and applies the
// CDN rewrite. Asset generation is best-effort.
func (a *App) setupAssets() {
	a.manifest = assets.NewPipeline(a.cfg).Run()
}

// setupStatic serves the client tree and installs the catch-all page
// route over the finished manifest.
func (a *App) setupStatic() {
	router.RegisterStatic(a.e, a.cfg, a.manifest)
}

// Run verifies the database connection and binds the listeners as
// independent concurrent operations; a failure in either aborts startup.
// Listener policy: HTTPS listens when active; HTTP listens when active or
// when neither listener is active (HTTP is the default).
func (a *App) Run(ctx context.Context) error {
	go queue.StartAuditConsumer(a.cfg.AMQPURL)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := database.Ping(ctx, a.client, 10*time.Second); err != nil {
			return fmt.Errorf("mongodb connection: %w", err)
		}
		if err := a.ensureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure indexes: %w", err)
		}
		a.e.Logger.Infof("connected to MongoDB (%s)", a.cfg.MongoDB)
		return nil
	})

	if a.cfg.HTTP.Active || !a.cfg.HTTPS.Active {
		g.Go(func() error {
			a.e.Logger.Infof("HTTP server listening on port %s in %s mode", a.cfg.HTTP.Port, a.cfg.Env)
			err := a.e.Start(":" + a.cfg.HTTP.Port)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}
	if a.cfg.HTTPS.Active {
		g.Go(func() error {
			a.e.Logger.Infof("HTTPS server listening on port %s in %s mode", a.cfg.HTTPS.Port, a.cfg.Env)
			err := a.e.StartTLS(":"+a.cfg.HTTPS.Port, a.cfg.HTTPS.CertFile, a.cfg.HTTPS.KeyFile)
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})
	}

	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return a.e.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) ensureIndexes(ctx context.Context) error {
	if err := a.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return a.store.EnsureIndexes(ctx)
}
