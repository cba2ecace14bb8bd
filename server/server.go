// Package server assembles the HTTP API and background runners.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/usefundoo/fundoo/internal/profile"
	"github.com/usefundoo/fundoo/plugin/mail"
	"github.com/usefundoo/fundoo/server/middleware"
	apiv1 "github.com/usefundoo/fundoo/server/router/api/v1"
	"github.com/usefundoo/fundoo/server/runner/reminder"
	"github.com/usefundoo/fundoo/server/service/collaborator"
	"github.com/usefundoo/fundoo/server/service/invalidator"
	"github.com/usefundoo/fundoo/server/service/label"
	"github.com/usefundoo/fundoo/server/service/note"
	"github.com/usefundoo/fundoo/server/service/user"
	"github.com/usefundoo/fundoo/store"
	"github.com/usefundoo/fundoo/store/cache"
)

// Server is the main server of fundoo.
type Server struct {
	Profile *profile.Profile
	Store   *store.Store

	echoServer     *echo.Echo
	cacheStore     cache.Store
	memoryCache    *cache.MemoryStore
	reminderRunner *reminder.Runner
}

// NewServer creates the server with all its services wired up.
func NewServer(ctx context.Context, prof *profile.Profile, st *store.Store) (*Server, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			)
			return nil
		},
	}))
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())

	s := &Server{
		Profile:    prof,
		Store:      st,
		echoServer: e,
	}

	if prof.RedisAddr != "" {
		redisStore, err := cache.NewRedisStore(cache.RedisConfig{
			Addr:     prof.RedisAddr,
			Password: prof.RedisPassword,
			DB:       prof.RedisDB,
		})
		if err != nil {
			return nil, errors.Wrap(err, "failed to create redis cache")
		}
		s.cacheStore = redisStore
	} else {
		s.memoryCache = cache.NewMemoryStore(cache.MemoryConfig{})
		s.cacheStore = s.memoryCache
	}

	var dispatcher mail.Dispatcher
	if prof.MailEnabled() {
		dispatcher = mail.NewSMTPDispatcher(mail.SMTPConfig{
			Host:     prof.SMTPHost,
			Port:     prof.SMTPPort,
			Username: prof.SMTPUsername,
			Password: prof.SMTPPassword,
			From:     prof.SMTPFrom,
		})
	} else {
		dispatcher = mail.NewLogDispatcher()
	}

	coordinator := invalidator.New(s.cacheStore)
	userService := user.NewService(st, dispatcher, prof.Secret)
	noteService := note.NewService(st, s.cacheStore, coordinator)
	labelService := label.NewService(st, s.cacheStore, coordinator)
	collaboratorService := collaborator.NewService(st, coordinator)

	apiV1Service := apiv1.NewAPIV1Service(prof, st, userService, noteService, labelService, collaboratorService)
	apiV1Service.Register(e)

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "Service ready.")
	})

	s.reminderRunner = reminder.NewRunner(st, dispatcher)

	return s, nil
}

// Start runs the HTTP listener and the background runners until the context
// is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.Profile.Addr, s.Profile.Port)
	slog.Info("server started", "addr", addr, "mode", s.Profile.Mode, "version", s.Profile.Version)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := s.echoServer.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return errors.Wrap(err, "http listener failed")
		}
		return nil
	})
	group.Go(func() error {
		s.reminderRunner.Run(ctx)
		return nil
	})

	return group.Wait()
}

// Shutdown stops the HTTP listener and releases the server's resources.
func (s *Server) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := s.echoServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("failed to shut down http listener", "err", err)
	}

	if s.memoryCache != nil {
		s.memoryCache.Close()
	}
	if redisStore, ok := s.cacheStore.(*cache.RedisStore); ok {
		if err := redisStore.Close(); err != nil {
			slog.Error("failed to close redis cache", "err", err)
		}
	}
	if err := s.Store.Close(); err != nil {
		slog.Error("failed to close database", "err", err)
	}
	slog.Info("server stopped")
}
