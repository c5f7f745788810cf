package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/gfw-api/gfw-user-api/internal/config"
	"github.com/gfw-api/gfw-user-api/internal/http/health"
	"github.com/gfw-api/gfw-user-api/internal/http/routes"
	"github.com/gfw-api/gfw-user-api/internal/platform/auth"
	"github.com/gfw-api/gfw-user-api/internal/platform/firebase"
	"github.com/gfw-api/gfw-user-api/internal/platform/gateway"
	applog "github.com/gfw-api/gfw-user-api/internal/platform/logging"
	appmiddleware "github.com/gfw-api/gfw-user-api/internal/platform/middleware"
	"github.com/gfw-api/gfw-user-api/internal/respond"
	"github.com/gfw-api/gfw-user-api/internal/service/salesforce"
	storiessvc "github.com/gfw-api/gfw-user-api/internal/service/stories"
	usersvc "github.com/gfw-api/gfw-user-api/internal/service/user"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := applog.Sync(); err != nil {
			applog.LogError(context.Background(), "logger sync error", err)
		}
	}()
	if err := applog.Err(); err != nil {
		applog.LogError(context.Background(), "logger init error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		applog.LogFatal(context.Background(), "configuration error", err)
	}

	respond.Install(cfg.Production())

	ctx := context.Background()
	clients, err := firebase.InitializeClients(ctx, firebase.Config{
		ProjectID:                    cfg.Firestore.ProjectID,
		GoogleApplicationCredentials: cfg.Firestore.GoogleApplicationCredentials,
	})
	if err != nil {
		applog.LogFatal(ctx, "firestore init error", err)
	}
	defer func() {
		if err := clients.Close(); err != nil {
			applog.LogError(context.Background(), "firestore close error", err)
		}
	}()

	gatewayClient := gateway.NewClient(
		&http.Client{Timeout: 30 * time.Second},
		gateway.WithBaseURL(cfg.Gateway.URL),
		gateway.WithToken(cfg.Gateway.MicroserviceToken),
	)

	userService := usersvc.NewFirestoreStore(clients.Firestore)
	storiesService := storiessvc.NewClient(gatewayClient)
	crm := salesforce.NewDispatcher(gatewayClient, cfg.Salesforce.IntegrationEnabled)

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())

	// Base middleware stack
	router.Use(
		appmiddleware.Security("/api-docs"),
		appmiddleware.Vary(),
		appmiddleware.CORS(),
		appmiddleware.RequestID(),
		// RealIP extracts client IP from X-Real-IP or X-Forwarded-For headers.
		// Only safe behind a trusted reverse proxy.
		chimiddleware.RealIP,
		chimiddleware.RequestSize(1<<20), // 1 MB limit
		applog.RequestLogger(),
		applog.AccessLogger("/healthcheck"),
		auth.Extract(),
		respond.Recoverer(),
	)

	router.Get("/healthcheck", health.Handler)

	humaCfg := huma.DefaultConfig("GFW User API", Version)
	humaCfg.DocsPath = "/api-docs"
	api := humachi.New(router, humaCfg)

	routes.Register(api, userService, storiesService, crm)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10, // 64 KB
	}

	listenErr := make(chan error, 1)
	go func() {
		applog.LogInfo(context.Background(), "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			listenErr <- err
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-listenErr:
		applog.LogError(context.Background(), "listen failed", err, zap.String("addr", srv.Addr))
		os.Exit(1)
	case <-stop:
		applog.LogInfo(context.Background(), "shutdown signal received")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		applog.LogError(shutdownCtx, "server shutdown error", err)
	}
	crm.Flush()
	applog.LogInfo(context.Background(), "server exited")
}
