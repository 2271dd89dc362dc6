package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"gocause/adapters/excel"
	"gocause/adapters/postgres"
	"gocause/adapters/worktree"
	"gocause/internal/config"
	"gocause/internal/ledger"
	"gocause/internal/session"
	"gocause/ports"
	"gocause/ui"
)

// initRepository selects session storage: postgres when DATABASE_URL is
// set, one JSON file per session otherwise.
func initRepository(ctx context.Context, appConfig *config.Config) (ports.SessionRepository, error) {
	if appConfig.Database.URL == "" {
		storage := session.NewFileStorage(appConfig.Paths.SessionsDir)
		if err := storage.EnsureBaseDir(); err != nil {
			return nil, err
		}
		log.Printf("Using file session storage: %s", appConfig.Paths.SessionsDir)
		return storage, nil
	}

	db, err := postgres.Connect(ctx, appConfig.Database.URL)
	if err != nil {
		return nil, err
	}
	log.Printf("Using postgres session storage")
	return postgres.NewSessionRepository(db), nil
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := initRepository(ctx, appConfig)
	if err != nil {
		log.Fatalf("Failed to initialize session storage: %v", err)
	}

	comparator := ledger.NewOverlapComparator(appConfig.Engine.OverlapThreshold)
	manager := session.NewManager(appConfig.SessionConfig(), comparator, repo)

	if loaded, err := manager.LoadAll(ctx); err != nil {
		log.Printf("Warning: failed to restore sessions: %v", err)
	} else if loaded > 0 {
		log.Printf("Restored %d stored sessions", loaded)
	}

	reports := excel.NewReportSink(appConfig.Paths.ReportsDir)
	worktrees := worktree.NewEmitter(true)

	gin.SetMode(appConfig.Server.GinMode)
	server := ui.NewServer(manager, reports, worktrees)

	apiServer := &http.Server{
		Addr:    ":" + appConfig.Server.Port,
		Handler: server.Router(),
	}
	opsServer := &http.Server{
		Addr:    ":" + appConfig.Ops.Port,
		Handler: ui.NewOpsRouter(appConfig.Ops, manager),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("API server listening on %s", apiServer.Addr)
		return serveUntilClosed(apiServer)
	})
	g.Go(func() error {
		log.Printf("Ops server listening on %s", opsServer.Addr)
		return serveUntilClosed(opsServer)
	})
	g.Go(func() error {
		<-gctx.Done()

		// On shutdown the in-memory sessions are flushed to storage
		// before the listeners close.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), appConfig.Server.ShutdownTimeout)
		defer cancel()

		if err := manager.PersistAll(shutdownCtx); err != nil {
			log.Printf("Warning: failed to persist sessions on shutdown: %v", err)
		}
		if err := opsServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Warning: ops server shutdown: %v", err)
		}
		return apiServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
	log.Printf("Shutdown complete")
}

func serveUntilClosed(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
