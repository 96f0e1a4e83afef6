package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/zhouzirui/z-stylist/backend/internal/config"
	"github.com/zhouzirui/z-stylist/backend/internal/handler"
	"github.com/zhouzirui/z-stylist/backend/internal/logger"
	"github.com/zhouzirui/z-stylist/backend/internal/model/catalog"
	"github.com/zhouzirui/z-stylist/backend/internal/realtime"
	"github.com/zhouzirui/z-stylist/backend/internal/service/chat"
	"github.com/zhouzirui/z-stylist/backend/internal/service/reply"
	"github.com/zhouzirui/z-stylist/backend/internal/service/shopping"
	"github.com/zhouzirui/z-stylist/backend/internal/storage"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Log.Mode)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer zlog.Sync()
	zap.ReplaceGlobals(zlog)

	store, err := storage.Open(cfg.Storage)
	if err != nil {
		zlog.Fatal("failed to open storage", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer store.Close()
	zlog.Info("storage ready", zap.String("driver", cfg.Storage.Driver))

	products := catalog.NewMemoryStore(catalog.Seed())
	generator := newGenerator(ctx, cfg.AI, products, zlog)

	hub := realtime.NewHub(zlog, 0)
	chatSvc := chat.NewService(store, generator,
		chat.WithTiming(cfg.Chat.Timing()),
		chat.WithLogger(zlog),
		chat.WithPublisher(hub),
	)
	chatSvc.Initialize(ctx)
	defer chatSvc.Close()

	router := handler.NewRouter(zlog, handler.Services{
		Chat:     chatSvc,
		Hub:      hub,
		Products: products,
		Shops:    catalog.SeedShops(),
		Sales:    catalog.SeedSales(),
		Looks:    catalog.SeedLooks(),
		Cart:     shopping.NewCart(store, zlog),
		Wishlist: shopping.NewWishlist(store, zlog),
	})

	startServer(ctx, cfg.Server, router, zlog)
}

// newGenerator prefers the Ark model when credentials are present and falls
// back to the canned replies otherwise.
func newGenerator(ctx context.Context, cfg config.AIConfig, products catalog.Store, zlog *zap.Logger) reply.Generator {
	mock := reply.NewMock(products)
	if !cfg.Enabled() {
		zlog.Info("ark credentials not configured, using canned replies")
		return mock
	}

	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		zlog.Warn("failed to create chat model, using canned replies", zap.Error(err))
		return mock
	}
	gen, err := reply.NewModelGenerator(ctx, chatModel, mock, zlog)
	if err != nil {
		zlog.Warn("failed to build model generator, using canned replies", zap.Error(err))
		return mock
	}
	zlog.Info("model generator initialized", zap.String("model", cfg.Model))
	return gen
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, zlog *zap.Logger) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	zlog.Info("z-stylist backend listening", zap.String("addr", serverCfg.Addr))
	if err := runServer(ctx, srv); err != nil {
		zlog.Error("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
