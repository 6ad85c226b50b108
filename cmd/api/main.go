package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/luxefurniture/luxe-backend/internal/config"
	"github.com/luxefurniture/luxe-backend/internal/logger"
	"github.com/luxefurniture/luxe-backend/internal/modules/auth"
	"github.com/luxefurniture/luxe-backend/internal/modules/catalog"
	"github.com/luxefurniture/luxe-backend/internal/modules/inventory"
	"github.com/luxefurniture/luxe-backend/internal/modules/order"
	"github.com/luxefurniture/luxe-backend/internal/modules/payment"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zl, err := logger.New(cfg.LogLevel)
	if err != nil {
		log.Fatal(err)
	}
	defer zl.Sync()

	if cfg.PaystackSecretKey == "" {
		zl.Fatal("PAYSTACK_SECRET_KEY is required; the webhook cannot verify signatures without it")
	}
	if cfg.JWTSecret == "" {
		zl.Fatal("JWT_SECRET is required")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		zl.Fatal("open database", zap.Error(err))
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		zl.Fatal("ping database", zap.Error(err))
	}
	zl.Info("connected to database")

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.RequestLogger(zl))

	admin := auth.Middleware(cfg.JWTSecret)

	// ── Identity ────────────────────────────────────────────
	authService := auth.NewService(cfg.AdminEmail, cfg.AdminPasswordHash, cfg.JWTSecret)
	auth.NewHandler(authService).RegisterRoutes(router)

	// ── Catalog ─────────────────────────────────────────────
	catalogRepo := catalog.NewPostgresRepository(db)
	catalogService := catalog.NewService(catalogRepo)
	catalog.NewHandler(catalogService).RegisterRoutes(router, admin)

	// ── Orders ──────────────────────────────────────────────
	orderRepo := order.NewPostgresRepository(db)
	orderService := order.NewService(orderRepo)
	order.NewHandler(orderService).RegisterRoutes(router)

	// ── Inventory ───────────────────────────────────────────
	inventoryRepo := inventory.NewPostgresRepository(db)
	inventoryService := inventory.NewService(inventoryRepo, zl)
	inventory.NewHandler(inventoryService).RegisterRoutes(router, admin)

	// ── Payments & reconciliation ───────────────────────────
	gateway := payment.NewPaystackGateway(cfg.PaystackBaseURL, cfg.PaystackSecretKey)
	paymentRepo := payment.NewPostgresRepository(db)
	paymentService := payment.NewService(paymentRepo, gateway, orderService, inventoryService, zl)
	payment.NewHandler(paymentService, cfg.PaystackSecretKey).RegisterRoutes(router, admin)

	// ── Start server ────────────────────────────────────────
	zl.Info("luxe api server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}
