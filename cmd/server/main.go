package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/reflection"

	api "eventrent-backend/internal/api/grpc"
	"eventrent-backend/internal/api/grpc/interceptor"
	httpapi "eventrent-backend/internal/api/http"
	"eventrent-backend/internal/config"
	"eventrent-backend/internal/email"
	"eventrent-backend/internal/logger"
	"eventrent-backend/internal/repository"
	"eventrent-backend/internal/repository/memory"
	"eventrent-backend/internal/repository/postgres"
	"eventrent-backend/internal/repository/redis"
	"eventrent-backend/internal/security"
	"eventrent-backend/internal/service"
	"eventrent-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting EventRent Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "http", cfg.GetHTTPAddress(), "grpc", cfg.GetGRPCAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Email configuration", "mode", cfg.Email.Mode, "provider", cfg.Email.Provider)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize Database
	db, err := postgres.Open(ctx, cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	if cfg.Database.AutoMigrate {
		if err := postgres.Migrate(ctx, db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	// Initialize Repositories
	store := postgres.NewStore(db)

	var cartRepo repository.CartRepository
	switch cfg.Cart.Store {
	case "redis":
		client, closeRedis := redis.NewClient(cfg.Redis.Addr, cfg.Redis.User, cfg.Redis.Password, cfg.Redis.DB)
		defer closeRedis()
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("Failed to connect to redis: %v", err)
		}
		cartRepo = redis.NewCartRepository(client, cfg.CartTTL())
		logger.Info("Using redis cart store", "addr", cfg.Redis.Addr)
	default:
		cartRepo = memory.NewCartRepository(cfg.CartTTL())
		logger.Info("Using in-memory cart store")
	}

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AdminTokenTTL())

	// Initialize Storage Service
	images, err := storage.NewLocalImageStore(cfg.Storage.BaseURL, cfg.Storage.UploadDir, cfg.Storage.MaxFileSize<<20, cfg.Storage.AllowedTypes)
	if err != nil {
		logger.Error("Failed to initialize image storage", "error", err)
		log.Fatalf("Failed to initialize image storage: %v", err)
	}

	// Initialize Email
	renderer, err := email.NewRenderer(email.RendererConfig{
		Brand:               cfg.Email.Brand,
		Currency:            cfg.Email.Currency,
		PaymentInstructions: cfg.Email.PaymentInstructions,
	})
	if err != nil {
		log.Fatalf("Failed to initialize email renderer: %v", err)
	}
	sender, err := email.NewSender(cfg.Email)
	if err != nil {
		log.Fatalf("Failed to initialize email sender: %v", err)
	}
	emailFunction := email.NewFunction(renderer, sender)

	var dispatcher service.EmailDispatcher = emailFunction
	if cfg.Email.Mode == "remote" {
		client, conn, err := api.DialEmailFunction(cfg.Email.RemoteAddr, tokenManager)
		if err != nil {
			log.Fatalf("Failed to connect to email function: %v", err)
		}
		defer conn.Close()
		dispatcher = client
		logger.Info("Using remote email function", "addr", cfg.Email.RemoteAddr)
	}
	emailSvc := service.NewEmailService(dispatcher, store.EmailOutboxRepository, store.BookingRepository, cfg.Email.OutboxMaxAttempts)

	// Initialize identity provider
	var provider service.IdentityProvider
	switch cfg.Auth.Provider {
	case "firebase":
		fb, err := security.NewFirebaseAuthenticator(ctx, cfg.Auth.FirebaseProjectID, cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			log.Fatalf("Failed to initialize firebase: %v", err)
		}
		provider = service.NewFirebaseIdentityProvider(fb)
	default:
		provider = service.NewLocalIdentityProvider(store.AdminUserRepository)
	}
	logger.Info("Identity provider configured", "provider", provider.Name())

	// Initialize Services
	catalogSvc := service.NewCatalogService(store.RentalItemRepository, cfg.Catalog.DefaultImages, time.Now)
	cartSvc := service.NewCartService(cartRepo, catalogSvc, time.Now)
	checkoutSvc := service.NewCheckoutService(store.BookingRepository, cartRepo, emailSvc, renderer)
	authSvc := service.NewAuthService(provider, store.AdminUserRepository, store.RoleRepository, tokenManager, cfg.Auth.BootstrapAdmins)
	adminSvc := service.NewAdminService(store.RentalItemRepository, store.BookingRepository, store.EmailOutboxRepository, images, emailSvc)

	if err := authSvc.BootstrapAdmins(ctx); err != nil {
		logger.Warn("Failed to bootstrap admins", "error", err)
	}

	// Set up HTTP server
	router := httpapi.NewRouter(httpapi.Services{
		Catalog:  catalogSvc,
		Cart:     cartSvc,
		Checkout: checkoutSvc,
		Auth:     authSvc,
		Admin:    adminSvc,
		Function: emailFunction,
		Images:   images,
		Tokens:   tokenManager,
	}, httpapi.Options{
		AllowedOrigins: cfg.Server.CORSAllowedOrigins,
		SessionTTL:     cfg.CartTTL(),
		MaxUploadBytes: cfg.Storage.MaxFileSize << 20,
		MaxBodyBytes:   cfg.Server.MaxBodyKB << 10,
	})
	httpServer := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 2)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Set up gRPC server for the email function
	var grpcServer *grpc.Server
	if addr := cfg.GetGRPCAddress(); addr != "" {
		lis, err := net.Listen("tcp", addr)
		if err != nil {
			logger.Error("Failed to listen", "error", err, "address", addr)
			log.Fatalf("Failed to listen: %v", err)
		}

		authInterceptor := interceptor.NewAuthInterceptor(tokenManager)
		grpcServer = grpc.NewServer(grpc.UnaryInterceptor(authInterceptor.Unary()))
		api.RegisterEmailFunctionServer(grpcServer, api.NewEmailFunctionHandler(emailFunction))

		// Register reflection service for grpcurl
		reflection.Register(grpcServer)

		go func() {
			logger.Info("gRPC server listening", "address", addr)
			if err := grpcServer.Serve(lis); err != nil {
				errCh <- err
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	case err := <-errCh:
		logger.Error("Server error", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	if grpcServer != nil {
		grpcServer.GracefulStop()
	}
	logger.Info("Server stopped")
}
