package cmd

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
	"github.com/pocketbase/pocketbase/plugins/migratecmd"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	pubnub "github.com/pubnub/go"
	"github.com/redis/go-redis/v9"

	"ticket-pass/config"
	"ticket-pass/handlers"
	"ticket-pass/internal/services/paymaster"
	"ticket-pass/internal/services/wallet"
	"ticket-pass/rpc"
	"ticket-pass/security"
	"ticket-pass/services"
	"ticket-pass/solana"
	"ticket-pass/storage"
	"ticket-pass/utils"

	_ "ticket-pass/migrations"
)

func Start() error {
	app := pocketbase.New()

	// Load configuration
	cfg := config.LoadConfig()

	// Initialize Redis
	redisClient := utils.NewRedisClient(cfg.RedisURL, cfg.RedisPassword, cfg.RedisDB)
	defer redisClient.Close()

	// Initialize PubNub (optional; push notifications are skipped when
	// no keys are configured)
	var pn *pubnub.PubNub
	if cfg.PubNubPublishKey != "" && cfg.PubNubSubscribeKey != "" {
		pnConfig := pubnub.NewConfig()
		pnConfig.PublishKey = cfg.PubNubPublishKey
		pnConfig.SubscribeKey = cfg.PubNubSubscribeKey
		pnConfig.SecretKey = cfg.PubNubSecretKey
		pn = pubnub.NewPubNub(pnConfig)
	}

	// Ticket store backend
	store, err := newTicketStore(cfg, redisClient)
	if err != nil {
		return fmt.Errorf("ticket store: %w", err)
	}
	defer store.Close()

	// Solana keys
	programID, err := solana.ParsePublicKey(cfg.TicketProgramID)
	if err != nil {
		return fmt.Errorf("invalid TICKET_PROGRAM_ID: %w", err)
	}
	usdcMint, err := solana.ParsePublicKey(cfg.USDCMint)
	if err != nil {
		return fmt.Errorf("invalid USDC_MINT: %w", err)
	}
	var merchant solana.PublicKey
	if cfg.MerchantWallet != "" {
		merchant, err = solana.ParsePublicKey(cfg.MerchantWallet)
		if err != nil {
			return fmt.Errorf("invalid MERCHANT_WALLET: %w", err)
		}
	} else {
		log.Println("MERCHANT_WALLET is not set; purchases will be rejected")
	}

	// RPC client
	chainClient := rpc.NewClient(cfg.RPCURL, cfg.RPCTimeout)

	// Wallet provider
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := wallet.NewFactory()
	walletProvider, err := factory.CreateProvider(ctx, wallet.ProviderLazor, &wallet.LazorConfig{
		BaseURL: cfg.WalletPortalURL,
		APIKey:  cfg.WalletPortalKey,
	})
	if err != nil {
		return fmt.Errorf("wallet provider: %w", err)
	}
	defer walletProvider.Close(ctx)

	// Paymaster
	paymasterClient, err := paymaster.New(&paymaster.Config{
		BaseURL: cfg.PaymasterURL,
		APIKey:  cfg.PaymasterKey,
	})
	if err != nil {
		return fmt.Errorf("paymaster: %w", err)
	}

	// Gate pass sealer
	sealer, err := security.NewSealer(cfg.GatePassKey)
	if err != nil {
		return fmt.Errorf("GATE_PASS_KEY: %w", err)
	}

	// Initialize services
	resolver := services.NewTicketResolver(store, chainClient, programID)
	purchaseService := services.NewPurchaseService(resolver, walletProvider, paymasterClient, chainClient, pn, usdcMint, merchant)
	verifyService := services.NewVerifyService(resolver, sealer, pn)

	// Initialize handlers
	eventHandler := handlers.NewEventHandler(app)
	ticketHandler := handlers.NewTicketHandler(app, purchaseService, resolver)
	verifyHandler := handlers.NewVerifyHandler(app, verifyService)

	rateLimiter := security.NewRateLimiter(redisClient)

	// Enable migrations
	migratecmd.MustRegister(app, app.RootCmd, migratecmd.Config{
		Automigrate: true,
	})

	// Metrics endpoint on its own port
	if cfg.EnableMetrics {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", promhttp.Handler())
			slog.Info("metrics server listening", "port", cfg.MetricsPort)
			if err := http.ListenAndServe(":"+cfg.MetricsPort, mux); err != nil {
				slog.Error("metrics server stopped", "error", err)
			}
		}()
	}

	// Setup graceful shutdown
	go handleShutdown(cancel)

	// Register routes
	app.OnServe().BindFunc(func(e *core.ServeEvent) error {
		// Event endpoints
		e.Router.GET("/api/v1/events", eventHandler.ListEvents).BindFunc(rateLimiter.AntiBot())
		e.Router.GET("/api/v1/events/{eventId}", eventHandler.GetEvent).BindFunc(rateLimiter.AntiBot())

		// Ticket endpoints
		e.Router.POST("/api/v1/tickets/purchase", ticketHandler.Purchase).BindFunc(rateLimiter.AntiBot())
		e.Router.GET("/api/v1/tickets/status", ticketHandler.Status).BindFunc(rateLimiter.AntiBot())

		// Gate verification
		e.Router.POST("/api/v1/verify/entry", verifyHandler.VerifyEntry).BindFunc(rateLimiter.VerifyRateLimit(30))

		// Test endpoint for granting tickets without a chain transfer
		if cfg.Environment == "development" {
			e.Router.POST("/api/v1/test/simulate-purchase", ticketHandler.SimulatePurchase)
		}

		// Health check
		e.Router.GET("/health", func(e *core.RequestEvent) error {
			if err := utils.RedisHealthCheck(redisClient); err != nil {
				return e.JSON(503, map[string]string{
					"status": "unhealthy",
					"error":  err.Error(),
				})
			}
			return e.JSON(200, map[string]string{"status": "healthy"})
		})

		log.Println("Server routes registered")

		return e.Next()
	})

	// Start server
	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
	return nil
}

func newTicketStore(cfg *config.Config, redisClient *redis.Client) (storage.TicketStore, error) {
	switch cfg.StorageBackend {
	case "badger":
		return storage.NewBadgerTicketStore(cfg.BadgerPath)
	case "redis", "":
		return storage.NewRedisTicketStore(redisClient), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}

// handleShutdown handles graceful shutdown
func handleShutdown(cancel context.CancelFunc) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	<-sigChan
	log.Println("Shutdown signal received, cleaning up...")
	cancel()
}
