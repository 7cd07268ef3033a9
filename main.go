package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kunalkumaramar/daadis/clients"
	"github.com/kunalkumaramar/daadis/config"
	"github.com/kunalkumaramar/daadis/controllers"
	"github.com/kunalkumaramar/daadis/database"
	"github.com/kunalkumaramar/daadis/logger"
	"github.com/kunalkumaramar/daadis/models"
	awspkg "github.com/kunalkumaramar/daadis/pkg/aws"
	"github.com/kunalkumaramar/daadis/providers"
	"github.com/kunalkumaramar/daadis/repository"
	"github.com/kunalkumaramar/daadis/routes"
	"github.com/kunalkumaramar/daadis/services"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	backend := clients.NewBackendClient(cfg.BackendBaseURL, cfg.BackendTimeout)
	cartAPI := clients.NewCartClient(backend)
	discountAPI := clients.NewDiscountClient(backend)
	profileAPI := clients.NewProfileClient(backend)
	orderAPI := clients.NewOrderClient(backend)
	paymentAPI := clients.NewPaymentClient(backend)
	wishlistAPI := clients.NewWishlistClient(backend)

	redisClient := database.NewRedisClient(cfg.RedisURL)
	defer redisClient.Close()

	db, err := database.ConnectPostgres(logger.Log, &models.Receipt{})
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}

	var events awspkg.SNSPublisher
	if cfg.SNSTopicArn != "" {
		awsCfg, err := awspkg.LoadAWSConfig(context.Background())
		if err != nil {
			logger.Log.Warn("AWS config load failed, events disabled", zap.Error(err))
		} else {
			events = awspkg.NewSNSClient(awsCfg)
			logger.Log.Info("Checkout event publishing enabled", zap.String("topic", cfg.SNSTopicArn))
		}
	}

	receiptRepo := repository.NewGormReceiptRepository(db)
	guestWishlistRepo := repository.NewRedisGuestWishlistRepository(redisClient, 30*24*time.Hour)
	checkoutLock := repository.NewRedisCheckoutLock(redisClient)

	cartService := services.NewCartService(cartAPI, logger.Log)
	quantityController := services.NewQuantityController(cartService, logger.Log)
	discountLedger := services.NewDiscountLedger(discountAPI, cartService, logger.Log)
	addressFlow := services.NewAddressFlow(profileAPI, services.AddressPolicy(cfg.AddressPolicy), logger.Log)
	hosted := providers.NewHostedCheckout(logger.Log)
	wishlistService := services.NewWishlistService(wishlistAPI, cartService, guestWishlistRepo, logger.Log)

	checkoutService := services.NewCheckoutService(services.CheckoutDeps{
		Cart:     cartService,
		Ledger:   discountLedger,
		Address:  addressFlow,
		Orders:   orderAPI,
		Payments: paymentAPI,
		Profiles: profileAPI,
		Provider: hosted,
		Lock:     checkoutLock,
		Receipts: receiptRepo,
		Events:   events,
	}, cfg, logger.Log)

	cartController := controllers.NewCartController(cartService, quantityController, discountLedger)
	checkoutController := controllers.NewCheckoutController(checkoutService, addressFlow, hosted, receiptRepo)
	wishlistController := controllers.NewWishlistController(wishlistService)

	r := gin.New()
	routes.RegisterRoutes(r, cfg, cartController, checkoutController, wishlistController)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Log.Info("Storefront service listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("Server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Shutdown error", zap.Error(err))
	}
}
