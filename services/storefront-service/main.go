package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awspkg "github.com/caseforge/storefront/pkg/aws"
	"github.com/caseforge/storefront/services/common/auth"
	"github.com/caseforge/storefront/services/common/logger"
	commonmw "github.com/caseforge/storefront/services/common/middleware"
	"github.com/caseforge/storefront/services/storefront-service/controllers"
	"github.com/caseforge/storefront/services/storefront-service/database"
	"github.com/caseforge/storefront/services/storefront-service/metrics"
	"github.com/caseforge/storefront/services/storefront-service/repository"
	"github.com/caseforge/storefront/services/storefront-service/routes"
	"github.com/caseforge/storefront/services/storefront-service/sender"
	servicepkg "github.com/caseforge/storefront/services/storefront-service/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const serviceName = "storefront-service"

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	db, err := database.ConnectPostgres(cfg.Postgres, zl)
	if err != nil {
		zl.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close(db) //nolint:errcheck

	// Optional infrastructure: each piece degrades to disabled when absent.
	var cache servicepkg.ConfigurationCache
	if cfg.RedisURL != "" {
		rdb, err := database.NewRedisClient(context.Background(), cfg.RedisURL)
		if err != nil {
			zl.Warn("Redis unavailable, configuration cache disabled", zap.Error(err))
		} else {
			defer rdb.Close() //nolint:errcheck
			cache = servicepkg.NewRedisConfigurationCache(rdb, servicepkg.DefaultCacheTTL, zl)
		}
	}

	var (
		snsClient  awspkg.SNSPublisher
		presigner  awspkg.Presigner
		cloudwatch *awspkg.MetricsClient
	)
	awsCfg, awsErr := awspkg.LoadAWSConfig(context.Background())
	if awsErr != nil {
		zl.Warn("AWS config unavailable, SNS, uploads and CloudWatch disabled", zap.Error(awsErr))
	} else {
		if cfg.OrderSNSTopicARN != "" {
			snsClient = awspkg.NewSNSClient(awsCfg)
		}
		if cfg.UploadBucket != "" {
			presigner = awspkg.NewS3Presigner(awsCfg, cfg.UploadBucket)
		}
		cloudwatch = awspkg.NewMetricsClient(awsCfg, cfg.CloudWatchNamespace, cfg.CloudWatchEnabled)
	}

	emailSender, err := newEmailSender(cfg)
	if err != nil {
		zl.Fatal("Failed to init email sender", zap.Error(err))
	}

	promMetrics := metrics.New(prometheus.DefaultRegisterer, "storefront").WithCloudWatch(cloudwatch)

	// Repositories and services
	orderRepo := repository.NewGormOrderRepository(db)
	configRepo := repository.NewGormConfigurationRepository(db)
	userRepo := repository.NewGormUserRepository(db)

	fulfillmentOpts := []servicepkg.FulfillmentOption{servicepkg.WithFulfillmentMetrics(promMetrics)}
	if snsClient != nil {
		fulfillmentOpts = append(fulfillmentOpts, servicepkg.WithOrderPaidPublisher(snsClient))
	}
	fulfillment := servicepkg.NewFulfillmentService(
		servicepkg.FulfillmentConfig{
			SigningSecret:     cfg.StripeSigningSecret,
			EmailAttempts:     cfg.EmailAttempts,
			EmailRetryDelay:   time.Second,
			OrderPaidTopicArn: cfg.OrderSNSTopicARN,
		},
		orderRepo, emailSender, zl, fulfillmentOpts...,
	)
	checkout := servicepkg.NewCheckoutService(
		servicepkg.CheckoutConfig{
			FrontendURL:      cfg.FrontendURL,
			Currency:         cfg.Currency,
			AllowedCountries: cfg.ShippingCountries,
		},
		configRepo, orderRepo, userRepo,
		servicepkg.NewStripeService(cfg.StripeAPIKey),
		promMetrics, zl,
	)
	configurations := servicepkg.NewConfigurationService(configRepo, cache, presigner, cfg.UploadPublicBaseURL, zl)
	dashboard := servicepkg.NewDashboardService(orderRepo, zl)
	orders := servicepkg.NewOrderService(orderRepo)

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		gin.Recovery(),
		logger.RequestID(),
		commonmw.RequestLogger(zl),
		commonmw.SecurityHeaders(),
		commonmw.CORSMiddleware(cfg.AllowedOrigins),
		commonmw.MetricsMiddleware(cloudwatch, serviceName),
		commonmw.Timeout(30*time.Second),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	routes.RegisterRoutes(r, routes.Controllers{
		Webhook:       controllers.NewWebhookController(fulfillment, zl),
		Checkout:      controllers.NewCheckoutController(checkout, zl),
		Configuration: controllers.NewConfigurationController(configurations, zl),
		Order:         controllers.NewOrderController(orders, zl),
		Admin:         controllers.NewAdminController(dashboard, zl),
	}, routes.Options{
		TokenParser: auth.NewTokenParser(cfg.JWTSecret),
		AdminEmails: cfg.AdminEmails,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zl.Fatal("Server failed", zap.Error(err))
		}
	}()

	zl.Info("Storefront service started", zap.String("port", cfg.Port))
	<-quit
	zl.Info("Shutting down storefront service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zl.Fatal("Server forced to shutdown", zap.Error(err))
	}
	zl.Info("Server exited cleanly")
}

func newEmailSender(cfg *Config) (sender.EmailSender, error) {
	if cfg.EmailProvider == EmailProviderSMTP {
		return sender.NewSMTPSender(sender.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUser,
			Password: cfg.SMTPPass,
			From:     cfg.EmailSenderAddress,
			FromName: cfg.EmailSenderName,
		})
	}
	return sender.NewBrevoSender(sender.BrevoConfig{
		APIKey:      cfg.BrevoAPIKey,
		SenderName:  cfg.EmailSenderName,
		SenderEmail: cfg.EmailSenderAddress,
	})
}
