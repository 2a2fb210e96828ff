// Command storefrontd runs the Storefront engine behind an HTTP API.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/harborlane/storefront"
	"github.com/harborlane/storefront/audit_hook"
	"github.com/harborlane/storefront/auth"
	blobs3 "github.com/harborlane/storefront/blob/s3"
	"github.com/harborlane/storefront/httpapi"
	"github.com/harborlane/storefront/payment/stripe"
	storemongo "github.com/harborlane/storefront/store/mongo"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	st, err := storemongo.New(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		logger.Error("mongo connect failed", "error", err)
		os.Exit(1)
	}

	gateway := stripe.New(cfg.StripeAPIKey, cfg.StripeWebhookSecret)
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), cfg.JWTTTL)

	opts := []storefront.Option{
		storefront.WithLogger(logger),
		storefront.WithCheckoutURLs(cfg.CheckoutSuccessURL, cfg.CheckoutCancelURL),
		storefront.WithPlugin(audithook.New(audithook.SlogRecorder(logger))),
	}
	if cfg.AllowOversell {
		opts = append(opts, storefront.WithOversellPolicy(storefront.OversellAllow))
	}

	if cfg.S3Bucket != "" {
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			logger.Error("aws config failed", "error", err)
			os.Exit(1)
		}
		opts = append(opts, storefront.WithBlobStore(
			blobs3.New(awss3.NewFromConfig(awsCfg), cfg.S3Bucket)))
	}

	engine := storefront.New(st, gateway, opts...)
	if err := engine.Start(context.Background()); err != nil {
		logger.Error("engine start failed", "error", err)
		os.Exit(1)
	}

	api := httpapi.New(engine, tokens, logger)

	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      api.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http shutdown failed", "error", err)
		}
		if err := engine.Stop(); err != nil {
			logger.Error("engine stop failed", "error", err)
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting storefrontd", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("listen failed", "error", err)
		os.Exit(1)
	}

	<-idleConnsClosed
	logger.Info("server stopped")
}
