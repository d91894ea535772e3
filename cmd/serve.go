package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/hireloop/screener/internal/logger"
	"github.com/hireloop/screener/internal/screening"
	"github.com/hireloop/screener/internal/server"
)

const shutdownTimeout = 5 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the screening form and JSON API over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "listen address (default :8080)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func serve() {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	classifier, err := newClassifier(ctx, config.Gemini, logger)
	if err != nil {
		logger.Fatal("building the classifier", zap.Error(err))
	}

	screener := screening.New(classifier, screening.Config{
		Role:         config.Role,
		MaxLogLength: config.Gemini.MaxLogLength,
	}, logger)

	srv := &http.Server{
		Addr:    config.Server.Listen,
		Handler: server.NewHandler(screener, logger),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting the http server",
			zap.String("version", version),
			zap.String("addr", srv.Addr),
			zap.String("model", classifier.Model()),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Fatal("http server failed", zap.Error(err))

	case sig := <-shutdown:
		logger.Info("shutting down", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("graceful shutdown did not complete", zap.Error(err))
			if err := srv.Close(); err != nil {
				logger.Error("closing the http server", zap.Error(err))
			}
		}

		logger.Info("http server stopped")
	}
}
