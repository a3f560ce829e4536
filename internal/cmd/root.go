package cmd

import (
	"context"
	"fmt"
	"os"

	"petcover_service/config"
	"petcover_service/internal/domain"
	"petcover_service/internal/repository"
	"petcover_service/internal/usecase"
	"petcover_service/pkg/db"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
)

var rootCmd = &cobra.Command{
	Use:   "petcover",
	Short: "Admin tooling for the custom cover catalog and order queue",
	Long: `petcover manages the customizable product catalog (templates, mockups,
cover geometry) and the customer order queue backing the custom cover store.

All state lives in MongoDB; configuration is read from the environment
(MONGO_URI, MONGO_DB, LOG_LEVEL, PRODUCT_CATEGORIES, COVER_MIN_DIM,
COVER_MAX_DIM), optionally via a .env file.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles everything a command needs after wiring.
type app struct {
	cfg      *config.Config
	log      *logrus.Logger
	client   *mongo.Client
	products usecase.ProductUseCase
	orders   usecase.OrderUseCase
}

func (a *app) close(ctx context.Context) {
	if a.client != nil {
		if err := a.client.Disconnect(ctx); err != nil {
			a.log.Warnf("Failed to disconnect from MongoDB: %v", err)
		}
	}
}

// setup loads configuration, connects to MongoDB and wires repositories and
// use cases, mirroring the service entrypoint dependency injection.
func setup(ctx context.Context) (*app, error) {
	logger := logrus.New()
	// Logs go to stderr so table output on stdout stays machine-readable.
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig(logger)

	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
		logger.Warnf("Invalid LOG_LEVEL '%s', using default: %s", cfg.LogLevel, logLevel.String())
	}
	logger.SetLevel(logLevel)

	client, err := db.Connect(ctx, cfg.MongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	logger.Info("MongoDB connection established.")

	database := client.Database(cfg.MongoDB)
	bounds := domain.SizeBounds{Min: cfg.CoverMinDim, Max: cfg.CoverMaxDim}
	categories := domain.CategorySet(cfg.Categories)

	productRepo := repository.NewMongoProductRepository(database, logger)
	orderRepo := repository.NewMongoOrderRepository(database, logger)

	return &app{
		cfg:      cfg,
		log:      logger,
		client:   client,
		products: usecase.NewProductUseCase(productRepo, categories, bounds, logger),
		orders:   usecase.NewOrderUseCase(orderRepo, logger),
	}, nil
}
