package config

import (
	"os"
	"sync"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

type Config struct {
	MongoURI    string   `envconfig:"MONGO_URI"          required:"true"`
	MongoDB     string   `envconfig:"MONGO_DB"           default:"petcover"`
	LogLevel    string   `envconfig:"LOG_LEVEL"          default:"info"`
	Categories  []string `envconfig:"PRODUCT_CATEGORIES" default:"Daily Necessities,3C Products,Home Goods,Pet Supplies,Pet Apparel"`
	CoverMinDim int      `envconfig:"COVER_MIN_DIM"      default:"100"`
	CoverMaxDim int      `envconfig:"COVER_MAX_DIM"      default:"2000"`
}

var (
	config Config
	once   sync.Once
)

func LoadConfig(logger *logrus.Logger) *Config {
	once.Do(func() {
		err := godotenv.Load()
		if err != nil && !os.IsNotExist(err) {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		} else if err == nil {
			logger.Info("Loaded configuration from .env file")
		}

		err = envconfig.Process("", &config)
		if err != nil {
			logger.Fatalf("Failed to process configuration from environment variables: %v", err)
		}

		logger.Infof("Configuration loaded: MongoDB=%s, LogLevel=%s, %d categories", config.MongoDB, config.LogLevel, len(config.Categories))
		if config.CoverMinDim <= 0 || config.CoverMaxDim < config.CoverMinDim {
			logger.Fatalf("Configuration error: cover dimension bounds %d-%d are not a valid range", config.CoverMinDim, config.CoverMaxDim)
		}
	})
	return &config
}
