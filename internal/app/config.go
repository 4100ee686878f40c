package app

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roomie-backend/internal/allocation"
	"github.com/yungbote/roomie-backend/internal/matching"
	"github.com/yungbote/roomie-backend/internal/ml"
	"github.com/yungbote/roomie-backend/internal/platform/envutil"
	"github.com/yungbote/roomie-backend/internal/platform/logger"
)

type Config struct {
	Port         string
	AllowOrigins []string
	Models       ml.Config
	Weights      matching.Weights
	Thresholds   allocation.Thresholds
}

// matchingFile is the optional YAML override for fusion weights and
// allocation thresholds, pointed at by MATCHING_CONFIG_PATH.
type matchingFile struct {
	Weights    *matching.Weights      `yaml:"weights"`
	Thresholds *allocation.Thresholds `yaml:"thresholds"`
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port: envutil.String("PORT", "8080"),
		Models: ml.Config{
			Dir:           envutil.String("MODEL_DIR", "models"),
			MinCorpus:     envutil.Int("TRAIN_MIN_CORPUS", 10),
			NeighborK:     envutil.Int("NEIGHBOR_K", 5),
			MaxComponents: envutil.Int("REDUCER_COMPONENTS", 50),
			TrainSplit:    envutil.Float("TRAIN_SPLIT", 0.8),
		},
		Weights:    matching.DefaultWeights(),
		Thresholds: allocation.DefaultThresholds(),
	}

	if origins := envutil.String("CORS_ALLOW_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowOrigins = append(cfg.AllowOrigins, o)
			}
		}
	}

	if path := envutil.String("MATCHING_CONFIG_PATH", ""); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			log.Warn("matching config unreadable, using defaults", "path", path, "error", err)
			return cfg
		}
		var file matchingFile
		if err := yaml.Unmarshal(raw, &file); err != nil {
			log.Warn("matching config invalid, using defaults", "path", path, "error", err)
			return cfg
		}
		if file.Weights != nil {
			cfg.Weights = *file.Weights
		}
		if file.Thresholds != nil {
			cfg.Thresholds = *file.Thresholds
		}
		log.Info("matching config loaded", "path", path)
	}
	return cfg
}
