// Package config centralizes process configuration for the extraction
// pipeline: external tool locations (poppler, tesseract), OCR tuning, and
// the embedding model directory. Values come from an optional config file,
// environment variables, and built-in defaults, in that order of priority.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the pipeline needs from the environment.
type Config struct {
	// PopplerPath is the directory containing pdftoppm/pdfinfo. Empty means
	// resolve from PATH.
	PopplerPath string `mapstructure:"poppler_path"`
	// OCRLanguages are tesseract language hints, e.g. ["eng", "msa"].
	OCRLanguages []string `mapstructure:"ocr_languages"`
	// RasterDPI is the render resolution for OCR-backed extraction.
	RasterDPI int `mapstructure:"raster_dpi"`
	// EmbedModelDir is the local directory holding the packaged embedding
	// vectors. Empty falls back to the per-user cache location.
	EmbedModelDir string `mapstructure:"embed_model_dir"`
	// EnrichedNER enables the embedding-based resolution path by default.
	EnrichedNER bool `mapstructure:"enriched_ner"`
	// LogLevel is a zap level string (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`
}

// Load reads .env (if present), then the optional config file, then
// environment overrides prefixed TRANSMATCH_.
func Load(configFile string) (Config, error) {
	// .env is optional; deployments commonly set tool paths there.
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("poppler_path", os.Getenv("POPPLER_PATH"))
	v.SetDefault("ocr_languages", []string{"eng"})
	v.SetDefault("raster_dpi", 300)
	v.SetDefault("embed_model_dir", "")
	v.SetDefault("enriched_ner", false)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("TRANSMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, err
		}
	} else {
		v.SetConfigName("transmatch")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(dir, "transmatch"))
		}
		// Missing default config is fine; defaults and env still apply.
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ModelDir resolves the embedding model directory: the configured packaged
// location when it exists, else the per-user cache directory.
func (c Config) ModelDir() string {
	if c.EmbedModelDir != "" {
		if _, err := os.Stat(c.EmbedModelDir); err == nil {
			return c.EmbedModelDir
		}
	}
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "transmatch", "models")
	}
	return "models"
}
