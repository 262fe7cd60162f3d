package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/wordflash/internal/clock"
	apperrors "github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/planner"
	"github.com/vytor/wordflash/internal/srs"
)

type Config struct {
	Addr      string
	DBPath    string
	LogLevel  string
	LogFormat string

	MaxWordsPerTask       int
	SecondsPerWord        int
	WeightFillBlank       float64
	WeightMultipleChoice  float64
	WeightDictation       float64
	MultipleChoiceOptions int

	LockTimeout     time.Duration
	DefaultTimezone string

	PrebuildAt        string
	PrebuildWorkers   int
	PrebuildQueueSize int

	RateLimitPerSecond float64
	RateLimitBurst     int

	SRSMinEase          float64
	SRSMaxEase          float64
	SRSInitialEase      float64
	SRSIncorrectPenalty float64
	SRSFamiliarReviews  int
	SRSMasteredReviews  int
	SRSMasteredInterval int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:      envOr("ADDR", ":8080"),
		DBPath:    envOr("DB_PATH", "file:wordflash.db"),
		LogLevel:  strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		LogFormat: strings.ToLower(envOr("LOG_FORMAT", "console")),

		MaxWordsPerTask:       envIntOr("MAX_WORDS_PER_TASK", 20),
		SecondsPerWord:        envIntOr("SECONDS_PER_WORD", 45),
		WeightFillBlank:       envFloatOr("WEIGHT_FILL_BLANK", 1),
		WeightMultipleChoice:  envFloatOr("WEIGHT_MULTIPLE_CHOICE", 1),
		WeightDictation:       envFloatOr("WEIGHT_DICTATION", 1),
		MultipleChoiceOptions: envIntOr("MULTIPLE_CHOICE_OPTIONS", 4),

		LockTimeout:     envDurationOr("LOCK_TIMEOUT", 2*time.Second),
		DefaultTimezone: envOr("DEFAULT_TIMEZONE", "UTC"),

		PrebuildAt:        envOr("PREBUILD_AT", "00:05"),
		PrebuildWorkers:   envIntOr("PREBUILD_WORKERS", 2),
		PrebuildQueueSize: envIntOr("PREBUILD_QUEUE_SIZE", 64),

		RateLimitPerSecond: envFloatOr("RATE_LIMIT_PER_SECOND", 10),
		RateLimitBurst:     envIntOr("RATE_LIMIT_BURST", 20),

		SRSMinEase:          envFloatOr("SRS_MIN_EASE", 1.3),
		SRSMaxEase:          envFloatOr("SRS_MAX_EASE", 2.7),
		SRSInitialEase:      envFloatOr("SRS_INITIAL_EASE", 2.5),
		SRSIncorrectPenalty: envFloatOr("SRS_INCORRECT_PENALTY", 0.2),
		SRSFamiliarReviews:  envIntOr("SRS_FAMILIAR_REVIEWS", 3),
		SRSMasteredReviews:  envIntOr("SRS_MASTERED_REVIEWS", 6),
		SRSMasteredInterval: envIntOr("SRS_MASTERED_INTERVAL", 21),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR (got %q)", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT must be console or json (got %q)", c.LogFormat))
	}
	if c.MaxWordsPerTask < 1 {
		problems = append(problems, "MAX_WORDS_PER_TASK must be at least 1")
	}
	if c.SecondsPerWord < 1 {
		problems = append(problems, "SECONDS_PER_WORD must be at least 1")
	}
	if _, err := c.Engine().TypeWeights.Normalize(); err != nil {
		problems = append(problems, "WEIGHT_FILL_BLANK, WEIGHT_MULTIPLE_CHOICE, WEIGHT_DICTATION must be non-negative with a positive sum")
	}
	if c.MultipleChoiceOptions < 2 || c.MultipleChoiceOptions > 26 {
		problems = append(problems, "MULTIPLE_CHOICE_OPTIONS must be between 2 and 26")
	}
	if c.LockTimeout <= 0 {
		problems = append(problems, "LOCK_TIMEOUT must be positive")
	}
	if _, err := clock.LoadLocation(c.DefaultTimezone); err != nil {
		problems = append(problems, fmt.Sprintf("DEFAULT_TIMEZONE %q is not a known zone", c.DefaultTimezone))
	}
	if _, err := time.Parse("15:04", c.PrebuildAt); err != nil {
		problems = append(problems, fmt.Sprintf("PREBUILD_AT must be HH:MM (got %q)", c.PrebuildAt))
	}
	if c.PrebuildWorkers < 1 {
		problems = append(problems, "PREBUILD_WORKERS must be at least 1")
	}
	if c.PrebuildQueueSize < 1 {
		problems = append(problems, "PREBUILD_QUEUE_SIZE must be at least 1")
	}
	if c.RateLimitPerSecond <= 0 {
		problems = append(problems, "RATE_LIMIT_PER_SECOND must be positive")
	}
	if c.RateLimitBurst < 1 {
		problems = append(problems, "RATE_LIMIT_BURST must be at least 1")
	}
	if err := c.SRS().Validate(); err != nil {
		problems = append(problems, "SRS_*: "+err.Error())
	}

	if len(problems) > 0 {
		return apperrors.NewConfigurationError("invalid configuration: " + strings.Join(problems, "; "))
	}
	return nil
}

// Engine projects the task-building settings.
func (c Config) Engine() planner.Config {
	return planner.Config{
		MaxWordsPerTask: c.MaxWordsPerTask,
		SecondsPerWord:  c.SecondsPerWord,
		TypeWeights: planner.TypeWeights{
			FillBlank:      c.WeightFillBlank,
			MultipleChoice: c.WeightMultipleChoice,
			Dictation:      c.WeightDictation,
		},
	}
}

// SRS projects the scheduler constants.
func (c Config) SRS() srs.Params {
	p := srs.DefaultParams()
	p.MinEase = c.SRSMinEase
	p.MaxEase = c.SRSMaxEase
	p.InitialEase = c.SRSInitialEase
	p.IncorrectPenalty = c.SRSIncorrectPenalty
	p.FamiliarReviews = c.SRSFamiliarReviews
	p.MasteredReviews = c.SRSMasteredReviews
	p.MasteredInterval = c.SRSMasteredInterval
	return p
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envFloatOr(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %s", key, v, def)
	}
	return def
}
