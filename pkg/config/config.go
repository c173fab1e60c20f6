package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Analysis thresholds and parallelism
	Analysis AnalysisConfig `mapstructure:"analysis"`

	// Pattern detector configuration
	Patterns PatternsConfig `mapstructure:"patterns"`

	// Keyword-overlap configuration
	Keywords KeywordsConfig `mapstructure:"keywords"`

	// TF-IDF vectorizer configuration
	TFIDF TFIDFConfig `mapstructure:"tfidf"`

	// Embedding configuration
	Embedding EmbeddingConfig `mapstructure:"embedding"`

	// CircuitBreaker configuration
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// Input configuration
	Input InputConfig `mapstructure:"input"`

	// Output configuration
	Output OutputConfig `mapstructure:"output"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text, json
	File   string `mapstructure:"file"`   // rotated with lumberjack when set
}

// AnalysisConfig holds the thresholds of the pairwise engines
type AnalysisConfig struct {
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	KeywordThreshold    float64 `mapstructure:"keyword_threshold"`
	Workers             int     `mapstructure:"workers"`
}

// PatternsConfig overrides the default causal phrases and heading patterns
type PatternsConfig struct {
	CausalPhrases   []string `mapstructure:"causal_phrases"`
	HeadingPatterns []string `mapstructure:"heading_patterns"`
}

// KeywordsConfig holds keyword-overlap settings
type KeywordsConfig struct {
	Strategy       string   `mapstructure:"strategy"` // pairwise, postings
	ExtraStopwords []string `mapstructure:"extra_stopwords"`
}

// TFIDFConfig holds vectorizer settings
type TFIDFConfig struct {
	Stopwords   string `mapstructure:"stopwords"` // english, none
	Lowercase   bool   `mapstructure:"lowercase"`
	SmoothIDF   bool   `mapstructure:"smooth_idf"`
	SublinearTF bool   `mapstructure:"sublinear_tf"`
	Norm        string `mapstructure:"norm"` // l2, l1, none
}

// EmbeddingConfig holds embedding configuration
type EmbeddingConfig struct {
	Provider   string `mapstructure:"provider"` // embedeverything, openai, ollama
	Model      string `mapstructure:"model"`
	APIKey     string `mapstructure:"api_key"`
	BaseURL    string `mapstructure:"base_url"`
	BatchSize  int    `mapstructure:"batch_size"`
	Dimensions int    `mapstructure:"dimensions"`
	MaxRetries int    `mapstructure:"max_retries"`
}

// CircuitBreakerConfig holds configuration for circuit breaking
type CircuitBreakerConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	MaxRequests      uint32  `mapstructure:"max_requests"`
	Interval         int     `mapstructure:"interval"` // in seconds
	Timeout          int     `mapstructure:"timeout"`  // in seconds
	ReadyToTripRatio float64 `mapstructure:"ready_to_trip_ratio"`
}

// DatabaseConfig holds Neo4j connection settings
type DatabaseConfig struct {
	URI      string `mapstructure:"uri"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	Label    string `mapstructure:"label"` // node label read by the link command
}

// InputConfig holds input decoding settings
type InputConfig struct {
	Repair bool `mapstructure:"repair"` // attempt JSON repair on malformed input
}

// OutputConfig holds output settings
type OutputConfig struct {
	Format string `mapstructure:"format"` // json, yaml, parquet; inferred from path when empty
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	ParquetPath string `mapstructure:"parquet_path"`
	BatchSize   int    `mapstructure:"batch_size"`
}

// Load loads configuration from the global viper instance and environment
// variables.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom loads configuration from v, applying defaults and environment
// overrides.
func LoadFrom(v *viper.Viper) (*Config, error) {
	setDefaults(v)

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Analysis defaults
	v.SetDefault("analysis.similarity_threshold", 0.8)
	v.SetDefault("analysis.keyword_threshold", 0.2)
	v.SetDefault("analysis.workers", 1)

	v.SetDefault("keywords.strategy", "pairwise")

	// TF-IDF defaults
	v.SetDefault("tfidf.stopwords", "english")
	v.SetDefault("tfidf.lowercase", true)
	v.SetDefault("tfidf.smooth_idf", true)
	v.SetDefault("tfidf.sublinear_tf", false)
	v.SetDefault("tfidf.norm", "l2")

	// Embedding defaults
	v.SetDefault("embedding.provider", "embedeverything")
	v.SetDefault("embedding.model", "sentence-transformers/paraphrase-MiniLM-L6-v2")
	v.SetDefault("embedding.batch_size", 64)
	v.SetDefault("embedding.max_retries", 3)

	// Circuit breaker defaults
	v.SetDefault("circuit_breaker.enabled", false)
	v.SetDefault("circuit_breaker.max_requests", 1)
	v.SetDefault("circuit_breaker.interval", 60)
	v.SetDefault("circuit_breaker.timeout", 30)
	v.SetDefault("circuit_breaker.ready_to_trip_ratio", 0.6)

	// Database defaults
	v.SetDefault("database.uri", "bolt://localhost:7687")
	v.SetDefault("database.username", "neo4j")
	v.SetDefault("database.password", "")
	v.SetDefault("database.database", "")
	v.SetDefault("database.label", "Node")

	v.SetDefault("input.repair", false)
	v.SetDefault("output.format", "")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.batch_size", 100)
	home, err := os.UserHomeDir()
	if err == nil {
		v.SetDefault("telemetry.parquet_path", filepath.Join(home, ".correlato", "telemetry"))
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" && config.Embedding.APIKey == "" {
		config.Embedding.APIKey = apiKey
	}
	if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" && config.Embedding.Provider == "ollama" {
		config.Embedding.BaseURL = baseURL
	}

	// Database credentials
	if uri := os.Getenv("NEO4J_URI"); uri != "" {
		config.Database.URI = uri
	}
	if user := os.Getenv("NEO4J_USER"); user != "" {
		config.Database.Username = user
	}
	if pass := os.Getenv("NEO4J_PASSWORD"); pass != "" {
		config.Database.Password = pass
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
