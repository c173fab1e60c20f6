// Package config loads application configuration with viper.
//
// Values come from, in increasing precedence: built-in defaults, the
// .correlato.yaml config file, environment variables (OPENAI_API_KEY,
// OLLAMA_BASE_URL, NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD,
// TELEMETRY_PARQUET_PATH) and command-line flags bound by the CLI.
package config
