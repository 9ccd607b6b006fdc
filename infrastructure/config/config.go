package config

import "os"

// Config holds all application configuration
type Config struct {
	// Server configuration
	ServerAddress string
	Environment   string

	// AWS configuration
	AWSRegion     string
	PostsTable    string
	NotesTable    string
	SummaryTable  string
	SettingsTable string

	// AI configuration; intro generation is disabled when the key is empty
	OpenAIAPIKey string

	// Logging and features
	LogLevel   string
	EnableCORS bool
	IsLambda   bool
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),
		Environment:   getEnv("ENVIRONMENT", "development"),
		AWSRegion:     getEnv("AWS_REGION", "us-east-1"),

		PostsTable:    getEnv("POSTS_TABLE", "Posts"),
		NotesTable:    getEnv("NOTES_TABLE", "Notes"),
		SummaryTable:  getEnv("SUMMARY_TABLE", "Summary"),
		SettingsTable: getEnv("SETTINGS_TABLE", "Settings"),

		OpenAIAPIKey: getEnv("OPENAI_API_KEY", ""),

		LogLevel:   getEnv("LOG_LEVEL", "info"),
		EnableCORS: getEnvBool("ENABLE_CORS", true),
		IsLambda:   getEnvBool("IS_LAMBDA", os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""),
	}
	return cfg, nil
}

// IsDevelopment checks if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction checks if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool gets a boolean environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value == "true" || value == "1" || value == "yes"
}
