package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	JWTSecret          string
	TokenExpireMinutes int

	// Registration is restricted to addresses of this provider.
	AllowedEmailDomain string

	// Writing feedback provider. When the API key is empty a static
	// placeholder evaluator is used instead.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// Zoho CRM contact sync. When the client ID is empty new contacts are
	// only logged to the console.
	ZohoClientID     string
	ZohoClientSecret string
	ZohoRefreshToken string
	ZohoAccountsURL  string
	ZohoAPIURL       string
}

func LoadConfig() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Println("Error loading .env file, using environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", "postgres"),
		DBName:     getEnv("DB_NAME", "learning_platform"),
		ServerPort: getEnv("SERVER_PORT", "8000"),

		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		TokenExpireMinutes: getEnvInt("TOKEN_EXPIRE_MINUTES", 60),

		AllowedEmailDomain: getEnv("ALLOWED_EMAIL_DOMAIN", "gmail.com"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o-mini"),

		ZohoClientID:     getEnv("ZOHO_CLIENT_ID", ""),
		ZohoClientSecret: getEnv("ZOHO_CLIENT_SECRET", ""),
		ZohoRefreshToken: getEnv("ZOHO_REFRESH_TOKEN", ""),
		ZohoAccountsURL:  getEnv("ZOHO_ACCOUNTS_URL", "https://accounts.zoho.com"),
		ZohoAPIURL:       getEnv("ZOHO_API_URL", "https://www.zohoapis.com"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
