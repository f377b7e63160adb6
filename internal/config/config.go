package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	JWTSecret   string
	MongoURI    string
	DBName      string
	SkipAuth    bool
	Environment string
	FSPath      string // Physical directory for attachment uploads
	FSURL       string // URL path prefix for attachment access
	ERPPgDSN    string // External ERP Postgres; empty disables the export
	CORSOrigins string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		JWTSecret:   getEnv("JWT_SECRET", "secret"),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		DBName:      getEnv("DB_NAME", "sourcevia"),
		SkipAuth:    getEnv("SKIP_AUTH", "false") == "true",
		Environment: getEnv("ENVIRONMENT", "development"),
		FSPath:      getEnv("FS_PATH", "./uploads"),
		FSURL:       getEnv("FS_URL", "/fs/uploads"),
		ERPPgDSN:    getEnv("ERP_PG_DSN", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000, http://localhost:5173"),
	}, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
