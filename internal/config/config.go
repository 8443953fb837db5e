package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string
	JWTSecret  string
	UploadDir  string
	PublicURL  string
	Env        string
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "uniadmin_user"),
		DBPassword: getEnv("DB_PASSWORD", "uniadmin_pass"),
		DBName:     getEnv("DB_NAME", "uniadmin_db"),
		ServerPort: getEnv("SERVER_PORT", "8080"),
		JWTSecret:  getEnv("JWT_SECRET", "supersecretkey"),
		UploadDir:  getEnv("UPLOAD_DIR", "uploads"),
		PublicURL:  getEnv("PUBLIC_URL", "http://localhost:8080"),
		Env:        getEnv("APP_ENV", "development"),
	}
}

// Production reports whether internal error details must be withheld from
// API responses.
func (c *Config) Production() bool {
	return c.Env == "production"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
