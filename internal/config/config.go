package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	GinMode    string
	Database   DatabaseConfig
	JWT        JWTConfig
	Advisor    AdvisorConfig
	AdminUsers []string
}

type DatabaseConfig struct {
	URL string
}

type JWTConfig struct {
	Secret   string
	TTLHours int
}

type AdvisorConfig struct {
	GatewayURL   string
	APIKey       string
	Model        string
	PlansPerDay  int
	ChatsPerHour int
}

func Load() (*Config, error) {
	godotenv.Load()

	adminUsersStr := os.Getenv("ADMIN_USERS")
	adminUsers := []string{}
	if adminUsersStr != "" {
		adminUsers = strings.Split(adminUsersStr, ",")
		for i := range adminUsers {
			adminUsers[i] = strings.TrimSpace(adminUsers[i])
		}
	}

	return &Config{
		Port:    getEnv("PORT", "8080"),
		GinMode: getEnv("GIN_MODE", "debug"),
		Database: DatabaseConfig{
			URL: getEnv("DATABASE_URL", ""),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", ""),
			TTLHours: getEnvInt("JWT_TTL_HOURS", 168),
		},
		Advisor: AdvisorConfig{
			GatewayURL:   getEnv("ADVISOR_GATEWAY_URL", ""),
			APIKey:       getEnv("ADVISOR_API_KEY", ""),
			Model:        getEnv("ADVISOR_MODEL", "google/gemini-2.5-flash"),
			PlansPerDay:  getEnvInt("ADVISOR_PLANS_PER_DAY", 5),
			ChatsPerHour: getEnvInt("ADVISOR_CHATS_PER_HOUR", 50),
		},
		AdminUsers: adminUsers,
	}, nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
