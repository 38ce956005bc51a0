package config

import (
	"log"
	"os"
	"strconv"
)

// Business groups the display values of the shop. Constructed once at startup
// and passed into the handlers; nothing reads these from the environment later.
type Business struct {
	WhatsApp    string // número del negocio, destino por defecto de los avisos
	Direccion   string
	PromoBanner string
}

type Config struct {
	Port        string
	DatabaseDSN string
	Env         string
	PageSize    int
	Business    Business
}

// Load loads configuration from environment with sensible defaults.
// Precedence: explicit env var > .env file (if loaded by the caller) > default.
func Load() Config {
	cfg := Config{}
	cfg.Port = getEnv("PORT", "8080")
	cfg.DatabaseDSN = getEnv("DATABASE_DSN", "lavanderia.db")
	cfg.Env = getEnv("APP_ENV", "development")
	cfg.PageSize = getEnvInt("PAGE_SIZE", 20)
	cfg.Business = Business{
		WhatsApp:    getEnv("LAVA_WHATSAPP", "51999999999"),
		Direccion:   getEnv("LAVA_DIRECCION", "Tu calle #123, Huánuco"),
		PromoBanner: getEnv("LAVA_PROMO", "🌿 Martes: perfumado GRATIS en lavados por kilo"),
	}
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			log.Printf("invalid integer for %s: %s", key, v)
			return def
		}
		return n
	}
	return def
}

// ParseBool reads an env var as bool with default.
func ParseBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %s", key, v)
			return def
		}
		return b
	}
	return def
}
