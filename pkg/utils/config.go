package utils

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the api-server and tooling settings.
type Config struct {
	Addr           string
	DataDir        string
	SchemaFile     string // optional JSON file with extra source generations
	Generation     string // default generation id for files without a rule
	AllowedOrigins []string
	Debug          bool

	S3 S3Config
}

// S3Config describes an optional bucket that is mirrored into DataDir
// before the table is loaded. An empty Bucket disables the mirror.
type S3Config struct {
	Bucket    string
	Prefix    string
	Region    string
	Endpoint  string
	PathStyle bool
}

// Enabled reports whether a bucket was configured.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// LoadConfig reads .env (if present) and then the process environment.
func LoadConfig() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] no .env file found, using process environment")
	}

	return Config{
		Addr:           getEnv("RANKCET_ADDR", ":8080"),
		DataDir:        getEnv("RANKCET_DATA_DIR", "data"),
		SchemaFile:     getEnv("RANKCET_SCHEMA_FILE", ""),
		Generation:     getEnv("RANKCET_GENERATION", ""),
		AllowedOrigins: splitList(getEnv("RANKCET_ALLOWED_ORIGINS", "*")),
		Debug:          getEnvBool("RANKCET_LOG_DEBUG", false),
		S3: S3Config{
			Bucket:    getEnv("RANKCET_S3_BUCKET", ""),
			Prefix:    getEnv("RANKCET_S3_PREFIX", ""),
			Region:    getEnv("RANKCET_S3_REGION", "us-east-1"),
			Endpoint:  getEnv("RANKCET_S3_ENDPOINT", ""),
			PathStyle: getEnvBool("RANKCET_S3_PATH_STYLE", false),
		},
	}
}

func getEnv(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
