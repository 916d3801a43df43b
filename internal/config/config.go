package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by CREDENCE_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("CREDENCE_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

// TrustRegistryPath points at the YAML file listing official bots and
// well-known sources. Empty means no bootstrap entries.
func TrustRegistryPath() string {
	return os.Getenv("TRUST_REGISTRY_PATH")
}

// SimilaritySigma controls the Gaussian diffusion radius.
// Defaults to 0.3 if not set.
func SimilaritySigma() float64 {
	v, err := strconv.ParseFloat(os.Getenv("SIMILARITY_SIGMA"), 64)
	if err != nil || v <= 0 {
		return 0.3
	}
	return v
}

// SimilarityMinOverlap is the minimum co-rated entity count for a similarity
// judgment. Defaults to 3 if not set.
func SimilarityMinOverlap() int {
	v, err := strconv.Atoi(os.Getenv("SIMILARITY_MIN_OVERLAP"))
	if err != nil || v <= 0 {
		return 3
	}
	return v
}

// ConfidenceThreshold is the total similarity weight at which an inferred
// average is taken at face value. Defaults to 5.0 if not set.
func ConfidenceThreshold() float64 {
	v, err := strconv.ParseFloat(os.Getenv("CONFIDENCE_THRESHOLD"), 64)
	if err != nil || v <= 0 {
		return 5.0
	}
	return v
}

// MaxComparisons caps the similarity candidate pool per target.
// Defaults to 1000 if not set.
func MaxComparisons() int {
	v, err := strconv.Atoi(os.Getenv("MAX_COMPARISONS"))
	if err != nil || v <= 0 {
		return 1000
	}
	return v
}

// RecomputeInterval is how often the background recompute drains its queue.
// Defaults to 10m if not set.
func RecomputeInterval() time.Duration {
	d, err := time.ParseDuration(os.Getenv("RECOMPUTE_INTERVAL"))
	if err != nil || d <= 0 {
		return 10 * time.Minute
	}
	return d
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}
