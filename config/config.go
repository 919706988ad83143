package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration
type Config struct {
	Port               int
	RedisURL           string
	RedisPassword      string
	MaxSessions        int
	SessionTimeout     time.Duration
	AllowedOrigins     []string
	ClassifierType     string // "keyword", "majority", "bayes", or "gemini"
	GeminiAPIKey       string // required only when ClassifierType is "gemini"
	RestaurantData     string // path to the restaurant CSV
	DialogData         string // path to the labeled dialog data
	RulesPath          string // optional YAML rule table override
	RelaxationsPath    string // optional YAML relaxation groups override
	MaxRecommendations int    // suggestions shown at once
	MaxTranscriptTurns int    // transcript turns kept per session
	AllowRestart       bool   // whether the restart intent is honored
}

// LoadConfig loads configuration from environment variables with defaults
func LoadConfig() (*Config, error) {
	// Load .env file if it exists (doesn't error if missing)
	_ = godotenv.Load()

	config := &Config{
		Port:               8080,
		RedisURL:           "localhost:6379",
		RedisPassword:      "",
		MaxSessions:        100,
		SessionTimeout:     30 * time.Minute,
		AllowedOrigins:     []string{"*"},
		ClassifierType:     "bayes",
		RestaurantData:     "data/restaurant_info.csv",
		DialogData:         "data/dialogs.dat",
		MaxRecommendations: 3,
		MaxTranscriptTurns: 100,
		AllowRestart:       true,
	}

	// Optional: PORT
	if port := os.Getenv("PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %w", err)
		}
		config.Port = p
	}

	// Optional: REDIS_URL
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		config.RedisURL = redisURL
	}

	// Optional: REDIS_PASSWORD
	if redisPassword := os.Getenv("REDIS_PASSWORD"); redisPassword != "" {
		config.RedisPassword = redisPassword
	}

	// Optional: MAX_SESSIONS
	if maxSessions := os.Getenv("MAX_SESSIONS"); maxSessions != "" {
		m, err := strconv.Atoi(maxSessions)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_SESSIONS: %w", err)
		}
		config.MaxSessions = m
	}

	// Optional: SESSION_TIMEOUT (in minutes)
	if timeout := os.Getenv("SESSION_TIMEOUT"); timeout != "" {
		t, err := strconv.Atoi(timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid SESSION_TIMEOUT: %w", err)
		}
		config.SessionTimeout = time.Duration(t) * time.Minute
	}

	// Optional: ALLOWED_ORIGINS (comma-separated)
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		config.AllowedOrigins = strings.Split(origins, ",")
	}

	// Optional: CLASSIFIER ("keyword", "majority", "bayes", or "gemini")
	if classifier := os.Getenv("CLASSIFIER"); classifier != "" {
		switch classifier {
		case "keyword", "majority", "bayes", "gemini":
			config.ClassifierType = classifier
		default:
			return nil, fmt.Errorf("invalid CLASSIFIER: must be 'keyword', 'majority', 'bayes' or 'gemini'")
		}
	}

	// GEMINI_API_KEY, required for the gemini classifier
	config.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")
	if config.ClassifierType == "gemini" && config.GeminiAPIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for CLASSIFIER=gemini")
	}

	// Optional: RESTAURANT_DATA
	if path := os.Getenv("RESTAURANT_DATA"); path != "" {
		config.RestaurantData = path
	}

	// Optional: DIALOG_DATA
	if path := os.Getenv("DIALOG_DATA"); path != "" {
		config.DialogData = path
	}

	// Optional: RULES_PATH
	if path := os.Getenv("RULES_PATH"); path != "" {
		config.RulesPath = path
	}

	// Optional: RELAXATIONS_PATH
	if path := os.Getenv("RELAXATIONS_PATH"); path != "" {
		config.RelaxationsPath = path
	}

	// Optional: MAX_RECOMMENDATIONS
	if maxRecs := os.Getenv("MAX_RECOMMENDATIONS"); maxRecs != "" {
		m, err := strconv.Atoi(maxRecs)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_RECOMMENDATIONS: %w", err)
		}
		config.MaxRecommendations = m
	}

	// Optional: MAX_TRANSCRIPT_TURNS
	if maxTurns := os.Getenv("MAX_TRANSCRIPT_TURNS"); maxTurns != "" {
		m, err := strconv.Atoi(maxTurns)
		if err != nil {
			return nil, fmt.Errorf("invalid MAX_TRANSCRIPT_TURNS: %w", err)
		}
		config.MaxTranscriptTurns = m
	}

	// Optional: ALLOW_RESTART ("true" or "false")
	if restart := os.Getenv("ALLOW_RESTART"); restart != "" {
		b, err := strconv.ParseBool(restart)
		if err != nil {
			return nil, fmt.Errorf("invalid ALLOW_RESTART: %w", err)
		}
		config.AllowRestart = b
	}

	return config, nil
}
