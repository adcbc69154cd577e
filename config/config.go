package config

import (
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// APIKeys holds the credentials for the hosted generation back-ends.
type APIKeys struct {
	OpenAI    string `json:"OPENAI_API_KEY"`
	Stability string `json:"STABILITY_API_KEY"`
	Runway    string `json:"RUNWAY_API_SECRET"`
}

// Settings holds optional application settings.
type Settings struct {
	SDWebUIURL      string `json:"SD_WEBUI_URL"`
	GeneratedDir    string `json:"GENERATED_DIR"`
	TempMaxAgeHours int    `json:"TEMP_MAX_AGE_HOURS"`
	WebPassword     string `json:"WEB_PASSWORD"`
	SessionSecret   string `json:"SESSION_SECRET"`
}

// Generation holds limits applied to incoming generation requests.
type Generation struct {
	MaxImageSize     int `json:"MAX_IMAGE_SIZE"`
	MaxImageCount    int `json:"MAX_IMAGE_COUNT"`
	MaxVideoDuration int `json:"MAX_VIDEO_DURATION"`
	DefaultFPS       int `json:"DEFAULT_FPS"`
}

// Config holds the entire application configuration.
type Config struct {
	APIKeys    APIKeys    `json:"API_KEYS"`
	Settings   Settings   `json:"SETTINGS"`
	Generation Generation `json:"GENERATION"`
}

// AppConfig is the global configuration instance.
var AppConfig *Config

// LoadConfig loads the configuration from defaults, conf.json, .env, and environment variables.
func LoadConfig() {
	// 1. Set default values
	AppConfig = &Config{
		Settings: Settings{
			GeneratedDir:    "generated",
			TempMaxAgeHours: 24,
			SessionSecret:   "a_very_long_and_random_secret_string",
		},
		Generation: Generation{
			MaxImageSize:     2048,
			MaxImageCount:    4,
			MaxVideoDuration: 60,
			DefaultFPS:       24,
		},
	}

	// 2. Load from conf.json
	file, err := os.Open("conf.json")
	if err == nil {
		defer file.Close()
		decoder := json.NewDecoder(file)
		if err := decoder.Decode(AppConfig); err != nil {
			log.Printf("Warning: Could not decode conf.json: %v", err)
		} else {
			log.Println("Loaded configuration from conf.json")
		}
	} else if !os.IsNotExist(err) {
		log.Printf("Warning: Could not open conf.json: %v", err)
	}

	// 3. Load from .env file (will override conf.json)
	godotenv.Load()

	// 4. Load from environment variables (will override everything)
	loadFromEnv()

	log.Println("Configuration loaded successfully.")
}

// loadFromEnv loads configuration from environment variables, overriding existing values.
func loadFromEnv() {
	// API Keys
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		AppConfig.APIKeys.OpenAI = key
	}
	if key := os.Getenv("STABILITY_API_KEY"); key != "" {
		AppConfig.APIKeys.Stability = key
	}
	if key := os.Getenv("RUNWAY_API_SECRET"); key != "" {
		AppConfig.APIKeys.Runway = key
	}

	// Settings
	if url := os.Getenv("SD_WEBUI_URL"); url != "" {
		AppConfig.Settings.SDWebUIURL = url
	}
	if dir := os.Getenv("GENERATED_DIR"); dir != "" {
		AppConfig.Settings.GeneratedDir = dir
	}
	if val := os.Getenv("TEMP_MAX_AGE_HOURS"); val != "" {
		if hours, err := strconv.Atoi(val); err == nil {
			AppConfig.Settings.TempMaxAgeHours = hours
		}
	}
	if pass := os.Getenv("WEB_PASSWORD"); pass != "" {
		AppConfig.Settings.WebPassword = pass
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		AppConfig.Settings.SessionSecret = secret
	}

	// Generation limits
	if val := os.Getenv("MAX_IMAGE_SIZE"); val != "" {
		if px, err := strconv.Atoi(val); err == nil {
			AppConfig.Generation.MaxImageSize = px
		}
	}
	if val := os.Getenv("MAX_IMAGE_COUNT"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			AppConfig.Generation.MaxImageCount = n
		}
	}
	if val := os.Getenv("MAX_VIDEO_DURATION"); val != "" {
		if secs, err := strconv.Atoi(val); err == nil {
			AppConfig.Generation.MaxVideoDuration = secs
		}
	}
	if val := os.Getenv("DEFAULT_FPS"); val != "" {
		if fps, err := strconv.Atoi(val); err == nil {
			AppConfig.Generation.DefaultFPS = fps
		}
	}
}

// ValidateAPIKeys reports which hosted-provider credentials are missing.
// A missing key disables that provider's path; it is a warning, not a fatal error.
func (c *Config) ValidateAPIKeys() []string {
	var missing []string
	if c.APIKeys.OpenAI == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if c.APIKeys.Stability == "" {
		missing = append(missing, "STABILITY_API_KEY")
	}
	if c.APIKeys.Runway == "" {
		missing = append(missing, "RUNWAY_API_SECRET")
	}
	return missing
}
