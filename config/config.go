package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Configuration holds the static settings needed to run the server
type Configuration struct {
	AppName string `env:"APP_NAME" envDefault:"Expo Leads API"` // Name shown in the Server header
	Port    string `env:"PORT" envDefault:"5000"`               // Listen port

	MongoDB_ConnectionURI string `env:"MONGODB_URI" envDefault:"mongodb://localhost:27017/customer_details_db"` // Connection string
	MongoDB_DBName        string `env:"MONGODB_DBNAME" envDefault:"customer_details_db"`                        // Database holding all collections

	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Allowed origins, comma separated, * = all
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Allow credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"300"`           // Requests per window (0 = off)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Window in seconds
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"false"`     // Toggle rate limiting

	// TLS/HTTPS
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"`
	TLSCertFile string `env:"TLS_CERT_FILE"`
	TLSKeyFile  string `env:"TLS_KEY_FILE"`

	// Card image storage
	Media_Backend       string `env:"MEDIA_BACKEND" envDefault:"auto"`                    // auto | local | cloudinary | gcs; auto = cloudinary when CLOUD_NAME is set
	Media_Folder        string `env:"MEDIA_FOLDER" envDefault:"leads"`                    // Folder/prefix for uploaded objects
	Media_MaxUploadSize int64  `env:"MEDIA_MAX_UPLOAD_BYTES" envDefault:"2097152"`        // Per-file ceiling (2MB)
	Media_Normalize     bool   `env:"MEDIA_NORMALIZE" envDefault:"false"`                 // Decode, auto-orient and re-encode before upload
	Media_MaxWidth      int    `env:"MEDIA_MAX_WIDTH" envDefault:"1600"`                  // Resize bound when normalizing
	Cloudinary_Name     string `env:"CLOUD_NAME"`                                         // Cloudinary cloud name
	Cloudinary_APIKey   string `env:"API_KEY"`                                            // Cloudinary API key
	Cloudinary_Secret   string `env:"API_SECRET"`                                         // Cloudinary API secret
	GCS_Bucket          string `env:"GCS_BUCKET"`                                         // GCS bucket name
	GCS_CredentialsFile string `env:"GCS_CREDENTIALS_FILE"`                               // Service account JSON, empty = ADC
	Local_UploadDir     string `env:"LOCAL_UPLOAD_DIR" envDefault:"./uploads"`            // Root dir for the local backend
	PublicBaseURL       string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:5000"` // Base for URLs returned by the local backend

	SeedDefaultExhibitions bool `env:"SEED_DEFAULT_EXHIBITIONS" envDefault:"true"` // Insert the built-in exhibitions when missing
	MetricsEnabled         bool `env:"METRICS_ENABLED" envDefault:"true"`          // Expose /metrics
}

// getEnvPath returns the env file for the current GO_ENV, walking up from the working directory
func getEnvPath() string {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	currentDir, err := os.Getwd()
	if err != nil {
		// logger may not be initialised yet
		fmt.Printf("Cannot read working directory: %v\n", err)
		return ""
	}

	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			return filepath.Join(envDir, fmt.Sprintf("%s.env", env))
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig loads the env file (if any) and parses the process environment into a Configuration.
// Extra files are loaded after the GO_ENV file; variables already set are never overridden.
func NewConfig(files ...string) (*Configuration, error) {
	candidates := []string{}
	if envPath := getEnvPath(); envPath != "" {
		candidates = append(candidates, envPath)
	}
	candidates = append(candidates, files...)
	candidates = append(candidates, ".env")

	for _, path := range candidates {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", path, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// ListenAddress returns the address passed to fiber's Listen
func (c *Configuration) ListenAddress() string {
	return ":" + c.Port
}
