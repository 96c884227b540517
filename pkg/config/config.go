package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	GigaChat  GigaChatConfig
	OpenAI    OpenAIConfig
	Upstream  UpstreamConfig
	Retrieval RetrievalConfig
	Paths     PathsConfig
	Auth      AuthConfig
	Logger    LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type GigaChatConfig struct {
	APIKey             string
	Scope              string
	InsecureSkipVerify bool
}

type OpenAIConfig struct {
	APIKey         string
	EmbeddingModel string
}

// UpstreamConfig holds base URLs of the remote catalog/business services.
// ContentBaseURL serves the sector tree, ERPBaseURL the per-service data
// (sub-services, nationalities, shifts, packages) and CRMBaseURL the
// lookup/lead/address endpoints.
type UpstreamConfig struct {
	ContentBaseURL string
	ERPBaseURL     string
	CRMBaseURL     string
	Timeout        time.Duration
}

type RetrievalConfig struct {
	// Strategy selects the fusion policy: "keyword" (default) or "weighted".
	Strategy          string
	TopK              int
	CombinedThreshold float64
	EmbeddingWeight   float64
	TokenWeight       float64
}

type PathsConfig struct {
	// DataDir holds the whole-document JSON stores consumed by the mobile app.
	DataDir string
}

type AuthConfig struct {
	JWTSecret string
	// AdminTokenHash is a bcrypt hash of the operator token accepted by
	// POST /admin/login.
	AdminTokenHash string
	TokenTTL       time.Duration
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	upstreamTimeout, _ := strconv.Atoi(getEnv("UPSTREAM_TIMEOUT", "10"))
	topK, _ := strconv.Atoi(getEnv("RETRIEVAL_TOP_K", "5"))
	tokenTTL, _ := strconv.Atoi(getEnv("AUTH_TOKEN_TTL_HOURS", "24"))
	insecureSkipVerify := getEnv("GIGACHAT_INSECURE_SKIP_VERIFY", "true") == "true"

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "mueen_assist"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		GigaChat: GigaChatConfig{
			APIKey:             getEnv("GIGACHAT_API_KEY", ""),
			Scope:              getEnv("GIGACHAT_SCOPE", "GIGACHAT_API_PERS"),
			InsecureSkipVerify: insecureSkipVerify,
		},
		OpenAI: OpenAIConfig{
			APIKey:         getEnv("OPENAI_API_KEY", ""),
			EmbeddingModel: getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
		},
		Upstream: UpstreamConfig{
			ContentBaseURL: getEnv("CONTENT_BASE_URL", "https://erp.rnr.sa:8016"),
			ERPBaseURL:     getEnv("ERP_BASE_URL", "https://erp.rnr.sa:8005"),
			CRMBaseURL:     getEnv("CRM_BASE_URL", "https://api.mueen.com.sa"),
			Timeout:        time.Duration(upstreamTimeout) * time.Second,
		},
		Retrieval: RetrievalConfig{
			Strategy:          getEnv("RETRIEVAL_STRATEGY", "keyword"),
			TopK:              topK,
			CombinedThreshold: getEnvFloat("RETRIEVAL_THRESHOLD", 0.60),
			EmbeddingWeight:   getEnvFloat("RETRIEVAL_EMB_WEIGHT", 0.7),
			TokenWeight:       getEnvFloat("RETRIEVAL_TOKEN_WEIGHT", 0.3),
		},
		Paths: PathsConfig{
			DataDir: getEnv("DATA_DIR", "data"),
		},
		Auth: AuthConfig{
			JWTSecret:      getEnv("JWT_SECRET_KEY", "change-me-in-production"),
			AdminTokenHash: getEnv("ADMIN_TOKEN_HASH", ""),
			TokenTTL:       time.Duration(tokenTTL) * time.Hour,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
