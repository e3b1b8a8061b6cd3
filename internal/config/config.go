package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port  string `envconfig:"PORT" default:"8080"`
	Debug bool   `envconfig:"DEBUG" default:"false"`

	DatabaseURL string `envconfig:"DATABASE_URL" required:"true"`

	OpenAIAPIKey   string `envconfig:"OPENAI_API_KEY"`
	ChatModel      string `envconfig:"CHAT_MODEL" default:"gpt-4o-mini"`
	EmbeddingModel string `envconfig:"EMBEDDING_MODEL"`

	// Token guarding the knowledge admin endpoints. Empty disables them.
	AdminToken string `envconfig:"ADMIN_TOKEN"`

	// Retrieval settings. Namespaces are queried in the order given here;
	// the merge order of candidates follows it.
	Namespaces        []string `envconfig:"NAMESPACES" default:"schemes,services"`
	TopK              int      `envconfig:"TOP_K" default:"3"`
	ContextCharBudget int      `envconfig:"CONTEXT_CHAR_BUDGET" default:"12000"`

	// Prompt framing and output language.
	AssistantName   string `envconfig:"ASSISTANT_NAME" default:"Nagrik Sahayak"`
	Jurisdiction    string `envconfig:"JURISDICTION" default:"government schemes and citizen services in India"`
	DefaultLanguage string `envconfig:"DEFAULT_LANGUAGE" default:"en"`

	// Per-call timeouts for external services.
	EmbedTimeout      time.Duration `envconfig:"EMBED_TIMEOUT" default:"10s"`
	QueryTimeout      time.Duration `envconfig:"QUERY_TIMEOUT" default:"5s"`
	CompletionTimeout time.Duration `envconfig:"COMPLETION_TIMEOUT" default:"60s"`
	TranslateTimeout  time.Duration `envconfig:"TRANSLATE_TIMEOUT" default:"30s"`
	TranscribeTimeout time.Duration `envconfig:"TRANSCRIBE_TIMEOUT" default:"60s"`

	// Optional S3-compatible storage for archiving transcribed audio.
	S3Endpoint  string `envconfig:"S3_ENDPOINT"`
	S3AccessKey string `envconfig:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `envconfig:"S3_SECRET_ACCESS_KEY"`
	S3Bucket    string `envconfig:"S3_BUCKET" default:"nagrik-audio"`
	S3Region    string `envconfig:"S3_REGION" default:"us-east-1"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("NAGRIK", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func (c *Config) HasS3() bool {
	return c.S3Endpoint != "" && c.S3AccessKey != "" && c.S3SecretKey != ""
}

func (c *Config) HasOpenAI() bool {
	return c.OpenAIAPIKey != ""
}

func (c *Config) HasAdmin() bool {
	return c.AdminToken != ""
}
