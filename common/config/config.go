package config

import (
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kingfer30/image-describe/common/env"
	"github.com/pkg/errors"
)

const (
	DefaultProviderURL = "https://api.example.com/v1/describe"
	ProviderKeyEnv     = "GEMINI_API_KEY"
	ProviderURLEnv     = "GEMINI_API_URL"
)

var Version = "v0.0.0"

// Config is built once at startup and never mutated afterwards.
type Config struct {
	Port         int    `validate:"gte=1,lte=65535"`
	GinMode      string `validate:"omitempty,oneof=debug release test"`
	DebugEnabled bool
	LogDir       string

	ProviderURL    string `validate:"required,url"`
	ProviderAPIKey string
	PromptTemplate string `validate:"required"`

	RelayTimeout time.Duration `validate:"gte=0"`
	RelayProxy   string        `validate:"omitempty,url"`

	MaxImageSize    int64 `validate:"gte=0"`
	MultipartMemory int64 `validate:"gt=0"`

	UploadRateLimitNum      int   `validate:"gte=0"`
	UploadRateLimitDuration int64 `validate:"gt=0"`
	RedisConnString         string
}

// ProviderConfigured reports whether outbound calls can be made at all.
func (c *Config) ProviderConfigured() bool {
	return c.ProviderAPIKey != ""
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:                    env.Int("PORT", 3000),
		GinMode:                 os.Getenv("GIN_MODE"),
		DebugEnabled:            env.Bool("DEBUG", false),
		LogDir:                  os.Getenv("LOG_DIR"),
		ProviderURL:             env.String(ProviderURLEnv, DefaultProviderURL),
		ProviderAPIKey:          strings.TrimSpace(os.Getenv(ProviderKeyEnv)),
		PromptTemplate:          DefaultPromptTemplate,
		RelayTimeout:            time.Duration(env.Int("RELAY_TIMEOUT", 0)) * time.Second,
		RelayProxy:              os.Getenv("RELAY_PROXY"),
		MaxImageSize:            env.Int64("MAX_IMAGE_SIZE", 0),
		MultipartMemory:         env.Int64("MULTIPART_MEMORY", 32<<20),
		UploadRateLimitNum:      env.Int("UPLOAD_RATE_LIMIT", 0),
		UploadRateLimitDuration: env.Int64("UPLOAD_RATE_LIMIT_DURATION", 60),
		RedisConnString:         os.Getenv("REDIS_CONN_STRING"),
	}
	if path := os.Getenv("PROMPT_TEMPLATE_FILE"); path != "" {
		prompt, err := LoadPromptTemplate(path)
		if err != nil {
			return nil, err
		}
		cfg.PromptTemplate = prompt
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}

// LoadPromptTemplate reads a prompt template from disk, trimming trailing whitespace.
func LoadPromptTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "read prompt template %s", path)
	}
	prompt := strings.TrimRight(string(data), " \t\r\n")
	if prompt == "" {
		return "", errors.Errorf("prompt template %s is empty", path)
	}
	return prompt, nil
}
