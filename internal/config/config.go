package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Logger    LoggerConfig
	LLM       LLMConfig
	Chunker   ChunkerConfig
	Quiz      QuizConfig
	Extractor ExtractorConfig
	Redis     RedisConfig
	Cache     CacheConfig
}

type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	BodyLimit    int
}

type LoggerConfig struct {
	Level string
	Env   string
}

// LLMConfig describes the chat-completion endpoint used for question generation.
type LLMConfig struct {
	Provider     string // "openai" (OpenAI-compatible, e.g. LM Studio) or "ollama"
	EndpointURL  string
	Model        string
	APIKey       string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration
}

type ChunkerConfig struct {
	Size    int
	Overlap int
}

type QuizConfig struct {
	Topic             string
	QuestionsPerChunk int
	Fallback          FallbackQuestion
}

// FallbackQuestion is substituted whenever generation yields nothing usable.
type FallbackQuestion struct {
	Question string
	Options  []string
	Answer   string
}

type ExtractorConfig struct {
	PageTextLimit  int
	TranscriptLang string
	UserAgent      string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type CacheConfig struct {
	Enabled    bool
	ExtractTTL time.Duration
}

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.read_timeout", 0)
	v.SetDefault("server.write_timeout", 0)
	v.SetDefault("server.body_limit", 10*1024*1024)

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.env", "development")

	v.SetDefault("llm.provider", ProviderOpenAI)
	v.SetDefault("llm.endpoint_url", "http://localhost:1234/v1/chat/completions")
	v.SetDefault("llm.model", "mistral")
	v.SetDefault("llm.api_key", "lm-studio")
	v.SetDefault("llm.system_prompt", "You are a quiz generator. Always return valid JSON.")
	v.SetDefault("llm.temperature", 0.7)
	v.SetDefault("llm.max_tokens", 1000)
	v.SetDefault("llm.timeout", "0s")

	v.SetDefault("chunker.size", 1000)
	v.SetDefault("chunker.overlap", 100)

	v.SetDefault("quiz.topic", "AI-Generated Quiz")
	v.SetDefault("quiz.questions_per_chunk", 5)
	v.SetDefault("quiz.fallback.question", "What is AWS?")
	v.SetDefault("quiz.fallback.options", []string{
		"Amazon Web Services",
		"Advanced Web Server",
		"Automated Workflow System",
		"Application Web Stack",
	})
	v.SetDefault("quiz.fallback.answer", "Amazon Web Services")

	v.SetDefault("extractor.page_text_limit", 5000)
	v.SetDefault("extractor.transcript_lang", "en")
	v.SetDefault("extractor.user_agent", "Mozilla/5.0 (compatible; quiz-gen/1.0)")

	v.SetDefault("redis.address", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.extract_ttl", "24h")
}

// LoadConfig reads config.yaml (if present) and applies environment overrides,
// e.g. LLM_ENDPOINT_URL overrides llm.endpoint_url.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if os.Getenv("ENV") == "test" {
		v.AddConfigPath("../../config")
		v.AddConfigPath("../../")
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if configFile := v.ConfigFileUsed(); configFile != "" {
		absPath, _ := filepath.Abs(configFile)
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", absPath)
	}

	cfg := fromViper(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:         v.GetInt("server.port"),
			ReadTimeout:  v.GetDuration("server.read_timeout"),
			WriteTimeout: v.GetDuration("server.write_timeout"),
			BodyLimit:    v.GetInt("server.body_limit"),
		},
		Logger: LoggerConfig{
			Level: v.GetString("logger.level"),
			Env:   v.GetString("logger.env"),
		},
		LLM: LLMConfig{
			Provider:     strings.ToLower(v.GetString("llm.provider")),
			EndpointURL:  v.GetString("llm.endpoint_url"),
			Model:        v.GetString("llm.model"),
			APIKey:       v.GetString("llm.api_key"),
			SystemPrompt: v.GetString("llm.system_prompt"),
			Temperature:  v.GetFloat64("llm.temperature"),
			MaxTokens:    v.GetInt("llm.max_tokens"),
			Timeout:      v.GetDuration("llm.timeout"),
		},
		Chunker: ChunkerConfig{
			Size:    v.GetInt("chunker.size"),
			Overlap: v.GetInt("chunker.overlap"),
		},
		Quiz: QuizConfig{
			Topic:             v.GetString("quiz.topic"),
			QuestionsPerChunk: v.GetInt("quiz.questions_per_chunk"),
			Fallback: FallbackQuestion{
				Question: v.GetString("quiz.fallback.question"),
				Options:  v.GetStringSlice("quiz.fallback.options"),
				Answer:   v.GetString("quiz.fallback.answer"),
			},
		},
		Extractor: ExtractorConfig{
			PageTextLimit:  v.GetInt("extractor.page_text_limit"),
			TranscriptLang: v.GetString("extractor.transcript_lang"),
			UserAgent:      v.GetString("extractor.user_agent"),
		},
		Redis: RedisConfig{
			Address:  v.GetString("redis.address"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Cache: CacheConfig{
			Enabled:    v.GetBool("cache.enabled"),
			ExtractTTL: v.GetDuration("cache.extract_ttl"),
		},
	}
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case ProviderOpenAI, ProviderOllama:
	default:
		return fmt.Errorf("unsupported llm provider: %q", c.LLM.Provider)
	}
	if c.LLM.EndpointURL == "" {
		return fmt.Errorf("llm endpoint url cannot be empty")
	}
	if c.LLM.Model == "" {
		return fmt.Errorf("llm model name cannot be empty")
	}
	// local OpenAI-compatible servers accept any non-empty key
	if c.LLM.Provider == ProviderOpenAI && strings.TrimSpace(c.LLM.APIKey) == "" {
		return fmt.Errorf("llm api key cannot be empty for the openai provider (set llm.api_key)")
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.Chunker.Size <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", c.Chunker.Size)
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.Size {
		return fmt.Errorf("chunk overlap must be in [0, %d), got %d", c.Chunker.Size, c.Chunker.Overlap)
	}
	if c.Quiz.QuestionsPerChunk <= 0 {
		return fmt.Errorf("questions per chunk must be positive, got %d", c.Quiz.QuestionsPerChunk)
	}
	if c.Extractor.PageTextLimit <= 0 {
		return fmt.Errorf("page text limit must be positive, got %d", c.Extractor.PageTextLimit)
	}
	return nil
}

// Default returns the configuration used when no file or environment overrides exist.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	return fromViper(v)
}
