package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultEnvFile         = ".env"
	defaultPort            = "8080"
	defaultReadTimeout     = 15 * time.Second
	defaultWriteTimeout    = 30 * time.Second
	defaultIdleTimeout     = 120 * time.Second
	defaultAIBaseURL       = "http://localhost:11434"
	defaultAIModel         = "phi3:mini"
	defaultAIAgentModel    = "llama3.1:8b"
	defaultAITimeout       = 25 * time.Second
	defaultAIMaxPromptSize = 12_000
	defaultQuotesPath      = "data/quotes.json"
	defaultAgentPerMinute  = 30
	defaultDriftCutoff     = 3
	defaultDriftEntryTTL   = time.Hour
	defaultProposalBrand   = "Propuesta Web"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server     ServerConfig
	AI         AIConfig
	Store      StoreConfig
	RateLimits RateLimitConfig
	Agent      AgentConfig
	Proposal   ProposalConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// AIConfig defines the chat-completion collaborator endpoint and limits.
type AIConfig struct {
	BaseURL       string
	Model         string
	AgentModel    string
	Timeout       time.Duration
	MaxPromptSize int
}

// StoreConfig locates the append-only quote archive.
type StoreConfig struct {
	QuotesPath string
}

// RateLimitConfig controls request throttling.
type RateLimitConfig struct {
	AgentPerMinute int
}

// AgentConfig tunes the conversational agent's off-topic handling.
type AgentConfig struct {
	DriftCutoff   int
	DriftEntryTTL time.Duration
}

// ProposalConfig brands rendered PDF proposals.
type ProposalConfig struct {
	BrandName string
}

// Option customises configuration loading.
type Option func(*loadOptions)

type loadOptions struct {
	envFile string
	lookup  func(string) (string, bool)
}

// WithEnvFile overrides the dotenv file consulted before the environment.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) { o.envFile = path }
}

// WithLookup overrides environment lookup, primarily for tests.
func WithLookup(lookup func(string) (string, bool)) Option {
	return func(o *loadOptions) { o.lookup = lookup }
}

// Load reads configuration from the environment, applying defaults for every
// absent value and rejecting malformed ones.
func Load(opts ...Option) (Config, error) {
	options := loadOptions{envFile: defaultEnvFile, lookup: os.LookupEnv}
	for _, opt := range opts {
		opt(&options)
	}

	if options.envFile != "" {
		// Missing dotenv files are fine; the environment is authoritative.
		_ = godotenv.Load(options.envFile)
	}

	env := envReader{lookup: options.lookup}

	cfg := Config{
		Server: ServerConfig{
			Port:         env.str("API_PORT", defaultPort),
			ReadTimeout:  env.duration("API_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: env.duration("API_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  env.duration("API_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		AI: AIConfig{
			BaseURL:       env.str("API_AI_BASE_URL", defaultAIBaseURL),
			Model:         env.str("API_AI_MODEL", defaultAIModel),
			AgentModel:    env.str("API_AI_AGENT_MODEL", defaultAIAgentModel),
			Timeout:       env.duration("API_AI_TIMEOUT", defaultAITimeout),
			MaxPromptSize: env.int("API_AI_MAX_PROMPT_SIZE", defaultAIMaxPromptSize),
		},
		Store: StoreConfig{
			QuotesPath: env.str("API_STORE_QUOTES_PATH", defaultQuotesPath),
		},
		RateLimits: RateLimitConfig{
			AgentPerMinute: env.int("API_RATE_LIMIT_AGENT_PER_MINUTE", defaultAgentPerMinute),
		},
		Agent: AgentConfig{
			DriftCutoff:   env.int("API_AGENT_DRIFT_CUTOFF", defaultDriftCutoff),
			DriftEntryTTL: env.duration("API_AGENT_DRIFT_ENTRY_TTL", defaultDriftEntryTTL),
		},
		Proposal: ProposalConfig{
			BrandName: env.str("API_PROPOSAL_BRAND", defaultProposalBrand),
		},
	}
	if env.err != nil {
		return Config{}, env.err
	}

	if cfg.AI.Timeout <= 0 {
		return Config{}, fmt.Errorf("config: API_AI_TIMEOUT must be positive")
	}
	if cfg.Agent.DriftCutoff < 1 {
		return Config{}, fmt.Errorf("config: API_AGENT_DRIFT_CUTOFF must be at least 1")
	}
	if strings.TrimSpace(cfg.Store.QuotesPath) == "" {
		return Config{}, fmt.Errorf("config: API_STORE_QUOTES_PATH must not be empty")
	}
	return cfg, nil
}

// envReader collects the first parse error while reading typed values.
type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (e *envReader) raw(key string) (string, bool) {
	if e.lookup == nil {
		return "", false
	}
	value, ok := e.lookup(key)
	value = strings.TrimSpace(value)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (e *envReader) str(key, fallback string) string {
	if value, ok := e.raw(key); ok {
		return value
	}
	return fallback
}

func (e *envReader) int(key string, fallback int) int {
	value, ok := e.raw(key)
	if !ok {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		e.fail(fmt.Errorf("config: %s: invalid integer %q", key, value))
		return fallback
	}
	return parsed
}

func (e *envReader) duration(key string, fallback time.Duration) time.Duration {
	value, ok := e.raw(key)
	if !ok {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		e.fail(fmt.Errorf("config: %s: invalid duration %q", key, value))
		return fallback
	}
	return parsed
}

func (e *envReader) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}
