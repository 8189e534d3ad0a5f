package model

import "time"

// Config is the complete caseview configuration
type Config struct {
	Cache       CacheConfig       `json:"cache" yaml:"cache"`
	Concurrency ConcurrencyConfig `json:"concurrency" yaml:"concurrency"`
	Server      ServerConfig      `json:"server" yaml:"server"`
	LLM         LLMConfig         `json:"llm" yaml:"llm"`
	Output      OutputConfig      `json:"output" yaml:"output"`
}

// CacheConfig controls the render cache layers
type CacheConfig struct {
	Enabled   bool          `json:"enabled" yaml:"enabled"`
	Dir       string        `json:"dir" yaml:"dir"`
	MemoryTTL time.Duration `json:"memory_ttl" yaml:"memory_ttl"`
	DiskTTL   time.Duration `json:"disk_ttl" yaml:"disk_ttl"`
}

// ConcurrencyConfig controls worker pool sizing for batch rendering
type ConcurrencyConfig struct {
	RenderWorkers int `json:"render_workers" yaml:"render_workers"`
}

// ServerConfig controls the HTTP surface
type ServerConfig struct {
	Addr        string  `json:"addr" yaml:"addr"`
	ActionRate  float64 `json:"action_rate" yaml:"action_rate"`   // Claim actions per second, per service
	ActionBurst int     `json:"action_burst" yaml:"action_burst"` // Burst allowance per service
}

// LLMConfig controls the optional plain-language explainer
type LLMConfig struct {
	Provider     string `json:"provider" yaml:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model        string `json:"model" yaml:"model"`
	APIKey       string `json:"-" yaml:"-"`
	BaseURL      string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	Timeout      int    `json:"timeout" yaml:"timeout"` // seconds
	StrictFields bool   `json:"strict_fields" yaml:"strict_fields"`
	MaxTokens    int    `json:"max_tokens" yaml:"max_tokens"`
	HTTPProxy    string `json:"http_proxy,omitempty" yaml:"http_proxy,omitempty"`
	HTTPSProxy   string `json:"https_proxy,omitempty" yaml:"https_proxy,omitempty"`
	NoProxy      string `json:"no_proxy,omitempty" yaml:"no_proxy,omitempty"`
}

// OutputConfig controls report writing
type OutputConfig struct {
	Verbose       bool `json:"verbose" yaml:"verbose"`
	IncludeFooter bool `json:"include_footer" yaml:"include_footer"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 5 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			RenderWorkers: 4,
		},
		Server: ServerConfig{
			Addr:        ":8080",
			ActionRate:  5,
			ActionBurst: 10,
		},
		LLM: LLMConfig{
			Provider:     "", // Disabled by default
			Timeout:      30,
			StrictFields: true,
			MaxTokens:    1000,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
