package playback

import "time"

// Config contains all playback configuration options.
type Config struct {
	// Engine selects the narration engine: mock, piper, or noop.
	Engine string `yaml:"engine" env:"STORYTIME_ENGINE" envDefault:"mock"`

	// Speech parameters passed through to the engine. The defaults
	// match the storybook voice: slow rate, raised pitch.
	Rate  float64 `yaml:"rate" env:"STORYTIME_RATE" envDefault:"0.5"`
	Pitch float64 `yaml:"pitch" env:"STORYTIME_PITCH" envDefault:"1.3"`

	// TickInterval is the playback clock granularity.
	TickInterval time.Duration `yaml:"tick_interval" env:"STORYTIME_TICK_INTERVAL" envDefault:"1s"`

	// UpdateThreshold suppresses elapsed updates smaller than this, to
	// avoid UI churn from dense engine progress events.
	UpdateThreshold time.Duration `yaml:"update_threshold" env:"STORYTIME_UPDATE_THRESHOLD" envDefault:"50ms"`

	// Engine-specific configurations.
	Piper PiperConfig `yaml:"piper"`
	Mock  MockConfig  `yaml:"mock"`
}

// PiperConfig contains piper engine specific settings.
type PiperConfig struct {
	Binary     string        `yaml:"binary" env:"STORYTIME_PIPER_BINARY" envDefault:"piper"`
	Model      string        `yaml:"model" env:"STORYTIME_PIPER_MODEL" envDefault:"en_US-lessac-medium"`
	ModelPath  string        `yaml:"model_path" env:"STORYTIME_PIPER_MODEL_PATH"`
	SampleRate int           `yaml:"sample_rate" env:"STORYTIME_PIPER_SAMPLE_RATE" envDefault:"22050"`
	Timeout    time.Duration `yaml:"timeout" env:"STORYTIME_PIPER_TIMEOUT" envDefault:"30s"`
}

// MockConfig contains mock engine specific settings.
type MockConfig struct {
	WordsPerMinute   int           `yaml:"words_per_minute" env:"STORYTIME_MOCK_WORDS_PER_MINUTE" envDefault:"150"`
	ProgressInterval time.Duration `yaml:"progress_interval" env:"STORYTIME_MOCK_PROGRESS_INTERVAL" envDefault:"100ms"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Engine:          "mock",
		Rate:            0.5,
		Pitch:           1.3,
		TickInterval:    time.Second,
		UpdateThreshold: 50 * time.Millisecond,
		Piper: PiperConfig{
			Binary:     "piper",
			Model:      "en_US-lessac-medium",
			SampleRate: 22050,
			Timeout:    30 * time.Second,
		},
		Mock: MockConfig{
			WordsPerMinute:   150,
			ProgressInterval: 100 * time.Millisecond,
		},
	}
}

// Validate checks configuration values.
func (c Config) Validate() error {
	if c.Rate <= 0 || c.Rate > 3.0 {
		return ErrInvalidConfig
	}
	if c.Pitch <= 0 || c.Pitch > 2.0 {
		return ErrInvalidConfig
	}
	if c.TickInterval <= 0 {
		return ErrInvalidConfig
	}
	if c.UpdateThreshold < 0 {
		return ErrInvalidConfig
	}
	return nil
}
