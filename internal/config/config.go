// Package config loads rdfcanon configuration files.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/geoknoesis/rdfc-go/rdf"
	"github.com/geoknoesis/rdfc-go/rdfc"
)

// Config is the complete rdfcanon configuration.
type Config struct {
	Canon   CanonConfig   `yaml:"canon"`
	Input   InputConfig   `yaml:"input"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// CanonConfig configures canonicalization.
type CanonConfig struct {
	// Algorithm is URDNA2015, RDFC-1.0 or RDFC-1.0-SHA384.
	Algorithm string `yaml:"algorithm" validate:"required,algorithm"`
	// MaxWorkFactor is the deep iteration exponent; -1 disables the limit.
	MaxWorkFactor int `yaml:"max_work_factor" validate:"gte=-1,lte=8"`
	// MaxDeepIterations overrides the derived limit when positive.
	MaxDeepIterations int  `yaml:"max_deep_iterations" validate:"gte=0"`
	Workers           int  `yaml:"workers" validate:"gte=1,lte=256"`
	VerifyTies        bool `yaml:"verify_ties"`
	StrictIRIs        bool `yaml:"strict_iris"`
}

// InputConfig configures document decoding.
type InputConfig struct {
	// Format forces the input format; empty infers it from the file name.
	Format string `yaml:"format" validate:"omitempty,format"`
	// MaxLineBytes and MaxQuads override the decoder limits when positive.
	MaxLineBytes int   `yaml:"max_line_bytes" validate:"gte=0"`
	MaxQuads     int64 `yaml:"max_quads" validate:"gte=0"`
	// SafeLimits applies rdf.OptSafeLimits before the explicit limits.
	SafeLimits bool `yaml:"safe_limits"`
	// BaseIRI resolves relative IRIs in JSON-LD input.
	BaseIRI string `yaml:"base_iri" validate:"omitempty,url"`
}

// LogConfig configures the command's logger.
type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

// MetricsConfig configures the Prometheus text dump written after a run.
type MetricsConfig struct {
	// Output is a file path, "-" for stderr, or empty to disable.
	Output string `yaml:"output"`
}

var validate *validator.Validate

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("algorithm", func(fl validator.FieldLevel) bool {
		_, err := rdfc.ParseAlgorithm(fl.Field().String())
		return err == nil
	})
	_ = validate.RegisterValidation("format", func(fl validator.FieldLevel) bool {
		_, ok := rdf.ParseFormat(fl.Field().String())
		return ok
	})
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Canon: CanonConfig{
			Algorithm:     string(rdfc.DefaultAlgorithm),
			MaxWorkFactor: rdfc.DefaultMaxWorkFactor,
			Workers:       1,
			VerifyTies:    true,
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Validate checks the configuration against its field constraints.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s fails %q (value %v)", fe.Namespace(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load reads path over the defaults and validates the result. An empty path
// returns the validated defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: failed to read config file: %w", err)
		}
		if err := cfg.decode(data); err != nil {
			return nil, err
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decode applies YAML data over c. Unknown keys are rejected.
func (c *Config) decode(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("config: failed to parse config file: %w", err)
	}
	return nil
}

// CanonOptions converts the canonicalization settings to rdfc options.
func (c *Config) CanonOptions(logger *slog.Logger) []rdfc.Option {
	alg, _ := rdfc.ParseAlgorithm(c.Canon.Algorithm)
	opts := []rdfc.Option{
		rdfc.OptAlgorithm(alg),
		rdfc.OptMaxWorkFactor(c.Canon.MaxWorkFactor),
		rdfc.OptMaxDeepIterations(c.Canon.MaxDeepIterations),
		rdfc.OptWorkers(c.Canon.Workers),
		rdfc.OptVerifyTies(c.Canon.VerifyTies),
		rdfc.OptLogger(logger),
	}
	if c.Canon.StrictIRIs {
		opts = append(opts, rdfc.OptStrictIRIs())
	}
	return opts
}

// InputOptions converts the input settings to rdf decoder options.
func (c *Config) InputOptions() []rdf.Option {
	var opts []rdf.Option
	if c.Input.SafeLimits {
		opts = append(opts, rdf.OptSafeLimits())
	}
	if c.Input.MaxLineBytes > 0 {
		opts = append(opts, rdf.OptMaxLineBytes(c.Input.MaxLineBytes))
	}
	if c.Input.MaxQuads > 0 {
		opts = append(opts, rdf.OptMaxQuads(c.Input.MaxQuads))
	}
	if c.Canon.StrictIRIs {
		opts = append(opts, rdf.OptStrictIRIValidation())
	}
	if c.Input.BaseIRI != "" {
		jsonld := rdf.JSONLDOptions{BaseIRI: c.Input.BaseIRI}
		if c.Input.SafeLimits {
			jsonld.MaxInputBytes = 16 << 20
		}
		opts = append(opts, rdf.OptJSONLD(jsonld))
	}
	return opts
}

// SlogLevel returns the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.Log.Level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
