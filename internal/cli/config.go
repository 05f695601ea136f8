package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/aretw0/hyperwalk/pkg/domain"
	"github.com/aretw0/hyperwalk/pkg/transport"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config is the optional YAML configuration file of the CLI.
// Flags given on the command line override its values.
type Config struct {
	MediaType string            `yaml:"media_type" validate:"omitempty,oneof=json hal json-hal application/json application/hal+json"`
	Headers   map[string]string `yaml:"headers"`
	Timeout   time.Duration     `yaml:"timeout" validate:"gte=0"`
	BasicAuth *BasicAuth        `yaml:"basic_auth"`
	UserAgent string            `yaml:"user_agent"`
	LogLevel  string            `yaml:"log_level" validate:"omitempty,oneof=debug info warn error"`
	Output    string            `yaml:"output" validate:"omitempty,oneof=text json yaml"`
}

// BasicAuth holds HTTP basic authentication credentials.
type BasicAuth struct {
	Username string `yaml:"username" validate:"required"`
	Password string `yaml:"password"`
}

// DefaultConfig returns the configuration used without a file.
func DefaultConfig() *Config {
	return &Config{
		MediaType: domain.MediaTypeJSONHAL,
		LogLevel:  "info",
		Output:    "text",
	}
}

// LoadConfig reads and validates the configuration file at path.
// An empty path returns DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.ConfigError{Option: "config", Value: path, Cause: err}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, &domain.ConfigError{Option: "config", Value: path, Cause: fmt.Errorf("parse: %w", err)}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the field constraints of c. The first violation is
// reported as a *domain.ConfigError.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &domain.ConfigError{
			Option:  fe.Namespace(),
			Value:   fe.Value(),
			Message: fmt.Sprintf("must satisfy %q", fe.Tag()+paramSuffix(fe.Param())),
		}
	}
	return &domain.ConfigError{Option: "config", Cause: err}
}

func paramSuffix(p string) string {
	if p == "" {
		return ""
	}
	return "=" + p
}

// TransportOptions translates c into options for the default transport.
func (c *Config) TransportOptions() []transport.Option {
	var opts []transport.Option
	if len(c.Headers) > 0 {
		opts = append(opts, transport.WithHeaders(c.Headers))
	}
	if c.Timeout > 0 {
		opts = append(opts, transport.WithTimeout(c.Timeout))
	}
	if c.BasicAuth != nil {
		opts = append(opts, transport.WithBasicAuth(c.BasicAuth.Username, c.BasicAuth.Password))
	}
	if c.UserAgent != "" {
		opts = append(opts, transport.WithUserAgent(c.UserAgent))
	}
	return opts
}
