package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"

	"github.com/kelseyhightower/envconfig"
)

var ErrInvalidConfig = errors.New("invalid configuration")

const maskedSecret = "********"

// Init reads the configuration from the environment and validates it.
func Init() (*ServiceConfig, error) {
	var cfg ServiceConfig

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to parse service configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate rejects settings the service could not run with. Every problem
// found is reported.
func (c *ServiceConfig) Validate() error {
	var errs []error

	if c.Search.DefaultPageSize == 0 {
		errs = append(errs, fmt.Errorf("%w: search default page size must be positive", ErrInvalidConfig))
	}

	if c.Search.MaxPageSize < c.Search.DefaultPageSize {
		errs = append(errs, fmt.Errorf("%w: search max page size %d is below the default %d",
			ErrInvalidConfig, c.Search.MaxPageSize, c.Search.DefaultPageSize))
	}

	if ratio := c.Telemetry.Traces.SamplerRatio; ratio < 0 || ratio > 1 {
		errs = append(errs, fmt.Errorf("%w: trace sampler ratio %v is outside [0, 1]", ErrInvalidConfig, ratio))
	}

	if c.App.Env.IsProduction() && slices.Contains(c.HTTPServer.AllowedOrigins, "*") {
		errs = append(errs, fmt.Errorf("%w: any-origin CORS is not allowed in production", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// Dump writes the configuration as indented JSON. The database password is
// masked; cfg is left untouched.
func Dump(w io.Writer, cfg *ServiceConfig) error {
	masked := *cfg
	if masked.Database.Password != "" {
		masked.Database.Password = maskedSecret
	}

	out, err := json.MarshalIndent(masked, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	_, err = fmt.Fprintf(w, "%s\n", out)

	return err
}
