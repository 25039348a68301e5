// Package config loads mathlab settings from a YAML file. Fields missing from
// the file keep their defaults.
package config

import (
	"bytes"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/mathlab"
	"github.com/zephyrtronium/mathlab/category"
	"github.com/zephyrtronium/mathlab/render"
	"github.com/zephyrtronium/mathlab/sample"
)

// Config holds settings shared by the mathlab commands.
type Config struct {
	// Steps is the number of sampling intervals.
	Steps int `yaml:"steps"`
	// Precision is the evaluation precision in bits.
	Precision uint `yaml:"precision"`
	// Width and Height are the chart size in pixels.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// Listen is the address of the web front end.
	Listen string `yaml:"listen"`
	// Category is the category selected at startup.
	Category category.Category `yaml:"category"`
	// Expr is the expression plotted at startup.
	Expr string `yaml:"expr"`
	// Examples are the example equations offered as shortcuts.
	Examples []string `yaml:"examples"`
	// LogLevel is a logrus level name.
	LogLevel string `yaml:"log_level"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Steps:     sample.DefaultSteps,
		Precision: mathlab.DefaultPrec,
		Width:     render.DefaultWidth,
		Height:    render.DefaultHeight,
		Listen:    "localhost:8080",
		Category:  category.Default,
		Expr:      "x^2 - 4",
		Examples: []string{
			"x^2 - 4",
			"2*x + 3",
			"1/x",
			"sin(x)",
			"cos(2*x) + 1",
			"abs(x) - sqrt(abs(x))",
		},
		LogLevel: "error",
	}
}

// Load reads the configuration file at path over the defaults. An empty path
// gives the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "opening config")
	}
	defer f.Close()
	cfg, err := Parse(f)
	if err != nil {
		return Config{}, errors.Wrapf(err, "loading %s", path)
	}
	return cfg, nil
}

// Parse reads YAML configuration over the defaults and validates it.
func Parse(r io.Reader) (Config, error) {
	b, err := ioutil.ReadAll(r)
	if err != nil {
		return Config{}, errors.Wrap(err, "reading config")
	}
	cfg := Default()
	if len(bytes.TrimSpace(b)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(b))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil {
			return Config{}, errors.Wrap(err, "decoding config")
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	switch {
	case c.Steps <= 0:
		return errors.Errorf("steps must be positive, got %d", c.Steps)
	case c.Width <= 0 || c.Height <= 0:
		return errors.Errorf("chart size must be positive, got %dx%d", c.Width, c.Height)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	for _, ex := range c.Examples {
		if _, err := mathlab.ParseString(ex); err != nil {
			return errors.Wrapf(err, "example %q", ex)
		}
	}
	return nil
}

// Level returns the parsed log level.
func (c Config) Level() (logrus.Level, error) {
	lvl, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return logrus.ErrorLevel, errors.Wrap(err, "parsing log level failed")
	}
	return lvl, nil
}

// Sampler returns a sampler using the configured steps and precision.
func (c Config) Sampler(log logrus.FieldLogger) sample.Sampler {
	return sample.Sampler{Steps: c.Steps, Prec: c.Precision, Log: log}
}

// Render returns chart options using the configured size.
func (c Config) Render(log logrus.FieldLogger) render.Options {
	return render.Options{Width: c.Width, Height: c.Height, Log: log}
}

// Marshal encodes the configuration as YAML.
func (c Config) Marshal() ([]byte, error) {
	b, err := yaml.Marshal(c)
	return b, errors.Wrap(err, "encoding config")
}
