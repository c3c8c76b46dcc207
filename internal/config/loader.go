package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options controls Load.
type Options struct {
	// Path is the config file. An empty Path skips the file layer.
	Path string
	// Required makes a missing file an error. Otherwise a missing file
	// leaves the defaults in place.
	Required bool
	// LookupEnv overrides the environment lookup, mainly for tests.
	LookupEnv LookupFunc
}

// Load builds a validated Config from defaults, the config file and the
// environment.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	if opts.Path != "" {
		err := cfg.LoadFile(opts.Path)
		switch {
		case errors.Is(err, fs.ErrNotExist) && !opts.Required:
		case err != nil:
			return nil, err
		}
	}

	if err := cfg.ApplyEnv(opts.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges a TOML or YAML file, chosen by extension, into c.
// Settings absent from the file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file %s: %w", path, err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return c.decodeTOML(path, data)
	case ".yaml", ".yml":
		return c.decodeYAML(path, data)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

func (c *Config) decodeTOML(path string, data []byte) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: path, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

func (c *Config) decodeYAML(path string, data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return &ParseError{Path: path, Err: err}
	}
	return nil
}
