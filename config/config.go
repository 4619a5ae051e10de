// Package config loads engine settings from YAML.
//
// A file looks like:
//
//	narrowing:
//	  disable: [range, perm]
//	sparse:
//	  power_bands:
//	    - {min_sparsity: 1000, threshold: 30}
//	    - {min_sparsity: 0, threshold: 3}
//	trace:
//	  enabled: true
//	  filters: ["+", "subsasgn"]
//	conformance:
//	  parallel: 4
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"silo/linalg"
	"silo/ops"
	"silo/trace"
	"silo/types"
)

// Config holds every tunable of the engine.
type Config struct {
	Narrowing   Narrowing   `yaml:"narrowing"`
	Sparse      Sparse      `yaml:"sparse"`
	Trace       Trace       `yaml:"trace"`
	Conformance Conformance `yaml:"conformance"`
}

// Narrowing lists categories switched off process-wide.
type Narrowing struct {
	Disable []string `yaml:"disable,omitempty"`
}

// Sparse configures sparse kernels.
type Sparse struct {
	PowerBands []Band `yaml:"power_bands,omitempty"`
}

// Band is one row of the sparse power threshold table.
type Band struct {
	MinSparsity uint64 `yaml:"min_sparsity"`
	Threshold   int    `yaml:"threshold"`
}

type Trace struct {
	Enabled bool     `yaml:"enabled"`
	Filters []string `yaml:"filters,omitempty"`
}

type Conformance struct {
	Parallel int `yaml:"parallel"`
}

// Default returns the built-in settings: every narrowing category on,
// the default sparse bands, tracing off.
func Default() *Config {
	c := &Config{Conformance: Conformance{Parallel: 4}}
	for _, b := range linalg.DefaultBands {
		c.Sparse.PowerBands = append(c.Sparse.PowerBands, Band{MinSparsity: b.MinSparsity, Threshold: b.Threshold})
	}
	return c
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	return c, nil
}

// Parse decodes YAML from r over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	c := Default()
	if len(bytes.TrimSpace(data)) > 0 {
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(c); err != nil {
			return nil, errors.Wrap(err, "decode")
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks names and numeric ranges.
func (c *Config) Validate() error {
	if _, err := c.disabled(); err != nil {
		return err
	}
	if len(c.Sparse.PowerBands) == 0 {
		return errors.New("sparse.power_bands: at least one band is required")
	}
	seen := map[uint64]bool{}
	for i, b := range c.Sparse.PowerBands {
		if b.Threshold < 0 {
			return errors.Errorf("sparse.power_bands[%d]: negative threshold %d", i, b.Threshold)
		}
		if seen[b.MinSparsity] {
			return errors.Errorf("sparse.power_bands[%d]: duplicate min_sparsity %d", i, b.MinSparsity)
		}
		seen[b.MinSparsity] = true
	}
	if c.Conformance.Parallel < 1 {
		return errors.Errorf("conformance.parallel: must be at least 1, got %d", c.Conformance.Parallel)
	}
	return nil
}

func (c *Config) disabled() ([]types.NarrowCategory, error) {
	var out []types.NarrowCategory
	for _, name := range c.Narrowing.Disable {
		cat, err := types.ParseNarrowCategory(name)
		if err != nil {
			return nil, errors.Wrap(err, "narrowing.disable")
		}
		out = append(out, cat)
	}
	return out, nil
}

// Bands converts the configured table for the sparse kernels.
func (c *Config) Bands() linalg.Bands {
	out := make(linalg.Bands, len(c.Sparse.PowerBands))
	for i, b := range c.Sparse.PowerBands {
		out[i] = linalg.Band{MinSparsity: b.MinSparsity, Threshold: b.Threshold}
	}
	return out
}

// RegistryOptions returns the options the operator tables are built with.
func (c *Config) RegistryOptions() []ops.Option {
	return []ops.Option{ops.WithSparseBands(c.Bands())}
}

// Apply installs the process-wide settings: narrowing switches and the
// tracer. Tracing output goes to w (stderr when nil).
func (c *Config) Apply(w io.Writer) error {
	cats, err := c.disabled()
	if err != nil {
		return err
	}
	types.ResetNarrowing()
	for _, cat := range cats {
		types.SetNarrowing(cat, false)
	}
	trace.Init(c.Trace.Enabled, c.Trace.Filters, w)
	return nil
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
