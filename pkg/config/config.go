// Package config loads the target registry from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/devicelab-dev/interact/pkg/target"
)

// Defaults applied to targets that omit a field.
type Defaults struct {
	MaxAttempts    int    `yaml:"maxAttempts"`
	Timeout        string `yaml:"timeout"`
	BackoffBase    string `yaml:"backoffBase"`
	BackoffCeiling string `yaml:"backoffCeiling"`
	ProbeWindow    string `yaml:"probeWindow"`
}

// strategyEntry is the YAML shape of one strategy: exactly one of ui/http.
type strategyEntry struct {
	UI      *target.Locator `yaml:"ui"`
	HTTP    *target.Request `yaml:"http"`
	Timeout string          `yaml:"timeout"`
}

// targetEntry is the YAML shape of one target.
type targetEntry struct {
	Name           string          `yaml:"name"`
	Strategies     []strategyEntry `yaml:"strategies"`
	MaxAttempts    int             `yaml:"maxAttempts"`
	Timeout        string          `yaml:"timeout"`
	BackoffBase    string          `yaml:"backoffBase"`
	BackoffCeiling string          `yaml:"backoffCeiling"`
	ProbeWindow    string          `yaml:"probeWindow"`
}

// File is the registry file shape (targets.yaml).
type File struct {
	Defaults Defaults      `yaml:"defaults"`
	Targets  []targetEntry `yaml:"targets"`
}

// Load reads a registry file and builds a validated registry.
func Load(path string) (*target.Registry, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// LoadFromDir looks for targets.yaml or targets.yml in the directory.
func LoadFromDir(dir string) (*target.Registry, error) {
	for _, name := range []string{"targets.yaml", "targets.yml"} {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return Load(path)
		}
	}
	return nil, fmt.Errorf("no targets.yaml in %s", dir)
}

// Parse decodes registry YAML and builds a validated registry.
func Parse(data []byte) (*target.Registry, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	targets := make([]target.Target, 0, len(f.Targets))
	for _, e := range f.Targets {
		t, err := buildTarget(e, f.Defaults)
		if err != nil {
			return nil, err
		}
		targets = append(targets, t)
	}
	return target.NewRegistry(targets)
}

func buildTarget(e targetEntry, d Defaults) (target.Target, error) {
	t := target.Target{
		Name:        e.Name,
		MaxAttempts: e.MaxAttempts,
	}
	if t.MaxAttempts == 0 {
		t.MaxAttempts = d.MaxAttempts
	}

	var err error
	if t.Timeout, err = duration(e.Name, "timeout", e.Timeout, d.Timeout); err != nil {
		return t, err
	}
	if t.BackoffBase, err = duration(e.Name, "backoffBase", e.BackoffBase, d.BackoffBase); err != nil {
		return t, err
	}
	if t.BackoffCeiling, err = duration(e.Name, "backoffCeiling", e.BackoffCeiling, d.BackoffCeiling); err != nil {
		return t, err
	}
	if t.ProbeWindow, err = duration(e.Name, "probeWindow", e.ProbeWindow, d.ProbeWindow); err != nil {
		return t, err
	}

	for i, se := range e.Strategies {
		s, err := buildStrategy(e.Name, i, se)
		if err != nil {
			return t, err
		}
		t.Strategies = append(t.Strategies, s)
	}
	return t, nil
}

func buildStrategy(targetName string, idx int, e strategyEntry) (target.Strategy, error) {
	var s target.Strategy
	switch {
	case e.UI != nil && e.HTTP != nil:
		return s, fmt.Errorf("target %q: strategy %d sets both ui and http", targetName, idx)
	case e.UI != nil:
		s.Kind = target.UILocator
		s.Locator = e.UI
	case e.HTTP != nil:
		s.Kind = target.HTTPCall
		s.Request = e.HTTP
	default:
		return s, fmt.Errorf("target %q: strategy %d sets neither ui nor http", targetName, idx)
	}

	if e.Timeout != "" {
		d, err := time.ParseDuration(e.Timeout)
		if err != nil {
			return s, fmt.Errorf("target %q: strategy %d: bad timeout: %w", targetName, idx, err)
		}
		s.Timeout = d
	}
	return s, nil
}

// duration parses value, falling back to the default; empty both means zero.
func duration(targetName, field, value, fallback string) (time.Duration, error) {
	raw := value
	if raw == "" {
		raw = fallback
	}
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("target %q: bad %s %q: %w", targetName, field, raw, err)
	}
	return d, nil
}
