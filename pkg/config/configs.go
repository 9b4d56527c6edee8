// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

// Package config contains configuration types for netrace.
// These types are loaded from YAML or JSON configuration files.
package config

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/netrace/netrace/internal/pkg/logging"
	"sigs.k8s.io/yaml"
)

var log = logging.Log()

// Configs is a map of config files by their source file/url.
type Configs map[string]*Config

// Load loads all configurations from a file or URL.
//
// If a configuration has an Include section, also loads all referenced configurations.
// Relative paths in Include and in network Data are relative to the location of the file containing them.
func Load(fileOrURL string) (Configs, error) {
	configs := Configs{}
	return configs, load(fileOrURL, configs)
}

// LoadConfig loads fileOrURL with its includes, merges and validates the result.
func LoadConfig(fileOrURL string) (*Config, error) {
	configs, err := Load(fileOrURL)
	if err != nil {
		return nil, err
	}
	c := configs.Merge(fileOrURL)
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%v: %w", fileOrURL, err)
	}
	return c, nil
}

// Merge combines the configuration loaded from root with everything it includes.
//
// Lists are concatenated depth-first in include order, starting with root.
// Limits and Reload are taken from the first configuration that sets them.
func (configs Configs) Merge(root string) *Config {
	merged := &Config{}
	seen := map[string]bool{}
	var visit func(string)
	visit = func(source string) {
		c := configs[source]
		if c == nil || seen[source] {
			return
		}
		seen[source] = true
		merged.Networks = append(merged.Networks, c.Networks...)
		merged.Connections = append(merged.Connections, c.Connections...)
		if merged.Limits == nil {
			merged.Limits = c.Limits
		}
		if merged.Reload == nil {
			merged.Reload = c.Reload
		}
		for _, s := range c.Include {
			visit(resolve(source, s))
		}
	}
	visit(root)
	return merged
}

func load(source string, configs Configs) (err error) {
	if _, ok := configs[source]; ok {
		return nil // Already loaded
	}
	log.V(2).Info("Loading configuration", "config", source)
	b, err := readFileOrURL(source)
	if err != nil {
		return fmt.Errorf("%v: %w", source, err)
	}
	c := &Config{}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("%v: %w", source, err)
	}
	for i := range c.Networks {
		if c.Networks[i].Data != "" {
			c.Networks[i].Data = resolve(source, c.Networks[i].Data)
		}
	}
	configs[source] = c
	for _, s := range c.Include {
		ref := resolve(source, s)
		if err := load(ref, configs); err != nil {
			return err
		}
	}
	return nil
}

// ReadFileOrURL reads a local file, or fetches an absolute URL.
func ReadFileOrURL(source string) ([]byte, error) { return readFileOrURL(source) }

func readFileOrURL(source string) ([]byte, error) {
	u, err := url.Parse(source)
	if err != nil {
		return nil, err
	}
	if u.IsAbs() && u.Scheme != "file" {
		resp, err := http.Get(u.String())
		if err != nil {
			return nil, err
		}
		defer func() { _ = resp.Body.Close() }()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%v", http.StatusText(resp.StatusCode))
		}
		return b, nil
	}
	return os.ReadFile(u.Path)
}

func resolve(base, ref string) string {
	if filepath.IsAbs(ref) {
		return ref
	}
	if r, err := url.Parse(ref); err == nil {
		if r.IsAbs() {
			return ref
		}
		if b, err := url.Parse(base); err == nil && b.IsAbs() {
			return b.ResolveReference(r).String()
		}
	}
	return filepath.Join(filepath.Dir(base), ref)
}
