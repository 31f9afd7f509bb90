// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Common holds parameters shared by every paperdex process.
type Common struct {
	Table  string
	Region string
}

// API describes HTTP-layer configuration.
type API struct {
	Common
	BindAddr     string
	DefaultLimit int
	MaxLimit     int
}

// Loader configures batch ingestion.
type Loader struct {
	Common
	TopKeywords int
	Concurrency int
}

// LoadAPI builds an API config from environment variables.
func LoadAPI() (*API, error) {
	c := &API{
		Common:       LoadCommon(),
		BindAddr:     getString("PAPERDEX_BIND_ADDR", ":8080"),
		DefaultLimit: 10,
		MaxLimit:     100,
	}

	var err error
	if c.DefaultLimit, err = getInt("PAPERDEX_DEFAULT_LIMIT", c.DefaultLimit); err != nil {
		return nil, err
	}
	if c.MaxLimit, err = getInt("PAPERDEX_MAX_LIMIT", c.MaxLimit); err != nil {
		return nil, err
	}
	if c.DefaultLimit <= 0 || c.MaxLimit <= 0 {
		return nil, fmt.Errorf("limits must be positive (default=%d, max=%d)", c.DefaultLimit, c.MaxLimit)
	}
	if c.DefaultLimit > c.MaxLimit {
		return nil, fmt.Errorf("default limit %d exceeds max limit %d", c.DefaultLimit, c.MaxLimit)
	}
	return c, nil
}

// LoadLoader builds a Loader config from environment variables.
func LoadLoader() (*Loader, error) {
	c := &Loader{
		Common:      LoadCommon(),
		TopKeywords: 10,
		Concurrency: 4,
	}

	var err error
	if c.TopKeywords, err = getInt("PAPERDEX_TOP_KEYWORDS", c.TopKeywords); err != nil {
		return nil, err
	}
	if c.Concurrency, err = getInt("PAPERDEX_LOAD_CONCURRENCY", c.Concurrency); err != nil {
		return nil, err
	}
	if c.TopKeywords <= 0 {
		return nil, fmt.Errorf("top keywords must be positive, got %d", c.TopKeywords)
	}
	if c.Concurrency <= 0 {
		return nil, fmt.Errorf("load concurrency must be positive, got %d", c.Concurrency)
	}
	return c, nil
}

// LoadCommon reads the parameters shared by every process.
func LoadCommon() Common {
	return Common{
		Table:  getString("PAPERDEX_TABLE", "paperdex-papers"),
		Region: getString("AWS_REGION", "us-east-1"),
	}
}

func getString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}
