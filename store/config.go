package store

// Config holds tunables for the Store and Router.
type Config struct {
	// DefaultLimit is applied when a query caller passes no limit.
	// Default: 10
	DefaultLimit int

	// MaxLimit caps the per-query result size.
	// Default: 100
	MaxLimit int

	// TopKeywords bounds the extracted keyword set per record.
	// Default: 10
	TopKeywords int
}

// DefaultConfig returns sensible defaults for small datasets.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 10,
		MaxLimit:     100,
		TopKeywords:  10,
	}
}

// validate ensures config values are within acceptable bounds.
func (c *Config) validate() {
	if c.DefaultLimit < 1 {
		c.DefaultLimit = 10
	}
	if c.MaxLimit < 1 {
		c.MaxLimit = 100
	}
	if c.DefaultLimit > c.MaxLimit {
		c.DefaultLimit = c.MaxLimit
	}
	if c.TopKeywords < 1 {
		c.TopKeywords = 10
	}
}
