package kwspot

// Config holds service configuration.
type Config struct {
	DBPath      string
	Workers     int     // 0 = one per CPU
	MaxStartGap float64 // seconds; 0 = search.DefaultMaxStartGap
	SegmentScan bool    // restrict windows to a single file_id/channel
	Language    string
	Logger      Logger
	Storage     Storage
}

// Option mutates the service configuration.
type Option func(*Config)

func WithDBPath(path string) Option {
	return func(c *Config) {
		c.DBPath = path
	}
}

func WithWorkers(n int) Option {
	return func(c *Config) {
		c.Workers = n
	}
}

func WithMaxStartGap(seconds float64) Option {
	return func(c *Config) {
		c.MaxStartGap = seconds
	}
}

func WithSegmentScan(enabled bool) Option {
	return func(c *Config) {
		c.SegmentScan = enabled
	}
}

func WithLanguage(language string) Option {
	return func(c *Config) {
		c.Language = language
	}
}

func WithLogger(log Logger) Option {
	return func(c *Config) {
		c.Logger = log
	}
}

func WithStorage(storage Storage) Option {
	return func(c *Config) {
		c.Storage = storage
	}
}

func defaultConfig() *Config {
	return &Config{
		DBPath:   "kwspot.sqlite3",
		Language: "",
		Logger:   nil,
	}
}
