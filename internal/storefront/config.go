package storefront

import "github.com/kelseyhightower/envconfig"

// Config is read from HALWA_* environment variables.
type Config struct {
	Port    string `default:"8080"`
	Storage string `default:"memory"` // memory | file | redis | postgres

	DataDir     string `split_words:"true" default:"./data"`
	RedisURL    string `split_words:"true"`
	DatabaseURL string `split_words:"true"`

	SessionSecret string `split_words:"true" default:"dev-secret"`

	// placeholder unit price for adds that carry none
	DefaultPrice float64 `split_words:"true" default:"79"`

	MetricsEnabled bool   `split_words:"true"`
	MetricsToken   string `split_words:"true"`
}

func LoadConfig() (Config, error) {
	var c Config
	if err := envconfig.Process("halwa", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
