package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

// Config points the suite at running services. Leaving an address empty skips the suite.
type Config struct {
	PostsAddr    string `envconfig:"POSTS_ADDR"`
	CommentsAddr string `envconfig:"COMMENTS_ADDR"`
	QueryAddr    string `envconfig:"QUERY_ADDR"`
	BusAddr      string `envconfig:"BUS_ADDR"`
	// E2E_DEBUG_JSON allows dumping full request/response bodies
	DebugJSON bool `envconfig:"E2E_DEBUG_JSON" default:"false"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

func (c Config) complete() bool {
	return c.PostsAddr != "" && c.CommentsAddr != "" && c.QueryAddr != "" && c.BusAddr != ""
}
