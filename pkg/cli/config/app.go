package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/solveway/eli/pkg/service/search"
	"github.com/urfave/cli/v3"
)

// AppConfig is the organisation-level configuration loaded from a TOML
// file: branding and retrieval knobs that rarely change per deployment.
type AppConfig struct {
	path string

	Org       Org       `toml:"org"`
	Retrieval Retrieval `toml:"retrieval"`
}

// Org holds branding values rendered into prompts and fallback links.
type Org struct {
	Name    string `toml:"name"`
	HomeURL string `toml:"home_url"`
}

// Retrieval holds the tuning knobs of the similarity search.
type Retrieval struct {
	TopK int `toml:"top_k"`
}

// Flags returns CLI flags for app configuration
func (a *AppConfig) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "Path to the TOML application config",
			Sources:     cli.EnvVars("ELI_CONFIG"),
			Destination: &a.path,
		},
	}
}

// Configure loads the TOML file when one is given and applies defaults.
func (a *AppConfig) Configure() error {
	if a.path != "" {
		data, err := os.ReadFile(a.path)
		if err != nil {
			return goerr.Wrap(err, "failed to read config file", goerr.V("path", a.path))
		}
		if err := toml.Unmarshal(data, a); err != nil {
			return goerr.Wrap(err, "failed to parse config file", goerr.V("path", a.path))
		}
	}

	if a.Org.Name == "" {
		a.Org.Name = "Solveway"
	}
	if a.Org.HomeURL == "" {
		a.Org.HomeURL = "https://solveway.co.uk"
	}
	if a.Retrieval.TopK <= 0 {
		a.Retrieval.TopK = search.DefaultTopK
	}

	return nil
}
