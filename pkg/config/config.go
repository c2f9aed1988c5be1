// Package config owns the workspace-level configuration stored under
// <root>/.dh/config.yaml and the per-project .env files the CLI reads and
// writes. Secrets never land in config.yaml; they live only in .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/dskarbrevik/devhand/pkg/workspace"
)

// DBConfig holds database (Supabase-style) connection settings. Only the
// non-secret fields are persisted to config.yaml; keys and passwords are
// read back from the .env files at load time.
type DBConfig struct {
	URL        string `yaml:"url,omitempty"`
	ProjectRef string `yaml:"project_ref,omitempty"`

	PublicKey   string `yaml:"-"`
	SecretKey   string `yaml:"-"`
	Password    string `yaml:"-"`
	AccessToken string `yaml:"-"`
}

// DeploymentConfig holds deployment target settings.
type DeploymentConfig struct {
	APIURL    string `yaml:"api_url,omitempty"`
	VercelURL string `yaml:"vercel_url,omitempty"`
}

// Config is the workspace configuration.
type Config struct {
	Markers    workspace.MarkerConfig `yaml:"markers"`
	DB         DBConfig               `yaml:"db"`
	Deployment DeploymentConfig       `yaml:"deployment"`
}

// Default returns a configuration with the conventional marker set and no
// database or deployment settings.
func Default() *Config {
	return &Config{Markers: workspace.DefaultMarkers()}
}

func configPath(root string) string {
	return filepath.Join(root, ".dh", "config.yaml")
}

// Load reads <root>/.dh/config.yaml. A missing file yields the defaults;
// a malformed file is an error.
func Load(root string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(configPath(root))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading workspace config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing workspace config: %w", err)
	}
	if len(cfg.Markers.Backend) == 0 && len(cfg.Markers.Frontend) == 0 {
		cfg.Markers = workspace.DefaultMarkers()
	}
	return cfg, nil
}

// Save writes the configuration to <root>/.dh/config.yaml, creating the
// .dh directory if needed.
func (c *Config) Save(root string) error {
	if err := os.MkdirAll(filepath.Join(root, ".dh"), 0o755); err != nil {
		return fmt.Errorf("creating .dh directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding workspace config: %w", err)
	}
	if err := os.WriteFile(configPath(root), data, 0o644); err != nil {
		return fmt.Errorf("writing workspace config: %w", err)
	}
	return nil
}

var projectRefPattern = regexp.MustCompile(`https://([^.]+)\.supabase\.co`)

// ProjectRefFromURL extracts the project reference from a Supabase project
// URL, or returns "" when the URL does not match the hosted shape.
func ProjectRefFromURL(url string) string {
	m := projectRefPattern.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// HydrateSecrets fills the secret DB fields from the backend .env file (and
// the public key from the frontend .env) so commands that need credentials
// see a complete picture without persisting secrets to config.yaml.
func (c *Config) HydrateSecrets(pc *workspace.ProjectContext) {
	if be := pc.Backend(); be != nil {
		if env, err := LoadEnv(filepath.Join(be.Path, ".env")); err == nil {
			if v := env["SUPABASE_URL"]; v != "" && c.DB.URL == "" {
				c.DB.URL = v
			}
			if v := env["SUPABASE_SECRET_KEY"]; v != "" {
				c.DB.SecretKey = v
			}
			if v := env["SUPABASE_DB_PASSWORD"]; v != "" {
				c.DB.Password = v
			}
			if v := env["SUPABASE_ACCESS_TOKEN"]; v != "" {
				c.DB.AccessToken = v
			}
		}
	}
	if fe := pc.Frontend(); fe != nil {
		if env, err := LoadEnv(filepath.Join(fe.Path, ".env")); err == nil {
			if v := env["NEXT_PUBLIC_SUPABASE_URL"]; v != "" && c.DB.URL == "" {
				c.DB.URL = v
			}
			if v := env["NEXT_PUBLIC_SUPABASE_KEY"]; v != "" {
				c.DB.PublicKey = v
			}
			if v := env["NEXT_PUBLIC_API_URL"]; v != "" && c.Deployment.APIURL == "" {
				c.Deployment.APIURL = v
			}
		}
	}
	if c.DB.ProjectRef == "" {
		c.DB.ProjectRef = ProjectRefFromURL(c.DB.URL)
	}
}
