package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for linkmcp.
type Config struct {
	// BaseURL is the public URL this server is reachable at. It is used to
	// build the OAuth callback URL and the endpoints advertised in the
	// discovery document.
	BaseURL string `yaml:"baseURL"`

	// Host and Port control the listen address.
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// LinkedIn holds the upstream OAuth application credentials. The proxy
	// itself is the application registered with LinkedIn; downstream clients
	// registered dynamically at /oauth/register are a separate identity space.
	LinkedIn LinkedInConfig `yaml:"linkedin"`

	// SigningSecret signs the proxy's own access tokens. When empty, a random
	// secret is generated at startup and all tokens are invalidated on
	// restart.
	SigningSecret string `yaml:"signingSecret,omitempty"`

	// Debug enables verbose logging.
	Debug bool `yaml:"debug,omitempty"`
}

// LinkedInConfig identifies the upstream OAuth application.
type LinkedInConfig struct {
	ClientID     string `yaml:"clientID"`
	ClientSecret string `yaml:"clientSecret"`

	// AuthorizationURL and TokenURL override the provider endpoints. Only
	// useful in tests; production uses the LinkedIn defaults.
	AuthorizationURL string `yaml:"authorizationURL,omitempty"`
	TokenURL         string `yaml:"tokenURL,omitempty"`

	// APIBaseURL overrides the REST API base URL. Defaults to the public
	// LinkedIn API host.
	APIBaseURL string `yaml:"apiBaseURL,omitempty"`
}

const (
	// DefaultHost is the default listen host.
	DefaultHost = "localhost"
	// DefaultPort is the default listen port.
	DefaultPort = 8080

	// DefaultAuthorizationURL is LinkedIn's OAuth 2.0 authorization endpoint.
	DefaultAuthorizationURL = "https://www.linkedin.com/oauth/v2/authorization"
	// DefaultTokenURL is LinkedIn's OAuth 2.0 token endpoint.
	DefaultTokenURL = "https://www.linkedin.com/oauth/v2/accessToken"
	// DefaultAPIBaseURL is the LinkedIn REST API host.
	DefaultAPIBaseURL = "https://api.linkedin.com"
)

// Default returns a Config populated with defaults. The returned config is
// not valid until the LinkedIn application credentials are set.
func Default() Config {
	return Config{
		BaseURL: fmt.Sprintf("http://%s:%d", DefaultHost, DefaultPort),
		Host:    DefaultHost,
		Port:    DefaultPort,
		LinkedIn: LinkedInConfig{
			AuthorizationURL: DefaultAuthorizationURL,
			TokenURL:         DefaultTokenURL,
			APIBaseURL:       DefaultAPIBaseURL,
		},
	}
}

// Load builds the effective configuration: defaults, overridden by the YAML
// file at path (if path is non-empty), overridden by environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides config fields from the environment.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LINKMCP_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("LINKMCP_HOST"); v != "" {
		cfg.Host = v
	}
	if v := os.Getenv("LINKMCP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := os.Getenv("LINKEDIN_CLIENT_ID"); v != "" {
		cfg.LinkedIn.ClientID = v
	}
	if v := os.Getenv("LINKEDIN_CLIENT_SECRET"); v != "" {
		cfg.LinkedIn.ClientSecret = v
	}
	if v := os.Getenv("LINKMCP_SIGNING_SECRET"); v != "" {
		cfg.SigningSecret = v
	}
	if v := os.Getenv("LINKMCP_DEBUG"); v != "" {
		if debug, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = debug
		}
	}
}

// Validate checks that the configuration is complete enough to serve.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("baseURL is required")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid baseURL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("baseURL must be http or https, got %q", c.BaseURL)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.LinkedIn.ClientID == "" {
		return fmt.Errorf("linkedin.clientID is required (set LINKEDIN_CLIENT_ID)")
	}
	if c.LinkedIn.ClientSecret == "" {
		return fmt.Errorf("linkedin.clientSecret is required (set LINKEDIN_CLIENT_SECRET)")
	}
	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CallbackURL returns the fixed upstream callback URL derived from BaseURL.
func (c Config) CallbackURL() string {
	return c.BaseURL + "/oauth/callback"
}
