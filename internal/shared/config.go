package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"golang.org/x/oauth2"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
//
// Environment variables override file values so containerized deployments can
// run without a config file at all (see applyEnv).
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Jellyfin    JellyfinConfig    `toml:"jellyfin"`
	Sync        SyncConfig        `toml:"sync"`
	Database    DatabaseConfig    `toml:"database"`
	Server      ServerConfig      `toml:"server"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Trakt TraktConfig `toml:"trakt"`
}

// TraktConfig contains Trakt API credentials.
type TraktConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
	RedirectURI  string `toml:"redirect_uri"`
}

// Map converts the Trakt credentials to the map form the service constructor expects.
func (t TraktConfig) Map() map[string]string {
	return map[string]string{
		"client_id":     t.ClientID,
		"client_secret": t.ClientSecret,
		"access_token":  t.AccessToken,
		"redirect_uri":  t.RedirectURI,
	}
}

// Update stores the tokens from a completed OAuth flow.
func (t *TraktConfig) Update(token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", ErrInvalidCredentials)
	}
	t.AccessToken = token.AccessToken
	t.RefreshToken = token.RefreshToken
	return nil
}

// JellyfinConfig contains target server connection settings.
type JellyfinConfig struct {
	URL    string `toml:"url"`
	APIKey string `toml:"api_key"`
	UserID string `toml:"user_id"`
}

// SyncConfig contains reconciliation settings.
//
// IntervalMins selects continuous mode when positive; zero means a single
// cycle per invocation.
type SyncConfig struct {
	IntervalMins       int    `toml:"interval_mins"`
	StatePath          string `toml:"state_path"`
	RequestTimeoutSecs int    `toml:"request_timeout_secs"`
}

// DatabaseConfig contains sync history journal settings.
// An empty path disables the journal.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// ServerConfig contains OAuth callback server settings.
type ServerConfig struct {
	Host string `toml:"host"`
	Port int    `toml:"port"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
// Environment variables take precedence over file contents.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	config.applyEnv()
	return &config, nil
}

// DefaultConfig returns a Config with defaults loaded from the embedded example
// config, with environment overrides applied.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	config.applyEnv()
	return &config
}

// SaveConfig writes the configuration back to the given path.
func SaveConfig(path string, config *Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(config); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyEnv overrides config values from the environment. Interval values are
// tolerant of shell quoting leftovers ("'15'" parses as 15).
func (c *Config) applyEnv() {
	setString(&c.Credentials.Trakt.ClientID, "TRAKT_CLIENT_ID")
	setString(&c.Credentials.Trakt.ClientSecret, "TRAKT_CLIENT_SECRET")
	setString(&c.Credentials.Trakt.AccessToken, "TRAKT_ACCESS_TOKEN")
	setString(&c.Credentials.Trakt.RefreshToken, "TRAKT_REFRESH_TOKEN")
	setString(&c.Jellyfin.URL, "JELLYFIN_URL")
	setString(&c.Jellyfin.APIKey, "JELLYFIN_API_KEY")
	setString(&c.Jellyfin.UserID, "JELLYFIN_USER_ID")
	setString(&c.Sync.StatePath, "TRX_STATE_PATH")

	if raw, ok := os.LookupEnv("SYNC_INTERVAL_MINS"); ok {
		raw = strings.Trim(strings.TrimSpace(raw), `'"`)
		if mins, err := strconv.Atoi(raw); err == nil && mins > 0 {
			c.Sync.IntervalMins = mins
		}
	}

	c.Jellyfin.URL = strings.TrimRight(c.Jellyfin.URL, "/")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
