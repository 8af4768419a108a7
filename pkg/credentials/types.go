package credentials

import "time"

// Credentials is the content of credentials.toml.
type Credentials struct {
	Version   int                           `toml:"version"`
	Providers map[string]ProviderCredential `toml:"providers"`
}

// ProviderCredential is one stored provider key.
type ProviderCredential struct {
	APIKey   string    `toml:"api_key"`
	StoredAt time.Time `toml:"stored_at,omitempty"`
}

// Source records where a resolved key came from.
type Source string

const (
	SourceNone        Source = ""
	SourceConfig      Source = "config"
	SourceCredentials Source = "credentials"
	SourceEnv         Source = "env"
)

// Mask hides all but the last four characters of a key.
func Mask(key string) string {
	if len(key) <= 4 {
		return "****"
	}
	return "****" + key[len(key)-4:]
}
