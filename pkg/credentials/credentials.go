// Package credentials stores LLM provider API keys outside config.toml and
// resolves the key a completer should use.
package credentials

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/papercomputeco/vignettes/pkg/dotdir"
)

const (
	credentialsFile = "credentials.toml"

	currentVersion = 0
)

type providerKey struct {
	name   string
	envVar string
}

// keyedProviders are the providers that authenticate with an API key, in
// display order. Ollama runs locally and needs none.
var keyedProviders = []providerKey{
	{"openai", "OPENAI_API_KEY"},
	{"anthropic", "ANTHROPIC_API_KEY"},
	{"gemini", "GEMINI_API_KEY"},
}

// Manager reads and writes credentials.toml in the resolved .vignettes/
// directory.
type Manager struct {
	path string
	now  func() time.Time
}

// NewManager resolves the credentials file. override selects the .vignettes/
// directory; without one the usual dotdir lookup applies, falling back to
// ~/.vignettes/ which is created when missing.
func NewManager(override string) (*Manager, error) {
	target, err := dotdir.NewManager().Target(override)
	if err != nil {
		return nil, err
	}

	if target == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolving home dir: %w", err)
		}
		target = filepath.Join(home, dotdir.DirName)
		if err := os.MkdirAll(target, 0o755); err != nil {
			return nil, fmt.Errorf("creating vignettes dir: %w", err)
		}
	}

	return &Manager{
		path: filepath.Join(target, credentialsFile),
		now:  time.Now,
	}, nil
}

// GetTarget returns the credentials file path.
func (m *Manager) GetTarget() string {
	return m.path
}

// Load reads the credentials file. A missing file yields empty credentials.
func (m *Manager) Load() (*Credentials, error) {
	creds := &Credentials{Version: currentVersion}

	data, err := os.ReadFile(m.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("reading credentials: %w", err)
	default:
		if err := toml.Unmarshal(data, creds); err != nil {
			return nil, fmt.Errorf("parsing credentials: %w", err)
		}
	}

	if creds.Providers == nil {
		creds.Providers = make(map[string]ProviderCredential)
	}
	return creds, nil
}

// Save writes creds with owner-only permissions.
func (m *Manager) Save(creds *Credentials) error {
	if creds == nil {
		return errors.New("cannot save nil credentials")
	}

	f, err := os.OpenFile(m.path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("writing credentials: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(creds); err != nil {
		_ = f.Close()
		return fmt.Errorf("encoding credentials: %w", err)
	}
	return f.Close()
}

func (m *Manager) update(fn func(*Credentials)) error {
	creds, err := m.Load()
	if err != nil {
		return err
	}
	fn(creds)
	return m.Save(creds)
}

// SetKey stores key for provider, replacing any previous key.
func (m *Manager) SetKey(provider, key string) error {
	return m.update(func(c *Credentials) {
		c.Providers[provider] = ProviderCredential{APIKey: key, StoredAt: m.now().UTC()}
	})
}

// GetKey returns the stored key for provider, or "".
func (m *Manager) GetKey(provider string) (string, error) {
	creds, err := m.Load()
	if err != nil {
		return "", err
	}
	return creds.Providers[provider].APIKey, nil
}

// RemoveKey forgets the key for provider. Removing an absent key is not an
// error.
func (m *Manager) RemoveKey(provider string) error {
	return m.update(func(c *Credentials) {
		delete(c.Providers, provider)
	})
}

// ListProviders returns the providers with a stored key, sorted.
func (m *Manager) ListProviders() ([]string, error) {
	creds, err := m.Load()
	if err != nil {
		return nil, err
	}
	return slices.Sorted(maps.Keys(creds.Providers)), nil
}

// EnvVarForProvider returns the environment variable read for provider, or
// "" when the provider takes no key.
func EnvVarForProvider(provider string) string {
	for _, p := range keyedProviders {
		if p.name == provider {
			return p.envVar
		}
	}
	return ""
}

// SupportedProviders returns the providers that authenticate with a key.
func SupportedProviders() []string {
	names := make([]string, len(keyedProviders))
	for i, p := range keyedProviders {
		names[i] = p.name
	}
	return names
}

func IsSupportedProvider(provider string) bool {
	return EnvVarForProvider(provider) != ""
}

// Resolve picks the key for provider: explicit (llm.api_key) first, then the
// key stored by "vignettes auth", then the provider's environment variable.
// A credentials file that cannot be read counts as no stored key.
func Resolve(mgr *Manager, provider, explicit string) (string, Source) {
	if explicit != "" {
		return explicit, SourceConfig
	}

	if mgr != nil {
		if key, err := mgr.GetKey(provider); err == nil && key != "" {
			return key, SourceCredentials
		}
	}

	if envVar := EnvVarForProvider(provider); envVar != "" {
		if key := os.Getenv(envVar); key != "" {
			return key, SourceEnv
		}
	}

	return "", SourceNone
}

// ResolveKey is Resolve without the source.
func ResolveKey(mgr *Manager, provider, explicit string) string {
	key, _ := Resolve(mgr, provider, explicit)
	return key
}
