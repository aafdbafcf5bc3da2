// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package keychain stores InfluxDB tokens in the OS credential store, one
// entry per server endpoint. Tokens saved by "fluxcell connect" are the last
// fallback when neither a flag nor INFLUXDB_V2_TOKEN provides one.
package keychain

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/99designs/keyring"

	"fluxcell/cli/internal/dsn"
)

// Global keychain manager instance
var (
	globalManager *Manager
	globalError   error
	mu            sync.Mutex
)

// ServiceName identifies our keychain/credential store namespace.
const ServiceName = "fluxcell"

// tokenPrefix starts the key of every stored token; the endpoint follows.
const tokenPrefix = "token:"

// ErrNoToken is returned when no token is stored for an endpoint.
var ErrNoToken = errors.New("no token stored for endpoint")

// Manager provides thread-safe token operations on a keyring.
type Manager struct {
	mu   sync.RWMutex
	ring keyring.Keyring
}

// NewManager opens the OS keyring.
func NewManager() (*Manager, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return &Manager{ring: ring}, nil
}

// NewManagerWithRing wraps an already opened keyring.
func NewManagerWithRing(ring keyring.Keyring) *Manager {
	return &Manager{ring: ring}
}

// GetManager returns the global keychain manager instance.
// If initialization fails, it will retry on subsequent calls.
func GetManager() (*Manager, error) {
	mu.Lock()
	defer mu.Unlock()

	if globalManager != nil {
		return globalManager, nil
	}

	globalManager, globalError = NewManager()
	if globalError != nil {
		return nil, globalError
	}
	return globalManager, nil
}

// openRing opens the OS keyring using native platform backends only.
// There is no encrypted-file fallback: it would need a passphrase prompt.
func openRing() (keyring.Keyring, error) {
	var allowedBackends []keyring.BackendType
	switch runtime.GOOS {
	case "darwin":
		// pass covers macOS setups where the Keychain is locked to signed apps
		allowedBackends = []keyring.BackendType{keyring.KeychainBackend, keyring.PassBackend}
	case "windows":
		allowedBackends = []keyring.BackendType{keyring.WinCredBackend}
	default:
		allowedBackends = []keyring.BackendType{
			keyring.SecretServiceBackend,
			keyring.KWalletBackend,
			keyring.PassBackend,
			keyring.KeyCtlBackend,
		}
	}

	cfg := keyring.Config{
		ServiceName:              ServiceName,
		AllowedBackends:          allowedBackends,
		KeychainTrustApplication: true,
		PassPrefix:               ServiceName,
		WinCredPrefix:            ServiceName,
		KeyCtlScope:              "user",
	}

	ring, err := keyring.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("OS keychain unavailable (%s): %w", runtime.GOOS, err)
	}
	return ring, nil
}

// keyFor derives the keyring key of an endpoint. Equivalent spellings of the
// same URL share a key.
func keyFor(endpoint string) string {
	if norm, err := dsn.ParseAndNormalize(endpoint); err == nil {
		endpoint = norm
	}
	return tokenPrefix + strings.TrimRight(strings.TrimSpace(endpoint), "/")
}

// SaveToken stores the token for endpoint, replacing any previous one.
func (m *Manager) SaveToken(endpoint, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("refusing to store an empty token")
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.ring.Set(keyring.Item{
		Key:         keyFor(endpoint),
		Data:        []byte(token),
		Label:       "fluxcell token for " + endpoint,
		Description: "InfluxDB API token",
	})
}

// LoadToken returns the token stored for endpoint.
func (m *Manager) LoadToken(endpoint string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	it, err := m.ring.Get(keyFor(endpoint))
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNoToken
		}
		return "", err
	}
	if len(it.Data) == 0 {
		return "", ErrNoToken
	}
	return string(it.Data), nil
}

// DeleteToken removes the token of one endpoint.
func (m *Manager) DeleteToken(endpoint string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.ring.Remove(keyFor(endpoint)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}

// Endpoints lists the endpoints that have a stored token.
func (m *Manager) Endpoints() ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	keys, err := m.ring.Keys()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, k := range keys {
		if strings.HasPrefix(k, tokenPrefix) {
			out = append(out, strings.TrimPrefix(k, tokenPrefix))
		}
	}
	sort.Strings(out)
	return out, nil
}

// ClearTokens removes every stored token and reports how many were removed.
func (m *Manager) ClearTokens() (int, error) {
	endpoints, err := m.Endpoints()
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, e := range endpoints {
		if err := m.ring.Remove(tokenPrefix + e); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
			return n, err
		}
		n++
	}
	return n, nil
}

// Store adapts the global manager to credential resolution. The keyring is
// opened on first use, so commands that never need a stored token never
// touch it.
type Store struct{}

// LoadToken implements credentials.TokenStore.
func (Store) LoadToken(endpoint string) (string, error) {
	m, err := GetManager()
	if err != nil {
		return "", err
	}
	return m.LoadToken(endpoint)
}
