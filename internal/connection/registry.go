// Copyright (c) 2025 Fluxcell
// Licensed under the MIT License. See LICENSE file in the project root for details.

package connection

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"fluxcell/cli/internal/credentials"
	ferrors "fluxcell/cli/internal/errors"
	"fluxcell/cli/internal/logging"
)

// Options are the per-call inputs of ResolveOrCreate besides the descriptor.
type Options struct {
	Token     string
	Org       string
	Arguments map[string]any
	Debug     bool
}

// Registry maps canonical names to live connections and tracks the current one.
// Calls are serialized by a mutex; callers are still expected to drive it from
// a single goroutine, as the shell does.
type Registry struct {
	mu          sync.Mutex
	dial        Dialer
	resolver    *credentials.Resolver
	connections map[string]*Connection
	current     *Connection
}

// NewRegistry creates an empty registry. A nil resolver reads the process
// environment without keychain fallback.
func NewRegistry(dial Dialer, resolver *credentials.Resolver) *Registry {
	if resolver == nil {
		resolver = &credentials.Resolver{}
	}
	return &Registry{
		dial:        dial,
		resolver:    resolver,
		connections: make(map[string]*Connection),
	}
}

// ResolveOrCreate returns the connection named by descriptor, creating it when
// no registered connection matches. An existing match ignores opts entirely.
// An empty descriptor means the current connection, or a new one built from
// the environment when there is none.
func (r *Registry) ResolveOrCreate(ctx context.Context, descriptor string, opts Options) (*Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	descriptor = strings.TrimSpace(descriptor)
	if descriptor != "" {
		if c, ok := roughGet(r.connections, descriptor); ok {
			logging.Debugf("connection: %q resolved to %s", descriptor, c.Name)
			r.current = c
			return c, nil
		}
		endpoint, org := SplitName(descriptor)
		if opts.Org != "" {
			org = opts.Org
		}
		return r.create(ctx, credentials.Credentials{URL: endpoint, Token: opts.Token, Org: org}, opts)
	}

	if r.current != nil {
		return r.current, nil
	}
	if r.resolver.EndpointFromEnv() == "" {
		return nil, ferrors.Newf(ferrors.Configuration,
			"environment variable $%s not set, and no connect string given", credentials.EnvURL)
	}
	return r.create(ctx, credentials.Credentials{Token: opts.Token, Org: opts.Org}, opts)
}

func (r *Registry) create(ctx context.Context, explicit credentials.Credentials, opts Options) (*Connection, error) {
	creds, err := r.resolver.Resolve(explicit)
	if err != nil {
		return nil, err
	}

	name := CanonicalName(creds.URL, creds.Org)
	if c, ok := r.connections[name]; ok {
		r.current = c
		return c, nil
	}

	logging.Debugf("connection: dialing %s", name)
	session, err := r.dial(ctx, Request{Credentials: creds, Arguments: opts.Arguments, Debug: opts.Debug})
	if err != nil {
		return nil, ferrors.Wrap(ferrors.Configuration, "cannot create client for "+creds.URL, err)
	}
	if err := session.Health(ctx); err != nil {
		session.Close()
		return nil, ferrors.Wrap(ferrors.Network, "health check failed for "+creds.URL, err)
	}

	c := &Connection{Name: name, Credentials: creds, Session: session}
	r.connections[name] = c
	r.current = c
	return c, nil
}

// Select makes an existing connection current.
func (r *Registry) Select(descriptor string) (*Connection, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := roughGet(r.connections, strings.TrimSpace(descriptor))
	if !ok {
		return nil, r.notFound("select", descriptor)
	}
	r.current = c
	return c, nil
}

// Close closes and removes the connection registered under descriptor, trying
// the exact name first and then its lower-cased form.
func (r *Registry) Close(descriptor string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.connections[descriptor]
	if !ok {
		c, ok = r.connections[strings.ToLower(descriptor)]
	}
	if !ok {
		return r.notFound("close", descriptor)
	}
	r.remove(c)
	return nil
}

// CloseConnection closes a connection obtained from this registry.
func (r *Registry) CloseConnection(c *Connection) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c == nil || r.connections[c.Name] != c {
		name := ""
		if c != nil {
			name = c.Name
		}
		return r.notFound("close", name)
	}
	r.remove(c)
	return nil
}

// CloseAll closes every connection. Used on shell exit.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, c := range r.connections {
		r.remove(c)
	}
}

func (r *Registry) remove(c *Connection) {
	delete(r.connections, c.Name)
	if r.current == c {
		r.current = nil
	}
	c.Session.Close()
}

func (r *Registry) notFound(action, descriptor string) error {
	return ferrors.Newf(ferrors.NotFound,
		"could not %s connection %q because it was not found amongst these: %s",
		action, descriptor, r.namesLocked())
}

// Current returns the current connection, or nil.
func (r *Registry) Current() *Connection {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Len returns the number of registered connections.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections)
}

// Names returns registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.connections))
	for k := range r.connections {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// ListFormatted lists connections sorted by name, the current one marked "*".
func (r *Registry) ListFormatted() string {
	r.mu.Lock()
	defer r.mu.Unlock()

	lines := make([]string, 0, len(r.connections))
	for _, name := range r.namesLocked() {
		if r.connections[name] == r.current {
			lines = append(lines, "* "+name)
		} else {
			lines = append(lines, "  "+name)
		}
	}
	return strings.Join(lines, "\n")
}

// TellFormat is the hint printed after a connection could not be resolved.
func (r *Registry) TellFormat() string {
	return fmt.Sprintf(`Connection info needed in format, example:
    http://localhost:8086 --token my-token --org my-org
or an existing connection: %v`, r.Names())
}
