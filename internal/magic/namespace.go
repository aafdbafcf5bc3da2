package magic

import (
	"sort"
	"sync"
)

// LastResult is the variable that receives the value of every %flux call
// that returns one.
const LastResult = "_"

// Namespace holds the user variables results are captured into.
type Namespace struct {
	mu   sync.RWMutex
	vars map[string]any
}

// NewNamespace creates an empty namespace.
func NewNamespace() *Namespace {
	return &Namespace{vars: make(map[string]any)}
}

// Get returns a variable.
func (n *Namespace) Get(name string) (any, bool) {
	n.mu.RLock()
	defer n.mu.RUnlock()
	v, ok := n.vars[name]
	return v, ok
}

// Set stores a variable, replacing any previous value.
func (n *Namespace) Set(name string, v any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.vars[name] = v
}

// Delete removes a variable.
func (n *Namespace) Delete(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.vars, name)
}

// Names returns the variable names in sorted order.
func (n *Namespace) Names() []string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	names := make([]string, 0, len(n.vars))
	for k := range n.vars {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
