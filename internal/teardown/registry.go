// Package teardown holds the registry of named teardown hooks. A hook is a
// one-shot cleanup action the dispatcher runs after every task in a batch has
// settled.
package teardown

import (
	"context"
	"sync"

	"github.com/rajatverma/testherd/internal/util"
)

// Action is a teardown hook's callable. It is invoked with no arguments
// beyond the context and awaited.
type Action func(ctx context.Context) error

var (
	mu    sync.RWMutex
	hooks = make(map[string]Action)
)

// Register adds a hook under the given name, replacing any previous
// registration. A nil action is legal and resolves to a no-op, for hooks that
// exist but export nothing callable.
func Register(name string, action Action) {
	mu.Lock()
	defer mu.Unlock()
	hooks[name] = action
}

// Unregister removes a hook. Mainly useful in tests.
func Unregister(name string) {
	mu.Lock()
	defer mu.Unlock()
	delete(hooks, name)
}

// Resolve looks up a hook by name. The returned action may be nil for a
// registered hook with no callable; an unknown name is an error.
func Resolve(name string) (Action, error) {
	mu.RLock()
	defer mu.RUnlock()

	action, ok := hooks[name]
	if !ok {
		return nil, util.WrapErrorf(util.ErrHookNotFound, "%q", name)
	}
	return action, nil
}
