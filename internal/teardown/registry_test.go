package teardown

import (
	"context"
	"errors"
	"testing"

	"github.com/rajatverma/testherd/internal/util"
)

func TestRegisterAndResolve(t *testing.T) {
	called := false
	Register("cleanup", func(ctx context.Context) error {
		called = true
		return nil
	})
	defer Unregister("cleanup")

	action, err := Resolve("cleanup")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := action(context.Background()); err != nil {
		t.Fatalf("unexpected action error: %v", err)
	}
	if !called {
		t.Error("action was not invoked")
	}
}

func TestResolveUnknownHook(t *testing.T) {
	_, err := Resolve("missing")
	if !errors.Is(err, util.ErrHookNotFound) {
		t.Errorf("expected ErrHookNotFound, got %v", err)
	}
}

func TestNilActionIsLegal(t *testing.T) {
	Register("empty", nil)
	defer Unregister("empty")

	action, err := Resolve("empty")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if action != nil {
		t.Error("expected nil action for a hook with no callable")
	}
}

func TestRegisterReplaces(t *testing.T) {
	Register("hook", func(ctx context.Context) error { return errors.New("old") })
	Register("hook", func(ctx context.Context) error { return errors.New("new") })
	defer Unregister("hook")

	action, err := Resolve("hook")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := action(context.Background()); got == nil || got.Error() != "new" {
		t.Errorf("expected replacement action, got %v", got)
	}
}
