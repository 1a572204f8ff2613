package output

import (
	"bytes"
	"testing"
)

func TestNewColorScheme_NonTTYDisablesColor(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, false)

	if !cs.Disabled {
		t.Error("expected colors disabled on a non-TTY writer")
	}
	if got := cs.TaskName("api"); got != "api" {
		t.Errorf("expected plain text, got %q", got)
	}
}

func TestNewColorScheme_NoColorFlag(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	if !cs.Disabled {
		t.Error("expected colors disabled when noColor is set")
	}
}

func TestStatusColor(t *testing.T) {
	cs := NewColorScheme(&bytes.Buffer{}, true)

	if got := cs.StatusColor(true)("Failed"); got != "Failed" {
		t.Errorf("expected plain failed status, got %q", got)
	}
	if got := cs.StatusColor(false)("Passed"); got != "Passed" {
		t.Errorf("expected plain passed status, got %q", got)
	}
}
