package progress

import (
	"bytes"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSelectSymbols(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		caps TerminalCapabilities
		want ProgressSymbols
	}{
		"unicode terminal": {
			caps: TerminalCapabilities{IsTTY: true, SupportsUnicode: true},
			want: ProgressSymbols{Checkmark: "✓", Failure: "✗", SpinnerSet: 14},
		},
		"ascii terminal": {
			caps: TerminalCapabilities{IsTTY: true},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
		"not a terminal": {
			caps: TerminalCapabilities{},
			want: ProgressSymbols{Checkmark: "[OK]", Failure: "[FAIL]", SpinnerSet: 9},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, SelectSymbols(tt.caps))
		})
	}
}

func TestDetectTerminalCapabilities_NotATerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	caps := DetectTerminalCapabilities(f)
	assert.False(t, caps.IsTTY)
	assert.False(t, caps.SupportsColor)
	assert.False(t, caps.SupportsUnicode)
	assert.Zero(t, caps.Width)

	assert.Equal(t, TerminalCapabilities{}, DetectTerminalCapabilities(nil))
}

func TestSpinner_SilentWithoutTTY(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSpinner(&buf, TerminalCapabilities{})
	assert.False(t, s.Enabled())

	s.Start("resolving")
	s.Update("still resolving")
	s.Success("done")
	s.Fail("failed")

	assert.Empty(t, buf.String())
}

func TestSpinner_PrintsOutcome(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := NewSpinner(&buf, TerminalCapabilities{IsTTY: true, SupportsUnicode: true})
	assert.True(t, s.Enabled())

	s.Start("resolving contributors")
	s.Update("resolving 3 contributors")
	s.Success("resolved 3 contributors")

	assert.Contains(t, buf.String(), "✓ resolved 3 contributors\n")

	// Stopping twice is a no-op.
	before := buf.Len()
	s.Fail("ignored")
	assert.Equal(t, before, buf.Len())
}
