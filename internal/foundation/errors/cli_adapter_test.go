package errors

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCLIErrorAdapter_ExitCodeFor(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, quietLogger())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, 0},
		{"validation", ValidationError("bad flag").Build(), 2},
		{"config", ConfigError("site configuration rejected").Build(), 7},
		{"link", LinkError("broken links").Build(), 9},
		{"storage", StorageError("insert failed").Build(), 11},
		{"unclassified", errors.New("unknown"), 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, adapter.ExitCodeFor(tt.err))
		})
	}
}

func TestCLIErrorAdapter_FormatError(t *testing.T) {
	adapter := NewCLIErrorAdapter(false, quietLogger())

	cause := errors.New(`required field "title" is missing`)
	err := WrapError(cause, CategoryConfig, "site configuration rejected").Fatal().Build()
	assert.Equal(t, `Error: site configuration rejected: required field "title" is missing`, adapter.FormatError(err))

	internal := InternalError("nil resolver").Build()
	assert.Contains(t, adapter.FormatError(internal), "use -v for details")

	verbose := NewCLIErrorAdapter(true, quietLogger())
	assert.Equal(t, "Error: nil resolver", verbose.FormatError(internal))
}

func TestCLIErrorAdapter_Handle(t *testing.T) {
	var out bytes.Buffer
	adapter := NewCLIErrorAdapter(false, quietLogger()).WithOutput(&out)

	code := adapter.Handle(ConfigError("site configuration rejected").WithContext("config", "site.yaml").Build())
	assert.Equal(t, 7, code)
	assert.Equal(t, "Error: site configuration rejected\n", out.String())
	assert.Equal(t, 0, adapter.Handle(nil))
}
