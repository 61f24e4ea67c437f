package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gactlab/gaction/internal/parser"
)

func TestFromError(t *testing.T) {
	t.Parallel()

	assert.Nil(t, FromError(nil))

	got := FromError(errors.New("handler blew up"))
	assert.Equal(t, 1, got.Code)
	assert.Equal(t, "handler blew up", got.Message)

	usage := &parser.UsageError{Message: "missing required option --pattern", Usage: "usage: prog text grep ..."}
	got = FromError(usage)
	assert.Equal(t, 2, got.Code)
	assert.Equal(t, "missing required option --pattern\nusage: prog text grep ...", got.Message)

	wrapped := fmt.Errorf("parsing arguments: %w", usage)
	assert.Equal(t, 2, FromError(wrapped).Code, "wrapped usage errors keep exit status 2")

	explicit := &ExitError{Code: 3, Message: "custom"}
	assert.Same(t, explicit, FromError(explicit))
}
