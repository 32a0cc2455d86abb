package apperr

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

var errTest = &Error{
	Message: "project %q not found",
}

func TestErrorFmt(t *testing.T) {
	err := errTest.Fmt("alpha")

	assert.Equal(t, `project "alpha" not found`, err.Error())
	assert.ErrorIs(t, err, errTest)
	assert.Empty(t, errTest.Context, "Fmt must not mutate the template")
}

func TestErrorWrap(t *testing.T) {
	err := errTest.Fmt("beta").Wrap(os.ErrPermission)

	assert.Equal(t, `project "beta" not found: permission denied`, err.Error())
	assert.ErrorIs(t, err, errTest)
	assert.ErrorIs(t, err, os.ErrPermission)
}

func TestErrorIsThroughFmtErrorf(t *testing.T) {
	err := fmt.Errorf("loading: %w", errTest.Fmt("gamma"))

	assert.True(t, errors.Is(err, errTest))

	other := &Error{Message: "something else"}
	assert.False(t, errors.Is(err, other))
}
