package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf_ClassifiesAppError(t *testing.T) {
	err := New(CodeInvalidRange, "bad range")
	assert.Equal(t, CodeInvalidRange, CodeOf(err))
}

func TestCodeOf_DefaultsToDBError(t *testing.T) {
	assert.Equal(t, CodeDBError, CodeOf(errors.New("boom")))
}

func TestCodeOf_UnwrapsWrapped(t *testing.T) {
	base := New(CodeNotFound, "missing")
	wrapped := fmt.Errorf("loading rule: %w", base)
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestWrap_NeverLeaksCauseText(t *testing.T) {
	cause := errors.New("disk full: /var/lib/corehub.db")
	err := Wrap(CodeDBError, cause)
	assert.Equal(t, string(CodeDBError), err.Error())
	assert.NotContains(t, err.Error(), "disk full")
	assert.ErrorIs(t, err, cause)
}

func TestError_MessageOverridesCode(t *testing.T) {
	err := New(CodeInvalidKind, "kind must be app or domain")
	assert.Equal(t, "kind must be app or domain", err.Error())
}
