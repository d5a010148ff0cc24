package pageparse_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/fwojciec/pageparse"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := pageparse.Errorf(pageparse.ENOTFOUND, "page %q not found", "https://example.com")

	assert.Equal(t, pageparse.ENOTFOUND, pageparse.ErrorCode(err))
	assert.Equal(t, "page \"https://example.com\" not found", pageparse.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pageparse.ErrorCode(nil))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, pageparse.ErrorMessage(nil))
}

func TestErrorCode_WrappedError(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("parse: %w", pageparse.Errorf(pageparse.EINVALID, "bad input"))

	assert.Equal(t, pageparse.EINVALID, pageparse.ErrorCode(err))
	assert.Equal(t, "bad input", pageparse.ErrorMessage(err))
}

func TestErrorCode_PlainError(t *testing.T) {
	t.Parallel()

	err := errors.New("connection refused")

	assert.Equal(t, pageparse.EINTERNAL, pageparse.ErrorCode(err))
	assert.Equal(t, "connection refused", pageparse.ErrorMessage(err))
}
