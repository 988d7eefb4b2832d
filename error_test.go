package catmap_test

import (
	"errors"
	"testing"

	"github.com/fwojciec/catmap"
	"github.com/stretchr/testify/assert"
)

func TestErrorf(t *testing.T) {
	t.Parallel()

	err := catmap.Errorf(catmap.ENOTFOUND, "pattern for %q not found", "example.com")

	assert.Equal(t, catmap.ENOTFOUND, catmap.ErrorCode(err))
	assert.Equal(t, "pattern for \"example.com\" not found", catmap.ErrorMessage(err))
}

func TestErrorCode_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, catmap.ErrorCode(nil))
}

func TestErrorCode_NonApplicationError(t *testing.T) {
	t.Parallel()

	assert.Equal(t, catmap.EINTERNAL, catmap.ErrorCode(errors.New("boom")))
}

func TestErrorMessage_NilError(t *testing.T) {
	t.Parallel()

	assert.Empty(t, catmap.ErrorMessage(nil))
}
