package bpydoc_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/bpydoc/bpydoc"
	"github.com/stretchr/testify/assert"
)

func TestErrorCode(t *testing.T) {
	t.Parallel()

	t.Run("application error", func(t *testing.T) {
		t.Parallel()
		err := bpydoc.Errorf(bpydoc.ENOENTITY, "no entity in %q", "changelog.html")
		assert.Equal(t, bpydoc.ENOENTITY, bpydoc.ErrorCode(err))
		assert.Equal(t, `no entity in "changelog.html"`, bpydoc.ErrorMessage(err))
	})

	t.Run("wrapped application error", func(t *testing.T) {
		t.Parallel()
		err := fmt.Errorf("outer: %w", bpydoc.Errorf(bpydoc.EMALFORMED, "bad markup"))
		assert.Equal(t, bpydoc.EMALFORMED, bpydoc.ErrorCode(err))
	})

	t.Run("non-application error", func(t *testing.T) {
		t.Parallel()
		err := errors.New("something broke")
		assert.Equal(t, bpydoc.EINTERNAL, bpydoc.ErrorCode(err))
		assert.Equal(t, "Internal error.", bpydoc.ErrorMessage(err))
	})

	t.Run("nil error", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, "", bpydoc.ErrorCode(nil))
		assert.Equal(t, "", bpydoc.ErrorMessage(nil))
	})
}
