package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/mcpsync/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "app",
			ID:       "claude-desktop",
		}
		assert.Equal(t, "app with ID claude-desktop not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("app", "cursor")
		assert.Equal(t, "app with ID cursor not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("app", "test")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestParseError(t *testing.T) {
	t.Run("with path", func(t *testing.T) {
		err := pkgerrors.NewParseError("json", "/tmp/config.json", "unexpected end of input", nil)
		assert.Equal(t, "parse error in json file /tmp/config.json: unexpected end of input", err.Error())
		assert.True(t, pkgerrors.IsParseError(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		cause := errors.New("invalid character '}'")
		err := pkgerrors.WrapParse("json", "/tmp/bad.json", cause)
		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
		assert.True(t, pkgerrors.IsParseError(err))
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapParse("json", "x", nil))
	})
}

func TestBackupError(t *testing.T) {
	cause := errors.New("permission denied")
	err := pkgerrors.NewBackupError("/etc/app/config.json", cause)
	assert.Equal(t, "backup of /etc/app/config.json failed: permission denied", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestWriteError(t *testing.T) {
	cause := errors.New("no space left on device")
	err := pkgerrors.NewWriteError("/tmp/config.json", cause)
	assert.Equal(t, "write of /tmp/config.json failed: no space left on device", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestUnknownServersError(t *testing.T) {
	t.Run("single name", func(t *testing.T) {
		err := pkgerrors.NewUnknownServersError([]string{"github"})
		assert.Equal(t, "server github not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("multiple names listed together", func(t *testing.T) {
		err := pkgerrors.NewUnknownServersError([]string{"github", "filesystem"})
		assert.Equal(t, "servers not found: github, filesystem", err.Error())
	})
}

func TestIOError(t *testing.T) {
	cause := errors.New("file exists")
	err := pkgerrors.WrapIO("create", "/tmp/x", cause)
	require.Error(t, err)
	assert.Equal(t, "IO error during create of /tmp/x: file exists", err.Error())
	assert.True(t, errors.Is(err, cause))

	assert.NoError(t, pkgerrors.WrapIO("create", "/tmp/x", nil))
}

func TestValidationError(t *testing.T) {
	err := pkgerrors.NewValidationError("name", "", "cannot be empty")
	assert.Equal(t, "validation failed for field name: cannot be empty", err.Error())
	assert.True(t, pkgerrors.IsValidationError(err))
}
