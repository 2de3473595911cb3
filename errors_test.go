package stratum_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stratumdb/stratum"
)

func TestNotFoundError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := stratum.NewNotFoundError("User")
		assert.Equal(t, "stratum: User not found", err.Error())
	})

	t.Run("ErrorWithID", func(t *testing.T) {
		err := stratum.NewNotFoundErrorWithID("User", 42)
		assert.Equal(t, "stratum: User not found (id=42)", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := stratum.NewNotFoundError("Post")
		assert.True(t, errors.Is(err, stratum.ErrNotFound))
	})

	t.Run("IsNotFound", func(t *testing.T) {
		err := stratum.NewNotFoundError("Comment")
		assert.True(t, stratum.IsNotFound(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, stratum.IsNotFound(wrapped))

		assert.True(t, stratum.IsNotFound(stratum.ErrNotFound))

		assert.False(t, stratum.IsNotFound(errors.New("other error")))
		assert.False(t, stratum.IsNotFound(nil))
	})
}

func TestNotSingularError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := stratum.NewNotSingularError("User")
		assert.Equal(t, "stratum: User not singular", err.Error())
	})

	t.Run("ErrorWithCount", func(t *testing.T) {
		err := stratum.NewNotSingularErrorWithCount("User", 3)
		assert.Equal(t, "stratum: User not singular (got 3 results, expected 1)", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := stratum.NewNotSingularError("Post")
		assert.True(t, errors.Is(err, stratum.ErrNotSingular))
	})

	t.Run("IsNotSingular", func(t *testing.T) {
		err := stratum.NewNotSingularError("Comment")
		assert.True(t, stratum.IsNotSingular(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, stratum.IsNotSingular(wrapped))

		assert.True(t, stratum.IsNotSingular(stratum.ErrNotSingular))

		assert.False(t, stratum.IsNotSingular(errors.New("other error")))
		assert.False(t, stratum.IsNotSingular(nil))
	})
}

func TestNotLoadedError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := stratum.NewNotLoadedError("posts")
		assert.Equal(t, `stratum: edge "posts" was not loaded`, err.Error())
	})

	t.Run("IsNotLoaded", func(t *testing.T) {
		err := stratum.NewNotLoadedError("comments")
		assert.True(t, stratum.IsNotLoaded(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, stratum.IsNotLoaded(wrapped))

		assert.False(t, stratum.IsNotLoaded(errors.New("other error")))
		assert.False(t, stratum.IsNotLoaded(nil))
	})
}

func TestConstraintError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := stratum.NewConstraintError("UNIQUE constraint failed", nil)
		assert.Equal(t, "stratum: constraint failed: UNIQUE constraint failed", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("db error")
		err := stratum.NewConstraintError("constraint violated", underlying)
		assert.True(t, errors.Is(err, underlying))
	})

	t.Run("IsConstraintError", func(t *testing.T) {
		err := stratum.NewConstraintError("check failed", nil)
		assert.True(t, stratum.IsConstraintError(err))

		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, stratum.IsConstraintError(wrapped))

		assert.False(t, stratum.IsConstraintError(errors.New("other error")))
		assert.False(t, stratum.IsConstraintError(nil))
	})
}

func TestRollbackError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := &stratum.RollbackError{Err: errors.New("connection lost")}
		assert.Equal(t, "stratum: rollback failed: connection lost", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("timeout")
		err := &stratum.RollbackError{Err: underlying}
		assert.True(t, errors.Is(err, underlying))
	})
}

func TestQueryError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := stratum.NewQueryError("User", "count", errors.New("bad column"))
		assert.Equal(t, "stratum: querying User (count): bad column", err.Error())
	})

	t.Run("Unwrap", func(t *testing.T) {
		underlying := errors.New("bad column")
		err := stratum.NewQueryError("User", "", underlying)
		assert.True(t, errors.Is(err, underlying))
		assert.Equal(t, "stratum: querying User: bad column", err.Error())
	})

	t.Run("IsQueryError", func(t *testing.T) {
		err := stratum.NewQueryError("User", "select", errors.New("boom"))
		assert.True(t, stratum.IsQueryError(err))
		assert.False(t, stratum.IsQueryError(errors.New("other error")))
		assert.False(t, stratum.IsQueryError(nil))
	})
}

func TestSentinelErrors(t *testing.T) {
	t.Run("ErrNotFound", func(t *testing.T) {
		assert.Error(t, stratum.ErrNotFound)
		assert.Contains(t, stratum.ErrNotFound.Error(), "not found")
	})

	t.Run("ErrNotSingular", func(t *testing.T) {
		assert.Error(t, stratum.ErrNotSingular)
		assert.Contains(t, stratum.ErrNotSingular.Error(), "not singular")
	})

	t.Run("ErrTxStarted", func(t *testing.T) {
		assert.Error(t, stratum.ErrTxStarted)
		assert.Contains(t, stratum.ErrTxStarted.Error(), "transaction")
	})
}

// BenchmarkErrors benchmarks error creation and checking.
func BenchmarkErrors(b *testing.B) {
	b.Run("NewNotFoundError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = stratum.NewNotFoundError("User")
		}
	})

	b.Run("IsNotFound", func(b *testing.B) {
		err := stratum.NewNotFoundError("User")
		for i := 0; i < b.N; i++ {
			_ = stratum.IsNotFound(err)
		}
	})

	b.Run("NewConstraintError", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_ = stratum.NewConstraintError("unique", nil)
		}
	})

	b.Run("IsConstraintError", func(b *testing.B) {
		err := stratum.NewConstraintError("unique", nil)
		for i := 0; i < b.N; i++ {
			_ = stratum.IsConstraintError(err)
		}
	})
}
