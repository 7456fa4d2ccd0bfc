package seeding

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"plain error", errors.New("boom"), KindInternal},
		{"conflict", newError(KindConflict, MsgUserExists, nil), KindConflict},
		{"wrapped unauthorized", fmt.Errorf("outer: %w", newError(KindUnauthorized, MsgInvalidAdminSecret, nil)), KindUnauthorized},
		{"nil", nil, KindInternal},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, KindOf(tc.err))
		})
	}
}

func TestError_Message(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := newError(KindBadRequest, MsgFetchUsersFailed, cause)

	assert.Equal(t, "Error fetching users: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, MsgFetchUsersFailed, MessageOf(err))
	assert.Equal(t, MsgServerError, MessageOf(cause))
	assert.Equal(t, "bad_request", KindBadRequest.String())
}
