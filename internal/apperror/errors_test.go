package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", NewValidation("bad"), http.StatusUnprocessableEntity},
		{"not found", NewNotFound("missing"), http.StatusNotFound},
		{"auth", NewAuth("nope"), http.StatusUnauthorized},
		{"store", NewStore("db", errors.New("boom")), http.StatusInternalServerError},
		{"transport", NewTransport("net", errors.New("timeout")), http.StatusInternalServerError},
		{"plain error", errors.New("raw"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", NewNotFound("inner")), http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, StatusCode(tc.err))
		})
	}
}

func TestPublicMessageHidesCause(t *testing.T) {
	err := NewStore("Fetching users failed, please try again later.", errors.New("rpc error: code = Unavailable"))

	assert.Equal(t, "Fetching users failed, please try again later.", PublicMessage(err))
	assert.Contains(t, err.Error(), "Unavailable")
	assert.Equal(t, "An unknown error occurred!", PublicMessage(errors.New("driver text")))
}

func TestIsKindAndUnwrap(t *testing.T) {
	cause := errors.New("cause")
	err := fmt.Errorf("ctx: %w", NewTransport("geocoder down", cause))

	assert.True(t, IsKind(err, KindTransport))
	assert.False(t, IsKind(err, KindStore))
	assert.ErrorIs(t, err, cause)
}
