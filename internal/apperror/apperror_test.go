package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind_HTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		MissingParameter:            http.StatusBadRequest,
		InvalidCoordinateFormat:     http.StatusBadRequest,
		PlaceNotFound:               http.StatusBadRequest,
		PersistenceUnavailable:      http.StatusBadRequest,
		NoRouteFound:                http.StatusNotFound,
		RoutingServiceUnavailable:   http.StatusBadGateway,
		GeocodingServiceUnavailable: http.StatusBadGateway,
		PersistenceWriteFailed:      http.StatusInternalServerError,
		UnexpectedError:             http.StatusInternalServerError,
	}
	for kind, status := range cases {
		assert.Equal(t, status, kind.HTTPStatus(), kind.String())
	}
}

func TestKindOf_WrappedChain(t *testing.T) {
	base := Wrap(RoutingServiceUnavailable, errors.New("dial tcp: refused"), "routing service unavailable")
	wrapped := fmt.Errorf("route: %w", base)

	assert.Equal(t, RoutingServiceUnavailable, KindOf(wrapped))
	assert.True(t, Is(wrapped, RoutingServiceUnavailable))
	assert.Equal(t, "routing service unavailable", Message(wrapped))
	assert.Contains(t, base.Error(), "dial tcp: refused")
}

func TestKindOf_Untagged(t *testing.T) {
	err := errors.New("boom")

	assert.Equal(t, UnexpectedError, KindOf(err))
	assert.Equal(t, "internal server error", Message(err))
	assert.False(t, Is(nil, UnexpectedError))
}
