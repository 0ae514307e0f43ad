package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOfUnwrapsChain(t *testing.T) {
	base := InvalidArgument("checkout", "invalid plan")
	wrapped := fmt.Errorf("handler: %w", base)

	assert.Equal(t, KindInvalidArgument, KindOf(wrapped))
	assert.True(t, Is(wrapped, KindInvalidArgument))
	assert.Equal(t, KindInternal, KindOf(errors.New("plain")))
	assert.False(t, Is(nil, KindInternal))
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(KindUnauthenticated))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindInvalidArgument))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(KindSignatureInvalid))
	assert.Equal(t, http.StatusPaymentRequired, HTTPStatus(KindDenied))
	assert.Equal(t, http.StatusBadGateway, HTTPStatus(KindUpstream))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(KindStore))
}

func TestPublicMessageHidesStoreDetails(t *testing.T) {
	err := Store("users.create", errors.New("pq: connection refused"))
	assert.NotContains(t, PublicMessage(err), "pq")

	up := Upstream("stripe.customer", errors.New("card declined"))
	assert.Equal(t, "card declined", PublicMessage(up))
	assert.ErrorContains(t, up, "stripe.customer")
}
