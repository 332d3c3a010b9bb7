package errors

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidArgument("user_id is required")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFound("no movies in catalog")))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(gorm.ErrRecordNotFound))
	assert.Equal(t, http.StatusGatewayTimeout, HTTPStatus(context.DeadlineExceeded))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(fmt.Errorf("driver: bad connection")))
}

// Internal causes never leak: only validation and not-found text is
// forwarded to clients.
func TestPublicMessage(t *testing.T) {
	assert.Contains(t, PublicMessage(InvalidArgument("username is required")), "username is required")
	assert.Contains(t, PublicMessage(NotFound("no movies in catalog")), "no movies")

	leaky := fmt.Errorf("dial tcp 10.0.0.5:3306: connect: connection refused")
	assert.Equal(t, "internal server error", PublicMessage(leaky))
	assert.NotContains(t, PublicMessage(leaky), "10.0.0.5")
}

func TestWrappedErrorsKeepTheirClass(t *testing.T) {
	wrapped := fmt.Errorf("save match: %w", InvalidArgument("movie_id is required"))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(wrapped))
}
