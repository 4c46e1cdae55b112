package http

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourstruly-priyanshu/rentify/internal/identity"
)

func TestSessionLoginLogout(t *testing.T) {
	provider := identity.NewProvider()
	router := NewRouter(&stubCartService{}, &stubCheckout{}, &stubCatalog{}, &stubOrderReader{}, provider, time.Second)

	rr := doRequest(t, router, http.MethodPost, "/api/v1/session", "", SessionRequestDTO{UserID: "user1"})
	require.Equal(t, http.StatusOK, rr.Code)

	userID, ok := provider.Current()
	require.True(t, ok)
	assert.Equal(t, "user1", userID)

	rr = doRequest(t, router, http.MethodGet, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp SessionResponseDTO
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	assert.True(t, resp.Active)
	assert.Equal(t, "user1", resp.UserID)

	rr = doRequest(t, router, http.MethodDelete, "/api/v1/session", "", nil)
	require.Equal(t, http.StatusNoContent, rr.Code)

	_, ok = provider.Current()
	assert.False(t, ok)
}

func TestSessionLogin_MissingUserID(t *testing.T) {
	router := NewRouter(&stubCartService{}, &stubCheckout{}, &stubCatalog{}, &stubOrderReader{}, identity.NewProvider(), time.Second)

	rr := doRequest(t, router, http.MethodPost, "/api/v1/session", "", SessionRequestDTO{})

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
