package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func protected(roles ...string) http.Handler {
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFrom(r.Context())
		_, _ = w.Write([]byte(p.Subject))
	})
	return Authenticate("secret")(RequireRole(roles...)(final))
}

func TestAuthenticate(t *testing.T) {
	token, err := GenerateToken("secret", "buyer-1", RoleBuyer, time.Hour)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	protected(RoleBuyer, RoleAdmin).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "buyer-1", rec.Body.String())

	rec = httptest.NewRecorder()
	protected(RoleAdmin).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	forged, err := GenerateToken("other-secret", "admin-1", RoleAdmin, time.Hour)
	require.NoError(t, err)
	expired, err := GenerateToken("secret", "admin-1", RoleAdmin, -time.Minute)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing": "",
		"scheme":  "Token abc",
		"forged":  "Bearer " + forged,
		"expired": "Bearer " + expired,
	} {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			rec := httptest.NewRecorder()
			protected(RoleAdmin).ServeHTTP(rec, req)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}
