package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backend/internal/models"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIssueAndParseToken(t *testing.T) {
	token, err := IssueToken("64f1b2c3d4e5f6a7b8c9d0e1", models.RoleSeller, testSecret, time.Hour)
	require.NoError(t, err)

	sub, err := ParseSubject(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, "64f1b2c3d4e5f6a7b8c9d0e1", sub)
}

func TestParseSubjectRejectsWrongSecret(t *testing.T) {
	token, err := IssueToken("someid", models.RoleBuyer, testSecret, time.Hour)
	require.NoError(t, err)

	_, err = ParseSubject(token, "other-secret")
	assert.Error(t, err)
}

func TestParseSubjectRejectsExpiredToken(t *testing.T) {
	token, err := IssueToken("someid", models.RoleBuyer, testSecret, -time.Minute)
	require.NoError(t, err)

	_, err = ParseSubject(token, testSecret)
	assert.Error(t, err)
}

func TestParseSubjectRejectsGarbage(t *testing.T) {
	_, err := ParseSubject("not-a-token", testSecret)
	assert.Error(t, err)
}

func authRequest(t *testing.T, header string) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.GET("/protected", RequireAuth(nil, testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuthMissingToken(t *testing.T) {
	w := authRequest(t, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestRequireAuthBadScheme(t *testing.T) {
	w := authRequest(t, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func TestRequireAuthMalformedToken(t *testing.T) {
	w := authRequest(t, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	token, err := IssueToken("64f1b2c3d4e5f6a7b8c9d0e1", models.RoleBuyer, testSecret, -time.Minute)
	require.NoError(t, err)

	w := authRequest(t, "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
}

func roleRequest(t *testing.T, principal *Principal, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()

	r := gin.New()
	r.GET("/gated",
		func(c *gin.Context) {
			if principal != nil {
				c.Set(principalKey, *principal)
			}
		},
		RequireRoles(allowed...),
		func(c *gin.Context) { c.Status(http.StatusOK) },
	)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gated", nil))
	return w
}

func TestRequireRolesWithoutPrincipal(t *testing.T) {
	w := roleRequest(t, nil, models.RoleSeller, models.RoleAdmin)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRolesBuyerForbidden(t *testing.T) {
	w := roleRequest(t, &Principal{ID: "u1", Role: models.RoleBuyer}, models.RoleSeller, models.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesSellerAllowed(t *testing.T) {
	w := roleRequest(t, &Principal{ID: "u1", Role: models.RoleSeller}, models.RoleSeller, models.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRolesAdminAllowed(t *testing.T) {
	w := roleRequest(t, &Principal{ID: "u1", Role: models.RoleAdmin}, models.RoleSeller, models.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCurrentPrincipalRoundTrip(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := CurrentPrincipal(c)
	assert.False(t, ok)

	c.Set(principalKey, Principal{ID: "u1", Role: models.RoleBuyer})
	principal, ok := CurrentPrincipal(c)
	require.True(t, ok)
	assert.Equal(t, "u1", principal.ID)
	assert.Equal(t, models.RoleBuyer, principal.Role)
}
