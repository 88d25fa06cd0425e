package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymstack/internal/common"
	"gymstack/internal/models"
	"gymstack/internal/token"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func newAuthTestContext(authHeader string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func okHandler(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func TestAuthenticate_MissingHeader(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)
	c, _ := newAuthTestContext("")

	err := Authenticate(maker)(okHandler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "missing authorization header", httpErr.Message)
}

func TestAuthenticate_MalformedHeader(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)

	for _, header := range []string{
		"sometoken",
		"Bearer",
		"Bearer ",
		"Bearer  sometoken",
		"Bearer one two",
		"Basic sometoken",
	} {
		c, _ := newAuthTestContext(header)
		err := Authenticate(maker)(okHandler)(c)
		httpErr, ok := err.(*echo.HTTPError)
		assert.True(t, ok, "header %q", header)
		assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
		assert.Equal(t, "invalid authorization header format", httpErr.Message, "header %q", header)
	}
}

func TestAuthenticate_InvalidToken(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)
	c, _ := newAuthTestContext("Bearer not-a-real-token")

	err := Authenticate(maker)(okHandler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "invalid or expired token", httpErr.Message)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expired := token.NewMaker("test-secret", -time.Minute)
	signed, err := expired.GenerateToken(
		&models.User{ID: uuid.New(), Username: "jdoe"},
		&models.UserType{Name: models.RoleMember},
	)
	assert.NoError(t, err)

	maker := token.NewMaker("test-secret", time.Hour)
	c, _ := newAuthTestContext("Bearer " + signed)

	handlerErr := Authenticate(maker)(okHandler)(c)
	httpErr, ok := handlerErr.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "invalid or expired token", httpErr.Message)
}

func TestAuthenticate_ValidTokenLoadsContext(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)
	userID := uuid.New()
	signed, err := maker.GenerateToken(
		&models.User{ID: userID, Username: "jdoe"},
		&models.UserType{Name: models.RoleAdmin, CanViewMembers: true},
	)
	assert.NoError(t, err)

	c, rec := newAuthTestContext("Bearer " + signed)

	handler := Authenticate(maker)(func(c echo.Context) error {
		ctx := c.Request().Context()

		gotID, ok := common.GetUserIDFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, userID, gotID)

		username, ok := common.GetUsernameFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "jdoe", username)

		role, ok := common.GetRoleFromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, models.RoleAdmin, role)

		perms, ok := common.GetPermissionsFromContext(ctx)
		assert.True(t, ok)
		assert.True(t, perms.CanViewMembers)
		assert.False(t, perms.CanViewPayments)

		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthenticate_AnonymousPassesWithoutClaims(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)
	c, rec := newAuthTestContext("")

	handler := OptionalAuthenticate(maker)(func(c echo.Context) error {
		_, ok := common.GetRoleFromContext(c.Request().Context())
		assert.False(t, ok)
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthenticate_ValidTokenLoadsClaims(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)
	signed, err := maker.GenerateToken(
		&models.User{ID: uuid.New(), Username: "boss"},
		&models.UserType{Name: models.RoleAdmin},
	)
	assert.NoError(t, err)

	c, rec := newAuthTestContext("Bearer " + signed)
	handler := OptionalAuthenticate(maker)(func(c echo.Context) error {
		role, ok := common.GetRoleFromContext(c.Request().Context())
		assert.True(t, ok)
		assert.Equal(t, models.RoleAdmin, role)
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, handler(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOptionalAuthenticate_BadTokenStillRejected(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)
	c, _ := newAuthTestContext("Bearer not-a-real-token")

	err := OptionalAuthenticate(maker)(okHandler)(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "invalid or expired token", httpErr.Message)
}

func TestRequireAdmin(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)

	adminToken, err := maker.GenerateToken(
		&models.User{ID: uuid.New(), Username: "admin"},
		&models.UserType{Name: models.RoleAdmin},
	)
	assert.NoError(t, err)
	memberToken, err := maker.GenerateToken(
		&models.User{ID: uuid.New(), Username: "member"},
		&models.UserType{Name: models.RoleMember},
	)
	assert.NoError(t, err)

	chain := func(c echo.Context) error {
		return Authenticate(maker)(RequireAdmin()(okHandler))(c)
	}

	c, rec := newAuthTestContext("Bearer " + adminToken)
	assert.NoError(t, chain(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newAuthTestContext("Bearer " + memberToken)
	err = chain(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}

func TestRequirePermission(t *testing.T) {
	maker := token.NewMaker("test-secret", time.Hour)

	viewerToken, err := maker.GenerateToken(
		&models.User{ID: uuid.New(), Username: "viewer"},
		&models.UserType{Name: models.RoleMember, CanViewPayments: true},
	)
	assert.NoError(t, err)

	canViewPayments := RequirePermission(func(p models.PermissionBundle) bool { return p.CanViewPayments })
	canViewMembers := RequirePermission(func(p models.PermissionBundle) bool { return p.CanViewMembers })

	c, rec := newAuthTestContext("Bearer " + viewerToken)
	assert.NoError(t, Authenticate(maker)(canViewPayments(okHandler))(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	c, _ = newAuthTestContext("Bearer " + viewerToken)
	err = Authenticate(maker)(canViewMembers(okHandler))(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
}
