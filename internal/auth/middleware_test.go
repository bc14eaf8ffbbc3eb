package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/identity-service/internal/api/http"
	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
)

type staticRoleSource struct {
	roles []domain.Role
	err   error
}

func (s *staticRoleSource) FindActiveByCodes(context.Context, []string) ([]domain.Role, error) {
	return s.roles, s.err
}

type failureBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code    string         `json:"code"`
		Details map[string]any `json:"details"`
	} `json:"error"`
}

func newGatedApp(t *testing.T, source auth.RoleSource) (*fiber.App, *auth.TokenCodec) {
	t.Helper()

	codec, err := auth.NewTokenCodec(config.AuthConfig{
		AccessTokenSecret:      "access-secret",
		RefreshTokenSecret:     "refresh-secret",
		AccessTokenTTLMinutes:  15,
		RefreshTokenTTLMinutes: 60,
	})
	require.NoError(t, err)

	gates := auth.NewMiddleware(codec, auth.NewResolver(source), zap.NewNop())

	app := fiber.New()
	app.Use(httptransport.ErrorHandler(zap.NewNop(), nil))
	app.Get("/protected", gates.Authenticate, gates.RequirePermission("USER_READ"), func(c *fiber.Ctx) error {
		identity, _ := auth.IdentityFromContext(c)
		return c.JSON(fiber.Map{"data": fiber.Map{"subject_id": identity.SubjectID}})
	})
	return app, codec
}

func doRequest(t *testing.T, app *fiber.App, authorization string) (*http.Response, failureBody) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body failureBody
	_ = json.Unmarshal(raw, &body)
	return resp, body
}

func TestAuthenticateMissingHeader(t *testing.T) {
	app, _ := newGatedApp(t, &staticRoleSource{})

	resp, body := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.False(t, body.Success)
	assert.Equal(t, "UNAUTHENTICATED", body.Error.Code)
	assert.Contains(t, body.Message, "missing authorization header")
}

func TestAuthenticateMalformedHeader(t *testing.T) {
	app, codec := newGatedApp(t, &staticRoleSource{})
	pair, err := codec.Issue(domain.Identity{SubjectID: "u1", RoleCodes: []string{"USER"}})
	require.NoError(t, err)

	cases := map[string]string{
		"wrong scheme":   "Token abc",
		"no token":       "Bearer",
		"extra segments": "Bearer " + pair.AccessToken + " extra",
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			resp, body := doRequest(t, app, header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "MALFORMED_CREDENTIALS", body.Error.Code)
		})
	}
}

func TestAuthenticateExpiredToken(t *testing.T) {
	app, _ := newGatedApp(t, &staticRoleSource{})

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   "u1",
		"roles": []string{"USER"},
		"exp":   time.Now().Add(-time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte("access-secret"))
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+signed)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_EXPIRED", body.Error.Code)
}

func TestAuthenticateInvalidToken(t *testing.T) {
	app, _ := newGatedApp(t, &staticRoleSource{})

	resp, body := doRequest(t, app, "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "TOKEN_INVALID", body.Error.Code)
}

func TestRequirePermissionForbiddenNamesPermission(t *testing.T) {
	source := &staticRoleSource{roles: []domain.Role{
		{Code: "USER", Permissions: []string{"USER_READ_SELF"}, Active: true},
	}}
	app, codec := newGatedApp(t, source)

	pair, err := codec.Issue(domain.Identity{SubjectID: "u1", RoleCodes: []string{"USER"}})
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
	assert.Contains(t, body.Message, "USER_READ")
	assert.Equal(t, "USER_READ", body.Error.Details["required_permission"])
}

func TestRequirePermissionAllows(t *testing.T) {
	source := &staticRoleSource{roles: []domain.Role{
		{Code: "USER", Permissions: []string{"USER_READ"}, Active: true},
	}}
	app, codec := newGatedApp(t, source)

	pair, err := codec.Issue(domain.Identity{SubjectID: "u1", RoleCodes: []string{"USER"}})
	require.NoError(t, err)

	resp, _ := doRequest(t, app, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestRequirePermissionFailsClosedOnLookupError(t *testing.T) {
	source := &staticRoleSource{err: errors.New("store down")}
	app, codec := newGatedApp(t, source)

	pair, err := codec.Issue(domain.Identity{SubjectID: "u1", RoleCodes: []string{"USER"}})
	require.NoError(t, err)

	resp, body := doRequest(t, app, "Bearer "+pair.AccessToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", body.Error.Code)
}

func TestRequirePermissionWithoutAuthenticateRejects(t *testing.T) {
	codec, err := auth.NewTokenCodec(config.AuthConfig{
		AccessTokenSecret:      "access-secret",
		RefreshTokenSecret:     "refresh-secret",
		AccessTokenTTLMinutes:  15,
		RefreshTokenTTLMinutes: 60,
	})
	require.NoError(t, err)
	gates := auth.NewMiddleware(codec, auth.NewResolver(&staticRoleSource{}), zap.NewNop())

	app := fiber.New()
	app.Use(httptransport.ErrorHandler(zap.NewNop(), nil))
	app.Get("/miswired", gates.RequirePermission("USER_READ"), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/miswired", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
