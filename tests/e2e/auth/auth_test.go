//go:build e2e

package auth_test

import (
	"net/http"
	"testing"

	"storefront/internal/domain/user"
	"storefront/internal/handler/dto/request"
	"storefront/internal/handler/dto/response"
	"storefront/tests/common/httptest"
	"storefront/tests/e2e"
	jwtHelper "storefront/tests/e2e/common/helper"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	registerURL = "/api/auth/register"
	loginURL    = "/api/auth/login"
	logoutURL   = "/api/auth/logout"
	refreshURL  = "/api/auth/refresh"
	meURL       = "/api/auth/me"
)

type authSuite struct {
	e2e.SharedSuite
	jwtHelper *jwtHelper.JWTTestHelper
}

func TestAuthSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(authSuite))
}

func (s *authSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwtHelper = jwtHelper.NewJWTTestHelper(s.DB, s.Config.JWT)
}

func (s *authSuite) SetupSubTest() {
	s.SharedSuite.SetupSubTest()

	s.jwtHelper.CreateTestUserWithDB(s.T(), s.DB, "test@example.com", string(user.RoleCustomer))
	s.jwtHelper.CreateTestUserWithDB(s.T(), s.DB, "staff@example.com", string(user.RoleStaff))
	s.jwtHelper.CreateTestUserWithDB(s.T(), s.DB, "inactive@example.com", string(user.RoleCustomer))

	ctx := s.T().Context()
	_, err := s.DB.Exec(ctx, "UPDATE users SET is_active = false WHERE email = 'inactive@example.com'")
	require.NoError(s.T(), err)
}

func (s *authSuite) TestRegister() {
	tests := []struct {
		name           string
		body           request.RegisterRequest
		expectedStatus int
	}{
		{
			name:           "creates an account and signs the user in",
			body:           request.RegisterRequest{Email: "new@example.com", Password: "password123", Name: "New Shopper"},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "duplicate email",
			body:           request.RegisterRequest{Email: "test@example.com", Password: "password123", Name: "Dup"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "weak password",
			body:           request.RegisterRequest{Email: "weak@example.com", Password: "short", Name: "Weak"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           request.RegisterRequest{Email: "anon@example.com", Password: "password123"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, registerURL, tt.body, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusCreated {
				var res response.LoginResponse
				httptest.AssertSuccessResponse(t, w, http.StatusCreated, &res)
				require.NotEmpty(t, res.AccessToken)
				require.NotNil(t, res.User)
				require.Equal(t, tt.body.Email, res.User.Email)
				require.Equal(t, string(user.RoleCustomer), res.User.Role)
			}
		})
	}
}

func (s *authSuite) TestLogin() {
	tests := []struct {
		name           string
		email          string
		password       string
		expectedStatus int
	}{
		{
			name:           "valid credentials",
			email:          "test@example.com",
			password:       "password123",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown user",
			email:          "nonexistent@example.com",
			password:       "password123",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong password",
			email:          "test@example.com",
			password:       "wrongpassword",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "deactivated account",
			email:          "inactive@example.com",
			password:       "password123",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "empty email",
			email:          "",
			password:       "password123",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty password",
			email:          "test@example.com",
			password:       "",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.LoginRequest{
				Email:    tt.email,
				Password: tt.password,
			}

			w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var loginRes response.LoginResponse
				httptest.AssertSuccessResponse(t, w, http.StatusOK, &loginRes)
				require.NotEmpty(t, loginRes.AccessToken, "access token missing")
				require.Equal(t, tt.email, loginRes.User.Email)

				// Tokens also arrive as cookies.
				var haveAccess, haveRefresh bool
				for _, c := range w.Result().Cookies() {
					switch c.Name {
					case "access_token":
						haveAccess = c.Value != ""
					case "refresh_token":
						haveRefresh = c.Value != ""
					}
				}
				require.True(t, haveAccess, "access_token cookie missing")
				require.True(t, haveRefresh, "refresh_token cookie missing")

				var lastLogin any
				err := s.DB.QueryRow(s.T().Context(), "SELECT last_login FROM users WHERE email = $1", tt.email).Scan(&lastLogin)
				require.NoError(t, err)
				require.NotNil(t, lastLogin, "last_login was not updated")
			}
		})
	}
}

func (s *authSuite) TestRefresh() {
	refreshTokenOf := func(t *testing.T) string {
		reqBody := request.LoginRequest{Email: "test@example.com", Password: "password123"}
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, loginURL, reqBody, "")
		require.Equal(t, http.StatusOK, w.Code)
		for _, c := range w.Result().Cookies() {
			if c.Name == "refresh_token" {
				return c.Value
			}
		}
		t.Fatal("refresh_token cookie not set on login")
		return ""
	}

	tests := []struct {
		name           string
		setupToken     func(t *testing.T) string
		expectedStatus int
	}{
		{
			name:           "valid refresh token",
			setupToken:     refreshTokenOf,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "garbage refresh token",
			setupToken:     func(*testing.T) string { return "invalid-refresh-token" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "empty refresh token",
			setupToken:     func(*testing.T) string { return "" },
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			reqBody := request.RefreshRequest{RefreshToken: tt.setupToken(t)}
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, refreshURL, reqBody, "")
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var refreshRes response.RefreshResponse
				httptest.AssertSuccessResponse(t, w, http.StatusOK, &refreshRes)
				require.NotEmpty(t, refreshRes.AccessToken, "new access token missing")
			}
		})
	}
}

func (s *authSuite) TestLogout() {
	s.Run("clears the session cookies", func() {
		t := s.T()

		token := s.jwtHelper.LoginUser(t, s.Router, "test@example.com", "password123")
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, logoutURL, nil, token)
		require.Equal(t, http.StatusOK, w.Code)

		for _, c := range w.Result().Cookies() {
			if c.Name == "access_token" || c.Name == "refresh_token" {
				require.Empty(t, c.Value, "cookie %s should be cleared", c.Name)
			}
		}
	})
}

func (s *authSuite) TestMe() {
	tests := []struct {
		name           string
		setupUser      func() (string, string, string) // email, role, token
		expectedStatus int
	}{
		{
			name: "staff user profile",
			setupUser: func() (string, string, string) {
				email := "staff2@example.com"
				role := string(user.RoleStaff)
				token := s.jwtHelper.CreateAndLoginWithDB(s.T(), s.DB, s.Router, email, role)
				return email, role, token
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "customer profile",
			setupUser: func() (string, string, string) {
				email := "customer2@example.com"
				role := string(user.RoleCustomer)
				token := s.jwtHelper.CreateAndLoginWithDB(s.T(), s.DB, s.Router, email, role)
				return email, role, token
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "garbage token",
			setupUser: func() (string, string, string) {
				return "", "", "invalid-token"
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "no token",
			setupUser: func() (string, string, string) {
				return "", "", ""
			},
			expectedStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			t := s.T()

			email, role, token := tt.setupUser()
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token)
			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())

			if tt.expectedStatus == http.StatusOK {
				var me response.UserResponse
				httptest.AssertSuccessResponse(t, w, http.StatusOK, &me)
				require.Equal(t, email, me.Email)
				require.Equal(t, role, me.Role)
				require.NotContains(t, w.Body.String(), "password", "response leaks password material")
			}
		})
	}
}

func (s *authSuite) TestTokenExpiry() {
	s.Run("rejects an expired token", func() {
		t := s.T()

		userID := s.jwtHelper.CreateTestUserWithDB(t, s.DB, "expiry@example.com", string(user.RoleCustomer))
		expiredToken := s.jwtHelper.CreateExpiredToken(t, userID, user.RoleCustomer)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, expiredToken)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func (s *authSuite) TestAuthenticationRequired() {
	s.Run("protected endpoints reject anonymous requests", func() {
		t := s.T()

		endpoints := []struct {
			method string
			path   string
		}{
			{http.MethodGet, meURL},
			{http.MethodGet, "/api/cart"},
			{http.MethodGet, "/api/orders"},
		}

		for _, endpoint := range endpoints {
			w := httptest.PerformRequest(t, s.Router, endpoint.method, endpoint.path, nil, "")
			require.Equal(t, http.StatusUnauthorized, w.Code, "%s %s should require auth", endpoint.method, endpoint.path)
		}
	})
}

func (s *authSuite) TestConcurrentLogin() {
	s.Run("multiple sessions stay valid", func() {
		t := s.T()

		email := "concurrent@example.com"
		s.jwtHelper.CreateTestUserWithDB(t, s.DB, email, string(user.RoleCustomer))

		token1 := s.jwtHelper.LoginUser(t, s.Router, email, "password123")
		token2 := s.jwtHelper.LoginUser(t, s.Router, email, "password123")

		w1 := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token1)
		w2 := httptest.PerformRequest(t, s.Router, http.MethodGet, meURL, nil, token2)

		require.Equal(t, http.StatusOK, w1.Code, "first session token rejected")
		require.Equal(t, http.StatusOK, w2.Code, "second session token rejected")
	})
}
