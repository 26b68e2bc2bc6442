package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

const testSecret = "test-secret"

func signToken(t *testing.T, claims Claims, method jwt.SigningMethod) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func claimsFor(userID, role, merchantID string, expiresIn time.Duration) Claims {
	return Claims{
		UserID:     userID,
		Role:       role,
		MerchantID: merchantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// Feature: geo-discovery, Property 20: Protected endpoints reject missing tokens
func TestProperty_ProtectedEndpointsRejectMissingTokens(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("requests without authorization header are rejected", prop.ForAll(
		func(pathSuffix string, method string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

			req := httptest.NewRequest(method, "/api/merchant/"+pathSuffix, nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AlphaString(),
		gen.OneConstOf("GET", "POST"),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: geo-discovery, Property 21: Expired tokens are rejected
func TestProperty_ExpiredTokensAreRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("expired tokens are rejected with 401", prop.ForAll(
		func(userID string, role string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())
			token := signToken(t, claimsFor(userID, role, "", -time.Hour), jwt.SigningMethodHS256)

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.Identifier(),
		gen.OneConstOf(RoleConsumer, RoleMerchant),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: geo-discovery, Property 22: Valid tokens expose their claims
func TestProperty_ValidTokensAllowProcessing(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid tokens put user and merchant into the context", prop.ForAll(
		func(userID string, role string) bool {
			merchantID := uuid.New()
			token := signToken(t, claimsFor(userID, role, merchantID.String(), time.Hour), jwt.SigningMethodHS256)

			matched := false
			handler := AuthMiddleware(testSecret, zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxUserID, ok1 := GetUserID(r.Context())
				ctxRole, ok2 := GetUserRole(r.Context())
				ctxMerchant, ok3 := GetMerchantID(r.Context())
				matched = ok1 && ok2 && ok3 &&
					ctxUserID == userID && ctxRole == role && ctxMerchant == merchantID
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return matched && w.Code == http.StatusOK
		},
		gen.Identifier(),
		gen.OneConstOf(RoleConsumer, RoleMerchant),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Feature: geo-discovery, Property 23: Garbage tokens are rejected
func TestProperty_InvalidTokenFormatRejected(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("invalid token formats are rejected", prop.ForAll(
		func(invalidToken string) bool {
			handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+invalidToken)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			return w.Code == http.StatusUnauthorized
		},
		gen.AnyString(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestAuthMiddleware_RejectsTamperedAndForeignTokens(t *testing.T) {
	handler := AuthMiddleware(testSecret, zap.NewNop())(okHandler())

	otherSecret, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claimsFor("u1", RoleMerchant, "", time.Hour)).
		SignedString([]byte("another-secret"))
	assert.NoError(t, err)

	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claimsFor("u1", RoleMerchant, "", time.Hour)).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	assert.NoError(t, err)

	cases := map[string]string{
		"other secret":         "Bearer " + otherSecret,
		"alg none":             "Bearer " + unsigned,
		"missing role":         "Bearer " + signToken(t, claimsFor("u1", "", "", time.Hour), jwt.SigningMethodHS256),
		"bad merchant id":      "Bearer " + signToken(t, claimsFor("u1", RoleMerchant, "not-a-uuid", time.Hour), jwt.SigningMethodHS256),
		"basic scheme":         "Basic dXNlcjpwYXNz",
		"bearer without token": "Bearer ",
	}

	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}

func TestRequireMerchant(t *testing.T) {
	chain := func(h http.Handler) http.Handler {
		return AuthMiddleware(testSecret, zap.NewNop())(RequireMerchant(zap.NewNop())(h))
	}

	cases := []struct {
		name   string
		claims Claims
		want   int
	}{
		{"lojista with merchant", claimsFor("u1", RoleMerchant, uuid.NewString(), time.Hour), http.StatusOK},
		{"lojista without merchant", claimsFor("u1", RoleMerchant, "", time.Hour), http.StatusForbidden},
		{"consumer", claimsFor("u2", RoleConsumer, "", time.Hour), http.StatusForbidden},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/test", nil)
			req.Header.Set("Authorization", "Bearer "+signToken(t, tc.claims, jwt.SigningMethodHS256))
			w := httptest.NewRecorder()
			chain(okHandler()).ServeHTTP(w, req)
			assert.Equal(t, tc.want, w.Code)
		})
	}
}
