package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"stockwatch/internal/handler/http/respond"
)

// Identity describes the authenticated caller attached to the request
// context by Authz.
type Identity struct {
	UserID    int64
	Username  string
	SessionID string
}

type identityKey struct{}

// IdentityFromContext returns the caller identity, if any.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// WithIdentity returns a context carrying id, as Authz would produce.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// publicPrefixes are reachable without a token.
var publicPrefixes = []string{"/healthz", "/metrics", "/auth/"}

// Authz validates the bearer token and stores the caller identity in
// the request context. Public endpoints pass through untouched.
func Authz(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, p := range publicPrefixes {
				if strings.HasPrefix(r.URL.Path, p) {
					next.ServeHTTP(w, r)
					return
				}
			}

			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				respond.Error(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			id, err := validateToken(token, secret)
			if err != nil {
				respond.Error(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}

var errInvalidToken = errors.New("invalid token")

func validateToken(raw string, secret []byte) (Identity, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errInvalidToken
		}
		return secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return Identity{}, errInvalidToken
	}

	sub, _ := claims["sub"].(string)
	uid, _ := claims["uid"].(float64)
	sid, _ := claims["sid"].(string)
	if sub == "" || uid <= 0 || sid == "" {
		return Identity{}, errInvalidToken
	}

	return Identity{UserID: int64(uid), Username: sub, SessionID: sid}, nil
}
