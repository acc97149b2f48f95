package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Nerzal/gocloak/v13"
	"github.com/itsatony/pumpguard/internal/config"
	"github.com/itsatony/pumpguard/internal/errors"
	nuts "github.com/vaudience/go-nuts"
)

// TokenIntrospector is the part of the Keycloak client the middleware needs.
// *gocloak.GoCloak satisfies it.
type TokenIntrospector interface {
	RetrospectToken(ctx context.Context, accessToken, clientID, clientSecret, realm string) (*gocloak.IntroSpectTokenResult, error)
	GetUserInfo(ctx context.Context, accessToken, realm string) (*gocloak.UserInfo, error)
}

type KeycloakMiddleware struct {
	client TokenIntrospector
	config config.KeycloakConfig
}

type UserContext struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type contextKey string

const userContextKey contextKey = "user"

// NewKeycloakMiddleware returns nil when Keycloak is not configured; a nil
// middleware lets every request through.
func NewKeycloakMiddleware(cfg config.KeycloakConfig) *KeycloakMiddleware {
	if !cfg.Enabled() {
		nuts.L.Warnf("[Auth] Keycloak not configured, mutating routes are unauthenticated")
		return nil
	}
	return NewKeycloakMiddlewareWithClient(cfg, gocloak.NewClient(cfg.URL))
}

// NewKeycloakMiddlewareWithClient wires a custom introspection client.
func NewKeycloakMiddlewareWithClient(cfg config.KeycloakConfig, client TokenIntrospector) *KeycloakMiddleware {
	return &KeycloakMiddleware{client: client, config: cfg}
}

// Authenticate validates the token and adds user info to context
func (k *KeycloakMiddleware) Authenticate(next http.Handler) http.Handler {
	if k == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := nuts.NID("req", 12)
		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil).WithRequestID(requestID))
			return
		}

		result, err := k.client.RetrospectToken(r.Context(), token, k.config.ClientID, k.config.ClientSecret, k.config.Realm)
		if err != nil || result == nil || !gocloak.PBool(result.Active) {
			handleError(w, errors.NewAuthError("invalid token", err).WithRequestID(requestID))
			return
		}

		info, err := k.client.GetUserInfo(r.Context(), token, k.config.Realm)
		if err != nil {
			handleError(w, errors.NewAuthError("failed to get user info", err).WithRequestID(requestID))
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, createUserContext(info))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserFromContext returns the authenticated user, if any.
func UserFromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok
}

func createUserContext(info *gocloak.UserInfo) *UserContext {
	if info == nil {
		return &UserContext{}
	}
	return &UserContext{
		ID:       gocloak.PString(info.Sub),
		Username: gocloak.PString(info.PreferredUsername),
		Email:    gocloak.PString(info.Email),
	}
}

func extractToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err *errors.APIError) {
	nuts.L.Warnf("[Auth] %s", err.Error())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(err)
}
