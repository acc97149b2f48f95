package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/Nerzal/gocloak/v13"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itsatony/pumpguard/internal/config"
)

type fakeKeycloak struct {
	active bool
	err    error
}

func (f *fakeKeycloak) RetrospectToken(ctx context.Context, token, clientID, secret, realm string) (*gocloak.IntroSpectTokenResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &gocloak.IntroSpectTokenResult{Active: gocloak.BoolP(f.active)}, nil
}

func (f *fakeKeycloak) GetUserInfo(ctx context.Context, token, realm string) (*gocloak.UserInfo, error) {
	return &gocloak.UserInfo{Sub: gocloak.StringP("u-1"), PreferredUsername: gocloak.StringP("operator")}, nil
}

var kcConfig = config.KeycloakConfig{URL: "http://kc", Realm: "pumps", ClientID: "hub"}

func protectedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if ok {
			w.Header().Set("X-User", user.Username)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestAuthenticateDisabled(t *testing.T) {
	k := NewKeycloakMiddleware(config.KeycloakConfig{})
	require.Nil(t, k)

	rec := httptest.NewRecorder()
	k.Authenticate(protectedHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticate(t *testing.T) {
	cases := []struct {
		name   string
		header string
		kc     *fakeKeycloak
		want   int
		user   string
	}{
		{"missing token", "", &fakeKeycloak{active: true}, http.StatusUnauthorized, ""},
		{"malformed header", "Token abc", &fakeKeycloak{active: true}, http.StatusUnauthorized, ""},
		{"inactive token", "Bearer abc", &fakeKeycloak{active: false}, http.StatusUnauthorized, ""},
		{"introspection error", "Bearer abc", &fakeKeycloak{err: fmt.Errorf("down")}, http.StatusUnauthorized, ""},
		{"valid token", "Bearer abc", &fakeKeycloak{active: true}, http.StatusNoContent, "operator"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k := NewKeycloakMiddlewareWithClient(kcConfig, tc.kc)
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			k.Authenticate(protectedHandler()).ServeHTTP(rec, req)

			assert.Equal(t, tc.want, rec.Code)
			assert.Equal(t, tc.user, rec.Header().Get("X-User"))
			if tc.want == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"type":"authentication"`)
			}
		})
	}
}

type observed struct {
	method, route string
	status        int
}

type fakeObserver struct {
	mu   sync.Mutex
	seen []observed
}

func (f *fakeObserver) ObserveRequest(method, route string, status int, took time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seen = append(f.seen, observed{method, route, status})
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	obs := &fakeObserver{}
	r := mux.NewRouter()
	r.Use(Metrics(obs))
	r.HandleFunc("/v1/uploads/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}).Methods(http.MethodGet)

	for _, id := range []string{"a", "b"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/uploads/"+id, nil))
	}

	require.Len(t, obs.seen, 2)
	for _, o := range obs.seen {
		assert.Equal(t, observed{http.MethodGet, "/v1/uploads/{id}", http.StatusNotFound}, o)
	}
}
