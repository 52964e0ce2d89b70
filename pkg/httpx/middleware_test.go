package httpx_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/capmanage/capmanage/pkg/httpx"
	"github.com/capmanage/capmanage/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) httpx.Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := httpx.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		order = append(order, "handler")
	}), mark("a"), mark("b"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, []string{"a", "b", "handler"}, order)
}

func fakeAuthenticator(valid string, p httpx.Principal) httpx.Authenticator {
	return httpx.AuthenticatorFunc(func(_ context.Context, token string) (httpx.Principal, error) {
		if token != valid {
			return httpx.Principal{}, errors.New("bad token")
		}
		return p, nil
	})
}

func TestAuthnMiddleware(t *testing.T) {
	alice := httpx.Principal{UserID: "u1", Email: "alice@example.com", Role: "student"}

	var got httpx.Principal
	h := httpx.AuthnMiddleware(fakeAuthenticator("good", alice))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = httpx.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("bearer header", func(t *testing.T) {
		got = httpx.Principal{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer good")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, alice, got)
	})

	t.Run("cookie", func(t *testing.T) {
		got = httpx.Principal{}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: httpx.AccessTokenCookie, Value: "good"})
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, alice, got)
	})

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Contains(t, rec.Header().Get("WWW-Authenticate"), `error="invalid_token"`)
	})

	t.Run("rejected token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var env httpx.Envelope
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
		require.False(t, env.Success)
		require.Equal(t, "unauthenticated", env.Error.Reason)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Authorization", "Basic good")
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestAuthnMiddleware_TagsLoggerWithUser(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	alice := httpx.Principal{UserID: "u1", Role: "student"}

	h := httpx.AuthnMiddleware(fakeAuthenticator("good", alice))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slogx.FromContext(r.Context()).Info("inside")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	req = req.WithContext(slogx.WithContext(req.Context(), logger))
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "inside", entry["msg"])
	require.Equal(t, "u1", entry["user_id"])
}

func TestRequireRole(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	h := httpx.RequireRole("admin")(ok)

	for _, tt := range []struct {
		name string
		ctx  func(context.Context) context.Context
		want int
	}{
		{"admin allowed", func(ctx context.Context) context.Context {
			return httpx.WithPrincipal(ctx, httpx.Principal{UserID: "a", Role: "admin"})
		}, http.StatusOK},
		{"student forbidden", func(ctx context.Context) context.Context {
			return httpx.WithPrincipal(ctx, httpx.Principal{UserID: "s", Role: "student"})
		}, http.StatusForbidden},
		{"anonymous unauthorized", func(ctx context.Context) context.Context { return ctx }, http.StatusUnauthorized},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req = req.WithContext(tt.ctx(req.Context()))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			require.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestWriteDataAndError(t *testing.T) {
	rec := httptest.NewRecorder()
	httpx.WriteData(rec, http.StatusCreated, map[string]string{"id": "u1"})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	require.JSONEq(t, `{"success":true,"data":{"id":"u1"}}`, rec.Body.String())

	rec = httptest.NewRecorder()
	httpx.WriteError(rec, http.StatusConflict, "duplicate_email", "Email already registered")
	require.JSONEq(t, `{"success":false,"error":{"message":"Email already registered","code":409,"reason":"duplicate_email"}}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	type body struct {
		Email string `json:"email"`
	}

	t.Run("valid", func(t *testing.T) {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@example.com"}`))
		require.NoError(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &b))
		require.Equal(t, "a@example.com", b.Email)
	})

	for _, in := range []string{"", "{", `{"email":"a"}{"email":"b"}`} {
		var b body
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(in))
		require.Error(t, httpx.DecodeJSON(httptest.NewRecorder(), req, &b), "input %q", in)
	}
}
