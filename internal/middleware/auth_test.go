package middleware

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/habits/api/handler"
	"github.com/fastygo/habits/api/transport"
)

const secret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return token
}

type captured struct {
	called                 bool
	userID, username, role string
}

func run(t *testing.T, cfg JWTConfig, authorization string, spoof bool) (*fasthttp.RequestCtx, *captured) {
	t.Helper()

	got := &captured{}
	next := func(ctx *fasthttp.RequestCtx) {
		got.called = true
		got.userID = string(ctx.Request.Header.Peek(handler.HeaderUserID))
		got.username = string(ctx.Request.Header.Peek(handler.HeaderUsername))
		got.role = string(ctx.Request.Header.Peek(handler.HeaderUserRole))
	}

	var ctx fasthttp.RequestCtx
	if authorization != "" {
		ctx.Request.Header.Set("Authorization", authorization)
	}
	if spoof {
		ctx.Request.Header.Set(handler.HeaderUserID, "spoofed")
		ctx.Request.Header.Set(handler.HeaderUserRole, "admin")
	}
	JWTAuth(cfg, nil)(next)(&ctx)
	return &ctx, got
}

func TestJWTAuthForwardsClaims(t *testing.T) {
	t.Parallel()

	token := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{
		"user_id":  "u1",
		"username": "alice",
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour).Unix(),
	})

	_, got := run(t, JWTConfig{Secret: secret}, "Bearer "+token, false)
	if !got.called {
		t.Fatalf("next handler not called")
	}
	if got.userID != "u1" || got.username != "alice" || got.role != "admin" {
		t.Fatalf("unexpected identity %+v", got)
	}
}

func TestJWTAuthFallsBackToSubject(t *testing.T) {
	t.Parallel()

	token := signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "u9"})
	_, got := run(t, JWTConfig{Secret: secret}, "bearer "+token, true)
	if !got.called || got.userID != "u9" || got.username != "u9" {
		t.Fatalf("unexpected identity %+v", got)
	}
	if got.role != "" {
		t.Fatalf("spoofed role header must be stripped, got %q", got.role)
	}
}

func TestJWTAuthRejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   JWTConfig
		token string
	}{
		{name: "missing", cfg: JWTConfig{Secret: secret}},
		{name: "wrong secret", cfg: JWTConfig{Secret: secret}, token: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"user_id": "u1"})},
		{name: "expired", cfg: JWTConfig{Secret: secret}, token: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": "u1", "exp": time.Now().Add(-time.Minute).Unix()})},
		{name: "unsigned", cfg: JWTConfig{Secret: secret}, token: "Bearer " + signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"user_id": "u1"})},
		{name: "no subject", cfg: JWTConfig{Secret: secret}, token: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"role": "admin"})},
		{name: "issuer", cfg: JWTConfig{Secret: secret, Issuer: "auth"}, token: "Bearer " + signToken(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"user_id": "u1", "iss": "elsewhere"})},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx, got := run(t, tt.cfg, tt.token, true)
			if got.called {
				t.Fatalf("next handler must not run")
			}
			if ctx.Response.StatusCode() != fasthttp.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", ctx.Response.StatusCode())
			}
			var env transport.Envelope
			if err := json.Unmarshal(ctx.Response.Body(), &env); err != nil || env.Status != "error" || env.Code != "UNAUTHORIZED" {
				t.Fatalf("unexpected body %s", ctx.Response.Body())
			}
		})
	}
}
