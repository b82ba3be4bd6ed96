package middleware

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/habits/api/handler"
	"github.com/fastygo/habits/api/transport"
	"github.com/fastygo/habits/domain"
)

// JWTConfig describes how bearer tokens from the credential service are verified.
type JWTConfig struct {
	Secret string
	Issuer string
}

// JWTAuth verifies the bearer token and forwards the identity claims as
// X-User-ID, X-Username and X-User-Role. Client-supplied copies of those
// headers are always overwritten or removed.
func JWTAuth(cfg JWTConfig, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{
		jwt.SigningMethodHS256.Alg(),
		jwt.SigningMethodHS384.Alg(),
		jwt.SigningMethodHS512.Alg(),
	}))

	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(handler.HeaderUserID)
			ctx.Request.Header.Del(handler.HeaderUsername)
			ctx.Request.Header.Del(handler.HeaderUserRole)

			tokenString := extractToken(ctx)
			if tokenString == "" {
				unauthorized(ctx, "missing bearer token")
				return
			}

			claims := jwt.MapClaims{}
			token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
				if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
				}
				return []byte(cfg.Secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				unauthorized(ctx, "invalid token")
				return
			}
			if cfg.Issuer != "" && !claims.VerifyIssuer(cfg.Issuer, true) {
				logger.Warn("jwt issuer mismatch")
				unauthorized(ctx, "invalid token")
				return
			}

			identity := identityFromClaims(claims)
			if identity.UserID == "" {
				unauthorized(ctx, "token carries no subject")
				return
			}

			ctx.Request.Header.Set(handler.HeaderUserID, identity.UserID)
			ctx.Request.Header.Set(handler.HeaderUsername, identity.DisplayName())
			if identity.Role != "" {
				ctx.Request.Header.Set(handler.HeaderUserRole, identity.Role)
			}

			next(ctx)
		}
	}
}

func identityFromClaims(claims jwt.MapClaims) domain.Identity {
	str := func(key string) string {
		v, _ := claims[key].(string)
		return strings.TrimSpace(v)
	}
	id := domain.Identity{
		UserID:   str("user_id"),
		Username: str("username"),
		Role:     str("role"),
	}
	if id.UserID == "" {
		id.UserID = str("sub")
	}
	if id.Username == "" {
		id.Username = str("sub")
	}
	return id
}

func unauthorized(ctx *fasthttp.RequestCtx, message string) {
	body, _ := json.Marshal(transport.NewError(string(domain.ErrCodeUnauthorized), message, nil))
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusUnauthorized)
	ctx.SetBody(body)
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
