// Package auth resolves the calling customer from a bearer token. Handlers
// downstream treat identity as already resolved and only read the context key.
package auth

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	apierrors "github.com/lamunshop/storefront-api/internal/shared/errors"
)

const customerIDKey = "auth.customerID"

// Middleware validates an HS256 bearer token and stores the customer id in
// the gin context. Requests without a valid token receive a 401 problem with
// no further detail.
func Middleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			abortUnauthorized(c)
			return
		}
		id, err := customerIDFromToken(token, secret)
		if err != nil {
			abortUnauthorized(c)
			return
		}
		c.Set(customerIDKey, id)
		c.Next()
	}
}

// CustomerID reads the resolved caller identity. The second return is false
// when the middleware did not run or rejected the request.
func CustomerID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(customerIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func customerIDFromToken(raw, secret string) (int64, error) {
	parsed, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return 0, err
	}
	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		return 0, err
	}
	id, err := strconv.ParseInt(sub, 10, 64)
	if err != nil || id <= 0 {
		return 0, jwt.ErrTokenInvalidSubject
	}
	return id, nil
}

func abortUnauthorized(c *gin.Context) {
	apierrors.Respond(c, apierrors.ErrUnauthorized)
	c.Abort()
}
