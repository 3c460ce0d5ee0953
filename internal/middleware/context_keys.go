package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is used for values stored in the request context.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey  = contextKey("logger")
	operatorIDKey = contextKey("operatorID")
)

// GetOperatorIDFromContext retrieves the authenticated operator ID from the Gin context.
// It returns the operator ID and a boolean indicating if it was found.
func GetOperatorIDFromContext(c *gin.Context) (string, bool) {
	if v, exists := c.Get(string(operatorIDKey)); exists {
		if operatorID, ok := v.(string); ok {
			return operatorID, true
		}
		return "", false
	}
	return OperatorIDFromCtx(c.Request.Context())
}

// OperatorIDFromCtx retrieves the authenticated operator ID from a standard context.
func OperatorIDFromCtx(ctx context.Context) (string, bool) {
	operatorID, ok := ctx.Value(operatorIDKey).(string)
	return operatorID, ok && operatorID != ""
}

// WithOperatorID returns a copy of ctx carrying operatorID.
func WithOperatorID(ctx context.Context, operatorID string) context.Context {
	return context.WithValue(ctx, operatorIDKey, operatorID)
}
