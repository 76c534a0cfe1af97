package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const CallerKey contextKey = "caller"

// CallerContext is the authenticated identity attached to a request.
type CallerContext struct {
	UserID uuid.UUID
	Role   string
}

func SetCallerContext(ctx context.Context, caller CallerContext) context.Context {
	return context.WithValue(ctx, CallerKey, caller)
}

func GetCallerFromContext(ctx context.Context) (CallerContext, bool) {
	caller, ok := ctx.Value(CallerKey).(CallerContext)
	if !ok || caller.UserID == uuid.Nil {
		return CallerContext{}, false
	}
	return caller, true
}
