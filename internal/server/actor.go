package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tiffinlabs/mealgrid/internal/actorcontext"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// actorMiddleware records the already-authorized caller identity from the
// gateway. Authorization itself happens upstream; the engine only trusts and
// records actor IDs.
func actorMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if actorID := strings.TrimSpace(c.GetHeader(headerActorID)); actorID != "" {
			ctx = actorcontext.WithActor(ctx, actorID)
		}
		if role := strings.TrimSpace(c.GetHeader(headerActorRole)); role != "" {
			ctx = actorcontext.WithActorRole(ctx, role)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
