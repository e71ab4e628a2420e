package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

// Service records audit entries. Callers treat failures as non-fatal; an
// audit write never blocks the action it describes.
type Service interface {
	AuditLog(ctx context.Context, sellerID *snowflake.ID, actorType ActorType, actorID *string, action, targetType string, targetID *string, metadata map[string]any) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
