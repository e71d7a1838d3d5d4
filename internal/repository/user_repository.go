// Package repository defines the persistence interfaces consumed by the
// use case layer. Implementations live under internal/infra/adapter.
package repository

import (
	"context"
	"time"

	"stockwatch/internal/domain/entity"
)

type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	Create(ctx context.Context, user *entity.User) error
	TouchLastLogin(ctx context.Context, id int64, t time.Time) error
}
