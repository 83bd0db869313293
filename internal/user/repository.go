package user

//go:generate mockgen -destination=mocks/mock_repository.go -package=mocks pushreg/internal/user UserRepository

import (
	"context"

	models "pushreg/internal/user/model"
)

type UserRepository interface {
	// Insert or fully replace the token list stored for pubkey
	UpsertUserInfo(ctx context.Context, pubkey string, deviceTokens []string) error
	GetUserInfo(ctx context.Context, pubkey string) (*models.UserInfo, error)
}
