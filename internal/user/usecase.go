package user

import (
	"context"
)

type UserUsecase interface {
	// Check freshness and signature, then replace the token list for the pubkey
	RegisterDeviceToken(ctx context.Context, cmd RegisterDeviceCommand) error

	// Tokens the push sender should deliver to for pubkey
	GetDeviceTokens(ctx context.Context, pubkey string) ([]string, error)
}
