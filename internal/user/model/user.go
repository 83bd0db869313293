package models

import (
	"time"

	"github.com/uptrace/bun"
)

// UserInfo maps a client public key to the device tokens that receive its
// push notifications.
type UserInfo struct {
	bun.BaseModel `bun:"table:user_infos,alias:ui"`

	// Pubkey = 64 lowercase hex chars, the x-coordinate of the client's
	// secp256k1 key
	Pubkey string `bun:",pk"`

	// Stored as JSON. Currently always a single token, replaced on every
	// successful registration.
	DeviceTokens []string `bun:",notnull"`

	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp"`
}
