package repository

import (
	"context"
	"sync"
	"time"

	models "pushreg/internal/user/model"
)

// MemoryUserRepository keeps user info in process memory. Writes for the
// same pubkey are serialized, so concurrent registrations end with one
// complete token list.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]models.UserInfo
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]models.UserInfo)}
}

func (m *MemoryUserRepository) UpsertUserInfo(_ context.Context, pubkey string, deviceTokens []string) error {
	now := time.Now().UTC()
	tokens := append([]string(nil), deviceTokens...)

	m.mu.Lock()
	defer m.mu.Unlock()

	info, ok := m.users[pubkey]
	if !ok {
		info = models.UserInfo{Pubkey: pubkey, CreatedAt: now}
	}
	info.DeviceTokens = tokens
	info.UpdatedAt = now
	m.users[pubkey] = info
	return nil
}

func (m *MemoryUserRepository) GetUserInfo(_ context.Context, pubkey string) (*models.UserInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	info, ok := m.users[pubkey]
	if !ok {
		return nil, ErrUserNotFound
	}
	info.DeviceTokens = append([]string(nil), info.DeviceTokens...)
	return &info, nil
}
