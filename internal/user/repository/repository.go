package repository

import (
	"context"
	"database/sql"
	"time"

	models "pushreg/internal/user/model"
	"pushreg/pkg/logger"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type UserRepository struct {
	db     *bun.DB
	logger *logger.Logger
}

var (
	ErrUserNotFound = errors.New("user not found")
)

func NewUserRepository(db *bun.DB, logger logger.Logger) *UserRepository {
	return &UserRepository{
		db:     db,
		logger: &logger,
	}
}

// CreateTables creates every table the repository needs if it is missing.
func CreateTables(ctx context.Context, db *bun.DB) error {
	tables := []any{
		(*models.UserInfo)(nil),
	}
	for _, t := range tables {
		if _, err := db.NewCreateTable().Model(t).IfNotExists().Exec(ctx); err != nil {
			return errors.Wrapf(err, "userRepo.CreateTables %T", t)
		}
	}
	return nil
}

func (r *UserRepository) UpsertUserInfo(ctx context.Context, pubkey string, deviceTokens []string) error {
	now := time.Now().UTC()
	info := &models.UserInfo{
		Pubkey:       pubkey,
		DeviceTokens: deviceTokens,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := r.db.NewInsert().
		Model(info).
		On("CONFLICT (pubkey) DO UPDATE").
		// created_at keeps the first registration time
		Set("device_tokens = EXCLUDED.device_tokens").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, "userRepo.UpsertUserInfo.Exec: ")
	}
	r.logger.Debug("user info upserted", "pubkey", pubkey, "tokens", len(deviceTokens))
	return nil
}

func (r *UserRepository) GetUserInfo(ctx context.Context, pubkey string) (*models.UserInfo, error) {
	info := new(models.UserInfo)
	err := r.db.NewSelect().Model(info).Where("pubkey = ?", pubkey).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "userRepo.GetUserInfo.Scan: ")
	}
	return info, nil
}
