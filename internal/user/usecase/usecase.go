package usecase

import (
	"context"
	"strings"
	"time"

	"pushreg/config"
	"pushreg/internal/user"
	"pushreg/internal/user/repository"
	"pushreg/pkg/errors"
	"pushreg/pkg/logger"
	"pushreg/pkg/utils"

	pkgerrors "github.com/pkg/errors"
)

const DefaultFreshnessWindow = 10 * time.Minute

type UserUsecase struct {
	repo   user.UserRepository
	logger logger.Logger
	config config.Config
	now    func() time.Time
}

func NewUserUsecase(repo user.UserRepository, logger logger.Logger, config config.Config) *UserUsecase {
	return &UserUsecase{repo: repo, logger: logger, config: config, now: time.Now}
}

func (uc *UserUsecase) clock() time.Time {
	if uc.now == nil {
		return time.Now()
	}
	return uc.now()
}

func (uc *UserUsecase) window() time.Duration {
	if w := uc.config.Auth.FreshnessWindow; w > 0 {
		return w
	}
	return DefaultFreshnessWindow
}

// RegisterDeviceToken runs freshness, then signature, then upsert. Each
// step short-circuits, so nothing is written for a rejected request.
func (uc *UserUsecase) RegisterDeviceToken(ctx context.Context, cmd user.RegisterDeviceCommand) error {
	if !cmd.Complete() {
		return errors.ErrInvalidRequest
	}

	window := uc.window()
	fresh, err := utils.CheckFreshness(cmd.Timestamp, uc.clock(), window)
	if err != nil {
		uc.logger.Warn("unparseable timestamp", "pubkey", cmd.Pubkey, "timestamp", cmd.Timestamp)
		return errors.ErrInvalidTimestamp
	}
	if !fresh {
		uc.logger.Warn("timestamp outside freshness window", "pubkey", cmd.Pubkey, "timestamp", cmd.Timestamp)
		return errors.StaleTimestamp(window)
	}

	// decode failures and bad signatures get the same answer
	ok, err := utils.VerifySignature(cmd.DeviceToken, cmd.Timestamp, cmd.Pubkey, cmd.Signature)
	if err != nil {
		uc.logger.Warn("malformed signature or pubkey", "pubkey", cmd.Pubkey, "err", err)
		return errors.ErrInvalidSignature
	}
	if !ok {
		uc.logger.Warn("signature verification failed", "pubkey", cmd.Pubkey)
		return errors.ErrInvalidSignature
	}

	pubkey := strings.ToLower(cmd.Pubkey)
	if err := uc.repo.UpsertUserInfo(ctx, pubkey, []string{cmd.DeviceToken}); err != nil {
		uc.logger.Error("error while saving user info in db", "pubkey", pubkey, "err", err)
		return errors.ErrSaveFailed(err)
	}

	uc.logger.Info("device token saved", "pubkey", pubkey)
	return nil
}

func (uc *UserUsecase) GetDeviceTokens(ctx context.Context, pubkey string) ([]string, error) {
	info, err := uc.repo.GetUserInfo(ctx, strings.ToLower(pubkey))
	if err != nil {
		if pkgerrors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.ErrUserNotFound
		}
		uc.logger.Error("error while loading user info from db", "pubkey", pubkey, "err", err)
		return nil, errors.ErrLookupFailed(err)
	}
	return info.DeviceTokens, nil
}
