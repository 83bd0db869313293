package usecase

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"pushreg/config"
	"pushreg/internal/testutil"
	"pushreg/internal/user"
	"pushreg/internal/user/mocks"
	models "pushreg/internal/user/model"
	"pushreg/internal/user/repository"
	appErrors "pushreg/pkg/errors"
	"pushreg/pkg/logger"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestUsecase(repo user.UserRepository) *UserUsecase {
	cfg := config.Config{Auth: config.Auth{FreshnessWindow: 10 * time.Minute}}
	uc := NewUserUsecase(repo, logger.Logger{}, cfg)
	uc.now = func() time.Time { return testNow }
	return uc
}

func signedCommand(s *testutil.Signer, deviceToken string, ts time.Time) user.RegisterDeviceCommand {
	timestamp := testutil.Timestamp(ts)
	return user.RegisterDeviceCommand{
		DeviceToken: deviceToken,
		Pubkey:      s.PubKeyHex(),
		Timestamp:   timestamp,
		Signature:   s.Sign(deviceToken, timestamp),
	}
}

func TestUserUsecase_RegisterDeviceToken(t *testing.T) {
	signer := testutil.NewSigner(t)
	const deviceToken = "apns-device-token-1"

	t.Run("happy path - fresh and signed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockUserRepository(ctrl)
		uc := newTestUsecase(mockRepo)

		mockRepo.EXPECT().
			UpsertUserInfo(gomock.Any(), signer.PubKeyHex(), []string{deviceToken}).
			Return(nil).
			Times(1)

		err := uc.RegisterDeviceToken(context.Background(), signedCommand(signer, deviceToken, testNow.Add(-time.Minute)))
		require.NoError(t, err)
	})

	t.Run("boundaries are accepted", func(t *testing.T) {
		for _, ts := range []time.Time{testNow.Add(-10 * time.Minute), testNow.Add(10 * time.Minute)} {
			ctrl := gomock.NewController(t)
			mockRepo := mocks.NewMockUserRepository(ctrl)
			uc := newTestUsecase(mockRepo)

			mockRepo.EXPECT().UpsertUserInfo(gomock.Any(), signer.PubKeyHex(), []string{deviceToken}).Return(nil)

			require.NoError(t, uc.RegisterDeviceToken(t.Context(), signedCommand(signer, deviceToken, ts)), ts)
		}
	})

	t.Run("sad path - stale or future timestamp", func(t *testing.T) {
		for _, ts := range []time.Time{
			testNow.Add(-10*time.Minute - time.Millisecond),
			testNow.Add(10*time.Minute + time.Millisecond),
			testNow.Add(-24 * time.Hour),
		} {
			ctrl := gomock.NewController(t)
			mockRepo := mocks.NewMockUserRepository(ctrl)
			uc := newTestUsecase(mockRepo)

			// no EXPECT: any storage call fails the test
			err := uc.RegisterDeviceToken(t.Context(), signedCommand(signer, deviceToken, ts))
			assert.ErrorIs(t, err, appErrors.ErrStaleTimestamp)
			assert.Equal(t, http.StatusBadRequest, appErrors.HTTPStatus(err))
		}
	})

	t.Run("sad path - unparseable timestamp", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := newTestUsecase(mocks.NewMockUserRepository(ctrl))

		cmd := signedCommand(signer, deviceToken, testNow)
		cmd.Timestamp = "last tuesday"
		cmd.Signature = signer.Sign(deviceToken, cmd.Timestamp)

		err := uc.RegisterDeviceToken(t.Context(), cmd)
		assert.ErrorIs(t, err, appErrors.ErrInvalidTimestamp)
		assert.Equal(t, http.StatusBadRequest, appErrors.HTTPStatus(err))
	})

	t.Run("sad path - stale is checked before signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := newTestUsecase(mocks.NewMockUserRepository(ctrl))

		cmd := signedCommand(signer, deviceToken, testNow.Add(-time.Hour))
		cmd.Signature = "garbage"

		err := uc.RegisterDeviceToken(t.Context(), cmd)
		assert.ErrorIs(t, err, appErrors.ErrStaleTimestamp)
	})

	t.Run("sad path - flipped signature bit", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := newTestUsecase(mocks.NewMockUserRepository(ctrl))

		cmd := signedCommand(signer, deviceToken, testNow)
		raw, err := base64.StdEncoding.DecodeString(cmd.Signature)
		require.NoError(t, err)
		raw[10] ^= 0x01
		cmd.Signature = base64.StdEncoding.EncodeToString(raw)

		err = uc.RegisterDeviceToken(t.Context(), cmd)
		assert.ErrorIs(t, err, appErrors.ErrInvalidSignature)
		assert.Equal(t, http.StatusUnauthorized, appErrors.HTTPStatus(err))
	})

	t.Run("sad path - unrelated signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := newTestUsecase(mocks.NewMockUserRepository(ctrl))

		other := testutil.NewSigner(t)
		cmd := signedCommand(signer, deviceToken, testNow)
		cmd.Signature = other.Sign(deviceToken, cmd.Timestamp)

		err := uc.RegisterDeviceToken(t.Context(), cmd)
		assert.ErrorIs(t, err, appErrors.ErrInvalidSignature)
	})

	t.Run("sad path - malformed pubkey collapses to unauthorized", func(t *testing.T) {
		for _, pub := range []string{
			"",
			signer.PubKeyHex()[:62],
			signer.PubKeyHex() + "ab",
			"g" + signer.PubKeyHex()[1:],
		} {
			ctrl := gomock.NewController(t)
			uc := newTestUsecase(mocks.NewMockUserRepository(ctrl))

			cmd := signedCommand(signer, deviceToken, testNow)
			cmd.Pubkey = pub

			err := uc.RegisterDeviceToken(t.Context(), cmd)
			assert.ErrorIs(t, err, appErrors.ErrInvalidSignature, pub)
		}
	})

	t.Run("sad path - empty signature", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := newTestUsecase(mocks.NewMockUserRepository(ctrl))

		cmd := signedCommand(signer, deviceToken, testNow)
		cmd.Signature = ""

		err := uc.RegisterDeviceToken(t.Context(), cmd)
		assert.ErrorIs(t, err, appErrors.ErrInvalidSignature)
		assert.Equal(t, http.StatusUnauthorized, appErrors.HTTPStatus(err))

		stale := signedCommand(signer, deviceToken, testNow.Add(-time.Hour))
		stale.Pubkey = ""
		stale.Signature = ""
		assert.ErrorIs(t, uc.RegisterDeviceToken(t.Context(), stale), appErrors.ErrStaleTimestamp)
	})

	t.Run("sad path - missing field", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		uc := newTestUsecase(mocks.NewMockUserRepository(ctrl))

		cmd := signedCommand(signer, deviceToken, testNow)
		cmd.DeviceToken = ""

		err := uc.RegisterDeviceToken(t.Context(), cmd)
		assert.ErrorIs(t, err, appErrors.ErrInvalidRequest)
	})

	t.Run("sad path - db down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockUserRepository(ctrl)
		uc := newTestUsecase(mockRepo)

		dbErr := errors.New("db down")
		mockRepo.EXPECT().UpsertUserInfo(gomock.Any(), gomock.Any(), gomock.Any()).Return(dbErr).Times(1)

		err := uc.RegisterDeviceToken(t.Context(), signedCommand(signer, deviceToken, testNow))
		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
		assert.Equal(t, http.StatusInternalServerError, appErrors.HTTPStatus(err))
	})

	t.Run("uppercase pubkey is stored lowercase", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockUserRepository(ctrl)
		uc := newTestUsecase(mockRepo)

		mockRepo.EXPECT().UpsertUserInfo(gomock.Any(), signer.PubKeyHex(), []string{deviceToken}).Return(nil)

		cmd := signedCommand(signer, deviceToken, testNow)
		cmd.Pubkey = strings.ToUpper(cmd.Pubkey)
		require.NoError(t, uc.RegisterDeviceToken(t.Context(), cmd))
	})
}

func TestUserUsecase_CustomWindow(t *testing.T) {
	signer := testutil.NewSigner(t)
	ctrl := gomock.NewController(t)
	mockRepo := mocks.NewMockUserRepository(ctrl)

	cfg := config.Config{Auth: config.Auth{FreshnessWindow: time.Minute}}
	uc := NewUserUsecase(mockRepo, logger.Logger{}, cfg)
	uc.now = func() time.Time { return testNow }

	err := uc.RegisterDeviceToken(t.Context(), signedCommand(signer, "tok", testNow.Add(-2*time.Minute)))
	require.Error(t, err)
	assert.Equal(t, "Timestamp is not within 1 minute of now", err.Error())
	assert.ErrorIs(t, err, appErrors.ErrStaleTimestamp)
}

func TestUserUsecase_ReplacesPreviousToken(t *testing.T) {
	signer := testutil.NewSigner(t)
	repo := repository.NewMemoryUserRepository()
	uc := newTestUsecase(repo)

	require.NoError(t, uc.RegisterDeviceToken(t.Context(), signedCommand(signer, "token-first", testNow)))
	require.NoError(t, uc.RegisterDeviceToken(t.Context(), signedCommand(signer, "token-second", testNow.Add(time.Second))))

	tokens, err := uc.GetDeviceTokens(t.Context(), signer.PubKeyHex())
	require.NoError(t, err)
	assert.Equal(t, []string{"token-second"}, tokens)
}

func TestUserUsecase_GetDeviceTokens(t *testing.T) {
	const pubkey = "79be667ef9dcbbac55a06295ce870b07029bfcdb2dce28d959f2815b16f81798"

	t.Run("found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockUserRepository(ctrl)
		uc := newTestUsecase(mockRepo)

		mockRepo.EXPECT().GetUserInfo(gomock.Any(), pubkey).
			Return(&models.UserInfo{Pubkey: pubkey, DeviceTokens: []string{"tok"}}, nil)

		tokens, err := uc.GetDeviceTokens(t.Context(), strings.ToUpper(pubkey))
		require.NoError(t, err)
		assert.Equal(t, []string{"tok"}, tokens)
	})

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockUserRepository(ctrl)
		uc := newTestUsecase(mockRepo)

		mockRepo.EXPECT().GetUserInfo(gomock.Any(), pubkey).Return(nil, repository.ErrUserNotFound)

		_, err := uc.GetDeviceTokens(t.Context(), pubkey)
		assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
	})

	t.Run("db down", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		mockRepo := mocks.NewMockUserRepository(ctrl)
		uc := newTestUsecase(mockRepo)

		mockRepo.EXPECT().GetUserInfo(gomock.Any(), pubkey).Return(nil, errors.New("db down"))

		_, err := uc.GetDeviceTokens(t.Context(), pubkey)
		assert.Equal(t, http.StatusInternalServerError, appErrors.HTTPStatus(err))
	})
}
