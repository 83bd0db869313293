package handler

import (
	"encoding/json"
	"net/http"

	"pushreg/internal/user"
	"pushreg/pkg/errors"
	"pushreg/pkg/logger"
)

const maxBodyBytes = 64 << 10

const msgSaved = "User info saved successfully"

type UserHandler struct {
	uc     user.UserUsecase
	logger logger.Logger
}

func NewUserHandler(uc user.UserUsecase, logger logger.Logger) *UserHandler {
	return &UserHandler{uc: uc, logger: logger}
}

type registerRequest struct {
	DeviceToken string `json:"deviceToken"`
	Pubkey      string `json:"pubkey"`
	Timestamp   string `json:"timestamp"`
	Signature   string `json:"signature"`
}

// SaveUserInfo handles POST /user-info.
func (h *UserHandler) SaveUserInfo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Debug("invalid request body", "err", err)
		writeError(w, errors.ErrInvalidRequest)
		return
	}

	err := h.uc.RegisterDeviceToken(r.Context(), user.RegisterDeviceCommand{
		DeviceToken: req.DeviceToken,
		Pubkey:      req.Pubkey,
		Timestamp:   req.Timestamp,
		Signature:   req.Signature,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeText(w, http.StatusOK, msgSaved)
}

func (h *UserHandler) Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

// writeError never exposes the cause of an internal error.
func writeError(w http.ResponseWriter, err error) {
	writeText(w, errors.HTTPStatus(err), errors.PublicMessage(err))
}
