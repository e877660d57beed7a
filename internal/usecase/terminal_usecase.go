package usecase

import (
	"context"
	"errors"
	"time"

	repo "github.com/lepelaka/kiosk-order/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer は端末セッション用トークンの発行
type TokenIssuer interface {
	Issue(terminalID int64, now time.Time) (string, time.Time, error)
}

type TerminalUsecase struct {
	terminals repo.TerminalRepository
	issuer    TokenIssuer
	now       func() time.Time
}

func NewTerminalUsecase(terminals repo.TerminalRepository, issuer TokenIssuer, now func() time.Time) *TerminalUsecase {
	if now == nil {
		now = time.Now
	}
	return &TerminalUsecase{terminals: terminals, issuer: issuer, now: now}
}

type SessionOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateSession は端末のAPIキーを検証してJWTを返す。
// 端末の存在有無はレスポンスから区別できないようにする
func (u *TerminalUsecase) CreateSession(ctx context.Context, terminalID int64, apiKey string) (SessionOutput, error) {
	if terminalID <= 0 || apiKey == "" {
		return SessionOutput{}, ErrInvalidTerminalCredentials()
	}

	t, err := u.terminals.FindByID(ctx, terminalID)
	if errors.Is(err, repo.ErrNotFound) {
		return SessionOutput{}, ErrInvalidTerminalCredentials()
	}
	if err != nil {
		return SessionOutput{}, ErrInternal()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(t.KeyHash), []byte(apiKey)); err != nil {
		return SessionOutput{}, ErrInvalidTerminalCredentials()
	}

	if !t.IsActive() {
		return SessionOutput{}, ErrTerminalInactive(t.ID)
	}

	token, expiresAt, err := u.issuer.Issue(t.ID, u.now())
	if err != nil {
		return SessionOutput{}, ErrInternal()
	}

	return SessionOutput{Token: token, ExpiresAt: expiresAt}, nil
}
