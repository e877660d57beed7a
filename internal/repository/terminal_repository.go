package repository

import (
	"context"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
)

type TerminalRepository interface {
	FindByID(ctx context.Context, id int64) (model.Terminal, error)
}
