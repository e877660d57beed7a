package repository

import (
	"context"
	"errors"

	"github.com/lepelaka/kiosk-order/internal/domain/model"
	repo "github.com/lepelaka/kiosk-order/internal/repository"

	"gorm.io/gorm"
)

type TerminalGormRepository struct {
	db *gorm.DB
}

func NewTerminalGormRepository(db *gorm.DB) *TerminalGormRepository {
	return &TerminalGormRepository{db: db}
}

func (r *TerminalGormRepository) FindByID(ctx context.Context, id int64) (model.Terminal, error) {
	var t model.Terminal
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Terminal{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Terminal{}, err
	}
	return t, nil
}
