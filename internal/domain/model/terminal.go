package model

import "time"

type TerminalStatus string

const (
	TerminalStatusActive   TerminalStatus = "ACTIVE"
	TerminalStatusInactive TerminalStatus = "INACTIVE"
)

// Terminal は注文を出すキオスク端末。登録・無効化は外部サブシステムが行う
type Terminal struct {
	ID        int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string         `gorm:"type:varchar(255);not null" json:"name"`
	KeyHash   string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"-"`
	Status    TerminalStatus `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (t *Terminal) IsActive() bool {
	return t.Status == TerminalStatusActive
}
