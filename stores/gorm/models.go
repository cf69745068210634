//go:build !wasm
// +build !wasm

package gorm

import "time"

// SessionModel is the GORM model for browser sessions
type SessionModel struct {
	Token  string    `gorm:"primaryKey;size:64"`
	Data   []byte    `gorm:"not null"`
	Expiry time.Time `gorm:"not null;index"`
}

func (SessionModel) TableName() string {
	return "sessions"
}
