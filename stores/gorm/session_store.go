//go:build !wasm
// +build !wasm

package gorm

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AutoMigrate runs database migrations for the session table
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&SessionModel{})
}

// SessionStore implements scs.Store (and scs.CtxStore) using GORM
type SessionStore struct {
	db *gorm.DB
}

func NewSessionStore(db *gorm.DB) *SessionStore {
	return &SessionStore{db: db}
}

func (s *SessionStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	var model SessionModel
	err := s.db.WithContext(ctx).
		Where("token = ? AND expiry > ?", token, time.Now()).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return model.Data, true, nil
}

func (s *SessionStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	model := &SessionModel{Token: token, Data: b, Expiry: expiry}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "token"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "expiry"}),
	}).Create(model).Error
}

func (s *SessionStore) DeleteCtx(ctx context.Context, token string) error {
	return s.db.WithContext(ctx).Delete(&SessionModel{}, "token = ?", token).Error
}

// AllCtx returns every unexpired session keyed by token
func (s *SessionStore) AllCtx(ctx context.Context) (map[string][]byte, error) {
	var models []SessionModel
	if err := s.db.WithContext(ctx).Where("expiry > ?", time.Now()).Find(&models).Error; err != nil {
		return nil, err
	}
	out := make(map[string][]byte, len(models))
	for _, m := range models {
		out[m.Token] = m.Data
	}
	return out, nil
}

func (s *SessionStore) Find(token string) ([]byte, bool, error) {
	return s.FindCtx(context.Background(), token)
}

func (s *SessionStore) Commit(token string, b []byte, expiry time.Time) error {
	return s.CommitCtx(context.Background(), token, b, expiry)
}

func (s *SessionStore) Delete(token string) error {
	return s.DeleteCtx(context.Background(), token)
}

func (s *SessionStore) All() (map[string][]byte, error) {
	return s.AllCtx(context.Background())
}

// Cleanup deletes expired sessions
func (s *SessionStore) Cleanup(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Delete(&SessionModel{}, "expiry <= ?", time.Now())
	return result.RowsAffected, result.Error
}
