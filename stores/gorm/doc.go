//go:build !wasm
// +build !wasm

// Package gorm provides a GORM-based scs.Store for authdash browser sessions.
// It works with any database GORM supports; authdash wires SQLite and
// PostgreSQL.
//
// # Database Schema
//
// The package auto-migrates a single table:
//   - sessions: token, encoded session data and expiry
//
// # Usage
//
//	db, _ := gorm.Open(postgres.Open(dsn), &gorm.Config{})
//	_ = gormstore.AutoMigrate(db)
//	sessionManager.Store = gormstore.NewSessionStore(db)
package gorm
