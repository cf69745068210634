//go:build !wasm
// +build !wasm

// Package gae provides a Google Cloud Datastore scs.Store for authdash
// browser sessions. Namespaces isolate deployments sharing a project.
//
// # Datastore Kinds
//
//   - Session: encoded session data keyed by session token
//
// # Usage
//
//	client, _ := datastore.NewClient(ctx, projectID)
//	sessionManager.Store = gae.NewSessionStore(client, "")
package gae
