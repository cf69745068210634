//go:build !wasm
// +build !wasm

package gae

import (
	"time"

	"cloud.google.com/go/datastore"
)

// KindSession is the Datastore kind holding sessions
const KindSession = "Session"

// SessionEntity is the Datastore entity for a browser session
type SessionEntity struct {
	Key    *datastore.Key `datastore:"__key__"`
	Data   []byte         `datastore:"data,noindex"`
	Expiry time.Time      `datastore:"expiry"`
}
