//go:build !wasm
// +build !wasm

package gae

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/datastore"
	"google.golang.org/api/iterator"
)

// SessionStore implements scs.Store (and scs.CtxStore) using Google Cloud Datastore
type SessionStore struct {
	client    *datastore.Client
	namespace string
}

// NewSessionStore creates a new Datastore-backed SessionStore
func NewSessionStore(client *datastore.Client, namespace string) *SessionStore {
	return &SessionStore{client: client, namespace: namespace}
}

func (s *SessionStore) namespacedKey(name string) *datastore.Key {
	key := datastore.NameKey(KindSession, name, nil)
	key.Namespace = s.namespace
	return key
}

func (s *SessionStore) FindCtx(ctx context.Context, token string) ([]byte, bool, error) {
	var entity SessionEntity
	err := s.client.Get(ctx, s.namespacedKey(token), &entity)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if time.Now().After(entity.Expiry) {
		return nil, false, nil
	}
	return entity.Data, true, nil
}

func (s *SessionStore) CommitCtx(ctx context.Context, token string, b []byte, expiry time.Time) error {
	entity := &SessionEntity{Data: b, Expiry: expiry}
	_, err := s.client.Put(ctx, s.namespacedKey(token), entity)
	return err
}

func (s *SessionStore) DeleteCtx(ctx context.Context, token string) error {
	return s.client.Delete(ctx, s.namespacedKey(token))
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

// maxBatchWrite is the most entities Datastore accepts in one write
const maxBatchWrite = 500

// Cleanup deletes expired sessions
func (s *SessionStore) Cleanup(ctx context.Context) (int64, error) {
	query := datastore.NewQuery(KindSession).
		FilterField("expiry", "<", time.Now()).
		KeysOnly()
	if s.namespace != "" {
		query = query.Namespace(s.namespace)
	}

	var keys []*datastore.Key
	it := s.client.Run(ctx, query)
	for {
		key, err := it.Next(nil)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		keys = append(keys, key)
	}

	var deleted int64
	for _, batch := range batchKeys(keys, maxBatchWrite) {
		if err := s.client.DeleteMulti(ctx, batch); err != nil {
			return deleted, err
		}
		deleted += int64(len(batch))
	}
	return deleted, nil
}

// batchKeys splits keys into runs of at most size
func batchKeys(keys []*datastore.Key, size int) [][]*datastore.Key {
	var out [][]*datastore.Key
	for len(keys) > size {
		out = append(out, keys[:size:size])
		keys = keys[size:]
	}
	if len(keys) > 0 {
		out = append(out, keys)
	}
	return out
}
