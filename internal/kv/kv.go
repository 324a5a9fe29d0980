package kv

import (
	"context"

	"github.com/sirupsen/logrus"
)

type KVLogHook struct{}

func (h *KVLogHook) Fire(entry *logrus.Entry) error {
	entry.Message = "KV: " + entry.Message
	return nil
}

func (h *KVLogHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Store is the durable key/value boundary used for everything a storefront
// session keeps between reloads. Get returns ErrNotFound for a missing key.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, keys ...string) error
}

type namespaced struct {
	prefix string
	store  Store
}

// Namespace scopes every key of store under ns.
func Namespace(store Store, ns string) Store {
	return &namespaced{prefix: ns + ":", store: store}
}

func (n *namespaced) Get(ctx context.Context, key string) ([]byte, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key string, value []byte) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Delete(ctx context.Context, keys ...string) error {
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = n.prefix + k
	}
	return n.store.Delete(ctx, full...)
}
