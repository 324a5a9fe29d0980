package branch

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/mserebryaakov/boodai-storefront-service/internal/kv"
	"github.com/sirupsen/logrus"
)

type cacheEntry struct {
	CapturedAt time.Time       `json:"capturedAt"`
	Data       json.RawMessage `json:"data"`
}

type cached[T any] struct {
	value T
	fresh bool
	found bool
}

// readCache never fails: unreadable entries count as missing.
func readCache[T any](ctx context.Context, store kv.Store, key string, ttl time.Duration, now time.Time, log *logrus.Entry) cached[T] {
	var out cached[T]

	raw, err := store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			log.Warnf("cache: failed to read %s - %v", key, err)
		}
		return out
	}

	var entry cacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil || entry.CapturedAt.IsZero() {
		log.Warnf("cache: dropping corrupt entry %s", key)
		return out
	}

	if err := json.Unmarshal(entry.Data, &out.value); err != nil {
		log.Warnf("cache: dropping corrupt entry %s - %v", key, err)
		return cached[T]{}
	}

	out.found = true
	out.fresh = now.Sub(entry.CapturedAt) < ttl
	return out
}

func writeCache(ctx context.Context, store kv.Store, key string, value interface{}, now time.Time, log *logrus.Entry) {
	data, err := json.Marshal(value)
	if err != nil {
		log.Errorf("cache: failed to marshal %s - %v", key, err)
		return
	}

	raw, err := json.Marshal(cacheEntry{CapturedAt: now, Data: data})
	if err != nil {
		log.Errorf("cache: failed to marshal %s - %v", key, err)
		return
	}

	if err := store.Set(ctx, key, raw); err != nil {
		log.Warnf("cache: failed to write %s - %v", key, err)
	}
}
