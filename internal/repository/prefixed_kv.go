package repository

import (
	"context"
	"strings"

	"github.com/nikolayk812/storefront/internal/port"
)

// PrefixedKV namespaces every key of an underlying store as "<prefix>:<key>",
// the same layout RedisKV uses, so several storefronts can share one table.
type PrefixedKV struct {
	kv     port.KVStore
	prefix string
}

var (
	_ port.KVStore = (*PrefixedKV)(nil)
	_ port.Watcher = (*PrefixedKV)(nil)
)

func NewPrefixedKV(kv port.KVStore, prefix string) *PrefixedKV {
	return &PrefixedKV{kv: kv, prefix: prefix + ":"}
}

func (p *PrefixedKV) Get(ctx context.Context, key string) ([]byte, error) {
	return p.kv.Get(ctx, p.prefix+key)
}

func (p *PrefixedKV) Set(ctx context.Context, key string, value []byte) error {
	return p.kv.Set(ctx, p.prefix+key, value)
}

func (p *PrefixedKV) Delete(ctx context.Context, key string) error {
	return p.kv.Delete(ctx, p.prefix+key)
}

// Watch reports only keys under the prefix, with the prefix removed. It
// returns port.ErrWatchUnsupported when the underlying store cannot watch.
func (p *PrefixedKV) Watch(ctx context.Context, fn func(key string)) error {
	watcher, ok := p.kv.(port.Watcher)
	if !ok {
		return port.ErrWatchUnsupported
	}

	return watcher.Watch(ctx, func(key string) {
		if rest, found := strings.CutPrefix(key, p.prefix); found {
			fn(rest)
		}
	})
}
