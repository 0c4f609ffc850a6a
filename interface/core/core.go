package core

import (
	"context"

	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/value"
)

// Transport sends one command and blocks until its reply arrives.
// An I/O failure, timeouts included, is returned as error.
type Transport interface {
	Send(args [][]byte) (redis.Reply, error)
	Close() error
}

// Dialer opens a Transport
type Dialer func(ctx context.Context) (Transport, error)

// Observer receives notifications after successful key mutations and loads.
// Callbacks must not block, a panic in a callback is recovered by the caller.
type Observer interface {
	OnAddedKey(kv *value.KeyValue)
	OnRemovedKeys(keys []string)
	OnLoadedKey(kv *value.KeyValue)
	OnLoadedKeyTTL(key string, ttl value.TTL)
	OnRenamedKey(oldKey, newKey string)
	OnChangedKeyTTL(key string, ttl value.TTL)
}

// ModuleObserver receives module load notifications
type ModuleObserver interface {
	OnLoadedModule(info *value.ModuleInfo)
	OnUnLoadedModule(info *value.ModuleInfo)
}

// NopObserver ignores every notification
type NopObserver struct{}

func (NopObserver) OnAddedKey(*value.KeyValue) {}
func (NopObserver) OnRemovedKeys([]string) {}
func (NopObserver) OnLoadedKey(*value.KeyValue) {}
func (NopObserver) OnLoadedKeyTTL(string, value.TTL) {}
func (NopObserver) OnRenamedKey(string, string) {}
func (NopObserver) OnChangedKeyTTL(string, value.TTL) {}
func (NopObserver) OnLoadedModule(*value.ModuleInfo) {}
func (NopObserver) OnUnLoadedModule(*value.ModuleInfo) {}
