package value

import (
	"strconv"
	"time"
)

// TTL is a time to live in seconds
type TTL int64

// TTL sentinels, same codes as the TTL command replies
const (
	// NoTTL means the key is persistent
	NoTTL TTL = -1
	// ExpiredTTL means the key is missing or already expired
	ExpiredTTL TTL = -2
)

// IsSet returns true if ttl is a real countdown
func (ttl TTL) IsSet() bool {
	return ttl >= 0
}

// Duration converts a positive TTL into time.Duration, sentinels become 0
func (ttl TTL) Duration() time.Duration {
	if ttl < 0 {
		return 0
	}
	return time.Duration(ttl) * time.Second
}

func (ttl TTL) String() string {
	switch ttl {
	case NoTTL:
		return "no ttl"
	case ExpiredTTL:
		return "expired"
	}
	return strconv.FormatInt(int64(ttl), 10) + "s"
}

// KeyValue is a key with its value and time to live
type KeyValue struct {
	Key   string
	Value Value
	TTL   TTL
}

// MakeKeyValue creates a persistent KeyValue
func MakeKeyValue(key string, v Value) *KeyValue {
	return &KeyValue{
		Key:   key,
		Value: v,
		TTL:   NoTTL,
	}
}

// ModuleInfo describes a server side module
type ModuleInfo struct {
	Name    string
	Path    string
	Args    []string
	Version int64
}
