package command

import (
	"fmt"
	"strings"
)

// Backend identifies a server family, each one has its own command table and dialect
type Backend int

// Supported backends
const (
	Redis Backend = iota
	Pika
	Dynomite
)

var backendNames = map[Backend]string{
	Redis:    "redis",
	Pika:     "pika",
	Dynomite: "dynomite",
}

func (b Backend) String() string {
	if name, ok := backendNames[b]; ok {
		return name
	}
	return fmt.Sprintf("backend(%d)", int(b))
}

// ParseBackend converts a name such as "redis" into Backend
func ParseBackend(name string) (Backend, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for b, s := range backendNames {
		if s == n {
			return b, nil
		}
	}
	return Redis, fmt.Errorf("unknown backend %q", name)
}

// module commands need a server side module which forks such as pika do not load
func isModuleGroup(g Group) bool {
	return g == GroupModules || g == GroupJSON || g == GroupThrottle || g == GroupGraph
}

var (
	redisRegistry = NewRegistry(Redis.String(), redisCommands()...)

	pikaRegistry = redisRegistry.Filter(Pika.String(), func(d *Descriptor) bool {
		switch d.Group {
		case GroupStream, GroupSentinel, GroupCluster:
			return false
		}
		return !isModuleGroup(d.Group)
	})

	dynomiteRegistry = redisRegistry.Filter(Dynomite.String(), func(d *Descriptor) bool {
		switch d.Group {
		case GroupStream, GroupSentinel, GroupCluster, GroupTransactions:
			return false
		}
		return !isModuleGroup(d.Group) && Normalize(d.Name) != "SELECT"
	})

	internalRegistry = NewRegistry("internal", internalCommands()...)
)

// Builtin returns the immutable registry of backend
func Builtin(backend Backend) *Registry {
	switch backend {
	case Pika:
		return pikaRegistry
	case Dynomite:
		return dynomiteRegistry
	}
	return redisRegistry
}

// BuiltinInternal returns the registry of pseudo-commands which are swallowed without a round trip
func BuiltinInternal() *Registry {
	return internalRegistry
}
