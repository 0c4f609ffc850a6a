package translator

import (
	"math"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/lib/utils"
	"github.com/hdt3213/nosqlcore/value"
)

// CommandBuffer is the token sequence sent for one command
type CommandBuffer [][]byte

// String renders the buffer as a quoted command line for logs
func (b CommandBuffer) String() string {
	return utils.CmdLineString(b)
}

// Name returns the first token, upper-cased
func (b CommandBuffer) Name() string {
	if len(b) == 0 {
		return ""
	}
	return command.Normalize(string(b[0]))
}

// Op is a generic operation, the dialect maps it to a command name
type Op int

// Generic operations
const (
	OpGet Op = iota
	OpSet
	OpDelete
	OpRename
	OpScan
	OpSetTTL
	OpPersist
	OpGetTTL
	OpType
	OpSelect
	OpDBSize
	OpInfo
	OpAuth
)

var opNames = [...]string{"get", "set", "delete", "rename", "scan", "setttl", "persist", "getttl", "type", "select", "dbsize", "info", "auth"}

func (op Op) String() string {
	if op < 0 || int(op) >= len(opNames) {
		return "op(" + strconv.Itoa(int(op)) + ")"
	}
	return opNames[op]
}

// Dialect is the wire vocabulary of a backend
type Dialect struct {
	Backend command.Backend
	names   map[Op]string
}

var redisNames = map[Op]string{
	OpGet:     "GET",
	OpSet:     "SET",
	OpDelete:  "DEL",
	OpRename:  "RENAME",
	OpScan:    "SCAN",
	OpSetTTL:  "EXPIRE",
	OpPersist: "PERSIST",
	OpGetTTL:  "TTL",
	OpType:    "TYPE",
	OpSelect:  "SELECT",
	OpDBSize:  "DBSIZE",
	OpInfo:    "INFO",
	OpAuth:    "AUTH",
}

// DialectOf returns the dialect of backend
func DialectOf(backend command.Backend) *Dialect {
	names := make(map[Op]string, len(redisNames))
	for op, name := range redisNames {
		names[op] = name
	}
	if backend == command.Dynomite {
		// dynomite proxies a single database and cannot rename across shards
		delete(names, OpSelect)
		delete(names, OpRename)
	}
	return &Dialect{Backend: backend, names: names}
}

// CommandName returns the name of op, ok is false if the backend cannot express it
func (d *Dialect) CommandName(op Op) (string, bool) {
	name, ok := d.names[op]
	return name, ok
}

// Translator encodes operations for one backend.
// It is immutable and safe for concurrent use.
type Translator struct {
	backend  command.Backend
	dialect  *Dialect
	registry *command.Registry
}

// New creates a Translator, a nil registry means the builtin one of backend
func New(backend command.Backend, registry *command.Registry) *Translator {
	if registry == nil {
		registry = command.Builtin(backend)
	}
	return &Translator{
		backend:  backend,
		dialect:  DialectOf(backend),
		registry: registry,
	}
}

// Backend returns the backend fixed at construction
func (t *Translator) Backend() command.Backend {
	return t.backend
}

// Registry returns the registry commands are validated against
func (t *Translator) Registry() *command.Registry {
	return t.registry
}

// Dialect returns the dialect of the backend
func (t *Translator) Dialect() *Dialect {
	return t.dialect
}

func (t *Translator) notSupported(name string) error {
	return &errs.NotSupportedError{Backend: t.backend.String(), Command: name}
}

// Encode builds the command of a generic operation
func (t *Translator) Encode(op Op, args ...[]byte) (CommandBuffer, error) {
	name, ok := t.dialect.CommandName(op)
	if !ok {
		return nil, t.notSupported(op.String())
	}
	return t.BuildCommand(name, args...)
}

// BuildCommand looks up name in the registry and validates args before building the buffer
func (t *Translator) BuildCommand(name string, args ...[]byte) (CommandBuffer, error) {
	d, ok := t.registry.Find(name)
	if !ok {
		return nil, t.notSupported(name)
	}
	if err := t.registry.Validate(d, args); err != nil {
		return nil, err
	}
	return d.CommandLine(args), nil
}

func (t *Translator) build(name string, args ...string) (CommandBuffer, error) {
	raw := make([][]byte, len(args))
	for i, a := range args {
		raw[i] = []byte(a)
	}
	return t.BuildCommand(name, raw...)
}

// GetKeyCommand builds the command loading key as kind
func (t *Translator) GetKeyCommand(key string, kind value.Kind) (CommandBuffer, error) {
	switch kind {
	case value.KindString, value.KindInteger, value.KindDouble, value.KindBoolean:
		return t.Encode(OpGet, []byte(key))
	case value.KindArray:
		return t.build("LRANGE", key, "0", "-1")
	case value.KindSet:
		return t.build("SMEMBERS", key)
	case value.KindMap:
		return t.build("HGETALL", key)
	case value.KindSortedSet:
		return t.build("ZRANGE", key, "0", "-1", "WITHSCORES")
	case value.KindStream:
		return t.build("XRANGE", key, "-", "+")
	case value.KindJSON:
		return t.build("JSON.GET", key)
	}
	return nil, &errs.ValidationError{Command: "get", Reason: "cannot load a value of kind " + kind.String()}
}

// SetKeyCommands builds the commands storing kv, a stream needs one XADD per entry
func (t *Translator) SetKeyCommands(kv *value.KeyValue) ([]CommandBuffer, error) {
	key := []byte(kv.Key)
	single := func(cmd CommandBuffer, err error) ([]CommandBuffer, error) {
		if err != nil {
			return nil, err
		}
		return []CommandBuffer{cmd}, nil
	}
	switch v := kv.Value.(type) {
	case *value.StringValue:
		return single(t.Encode(OpSet, key, v.Val))
	case *value.IntegerValue:
		return single(t.Encode(OpSet, key, []byte(strconv.FormatInt(v.Val, 10))))
	case *value.DoubleValue:
		f, err := FormatFloat(v.Val)
		if err != nil {
			return nil, err
		}
		return single(t.Encode(OpSet, key, []byte(f)))
	case *value.BooleanValue:
		b := "0"
		if v.Val {
			b = "1"
		}
		return single(t.Encode(OpSet, key, []byte(b)))
	case *value.ArrayValue:
		args := [][]byte{key}
		for _, item := range v.Items {
			raw, err := scalarBytes(item)
			if err != nil {
				return nil, err
			}
			args = append(args, raw)
		}
		return single(t.BuildCommand("RPUSH", args...))
	case *value.SetValue:
		args := append([][]byte{key}, v.Members...)
		return single(t.BuildCommand("SADD", args...))
	case *value.SortedSetValue:
		args := [][]byte{key}
		for _, m := range v.Members {
			score, err := FormatFloat(m.Score)
			if err != nil {
				return nil, err
			}
			args = append(args, []byte(score), m.Member)
		}
		return single(t.BuildCommand("ZADD", args...))
	case *value.MapValue:
		args := [][]byte{key}
		for _, p := range v.Pairs {
			args = append(args, p.Field, p.Val)
		}
		return single(t.BuildCommand("HSET", args...))
	case *value.StreamValue:
		if len(v.Entries) == 0 {
			return nil, &errs.ValidationError{Command: "XADD", Reason: "stream has no entries"}
		}
		cmds := make([]CommandBuffer, 0, len(v.Entries))
		for _, entry := range v.Entries {
			cmd, err := t.StreamAddCommand(kv.Key, entry)
			if err != nil {
				return nil, err
			}
			cmds = append(cmds, cmd)
		}
		return cmds, nil
	case *value.JSONValue:
		return single(t.JSONSetCommand(kv.Key, ".", v.Doc))
	}
	kind := "nil"
	if kv.Value != nil {
		kind = kv.Value.Kind().String()
	}
	return nil, &errs.ValidationError{Command: "set", Reason: "cannot store a value of kind " + kind}
}

func scalarBytes(v value.Value) ([]byte, error) {
	switch item := v.(type) {
	case *value.StringValue:
		return item.Val, nil
	case *value.IntegerValue:
		return []byte(strconv.FormatInt(item.Val, 10)), nil
	case *value.DoubleValue:
		f, err := FormatFloat(item.Val)
		return []byte(f), err
	}
	kind := "nil"
	if v != nil {
		kind = v.Kind().String()
	}
	return nil, &errs.ValidationError{Command: "RPUSH", Reason: "list items must be scalars, got " + kind}
}

// FormatFloat renders f in the shortest exact decimal form, infinities as +inf and -inf
func FormatFloat(f float64) (string, error) {
	switch {
	case math.IsNaN(f):
		return "", &errs.ValidationError{Command: "score", Reason: "NaN is not a valid float"}
	case math.IsInf(f, 1):
		return "+inf", nil
	case math.IsInf(f, -1):
		return "-inf", nil
	}
	return decimal.NewFromFloat(f).String(), nil
}

// DeleteCommand builds DEL key
func (t *Translator) DeleteCommand(key string) (CommandBuffer, error) {
	return t.Encode(OpDelete, []byte(key))
}

// RenameCommand builds RENAME key newkey
func (t *Translator) RenameCommand(oldKey, newKey string) (CommandBuffer, error) {
	return t.Encode(OpRename, []byte(oldKey), []byte(newKey))
}

// ScanCommand builds SCAN cursor [MATCH pattern] [COUNT count]
func (t *Translator) ScanCommand(cursor uint64, pattern string, count int64) (CommandBuffer, error) {
	args := [][]byte{[]byte(strconv.FormatUint(cursor, 10))}
	if pattern != "" {
		args = append(args, []byte("MATCH"), []byte(pattern))
	}
	if count > 0 {
		args = append(args, []byte("COUNT"), []byte(strconv.FormatInt(count, 10)))
	}
	return t.Encode(OpScan, args...)
}

// SetTTLCommand builds EXPIRE, or PERSIST for NoTTL
func (t *Translator) SetTTLCommand(key string, ttl value.TTL) (CommandBuffer, error) {
	if ttl == value.NoTTL {
		return t.Encode(OpPersist, []byte(key))
	}
	if ttl < 0 {
		return nil, &errs.ValidationError{Command: "EXPIRE", Reason: "negative ttl " + ttl.String()}
	}
	return t.Encode(OpSetTTL, []byte(key), []byte(strconv.FormatInt(int64(ttl), 10)))
}

// GetTTLCommand builds TTL key
func (t *Translator) GetTTLCommand(key string) (CommandBuffer, error) {
	return t.Encode(OpGetTTL, []byte(key))
}

// TypeCommand builds TYPE key
func (t *Translator) TypeCommand(key string) (CommandBuffer, error) {
	return t.Encode(OpType, []byte(key))
}

// SelectCommand builds SELECT db
func (t *Translator) SelectCommand(db int) (CommandBuffer, error) {
	return t.Encode(OpSelect, []byte(strconv.Itoa(db)))
}

// DBSizeCommand builds DBSIZE
func (t *Translator) DBSizeCommand() (CommandBuffer, error) {
	return t.Encode(OpDBSize)
}

// InfoCommand builds INFO [section]
func (t *Translator) InfoCommand(section string) (CommandBuffer, error) {
	if section == "" {
		return t.Encode(OpInfo)
	}
	return t.Encode(OpInfo, []byte(section))
}

// AuthCommand builds AUTH password
func (t *Translator) AuthCommand(password string) (CommandBuffer, error) {
	return t.Encode(OpAuth, []byte(password))
}

// StreamAddCommand builds XADD key id field value ..., an empty id lets the server generate one
func (t *Translator) StreamAddCommand(key string, entry value.StreamEntry) (CommandBuffer, error) {
	id := entry.ID
	if id == "" {
		id = "*"
	}
	args := [][]byte{[]byte(key), []byte(id)}
	for _, f := range entry.Fields {
		args = append(args, f.Field, f.Val)
	}
	return t.BuildCommand("XADD", args...)
}

// JSONSetCommand builds JSON.SET key path doc
func (t *Translator) JSONSetCommand(key, path string, doc []byte) (CommandBuffer, error) {
	return t.BuildCommand("JSON.SET", []byte(key), []byte(path), doc)
}

// JSONGetCommand builds JSON.GET key [path ...]
func (t *Translator) JSONGetCommand(key string, paths ...string) (CommandBuffer, error) {
	return t.build("JSON.GET", append([]string{key}, paths...)...)
}

// JSONDelCommand builds JSON.DEL key [path]
func (t *Translator) JSONDelCommand(key, path string) (CommandBuffer, error) {
	if path == "" {
		return t.build("JSON.DEL", key)
	}
	return t.build("JSON.DEL", key, path)
}

// ThrottleCommand builds CL.THROTTLE key max_burst count_per_period period quantity
func (t *Translator) ThrottleCommand(key string, maxBurst, countPerPeriod, period, quantity int64) (CommandBuffer, error) {
	return t.build("CL.THROTTLE", key,
		strconv.FormatInt(maxBurst, 10),
		strconv.FormatInt(countPerPeriod, 10),
		strconv.FormatInt(period, 10),
		strconv.FormatInt(quantity, 10),
	)
}

// ModuleLoadCommand builds MODULE LOAD path [arg ...]
func (t *Translator) ModuleLoadCommand(info *value.ModuleInfo) (CommandBuffer, error) {
	return t.build("MODULE LOAD", append([]string{info.Path}, info.Args...)...)
}

// ModuleUnloadCommand builds MODULE UNLOAD name
func (t *Translator) ModuleUnloadCommand(name string) (CommandBuffer, error) {
	return t.build("MODULE UNLOAD", name)
}

// ModuleListCommand builds MODULE LIST
func (t *Translator) ModuleListCommand() (CommandBuffer, error) {
	return t.build("MODULE LIST")
}

// IncrByFloatCommand builds INCRBYFLOAT key increment
func (t *Translator) IncrByFloatCommand(key string, increment decimal.Decimal) (CommandBuffer, error) {
	return t.build("INCRBYFLOAT", key, increment.String())
}
