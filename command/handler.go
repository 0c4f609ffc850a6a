package command

import (
	"context"
	"strconv"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/value"
)

// Handler is one of NativeHandler, ExtendedHandler or InternalHandler.
// The dispatcher picks the capability matching the descriptor category.
type Handler any

// Session is the typed operation surface a handler runs against
type Session interface {
	// Forward sends the command line verbatim and converts the reply generically
	Forward(ctx context.Context, line [][]byte) (value.Value, error)
	Get(ctx context.Context, key string, kind value.Kind) (*value.KeyValue, error)
	GetUni(ctx context.Context, key string) (*value.KeyValue, error)
	Set(ctx context.Context, kv *value.KeyValue) error
	Replace(ctx context.Context, kv *value.KeyValue) error
	Delete(ctx context.Context, keys ...string) ([]string, error)
	Rename(ctx context.Context, oldKey, newKey string) error
	SetTTL(ctx context.Context, key string, ttl value.TTL) error
	GetTTL(ctx context.Context, key string) (value.TTL, error)
	Scan(ctx context.Context, cursor uint64, pattern string, count int64) (uint64, []string, error)
	Select(ctx context.Context, db int) error
}

// NativeHandler runs a native command
type NativeHandler interface {
	ExecNative(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error)
}

// ExtendedHandler runs a client side command
type ExtendedHandler interface {
	ExecExtended(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error)
}

// InternalHandler swallows a pseudo-command without any round trip
type InternalHandler interface {
	ExecInternal(d *Descriptor, argv [][]byte) value.Value
}

// ExecFunc adapts a function to NativeHandler and ExtendedHandler
type ExecFunc func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error)

// ExecNative calls f
func (f ExecFunc) ExecNative(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
	return f(ctx, s, d, argv)
}

// ExecExtended calls f
func (f ExecFunc) ExecExtended(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
	return f(ctx, s, d, argv)
}

type silentHandler struct{}

func (silentHandler) ExecInternal(*Descriptor, [][]byte) value.Value {
	return value.MakeNull()
}

func okValue() value.Value {
	return value.MakeString([]byte("OK"))
}

// Stock handlers
var (
	Forward Handler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		return s.Forward(ctx, d.CommandLine(argv))
	})
	Silent Handler = silentHandler{}

	getHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		kv, err := s.Get(ctx, string(argv[0]), value.KindString)
		if err != nil {
			return nil, err
		}
		return kv.Value, nil
	})
	getUniHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		kv, err := s.GetUni(ctx, string(argv[0]))
		if err != nil {
			return nil, err
		}
		return kv.Value, nil
	})
	setHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		if len(argv) > 2 {
			// SET with EX/PX/NX/XX options goes to the backend as typed
			return s.Forward(ctx, d.CommandLine(argv))
		}
		if err := s.Set(ctx, value.MakeKeyValue(string(argv[0]), value.MakeString(argv[1]))); err != nil {
			return nil, err
		}
		return okValue(), nil
	})
	delHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		keys := make([]string, len(argv))
		for i, arg := range argv {
			keys[i] = string(arg)
		}
		removed, err := s.Delete(ctx, keys...)
		if err != nil {
			return nil, err
		}
		return value.MakeInteger(int64(len(removed))), nil
	})
	renameHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		if err := s.Rename(ctx, string(argv[0]), string(argv[1])); err != nil {
			return nil, err
		}
		return okValue(), nil
	})
	expireHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		seconds, err := strconv.ParseInt(string(argv[1]), 10, 64)
		if err != nil {
			return nil, err
		}
		if seconds < 0 {
			// a negative timeout deletes the key server side, NoTTL must not turn it into PERSIST
			return s.Forward(ctx, d.CommandLine(argv))
		}
		if err := s.SetTTL(ctx, string(argv[0]), value.TTL(seconds)); err != nil {
			return nil, err
		}
		return value.MakeInteger(1), nil
	})
	persistHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		if err := s.SetTTL(ctx, string(argv[0]), value.NoTTL); err != nil {
			return nil, err
		}
		return value.MakeInteger(1), nil
	})
	ttlHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		ttl, err := s.GetTTL(ctx, string(argv[0]))
		if err != nil {
			return nil, err
		}
		return value.MakeInteger(int64(ttl)), nil
	})
	selectHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		db, err := strconv.Atoi(string(argv[0]))
		if err != nil {
			return nil, err
		}
		if err := s.Select(ctx, db); err != nil {
			return nil, err
		}
		return okValue(), nil
	})
	scanHandler = ExecFunc(func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		cursor, err := strconv.ParseUint(string(argv[0]), 10, 64)
		if err != nil {
			return nil, err
		}
		pattern, count := "", int64(0)
		for i := 1; i+1 < len(argv); i += 2 {
			switch Normalize(string(argv[i])) {
			case "MATCH":
				pattern = string(argv[i+1])
			case "COUNT":
				if count, err = strconv.ParseInt(string(argv[i+1]), 10, 64); err != nil {
					return nil, &errs.ValidationError{Command: d.Name, Reason: "COUNT value is not an integer or out of range"}
				}
			default:
				return s.Forward(ctx, d.CommandLine(argv))
			}
		}
		next, keys, err := s.Scan(ctx, cursor, pattern, count)
		if err != nil {
			return nil, err
		}
		items := make([][]byte, len(keys))
		for i, k := range keys {
			items[i] = []byte(k)
		}
		return value.MakeArray(
			value.MakeString([]byte(strconv.FormatUint(next, 10))),
			value.MakeList(items...),
		), nil
	})
)

// replaceHandler loads a whole collection under key, replacing the previous value and keeping its TTL
func replaceHandler(build func(argv [][]byte) (value.Value, error)) ExecFunc {
	return func(ctx context.Context, s Session, d *Descriptor, argv [][]byte) (value.Value, error) {
		v, err := build(argv[1:])
		if err != nil {
			return nil, err
		}
		if err := s.Replace(ctx, value.MakeKeyValue(string(argv[0]), v)); err != nil {
			return nil, err
		}
		return okValue(), nil
	}
}

var (
	listReplace = replaceHandler(func(argv [][]byte) (value.Value, error) {
		return value.MakeList(argv...), nil
	})
	setReplace = replaceHandler(func(argv [][]byte) (value.Value, error) {
		return value.MakeSet(argv...), nil
	})
	hashReplace = replaceHandler(func(argv [][]byte) (value.Value, error) {
		pairs := make([]value.Pair, 0, len(argv)/2)
		for i := 0; i+1 < len(argv); i += 2 {
			pairs = append(pairs, value.Pair{Field: argv[i], Val: argv[i+1]})
		}
		return value.MakeMap(pairs...), nil
	})
	zsetReplace = replaceHandler(func(argv [][]byte) (value.Value, error) {
		members := make([]value.ScoredMember, 0, len(argv)/2)
		for i := 0; i+1 < len(argv); i += 2 {
			score, err := strconv.ParseFloat(string(argv[i]), 64)
			if err != nil {
				return nil, err
			}
			members = append(members, value.ScoredMember{Member: argv[i+1], Score: score})
		}
		return value.MakeSortedSet(members...), nil
	})
	streamReplace = replaceHandler(func(argv [][]byte) (value.Value, error) {
		entry := value.StreamEntry{ID: string(argv[0])}
		for i := 1; i+1 < len(argv); i += 2 {
			entry.Fields = append(entry.Fields, value.Pair{Field: argv[i], Val: argv[i+1]})
		}
		return value.MakeStream(entry), nil
	})
)
