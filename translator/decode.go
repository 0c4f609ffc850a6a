package translator

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/value"
)

func decodeErr(kind value.Kind, format string, args ...any) error {
	reason := format
	if len(args) > 0 {
		reason = fmt.Sprintf(format, args...)
	}
	return &errs.DecodeError{Kind: kind.String(), Reason: reason}
}

// Decode converts reply into a value of the requested kind.
// A shape mismatch is a DecodeError, the decoder never coerces.
func Decode(reply redis.Reply, kind value.Kind) (value.Value, error) {
	switch protocol.KindOf(reply) {
	case protocol.KindError:
		return nil, &errs.ServerError{Command: kind.String(), Msg: reply.(protocol.ErrorReply).Error()}
	case protocol.KindNil:
		if kind == value.KindNull {
			return value.MakeNull(), nil
		}
		return nil, errs.KeyNotFound(kind.String())
	}
	switch kind {
	case value.KindNull:
		return nil, decodeErr(kind, "expected nil, got %s", protocol.KindOf(reply))
	case value.KindString:
		text, ok := protocol.Text(reply)
		if !ok {
			return nil, decodeErr(kind, "expected bulk or status, got %s", protocol.KindOf(reply))
		}
		return value.MakeString(text), nil
	case value.KindInteger:
		n, ok := reply.(*protocol.IntReply)
		if !ok {
			return nil, decodeErr(kind, "expected integer, got %s", protocol.KindOf(reply))
		}
		return value.MakeInteger(n.Code), nil
	case value.KindDouble:
		bulk, ok := reply.(*protocol.BulkReply)
		if !ok {
			return nil, decodeErr(kind, "expected bulk, got %s", protocol.KindOf(reply))
		}
		f, err := parseFloat(bulk.Arg)
		if err != nil {
			return nil, decodeErr(kind, "%q is not a float", bulk.Arg)
		}
		return value.MakeDouble(f), nil
	case value.KindBoolean:
		n, ok := reply.(*protocol.IntReply)
		if !ok || (n.Code != 0 && n.Code != 1) {
			return nil, decodeErr(kind, "expected integer 0 or 1, got %s", reply.ToBytes())
		}
		return value.MakeBoolean(n.Code == 1), nil
	case value.KindArray:
		if _, ok := protocol.Elements(reply); !ok {
			return nil, decodeErr(kind, "expected array, got %s", protocol.KindOf(reply))
		}
		return ValueFromReply(reply), nil
	case value.KindSet:
		members, err := textElements(reply, kind)
		if err != nil {
			return nil, err
		}
		return value.MakeSet(members...), nil
	case value.KindMap:
		return decodeMap(reply)
	case value.KindSortedSet:
		return decodeSortedSet(reply)
	case value.KindStream:
		return decodeStream(reply)
	case value.KindJSON:
		bulk, ok := reply.(*protocol.BulkReply)
		if !ok {
			return nil, decodeErr(kind, "expected bulk, got %s", protocol.KindOf(reply))
		}
		if !gjson.ValidBytes(bulk.Arg) {
			return nil, decodeErr(kind, "invalid document")
		}
		return value.MakeJSON(bulk.Arg), nil
	}
	return nil, decodeErr(kind, "unsupported kind")
}

// ValueFromReply converts any reply generically, arrays recursively
func ValueFromReply(reply redis.Reply) value.Value {
	switch r := reply.(type) {
	case *protocol.IntReply:
		return value.MakeInteger(r.Code)
	case protocol.ErrorReply:
		return value.MakeError(r.Error())
	}
	if text, ok := protocol.Text(reply); ok {
		return value.MakeString(text)
	}
	if elements, ok := protocol.Elements(reply); ok {
		items := make([]value.Value, len(elements))
		for i, e := range elements {
			items[i] = ValueFromReply(e)
		}
		return value.MakeArray(items...)
	}
	return value.MakeNull()
}

func textElements(reply redis.Reply, kind value.Kind) ([][]byte, error) {
	elements, ok := protocol.Elements(reply)
	if !ok {
		return nil, decodeErr(kind, "expected array, got %s", protocol.KindOf(reply))
	}
	result := make([][]byte, len(elements))
	for i, e := range elements {
		text, ok := protocol.Text(e)
		if !ok {
			return nil, decodeErr(kind, "element %d is %s, not a string", i, protocol.KindOf(e))
		}
		result[i] = text
	}
	return result, nil
}

// mapScalar accepts strings and integers as hash values, MODULE LIST reports versions as integers
func mapScalar(reply redis.Reply) ([]byte, bool) {
	if n, ok := reply.(*protocol.IntReply); ok {
		return []byte(strconv.FormatInt(n.Code, 10)), true
	}
	return protocol.Text(reply)
}

func decodeMap(reply redis.Reply) (value.Value, error) {
	elements, ok := protocol.Elements(reply)
	if !ok {
		return nil, decodeErr(value.KindMap, "expected array, got %s", protocol.KindOf(reply))
	}
	if len(elements) > 0 {
		if _, nested := protocol.Elements(elements[0]); nested {
			return decodeNestedMap(elements)
		}
	}
	if len(elements)%2 != 0 {
		return nil, decodeErr(value.KindMap, "odd number of elements: %d", len(elements))
	}
	pairs := make([]value.Pair, 0, len(elements)/2)
	for i := 0; i < len(elements); i += 2 {
		field, ok1 := protocol.Text(elements[i])
		val, ok2 := mapScalar(elements[i+1])
		if !ok1 || !ok2 {
			return nil, decodeErr(value.KindMap, "pair %d is not a string pair", i/2)
		}
		pairs = append(pairs, value.Pair{Field: field, Val: val})
	}
	return value.MakeMap(pairs...), nil
}

func decodeNestedMap(elements []redis.Reply) (value.Value, error) {
	pairs := make([]value.Pair, 0, len(elements))
	for i, e := range elements {
		pair, ok := protocol.Elements(e)
		if !ok || len(pair) != 2 {
			return nil, decodeErr(value.KindMap, "entry %d is not a 2 element array", i)
		}
		field, ok1 := protocol.Text(pair[0])
		val, ok2 := mapScalar(pair[1])
		if !ok1 || !ok2 {
			return nil, decodeErr(value.KindMap, "entry %d is not a string pair", i)
		}
		pairs = append(pairs, value.Pair{Field: field, Val: val})
	}
	return value.MakeMap(pairs...), nil
}

func decodeSortedSet(reply redis.Reply) (value.Value, error) {
	items, err := textElements(reply, value.KindSortedSet)
	if err != nil {
		return nil, err
	}
	if len(items)%2 != 0 {
		return nil, decodeErr(value.KindSortedSet, "odd number of elements: %d", len(items))
	}
	members := make([]value.ScoredMember, 0, len(items)/2)
	for i := 0; i < len(items); i += 2 {
		score, err := parseFloat(items[i+1])
		if err != nil {
			return nil, decodeErr(value.KindSortedSet, "score %q of member %q is not a float", items[i+1], items[i])
		}
		members = append(members, value.ScoredMember{Member: items[i], Score: score})
	}
	return value.MakeSortedSet(members...), nil
}

func decodeStream(reply redis.Reply) (value.Value, error) {
	elements, ok := protocol.Elements(reply)
	if !ok {
		return nil, decodeErr(value.KindStream, "expected array, got %s", protocol.KindOf(reply))
	}
	entries := make([]value.StreamEntry, 0, len(elements))
	for i, e := range elements {
		entry, err := decodeStreamEntry(e)
		if err != nil {
			return nil, decodeErr(value.KindStream, "entry %d: %s", i, err.Error())
		}
		entries = append(entries, entry)
	}
	return value.MakeStream(entries...), nil
}

// DecodeStreamEntry converts one [id, [field, value ...]] reply
func DecodeStreamEntry(reply redis.Reply) (value.StreamEntry, error) {
	entry, err := decodeStreamEntry(reply)
	if err != nil {
		return entry, decodeErr(value.KindStream, "%s", err.Error())
	}
	return entry, nil
}

type shapeError string

func (e shapeError) Error() string {
	return string(e)
}

func decodeStreamEntry(reply redis.Reply) (value.StreamEntry, error) {
	var entry value.StreamEntry
	parts, ok := protocol.Elements(reply)
	if !ok || len(parts) != 2 {
		return entry, shapeError("expected [id, fields]")
	}
	id, ok := protocol.Text(parts[0])
	if !ok {
		return entry, shapeError("id is not a string")
	}
	fields, ok := protocol.Elements(parts[1])
	if !ok {
		return entry, shapeError("fields is not an array")
	}
	if len(fields)%2 != 0 {
		return entry, shapeError("odd number of fields")
	}
	entry.ID = string(id)
	for i := 0; i < len(fields); i += 2 {
		field, ok1 := protocol.Text(fields[i])
		val, ok2 := protocol.Text(fields[i+1])
		if !ok1 || !ok2 {
			return entry, shapeError("field " + strconv.Itoa(i/2) + " is not a string pair")
		}
		entry.Fields = append(entry.Fields, value.Pair{Field: field, Val: val})
	}
	return entry, nil
}

// DecodeScan splits a SCAN reply into the next cursor and the keys
func DecodeScan(reply redis.Reply) (uint64, []string, error) {
	parts, ok := protocol.Elements(reply)
	if !ok || len(parts) != 2 {
		return 0, nil, decodeErr(value.KindArray, "scan reply must be [cursor, keys]")
	}
	rawCursor, ok := protocol.Text(parts[0])
	if !ok {
		return 0, nil, decodeErr(value.KindArray, "scan cursor is %s", protocol.KindOf(parts[0]))
	}
	cursor, err := strconv.ParseUint(string(rawCursor), 10, 64)
	if err != nil {
		return 0, nil, decodeErr(value.KindArray, "scan cursor %q is not an unsigned integer", rawCursor)
	}
	raw, err := textElements(parts[1], value.KindArray)
	if err != nil {
		return 0, nil, err
	}
	keys := make([]string, len(raw))
	for i, k := range raw {
		keys[i] = string(k)
	}
	return cursor, keys, nil
}

// DecodeTTL converts a TTL reply, -1 is NoTTL and -2 is ExpiredTTL
func DecodeTTL(reply redis.Reply) (value.TTL, error) {
	n, err := DecodeInteger(reply)
	if err != nil {
		return 0, err
	}
	if n < 0 && n != int64(value.NoTTL) {
		return value.ExpiredTTL, nil
	}
	return value.TTL(n), nil
}

// DecodeInteger returns the payload of an integer reply
func DecodeInteger(reply redis.Reply) (int64, error) {
	if e, ok := reply.(protocol.ErrorReply); ok {
		return 0, &errs.ServerError{Command: "integer", Msg: e.Error()}
	}
	n, ok := reply.(*protocol.IntReply)
	if !ok {
		return 0, decodeErr(value.KindInteger, "expected integer, got %s", protocol.KindOf(reply))
	}
	return n.Code, nil
}

// DecodeInfo parses the key:value lines of an INFO reply, section headers and blank lines are skipped
func DecodeInfo(reply redis.Reply) (*value.MapValue, error) {
	text, ok := protocol.Text(reply)
	if !ok {
		return nil, decodeErr(value.KindMap, "expected bulk, got %s", protocol.KindOf(reply))
	}
	m := value.MakeMap()
	for _, line := range strings.Split(string(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == '#' {
			continue
		}
		idx := strings.IndexByte(line, ':')
		if idx < 0 {
			continue
		}
		m.Pairs = append(m.Pairs, value.MakePair(line[:idx], line[idx+1:]))
	}
	return m, nil
}

func parseFloat(raw []byte) (float64, error) {
	s := string(bytes.TrimSpace(raw))
	switch strings.ToLower(s) {
	case "inf", "+inf":
		s = "+Inf"
	case "-inf":
		s = "-Inf"
	}
	return strconv.ParseFloat(s, 64)
}
