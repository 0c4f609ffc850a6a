// Package value is the typed domain model produced by decoding backend replies.
package value

import "strconv"

// Kind is the tag of a Value
type Kind int

// Value kinds
const (
	KindNull Kind = iota
	KindError
	KindInteger
	KindDouble
	KindBoolean
	KindString
	KindArray
	KindMap
	KindSet
	KindSortedSet
	KindStream
	KindJSON
)

var kindNames = [...]string{
	KindNull:      "null",
	KindError:     "error",
	KindInteger:   "integer",
	KindDouble:    "double",
	KindBoolean:   "boolean",
	KindString:    "string",
	KindArray:     "array",
	KindMap:       "map",
	KindSet:       "set",
	KindSortedSet: "zset",
	KindStream:    "stream",
	KindJSON:      "json",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a closed tagged union, only the variants of this package implement it
type Value interface {
	Kind() Kind
	isValue()
}

// NullValue represents a missing value
type NullValue struct{}

// ErrorValue is an error reply nested inside an array
type ErrorValue struct {
	Msg string
}

// IntegerValue stores int64
type IntegerValue struct {
	Val int64
}

// DoubleValue stores float64
type DoubleValue struct {
	Val float64
}

// BooleanValue stores bool
type BooleanValue struct {
	Val bool
}

// StringValue stores a binary safe string
type StringValue struct {
	Val []byte
}

// ArrayValue is an ordered sequence of values, it is also the list type
type ArrayValue struct {
	Items []Value
}

// Pair is a field/value pair of a hash or a stream entry
type Pair struct {
	Field []byte
	Val   []byte
}

// MapValue keeps pairs in insertion order
type MapValue struct {
	Pairs []Pair
}

// SetValue stores unordered members
type SetValue struct {
	Members [][]byte
}

// ScoredMember is an element of a sorted set
type ScoredMember struct {
	Member []byte
	Score  float64
}

// SortedSetValue keeps members in the order the backend returned them
type SortedSetValue struct {
	Members []ScoredMember
}

// StreamEntry is one entry of a stream
type StreamEntry struct {
	ID     string
	Fields []Pair
}

// StreamValue is an ordered sequence of stream entries
type StreamValue struct {
	Entries []StreamEntry
}

// JSONValue stores a serialized JSON document
type JSONValue struct {
	Doc []byte
}

func (*NullValue) Kind() Kind { return KindNull }
func (*ErrorValue) Kind() Kind { return KindError }
func (*IntegerValue) Kind() Kind { return KindInteger }
func (*DoubleValue) Kind() Kind { return KindDouble }
func (*BooleanValue) Kind() Kind { return KindBoolean }
func (*StringValue) Kind() Kind { return KindString }
func (*ArrayValue) Kind() Kind { return KindArray }
func (*MapValue) Kind() Kind { return KindMap }
func (*SetValue) Kind() Kind { return KindSet }
func (*SortedSetValue) Kind() Kind { return KindSortedSet }
func (*StreamValue) Kind() Kind { return KindStream }
func (*JSONValue) Kind() Kind { return KindJSON }

func (*NullValue) isValue() {}
func (*ErrorValue) isValue() {}
func (*IntegerValue) isValue() {}
func (*DoubleValue) isValue() {}
func (*BooleanValue) isValue() {}
func (*StringValue) isValue() {}
func (*ArrayValue) isValue() {}
func (*MapValue) isValue() {}
func (*SetValue) isValue() {}
func (*SortedSetValue) isValue() {}
func (*StreamValue) isValue() {}
func (*JSONValue) isValue() {}

var theNull = &NullValue{}

// MakeNull returns the null value
func MakeNull() *NullValue {
	return theNull
}

// MakeError creates ErrorValue
func MakeError(msg string) *ErrorValue {
	return &ErrorValue{Msg: msg}
}

// MakeInteger creates IntegerValue
func MakeInteger(val int64) *IntegerValue {
	return &IntegerValue{Val: val}
}

// MakeDouble creates DoubleValue
func MakeDouble(val float64) *DoubleValue {
	return &DoubleValue{Val: val}
}

// MakeBoolean creates BooleanValue
func MakeBoolean(val bool) *BooleanValue {
	return &BooleanValue{Val: val}
}

// MakeString creates StringValue
func MakeString(val []byte) *StringValue {
	return &StringValue{Val: val}
}

// MakeArray creates ArrayValue
func MakeArray(items ...Value) *ArrayValue {
	return &ArrayValue{Items: items}
}

// MakeList creates an ArrayValue of strings
func MakeList(items ...[]byte) *ArrayValue {
	values := make([]Value, len(items))
	for i, item := range items {
		values[i] = MakeString(item)
	}
	return &ArrayValue{Items: values}
}

// MakeMap creates MapValue
func MakeMap(pairs ...Pair) *MapValue {
	return &MapValue{Pairs: pairs}
}

// MakeSet creates SetValue
func MakeSet(members ...[]byte) *SetValue {
	return &SetValue{Members: members}
}

// MakeSortedSet creates SortedSetValue
func MakeSortedSet(members ...ScoredMember) *SortedSetValue {
	return &SortedSetValue{Members: members}
}

// MakeStream creates StreamValue
func MakeStream(entries ...StreamEntry) *StreamValue {
	return &StreamValue{Entries: entries}
}

// MakeJSON creates JSONValue
func MakeJSON(doc []byte) *JSONValue {
	return &JSONValue{Doc: doc}
}

// MakePair creates a Pair from strings
func MakePair(field, val string) Pair {
	return Pair{Field: []byte(field), Val: []byte(val)}
}

// Get returns the value of field, ok is false if field is absent
func (m *MapValue) Get(field string) ([]byte, bool) {
	for _, p := range m.Pairs {
		if string(p.Field) == field {
			return p.Val, true
		}
	}
	return nil, false
}

// Strings returns the string items of a list, ok is false if any item is not a string
func (a *ArrayValue) Strings() ([][]byte, bool) {
	result := make([][]byte, len(a.Items))
	for i, item := range a.Items {
		s, ok := item.(*StringValue)
		if !ok {
			return nil, false
		}
		result[i] = s.Val
	}
	return result, true
}
