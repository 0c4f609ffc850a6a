package protocol

import "github.com/hdt3213/nosqlcore/interface/redis"

// Kind is the discriminant of a raw reply
type Kind int

// Reply discriminants
const (
	KindUnknown Kind = iota
	KindStatus
	KindError
	KindInteger
	KindString
	KindArray
	KindNil
)

var kindNames = []string{"unknown", "status", "error", "integer", "string", "array", "nil"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[0]
	}
	return kindNames[k]
}

// KindOf returns the discriminant of the given reply
func KindOf(reply redis.Reply) Kind {
	switch reply.(type) {
	case nil:
		return KindNil
	case *StatusReply, *OkReply:
		return KindStatus
	case ErrorReply:
		return KindError
	case *IntReply:
		return KindInteger
	case *BulkReply:
		return KindString
	case *MultiBulkReply, *MultiRawReply, *EmptyMultiBulkReply:
		return KindArray
	case *NullBulkReply, *NullMultiBulkReply:
		return KindNil
	}
	return KindUnknown
}

// Elements returns the nested replies of an array reply.
// ok is false if reply is not an array.
func Elements(reply redis.Reply) (elements []redis.Reply, ok bool) {
	switch r := reply.(type) {
	case *MultiRawReply:
		return r.Replies, true
	case *EmptyMultiBulkReply:
		return nil, true
	case *MultiBulkReply:
		elements = make([]redis.Reply, len(r.Args))
		for i, arg := range r.Args {
			if arg == nil {
				elements[i] = MakeNullBulkReply()
			} else {
				elements[i] = MakeBulkReply(arg)
			}
		}
		return elements, true
	}
	return nil, false
}

// Text returns the payload of a status or bulk reply
func Text(reply redis.Reply) ([]byte, bool) {
	switch r := reply.(type) {
	case *BulkReply:
		return r.Arg, true
	case *StatusReply:
		return []byte(r.Status), true
	case *OkReply:
		return []byte("OK"), true
	}
	return nil, false
}
