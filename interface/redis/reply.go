package redis

// Reply is the interface of redis serialization protocol message.
// Replies are produced by the transport and consumed by the translator,
// they are never retained by a connection after the call returns.
type Reply interface {
	ToBytes() []byte
}
