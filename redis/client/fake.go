package client

import (
	"context"
	"strings"
	"sync"

	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/protocol"
)

// Handler scripts the reply of a FakeTransport for one command
type Handler func(args [][]byte) (redis.Reply, error)

type script struct {
	replies []redis.Reply
	errs    []error
}

// FakeTransport implements core.Transport for tests.
// Replies are looked up by the upper-cased two-token name first ("CLUSTER NODES"),
// then by the first token. Queued replies are consumed in order before handlers run.
type FakeTransport struct {
	mu       sync.Mutex
	sent     [][][]byte
	queues   map[string]*script
	handlers map[string]Handler
	closed   bool
	closes   int
}

// NewFakeTransport creates an empty FakeTransport, every command answers an error reply until scripted
func NewFakeTransport() *FakeTransport {
	return &FakeTransport{
		queues:   make(map[string]*script),
		handlers: make(map[string]Handler),
	}
}

// On sets the handler of command name
func (f *FakeTransport) On(name string, handler Handler) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[normalize(name)] = handler
	return f
}

// Reply queues replies for command name, each one is sent once
func (f *FakeTransport) Reply(name string, replies ...redis.Reply) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.queue(name)
	for _, r := range replies {
		s.replies = append(s.replies, r)
		s.errs = append(s.errs, nil)
	}
	return f
}

// Fail queues an I/O error for command name
func (f *FakeTransport) Fail(name string, err error) *FakeTransport {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.queue(name)
	s.replies = append(s.replies, nil)
	s.errs = append(s.errs, err)
	return f
}

func (f *FakeTransport) queue(name string) *script {
	key := normalize(name)
	s, ok := f.queues[key]
	if !ok {
		s = &script{}
		f.queues[key] = s
	}
	return s
}

// Send records args and returns the scripted reply
func (f *FakeTransport) Send(args [][]byte) (redis.Reply, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	copied := make([][]byte, len(args))
	for i, arg := range args {
		copied[i] = append([]byte{}, arg...)
	}
	f.sent = append(f.sent, copied)
	var candidates []string
	if len(args) > 1 {
		candidates = append(candidates, normalize(string(args[0])+" "+string(args[1])))
	}
	if len(args) > 0 {
		candidates = append(candidates, normalize(string(args[0])))
	}
	for _, name := range candidates {
		if s, ok := f.queues[name]; ok && len(s.replies) > 0 {
			reply, err := s.replies[0], s.errs[0]
			s.replies, s.errs = s.replies[1:], s.errs[1:]
			f.mu.Unlock()
			return reply, err
		}
	}
	for _, name := range candidates {
		if handler, ok := f.handlers[name]; ok {
			f.mu.Unlock()
			return handler(copied)
		}
	}
	f.mu.Unlock()
	if len(args) == 0 {
		return protocol.MakeErrReply("ERR empty command"), nil
	}
	return protocol.MakeErrReply("ERR unknown command '" + string(args[0]) + "'"), nil
}

// Close marks the transport closed
func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.closes++
	return nil
}

// Sent returns every recorded command line
func (f *FakeTransport) Sent() [][][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([][][]byte, len(f.sent))
	copy(result, f.sent)
	return result
}

// SentCount returns the number of recorded sends
func (f *FakeTransport) SentCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

// LastSent returns the latest command line, nil if nothing was sent
func (f *FakeTransport) LastSent() [][]byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

// CloseCount returns how many times Close was called
func (f *FakeTransport) CloseCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closes
}

// Dialer returns a core.Dialer which always hands out this transport
func (f *FakeTransport) Dialer() core.Dialer {
	return func(ctx context.Context) (core.Transport, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f.mu.Lock()
		f.closed = false
		f.mu.Unlock()
		return f, nil
	}
}

func normalize(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}
