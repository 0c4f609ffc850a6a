// Package engine drives one backend connection: authentication gate, typed operations and raw dispatch.
package engine

import (
	"context"
	"net"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/config"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/translator"
)

// State of a Connection
type State int32

// Connection states
const (
	Disconnected State = iota
	Connected
	Authenticated
)

func (s State) String() string {
	switch s {
	case Connected:
		return "connected"
	case Authenticated:
		return "authenticated"
	}
	return "disconnected"
}

const tracerName = "github.com/hdt3213/nosqlcore/engine"

// Connection owns one transport and runs one command at a time
type Connection struct {
	// mu serializes round trips, multi step operations hold it for their whole duration
	mu        sync.Mutex
	state     atomic.Int32
	transport core.Transport

	backend    command.Backend
	dialer     core.Dialer
	addr       string
	db         int
	registry   *command.Registry
	internal   *command.Registry
	translator *translator.Translator
	observer   core.Observer
	modules    core.ModuleObserver
	tracer     trace.Tracer
}

// Option configures a Connection
type Option func(*Connection)

// WithObserver sets the key notification observer
func WithObserver(o core.Observer) Option {
	return func(c *Connection) {
		c.observer = o
	}
}

// WithModuleObserver sets the module notification observer
func WithModuleObserver(o core.ModuleObserver) Option {
	return func(c *Connection) {
		c.modules = o
	}
}

// WithRegistry replaces the builtin registry of the backend
func WithRegistry(r *command.Registry) Option {
	return func(c *Connection) {
		c.registry = r
	}
}

// WithInternalRegistry replaces the builtin internal registry
func WithInternalRegistry(r *command.Registry) Option {
	return func(c *Connection) {
		c.internal = r
	}
}

// WithTracer sets the tracer of round trip spans
func WithTracer(t trace.Tracer) Option {
	return func(c *Connection) {
		c.tracer = t
	}
}

// WithAddr labels errors with addr, it is also the default host of cluster discovery
func WithAddr(addr string) Option {
	return func(c *Connection) {
		c.addr = addr
	}
}

// NewConnection creates a disconnected Connection
func NewConnection(backend command.Backend, dialer core.Dialer, opts ...Option) *Connection {
	c := &Connection{
		backend:  backend,
		dialer:   dialer,
		observer: core.NopObserver{},
		modules:  core.NopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = command.Builtin(backend)
	}
	if c.internal == nil {
		c.internal = command.BuiltinInternal()
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	c.translator = translator.New(backend, c.registry)
	return c
}

// State returns the current state
func (c *Connection) State() State {
	return State(c.state.Load())
}

func (c *Connection) setState(s State) {
	c.state.Store(int32(s))
}

// Backend returns the backend fixed at construction
func (c *Connection) Backend() command.Backend {
	return c.backend
}

// Registry returns the command registry
func (c *Connection) Registry() *command.Registry {
	return c.registry
}

// Translator returns the command translator
func (c *Connection) Translator() *translator.Translator {
	return c.translator
}

// Addr returns the address given by WithAddr
func (c *Connection) Addr() string {
	return c.addr
}

// DB returns the last selected database
func (c *Connection) DB() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db
}

// Connect dials the transport, it does nothing if already connected
func (c *Connection) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.State() != Disconnected {
		return nil
	}
	transport, err := c.dialer(ctx)
	if err != nil {
		return &errs.ConnectionError{Addr: c.addr, Err: err}
	}
	c.transport = transport
	c.setState(Connected)
	logger.Debug("connected to " + c.label())
	return nil
}

// Authenticate sends AUTH, an empty password authenticates without any round trip
func (c *Connection) Authenticate(ctx context.Context, password string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.authenticate(ctx, [][]byte{[]byte(password)})
}

func (c *Connection) authenticate(ctx context.Context, args [][]byte) error {
	if c.State() == Disconnected {
		return &errs.ConnectionError{Addr: c.addr}
	}
	if len(args) == 0 || (len(args) == 1 && len(args[0]) == 0) {
		c.setState(Authenticated)
		return nil
	}
	cmd, err := c.translator.Encode(translator.OpAuth, args...)
	if err != nil {
		return err
	}
	reply, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return err
	}
	if e, ok := reply.(protocol.ErrorReply); ok {
		return &errs.AuthError{Command: "AUTH", Err: &errs.ServerError{Command: "AUTH", Msg: e.Error()}}
	}
	if !protocol.IsOKReply(reply) {
		return &errs.AuthError{Command: "AUTH", Err: c.protocolError(cmd, reply, "OK")}
	}
	c.setState(Authenticated)
	return nil
}

// Disconnect closes the transport, it is idempotent
func (c *Connection) Disconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.drop()
}

func (c *Connection) drop() error {
	c.setState(Disconnected)
	if c.transport == nil {
		return nil
	}
	err := c.transport.Close()
	c.transport = nil
	return err
}

// Open connects, authenticates and selects the database of props
func (c *Connection) Open(ctx context.Context, props *config.Properties) error {
	if err := c.Connect(ctx); err != nil {
		return err
	}
	if err := c.Authenticate(ctx, props.Password); err != nil {
		return err
	}
	if props.DB != 0 {
		return c.Select(ctx, props.DB)
	}
	return nil
}

func (c *Connection) label() string {
	if c.addr == "" {
		return c.backend.String()
	}
	return c.backend.String() + "@" + c.addr
}

func (c *Connection) host() string {
	host, _, err := net.SplitHostPort(c.addr)
	if err != nil {
		return c.addr
	}
	return host
}

// gate rejects operations on a connection that is not authenticated
func (c *Connection) gate(name string) error {
	switch c.State() {
	case Authenticated:
		return nil
	case Disconnected:
		return &errs.AuthError{Command: name, Err: &errs.ConnectionError{Addr: c.addr}}
	}
	return &errs.AuthError{Command: name}
}

// roundTrip sends cmd and waits for its reply, the caller holds mu
func (c *Connection) roundTrip(ctx context.Context, cmd translator.CommandBuffer) (reply redis.Reply, err error) {
	_, span := c.tracer.Start(ctx, cmd.Name(),
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("db.system", c.backend.String())),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else if e, ok := reply.(protocol.ErrorReply); ok {
			span.SetStatus(codes.Error, e.Error())
		}
		span.End()
	}()
	if err := ctx.Err(); err != nil {
		return nil, &errs.ConnectionError{Addr: c.addr, Err: err}
	}
	if c.transport == nil {
		return nil, &errs.ConnectionError{Addr: c.addr}
	}
	reply, err = c.transport.Send(cmd)
	if err != nil {
		logger.Warn("send " + cmd.Name() + " to " + c.label() + " failed: " + err.Error())
		// the transport is unusable after an I/O error
		_ = c.drop()
		return nil, &errs.ConnectionError{Addr: c.addr, Err: err}
	}
	if reply == nil {
		reply = protocol.MakeNullBulkReply()
	}
	return reply, nil
}

func (c *Connection) protocolError(cmd translator.CommandBuffer, reply redis.Reply, expected string) error {
	err := &errs.ProtocolError{Command: cmd.Name(), Expected: expected, Actual: protocol.KindOf(reply).String()}
	logger.Error(err.Error())
	return err
}

// expect classifies reply: an error reply is a ServerError, a discriminant outside kinds is a ProtocolError
func (c *Connection) expect(cmd translator.CommandBuffer, reply redis.Reply, kinds ...protocol.Kind) error {
	actual := protocol.KindOf(reply)
	if actual == protocol.KindError {
		return &errs.ServerError{Command: cmd.Name(), Msg: reply.(protocol.ErrorReply).Error()}
	}
	for _, k := range kinds {
		if k == actual {
			return nil
		}
	}
	names := make([]byte, 0, 16)
	for i, k := range kinds {
		if i > 0 {
			names = append(names, '|')
		}
		names = append(names, k.String()...)
	}
	return c.protocolError(cmd, reply, string(names))
}

// call sends cmd and classifies its reply, the caller holds mu and has passed the gate
func (c *Connection) call(ctx context.Context, cmd translator.CommandBuffer, kinds ...protocol.Kind) (redis.Reply, error) {
	reply, err := c.roundTrip(ctx, cmd)
	if err != nil {
		return nil, err
	}
	if err := c.expect(cmd, reply, kinds...); err != nil {
		return nil, err
	}
	return reply, nil
}

// notify runs fn against the observer, a panic is logged and swallowed
func (c *Connection) notify(fn func(o core.Observer)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("observer panic: %v", r)
		}
	}()
	fn(c.observer)
}

func (c *Connection) notifyModule(fn func(o core.ModuleObserver)) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("module observer panic: %v", r)
		}
	}()
	fn(c.modules)
}
