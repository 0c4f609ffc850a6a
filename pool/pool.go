// Package pool keeps authenticated connections to one server ready for reuse
package pool

import (
	"context"
	"errors"

	pool "github.com/jolestar/go-commons-pool/v2"

	"github.com/hdt3213/nosqlcore/config"
	"github.com/hdt3213/nosqlcore/engine"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/lib/logger"
	"github.com/hdt3213/nosqlcore/redis/client"
	"github.com/hdt3213/nosqlcore/redis/goredis"
)

// Transport names accepted by DialerFor
const (
	TransportTCP     = "tcp"
	TransportGoRedis = "goredis"
)

// DialerFor builds the dialer of props over the named transport, empty means tcp
func DialerFor(props *config.Properties, transport string) (core.Dialer, error) {
	switch transport {
	case "", TransportTCP:
		return client.Dialer(props.Addr(), client.Options{
			DialTimeout:  props.DialTimeout,
			ReadTimeout:  props.IOTimeout,
			WriteTimeout: props.IOTimeout,
		}), nil
	case TransportGoRedis:
		return goredis.Dialer(goredis.Options{
			Addr:        props.Addr(),
			DialTimeout: props.DialTimeout,
			IOTimeout:   props.IOTimeout,
		}), nil
	}
	return nil, errors.New("unknown transport: " + transport)
}

type settings struct {
	maxTotal int
	maxIdle  int
	connOpts []engine.Option
}

// Option configures a Pool
type Option func(*settings)

// WithMaxTotal limits the number of connections, borrowers block when it is reached
func WithMaxTotal(n int) Option {
	return func(s *settings) {
		s.maxTotal = n
	}
}

// WithMaxIdle limits the number of idle connections
func WithMaxIdle(n int) Option {
	return func(s *settings) {
		s.maxIdle = n
	}
}

// WithConnectionOptions are applied to every new connection
func WithConnectionOptions(opts ...engine.Option) Option {
	return func(s *settings) {
		s.connOpts = append(s.connOpts, opts...)
	}
}

// Pool lends connections, a borrowed connection belongs to the borrower until it is returned
type Pool struct {
	objects *pool.ObjectPool
}

type connectionFactory struct {
	props  *config.Properties
	dialer core.Dialer
	opts   []engine.Option
}

func (f *connectionFactory) MakeObject(ctx context.Context) (*pool.PooledObject, error) {
	backend, err := f.props.BackendType()
	if err != nil {
		return nil, err
	}
	opts := append([]engine.Option{engine.WithAddr(f.props.Addr())}, f.opts...)
	conn := engine.NewConnection(backend, f.dialer, opts...)
	if err := conn.Open(ctx, f.props); err != nil {
		_ = conn.Disconnect()
		return nil, err
	}
	return pool.NewPooledObject(conn), nil
}

func (f *connectionFactory) DestroyObject(ctx context.Context, object *pool.PooledObject) error {
	conn, ok := object.Object.(*engine.Connection)
	if !ok {
		return errors.New("type mismatch")
	}
	return conn.Disconnect()
}

func (f *connectionFactory) ValidateObject(ctx context.Context, object *pool.PooledObject) bool {
	conn, ok := object.Object.(*engine.Connection)
	return ok && conn.State() == engine.Authenticated
}

// ActivateObject restores the configured database if the previous borrower changed it
func (f *connectionFactory) ActivateObject(ctx context.Context, object *pool.PooledObject) error {
	conn, ok := object.Object.(*engine.Connection)
	if !ok {
		return errors.New("type mismatch")
	}
	if conn.DB() != f.props.DB {
		return conn.Select(ctx, f.props.DB)
	}
	return nil
}

func (f *connectionFactory) PassivateObject(ctx context.Context, object *pool.PooledObject) error {
	return nil
}

// New creates a pool of connections described by props, a nil dialer means the tcp transport
func New(ctx context.Context, props *config.Properties, dialer core.Dialer, opts ...Option) (*Pool, error) {
	if dialer == nil {
		var err error
		if dialer, err = DialerFor(props, TransportTCP); err != nil {
			return nil, err
		}
	}
	if _, err := props.BackendType(); err != nil {
		return nil, err
	}
	s := &settings{
		maxTotal: pool.DefaultMaxTotal,
		maxIdle:  pool.DefaultMaxIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	cfg := pool.NewDefaultPoolConfig()
	cfg.MaxTotal = s.maxTotal
	cfg.MaxIdle = s.maxIdle
	cfg.TestOnBorrow = true
	cfg.TestOnReturn = true
	factory := &connectionFactory{props: props, dialer: dialer, opts: s.connOpts}
	return &Pool{objects: pool.NewObjectPool(ctx, factory, cfg)}, nil
}

// Borrow takes an idle connection or opens a new one, ctx bounds the wait when the pool is exhausted
func (p *Pool) Borrow(ctx context.Context) (*engine.Connection, error) {
	raw, err := p.objects.BorrowObject(ctx)
	if err != nil {
		return nil, err
	}
	return raw.(*engine.Connection), nil
}

// Return gives conn back to the pool, a dropped connection is destroyed
func (p *Pool) Return(ctx context.Context, conn *engine.Connection) error {
	return p.objects.ReturnObject(ctx, conn)
}

// Invalidate destroys a borrowed connection which must not be reused
func (p *Pool) Invalidate(ctx context.Context, conn *engine.Connection) error {
	return p.objects.InvalidateObject(ctx, conn)
}

// Active returns the number of borrowed connections
func (p *Pool) Active() int {
	return p.objects.GetNumActive()
}

// Idle returns the number of idle connections
func (p *Pool) Idle() int {
	return p.objects.GetNumIdle()
}

// Close destroys idle connections, borrowed ones are destroyed when returned
func (p *Pool) Close(ctx context.Context) {
	p.objects.Close(ctx)
	logger.Debug("connection pool closed")
}
