package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/config"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/redis/client"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/redis/protocol/asserts"
	"github.com/hdt3213/nosqlcore/value"
)

// recorder collects observer notifications
type recorder struct {
	core.NopObserver
	mu      sync.Mutex
	added   []*value.KeyValue
	removed [][]string
	loaded  []*value.KeyValue
	ttls    map[string]value.TTL
	renamed [][2]string
	modules []string
}

func newRecorder() *recorder {
	return &recorder{ttls: make(map[string]value.TTL)}
}

func (r *recorder) OnAddedKey(kv *value.KeyValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.added = append(r.added, kv)
}

func (r *recorder) OnRemovedKeys(keys []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, keys)
}

func (r *recorder) OnLoadedKey(kv *value.KeyValue) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loaded = append(r.loaded, kv)
}

func (r *recorder) OnLoadedKeyTTL(key string, ttl value.TTL) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ttls[key] = ttl
}

func (r *recorder) OnChangedKeyTTL(key string, ttl value.TTL) {
	r.OnLoadedKeyTTL(key, ttl)
}

func (r *recorder) OnRenamedKey(oldKey, newKey string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renamed = append(r.renamed, [2]string{oldKey, newKey})
}

func (r *recorder) OnLoadedModule(info *value.ModuleInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, "+"+info.Name)
}

func (r *recorder) OnUnLoadedModule(info *value.ModuleInfo) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modules = append(r.modules, "-"+info.Name)
}

// open returns an authenticated connection over fake
func open(t *testing.T, fake *client.FakeTransport, opts ...Option) *Connection {
	t.Helper()
	conn := NewConnection(command.Redis, fake.Dialer(), append([]Option{WithAddr("127.0.0.1:6379")}, opts...)...)
	require.NoError(t, conn.Connect(context.Background()))
	require.NoError(t, conn.Authenticate(context.Background(), ""))
	return conn
}

func TestConnectionLifecycle(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport()
	conn := NewConnection(command.Redis, fake.Dialer())
	assert.Equal(t, Disconnected, conn.State())

	var connErr *errs.ConnectionError
	assert.True(t, errors.As(conn.Authenticate(ctx, "pw"), &connErr))

	require.NoError(t, conn.Connect(ctx))
	assert.Equal(t, Connected, conn.State())
	require.NoError(t, conn.Connect(ctx))

	require.NoError(t, conn.Authenticate(ctx, ""))
	assert.Equal(t, Authenticated, conn.State())
	assert.Equal(t, 0, fake.SentCount())

	require.NoError(t, conn.Disconnect())
	require.NoError(t, conn.Disconnect())
	assert.Equal(t, Disconnected, conn.State())
	assert.Equal(t, 1, fake.CloseCount())
}

func TestConnectFailure(t *testing.T) {
	boom := errors.New("connection refused")
	conn := NewConnection(command.Redis, func(ctx context.Context) (core.Transport, error) {
		return nil, boom
	}, WithAddr("10.0.0.1:6379"))
	err := conn.Connect(context.Background())
	var connErr *errs.ConnectionError
	require.True(t, errors.As(err, &connErr))
	assert.Equal(t, "10.0.0.1:6379", connErr.Addr)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, Disconnected, conn.State())
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport().
		Reply("AUTH", protocol.MakeErrReply("WRONGPASS invalid username-password pair"), protocol.MakeOkReply())
	conn := NewConnection(command.Redis, fake.Dialer())
	require.NoError(t, conn.Connect(ctx))

	var authErr *errs.AuthError
	assert.True(t, errors.As(conn.Authenticate(ctx, "bad"), &authErr))
	assert.Equal(t, Connected, conn.State())

	require.NoError(t, conn.Authenticate(ctx, "good"))
	assert.Equal(t, Authenticated, conn.State())
	asserts.AssertCmdLine(t, fake.LastSent(), "AUTH", "good")
}

func TestAuthGate(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport().Reply("PING", protocol.MakeStatusReply("PONG"))
	conn := NewConnection(command.Redis, fake.Dialer())
	require.NoError(t, conn.Connect(ctx))

	var authErr *errs.AuthError
	_, err := conn.Get(ctx, "k", value.KindString)
	assert.True(t, errors.As(err, &authErr))
	_, err = conn.Delete(ctx, "a", "b")
	assert.True(t, errors.As(err, &authErr))
	assert.True(t, errors.As(conn.Set(ctx, value.MakeKeyValue("k", value.MakeString([]byte("v")))), &authErr))
	_, err = conn.DiscoverSentinel(ctx)
	assert.True(t, errors.As(err, &authErr))
	_, err = conn.ExecuteString(ctx, "GET k")
	assert.True(t, errors.As(err, &authErr))
	assert.Equal(t, 0, fake.SentCount())

	v, err := conn.ExecuteString(ctx, "PING")
	require.NoError(t, err)
	assert.Equal(t, value.MakeString([]byte("PONG")), v)
	assert.Equal(t, 1, fake.SentCount())
}

func TestOpen(t *testing.T) {
	fake := client.NewFakeTransport().
		Reply("AUTH", protocol.MakeOkReply()).
		Reply("SELECT", protocol.MakeOkReply())
	conn := NewConnection(command.Redis, fake.Dialer())
	props := config.Default()
	props.Password = "secret"
	props.DB = 2
	require.NoError(t, conn.Open(context.Background(), props))
	assert.Equal(t, Authenticated, conn.State())
	assert.Equal(t, 2, conn.DB())
	asserts.AssertCmdLine(t, fake.LastSent(), "SELECT", "2")
}

func TestTransportFailure(t *testing.T) {
	ctx := context.Background()
	fake := client.NewFakeTransport().Fail("GET", errors.New("i/o timeout"))
	conn := open(t, fake)
	_, err := conn.Get(ctx, "k", value.KindString)
	var connErr *errs.ConnectionError
	assert.True(t, errors.As(err, &connErr))
	assert.Equal(t, Disconnected, conn.State())
	assert.Equal(t, 1, fake.CloseCount())
	require.NoError(t, conn.Disconnect())
	assert.Equal(t, 1, fake.CloseCount())
}

func TestCanceledContext(t *testing.T) {
	fake := client.NewFakeTransport()
	conn := open(t, fake)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := conn.GetTTL(ctx, "k")
	var connErr *errs.ConnectionError
	assert.True(t, errors.As(err, &connErr))
	assert.Equal(t, 0, fake.SentCount())
}

func TestSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	fake := client.NewFakeTransport().
		Reply("DBSIZE", protocol.MakeIntReply(7)).
		Reply("TTL", protocol.MakeErrReply("ERR boom"))
	conn := open(t, fake, WithTracer(provider.Tracer("test")))

	size, err := conn.DBSize(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)
	_, err = conn.GetTTL(context.Background(), "k")
	var serverErr *errs.ServerError
	assert.True(t, errors.As(err, &serverErr))

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, "DBSIZE", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.String("db.system", "redis"))
	assert.Equal(t, "TTL", spans[1].Name())
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}
