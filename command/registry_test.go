package command

import (
	"errors"
	"strconv"
	"testing"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/lib/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinUnique(t *testing.T) {
	for _, r := range []*Registry{Builtin(Redis), Builtin(Pika), Builtin(Dynomite), BuiltinInternal()} {
		assert.NoError(t, r.checkUnique(), r.Name())
		assert.Greater(t, r.Len(), 0)
		seen := make(map[string]bool)
		for _, d := range r.All() {
			n := Normalize(d.Name)
			assert.False(t, seen[n], "duplicate %s in %s", n, r.Name())
			seen[n] = true
		}
	}
}

func TestGetArity(t *testing.T) {
	r := Builtin(Redis)
	get, ok := r.Find("GET")
	if !ok {
		t.Fatal("GET not found")
	}
	assert.Equal(t, 1, get.MinArgs)
	assert.Equal(t, 0, get.MaxArgs)

	assert.NoError(t, r.Validate(get, utils.ToCmdLine("key")))

	var arityErr *errs.ArityError
	err := r.Validate(get, nil)
	assert.True(t, errors.As(err, &arityErr))
	assert.Equal(t, 0, arityErr.Got)

	err = r.Validate(get, utils.ToCmdLine("key", "extra"))
	assert.True(t, errors.As(err, &arityErr))
	assert.Equal(t, 2, arityErr.Got)
}

func TestUnboundedArity(t *testing.T) {
	r := Builtin(Redis)
	del, _ := r.Find("del")
	assert.True(t, del.IsUnbounded())
	var arityErr *errs.ArityError
	assert.True(t, errors.As(r.Validate(del, nil), &arityErr))
	args := make([][]byte, 0, 1000)
	for i := 0; i < 1000; i++ {
		args = append(args, []byte("key:"+strconv.Itoa(i)))
		assert.NoError(t, r.Validate(del, args))
	}
}

func TestValidatorChain(t *testing.T) {
	r := Builtin(Redis)
	expire, _ := r.Find("EXPIRE")
	var validationErr *errs.ValidationError
	err := r.Validate(expire, utils.ToCmdLine("k", "soon"))
	assert.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Reason, "not an integer")
	assert.NoError(t, r.Validate(expire, utils.ToCmdLine("k", "10")))

	jsonSet, _ := r.Find("JSON.SET")
	assert.NoError(t, r.Validate(jsonSet, utils.ToCmdLine("doc", ".", `{"a":[1,2]}`)))
	assert.Error(t, r.Validate(jsonSet, utils.ToCmdLine("doc", ".", `{"a":`)))
	assert.Error(t, r.Validate(jsonSet, utils.ToCmdLine("doc", ".", `1`, "YY")))

	zadd, _ := r.Find("ZADD")
	assert.NoError(t, r.Validate(zadd, utils.ToCmdLine("z", "NX", "CH", "1.5", "a", "2", "b")))
	assert.Error(t, r.Validate(zadd, utils.ToCmdLine("z", "1.5", "a", "2")))
	assert.Error(t, r.Validate(zadd, utils.ToCmdLine("z", "one", "a")))

	hset, _ := r.Find("HSET")
	assert.Error(t, r.Validate(hset, utils.ToCmdLine("h", "f1", "v1", "f2")))

	scan, _ := r.Find("SCAN")
	assert.NoError(t, r.Validate(scan, utils.ToCmdLine("0", "MATCH", "k*", "count", "10")))
	err = r.Validate(scan, utils.ToCmdLine("0", "COUNT", "abc"))
	require.True(t, errors.As(err, &validationErr))
	assert.Contains(t, validationErr.Reason, "COUNT")
	hscan, _ := r.Find("HSCAN")
	assert.Error(t, r.Validate(hscan, utils.ToCmdLine("h", "0", "MATCH", "*", "COUNT", "x")))
}

func TestFind(t *testing.T) {
	r := Builtin(Redis)
	d, ok := r.Find("  client   getname ")
	assert.True(t, ok)
	assert.Equal(t, "CLIENT GETNAME", d.Name)

	_, ok = r.Find("NOSUCH")
	assert.False(t, ok)

	d, argv, ok := r.FindCommandLine(utils.ToCmdLine("client", "setname", "cli"))
	assert.True(t, ok)
	assert.Equal(t, "CLIENT SETNAME", d.Name)
	assert.Equal(t, utils.ToCmdLine("cli"), argv)

	// COMMAND alone and COMMAND COUNT are both registered
	d, argv, ok = r.FindCommandLine(utils.ToCmdLine("command"))
	assert.True(t, ok)
	assert.Equal(t, "COMMAND", d.Name)
	assert.Empty(t, argv)

	d, argv, ok = r.FindCommandLine(utils.ToCmdLine("get", "count"))
	assert.True(t, ok)
	assert.Equal(t, "GET", d.Name)
	assert.Equal(t, utils.ToCmdLine("count"), argv)

	_, _, ok = r.FindCommandLine(nil)
	assert.False(t, ok)
}

func TestPrefixAndMatch(t *testing.T) {
	r := Builtin(Redis)
	names := func(ds []*Descriptor) []string {
		result := make([]string, len(ds))
		for i, d := range ds {
			result[i] = d.Name
		}
		return result
	}
	assert.Equal(t, []string{"SLOWLOG GET", "SLOWLOG LEN", "SLOWLOG RESET"}, names(r.FindByPrefix("slowlog ")))
	assert.Contains(t, names(r.FindByPrefix("ZRANGE")), "ZRANGEBYSCORE")
	assert.Empty(t, r.FindByPrefix("ZZZ"))

	matched := names(r.Match("sentinel *"))
	assert.Contains(t, matched, "SENTINEL MASTERS")
	assert.Contains(t, matched, "SENTINEL SLAVES")
	assert.NotContains(t, matched, "SET")
	assert.Equal(t, []string{"HGET", "HSET"}, names(r.Match("h[gs]et")))
}

func TestUnvalidated(t *testing.T) {
	var names []string
	for _, d := range Builtin(Redis).Unvalidated() {
		assert.Equal(t, Extended, d.Category)
		names = append(names, d.Name)
	}
	assert.Contains(t, names, "GETUNI")
	assert.Contains(t, names, "LFASTOSET")
	assert.NotContains(t, names, "HFASTOSET")
}

func TestBackendTables(t *testing.T) {
	pika := Builtin(Pika)
	for _, name := range []string{"XADD", "JSON.SET", "MODULE LOAD", "SENTINEL MASTERS", "CLUSTER NODES", "CL.THROTTLE"} {
		_, ok := pika.Find(name)
		assert.False(t, ok, name)
	}
	_, ok := pika.Find("SELECT")
	assert.True(t, ok)

	dyno := Builtin(Dynomite)
	for _, name := range []string{"SELECT", "MULTI", "EXEC", "WATCH", "XRANGE", "CLUSTER NODES"} {
		_, ok := dyno.Find(name)
		assert.False(t, ok, name)
	}
	_, ok = dyno.Find("RENAME")
	assert.True(t, ok)

	b, err := ParseBackend(" Dynomite ")
	assert.NoError(t, err)
	assert.Equal(t, Dynomite, b)
	_, err = ParseBackend("memcached")
	assert.Error(t, err)
}

func TestInternal(t *testing.T) {
	internal := BuiltinInternal()
	assert.True(t, internal.ContainsFirstName("host:"))
	assert.True(t, internal.ContainsFirstName("json._CACHEINIT"))
	assert.True(t, internal.ContainsFirstName("PFSELFTEST"))
	assert.False(t, internal.ContainsFirstName("GET"))
	for _, d := range internal.All() {
		assert.Equal(t, Internal, d.Category)
		h, ok := d.Handler.(InternalHandler)
		assert.True(t, ok)
		assert.Equal(t, "null", h.ExecInternal(d, nil).Kind().String())
	}
}

func TestVersion(t *testing.T) {
	v, err := ParseVersion("6.2.1")
	assert.NoError(t, err)
	assert.Equal(t, MakeVersion(6, 2, 1), v)
	assert.Equal(t, "6.2.1", v.String())
	assert.Equal(t, "undefined", UndefinedVersion.String())

	v, err = ParseVersion("5")
	assert.NoError(t, err)
	assert.Equal(t, -1, v.Compare(MakeVersion(5, 0, 1)))

	_, err = ParseVersion("x.y")
	assert.Error(t, err)

	xadd, _ := Builtin(Redis).Find("XADD")
	assert.True(t, xadd.SupportedBy(MakeVersion(6, 0, 0)))
	assert.False(t, xadd.SupportedBy(MakeVersion(4, 0, 14)))
	assert.True(t, xadd.SupportedBy(UndefinedVersion))
}

func TestDescriptorCommandLine(t *testing.T) {
	d, _ := Builtin(Redis).Find("CLUSTER NODES")
	assert.Equal(t, utils.ToCmdLine("CLUSTER", "NODES"), d.CommandLine(nil))
	set, _ := Builtin(Redis).Find("SET")
	assert.Equal(t, utils.ToCmdLine("SET", "k", "v"), set.CommandLine(utils.ToCmdLine("k", "v")))
	assert.Equal(t, "SET key value [EX seconds|PX milliseconds|KEEPTTL] [NX|XX] [GET]", set.Usage())
}
