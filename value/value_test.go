package value

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKindString(t *testing.T) {
	assert.Equal(t, "zset", KindSortedSet.String())
	assert.Equal(t, "json", MakeJSON([]byte("{}")).Kind().String())
	assert.Equal(t, "kind(99)", Kind(99).String())
}

func TestMapGet(t *testing.T) {
	m := MakeMap(MakePair("a", "1"), MakePair("b", "2"))
	v, ok := m.Get("b")
	assert.True(t, ok)
	assert.Equal(t, "2", string(v))
	_, ok = m.Get("c")
	assert.False(t, ok)
}

func TestArrayStrings(t *testing.T) {
	list := MakeList([]byte("a"), []byte("b"))
	items, ok := list.Strings()
	assert.True(t, ok)
	assert.Equal(t, [][]byte{[]byte("a"), []byte("b")}, items)

	mixed := MakeArray(MakeString([]byte("a")), MakeInteger(1))
	_, ok = mixed.Strings()
	assert.False(t, ok)
}

func TestTTL(t *testing.T) {
	kv := MakeKeyValue("k", MakeString([]byte("v")))
	assert.Equal(t, NoTTL, kv.TTL)
	assert.False(t, NoTTL.IsSet())
	assert.False(t, ExpiredTTL.IsSet())
	assert.Equal(t, 10*time.Second, TTL(10).Duration())
	assert.Equal(t, time.Duration(0), ExpiredTTL.Duration())
	assert.Equal(t, "expired", ExpiredTTL.String())
	assert.Equal(t, "5s", TTL(5).String())
}
