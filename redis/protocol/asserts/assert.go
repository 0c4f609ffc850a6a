package asserts

import (
	"bytes"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/protocol"
)

// AssertIntReply checks if the given redis.Reply is the expected integer
func AssertIntReply(t *testing.T, actual redis.Reply, expected int) {
	t.Helper()
	intResult, ok := actual.(*protocol.IntReply)
	if !ok {
		t.Errorf("expected int protocol, actually %s, %s", describe(actual), printStack())
		return
	}
	if intResult.Code != int64(expected) {
		t.Errorf("expected %d, actually %d, %s", expected, intResult.Code, printStack())
	}
}

// AssertBulkReply checks if the given redis.Reply is the expected string
func AssertBulkReply(t *testing.T, actual redis.Reply, expected string) {
	t.Helper()
	bulkReply, ok := actual.(*protocol.BulkReply)
	if !ok {
		t.Errorf("expected bulk protocol, actually %s, %s", describe(actual), printStack())
		return
	}
	if !bytes.Equal(bulkReply.Arg, []byte(expected)) {
		t.Errorf("expected %s, actually %s, %s", expected, actual.ToBytes(), printStack())
	}
}

// AssertStatusReply checks if the given redis.Reply is the expected status
func AssertStatusReply(t *testing.T, actual redis.Reply, expected string) {
	t.Helper()
	statusReply, ok := actual.(*protocol.StatusReply)
	if !ok {
		// may be a protocol.OkReply e.g.
		expectBytes := protocol.MakeStatusReply(expected).ToBytes()
		if actual != nil && bytes.Equal(actual.ToBytes(), expectBytes) {
			return
		}
		t.Errorf("expected status protocol, actually %s, %s", describe(actual), printStack())
		return
	}
	if statusReply.Status != expected {
		t.Errorf("expected %s, actually %s, %s", expected, actual.ToBytes(), printStack())
	}
}

// AssertErrReply checks if the given redis.Reply is the expected error
func AssertErrReply(t *testing.T, actual redis.Reply, expected string) {
	t.Helper()
	errReply, ok := actual.(protocol.ErrorReply)
	if !ok {
		t.Errorf("expected err protocol, actually %s, %s", describe(actual), printStack())
		return
	}
	if errReply.Error() != expected {
		t.Errorf("expected %s, actually %s, %s", expected, actual.ToBytes(), printStack())
	}
}

// AssertNullBulk checks if the given redis.Reply is protocol.NullBulkReply
func AssertNullBulk(t *testing.T, result redis.Reply) {
	t.Helper()
	if result == nil {
		t.Errorf("result is nil %s", printStack())
		return
	}
	if _, ok := result.(*protocol.NullBulkReply); !ok {
		t.Errorf("result is not null-bulk-protocol %s", printStack())
	}
}

// AssertMultiBulkReply checks if the given array reply holds the expected strings
func AssertMultiBulkReply(t *testing.T, actual redis.Reply, expected []string) {
	t.Helper()
	elements, ok := protocol.Elements(actual)
	if !ok {
		t.Errorf("expected array protocol, actually %s, %s", describe(actual), printStack())
		return
	}
	if len(elements) != len(expected) {
		t.Errorf("expected %d elements, actually %d, %s",
			len(expected), len(elements), printStack())
		return
	}
	for i, e := range elements {
		text, _ := protocol.Text(e)
		if string(text) != expected[i] {
			t.Errorf("expected %s, actually %s, %s", expected[i], text, printStack())
		}
	}
}

// AssertKind checks the discriminant of the given reply
func AssertKind(t *testing.T, actual redis.Reply, expected protocol.Kind) {
	t.Helper()
	if kind := protocol.KindOf(actual); kind != expected {
		t.Errorf("expected %s reply, actually %s, %s", expected, kind, printStack())
	}
}

// AssertCmdLine checks a command buffer token by token
func AssertCmdLine(t *testing.T, actual [][]byte, expected ...string) {
	t.Helper()
	if len(actual) != len(expected) {
		t.Errorf("expected command %q, actually %q, %s",
			strings.Join(expected, " "), bytes.Join(actual, []byte(" ")), printStack())
		return
	}
	for i, token := range actual {
		if string(token) != expected[i] {
			t.Errorf("expected command %q, actually %q, %s",
				strings.Join(expected, " "), bytes.Join(actual, []byte(" ")), printStack())
			return
		}
	}
}

func describe(r redis.Reply) string {
	if r == nil {
		return "<nil>"
	}
	return string(r.ToBytes())
}

func printStack() string {
	_, file, no, ok := runtime.Caller(2)
	if ok {
		return fmt.Sprintf("at %s:%d", file, no)
	}
	return ""
}
