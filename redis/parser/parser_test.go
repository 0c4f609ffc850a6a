package parser

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/redis/protocol/asserts"
)

func sampleReplies() []redis.Reply {
	return []redis.Reply{
		protocol.MakeIntReply(1),
		protocol.MakeStatusReply("OK"),
		protocol.MakeErrReply("ERR unknown"),
		protocol.MakeBulkReply([]byte("a\r\nb")), // test binary safe
		protocol.MakeBulkReply([]byte{}),
		protocol.MakeNullBulkReply(),
		protocol.MakeMultiBulkReply([][]byte{
			[]byte("a"),
			[]byte("\r\n"),
			nil,
		}),
		protocol.MakeEmptyMultiBulkReply(),
		protocol.MakeNullMultiBulkReply(),
		protocol.MakeMultiRawReply([]redis.Reply{
			protocol.MakeBulkReply([]byte("1-0")),
			protocol.MakeMultiBulkReply([][]byte{[]byte("f"), []byte("v")}),
			protocol.MakeIntReply(7),
		}),
	}
}

func parseOne(raw []byte) (redis.Reply, error) {
	return ReadReply(bufio.NewReader(bytes.NewReader(raw)))
}

func TestReadReply(t *testing.T) {
	replies := sampleReplies()
	buf := bytes.Buffer{}
	for _, re := range replies {
		buf.Write(re.ToBytes())
		buf.WriteString(protocol.CRLF) // blank lines between replies are skipped
	}
	reader := bufio.NewReader(&buf)
	for _, exp := range replies {
		result, err := ReadReply(reader)
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(exp.ToBytes(), result.ToBytes()) {
			t.Error("parse failed: " + string(exp.ToBytes()))
		}
	}
	if _, err := ReadReply(reader); err != io.EOF {
		t.Errorf("expected EOF, actually %v", err)
	}
}

func TestParseNested(t *testing.T) {
	raw := "*2\r\n*2\r\n$3\r\n1-0\r\n*2\r\n$1\r\nf\r\n$1\r\nv\r\n*2\r\n$3\r\n2-0\r\n*-1\r\n"
	result, err := parseOne([]byte(raw))
	if err != nil {
		t.Fatal(err)
	}
	asserts.AssertKind(t, result, protocol.KindArray)
	entries, _ := protocol.Elements(result)
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, actually %d", len(entries))
	}
	first, _ := protocol.Elements(entries[0])
	asserts.AssertBulkReply(t, first[0], "1-0")
	asserts.AssertMultiBulkReply(t, first[1], []string{"f", "v"})
	second, _ := protocol.Elements(entries[1])
	asserts.AssertKind(t, second[1], protocol.KindNil)
}

func TestParseIllegal(t *testing.T) {
	for _, raw := range []string{
		":abc\r\n",
		"$-5\r\n",
		"*x\r\n",
		"$3\r\nabcd\r\n",
		"*1\r\n!\r\n",
		"set a a\r\n",
		"+OK\n",
		"$536870913\r\n",
		"$9223372036854775806\r\n",
	} {
		_, err := parseOne([]byte(raw))
		if !errors.Is(err, ErrProtocol) {
			t.Errorf("expected protocol error for %q, actually %v", raw, err)
		}
	}
	// a huge array header only reserves a bounded slice, the missing elements are an io error
	_, err := parseOne([]byte("*9223372036854775807\r\n:1\r\n"))
	if err != io.EOF {
		t.Errorf("expected EOF, actually %v", err)
	}
	_, err = parseOne([]byte("$5\r\nab"))
	if err == nil || errors.Is(err, ErrProtocol) {
		t.Errorf("expected io error, actually %v", err)
	}
}
