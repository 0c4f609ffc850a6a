package parser

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/protocol"
)

// ErrProtocol is wrapped by every malformed input error
var ErrProtocol = errors.New("protocol error")

const (
	// maxBulkLen is the largest bulk string a server may send, same as proto-max-bulk-len
	maxBulkLen = 512 << 20
	// maxPrealloc bounds the slice reserved from an array header
	maxPrealloc = 1024
)

// ReadReply blocks until one complete reply has been read from reader.
// Arrays are read recursively, an array of bulk strings becomes MultiBulkReply
// while any other array becomes MultiRawReply.
func ReadReply(reader *bufio.Reader) (redis.Reply, error) {
	for {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, err
		}
		length := len(line)
		if length == 2 && line[0] == '\r' {
			// tolerate blank lines between replies
			continue
		}
		if length < 3 || line[length-2] != '\r' {
			return nil, protocolError("reply line is not terminated by CRLF")
		}
		return readTyped(line[:length-2], reader)
	}
}

func readTyped(line []byte, reader *bufio.Reader) (redis.Reply, error) {
	switch line[0] {
	case '+':
		return protocol.MakeStatusReply(string(line[1:])), nil
	case '-':
		return protocol.MakeErrReply(string(line[1:])), nil
	case ':':
		value, err := strconv.ParseInt(string(line[1:]), 10, 64)
		if err != nil {
			return nil, protocolError("illegal number " + string(line[1:]))
		}
		return protocol.MakeIntReply(value), nil
	case '$':
		return parseBulkString(line, reader)
	case '*':
		return parseArray(line, reader)
	}
	return nil, protocolError("unknown reply prefix " + string(line))
}

func parseBulkString(header []byte, reader *bufio.Reader) (redis.Reply, error) {
	strLen, err := strconv.ParseInt(string(header[1:]), 10, 64)
	if err != nil || strLen < -1 || strLen > maxBulkLen {
		return nil, protocolError("illegal bulk string header: " + string(header))
	} else if strLen == -1 {
		return protocol.MakeNullBulkReply(), nil
	}
	body := make([]byte, strLen+2)
	_, err = io.ReadFull(reader, body)
	if err != nil {
		return nil, err
	}
	if body[strLen] != '\r' || body[strLen+1] != '\n' {
		return nil, protocolError("bulk string is not terminated by CRLF")
	}
	return protocol.MakeBulkReply(body[:strLen]), nil
}

func parseArray(header []byte, reader *bufio.Reader) (redis.Reply, error) {
	nElems, err := strconv.ParseInt(string(header[1:]), 10, 64)
	if err != nil || nElems < -1 {
		return nil, protocolError("illegal array header " + string(header[1:]))
	} else if nElems == -1 {
		return protocol.MakeNullMultiBulkReply(), nil
	} else if nElems == 0 {
		return protocol.MakeEmptyMultiBulkReply(), nil
	}
	elems := make([]redis.Reply, 0, min(nElems, maxPrealloc))
	flat := true
	for i := int64(0); i < nElems; i++ {
		line, err := reader.ReadBytes('\n')
		if err != nil {
			return nil, err
		}
		length := len(line)
		if length < 3 || line[length-2] != '\r' {
			return nil, protocolError("illegal array element header " + string(line))
		}
		elem, err := readTyped(line[:length-2], reader)
		if err != nil {
			return nil, err
		}
		switch elem.(type) {
		case *protocol.BulkReply, *protocol.NullBulkReply:
		default:
			flat = false
		}
		elems = append(elems, elem)
	}
	if !flat {
		return protocol.MakeMultiRawReply(elems), nil
	}
	args := make([][]byte, len(elems))
	for i, elem := range elems {
		if bulk, ok := elem.(*protocol.BulkReply); ok {
			args[i] = bulk.Arg
		}
	}
	return protocol.MakeMultiBulkReply(args), nil
}

func protocolError(msg string) error {
	return fmt.Errorf("%w: %s", ErrProtocol, msg)
}
