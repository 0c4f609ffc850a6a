package engine

import (
	"context"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/value"
)

// ThrottleResult is the reply of CL.THROTTLE
type ThrottleResult struct {
	Limited    bool
	Limit      int64
	Remaining  int64
	RetryAfter value.TTL // NoTTL if the action is allowed
	ResetAfter value.TTL
}

// Throttle applies the GCRA rate limiter of key and reports whether the action is limited
func (c *Connection) Throttle(ctx context.Context, key string, maxBurst, countPerPeriod, period, quantity int64) (*ThrottleResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("CL.THROTTLE"); err != nil {
		return nil, err
	}
	cmd, err := c.translator.ThrottleCommand(key, maxBurst, countPerPeriod, period, quantity)
	if err != nil {
		return nil, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindArray)
	if err != nil {
		return nil, err
	}
	elements, _ := protocol.Elements(reply)
	if len(elements) != 5 {
		return nil, &errs.DecodeError{Kind: "throttle", Reason: "expected 5 integers"}
	}
	codes := make([]int64, 5)
	for i, e := range elements {
		n, ok := e.(*protocol.IntReply)
		if !ok {
			return nil, &errs.DecodeError{Kind: "throttle", Reason: "element " + protocol.KindOf(e).String() + " is not an integer"}
		}
		codes[i] = n.Code
	}
	result := &ThrottleResult{
		Limited:    codes[0] == 1,
		Limit:      codes[1],
		Remaining:  codes[2],
		RetryAfter: value.TTL(codes[3]),
		ResetAfter: value.TTL(codes[4]),
	}

	// the limiter state is a plain string key
	getCmd, err := c.translator.GetKeyCommand(key, value.KindString)
	if err != nil {
		return nil, err
	}
	stateReply, err := c.call(ctx, getCmd, protocol.KindString, protocol.KindNil)
	if err != nil {
		return nil, err
	}
	var state value.Value = value.MakeNull()
	if text, ok := protocol.Text(stateReply); ok {
		state = value.MakeString(text)
	}
	kv := value.MakeKeyValue(key, state)
	c.notify(func(o core.Observer) {
		o.OnLoadedKey(kv)
		o.OnLoadedKeyTTL(key, result.ResetAfter)
	})
	return result, nil
}
