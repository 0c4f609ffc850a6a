package engine

import (
	"context"

	"github.com/hdt3213/nosqlcore/command"
	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/lib/utils"
	"github.com/hdt3213/nosqlcore/value"
)

// ungated commands may run before authentication
var ungated = map[string]bool{
	"AUTH":  true,
	"PING":  true,
	"ECHO":  true,
	"QUIT":  true,
	"HELLO": true,
}

// ExecuteString splits line like a shell and runs it
func (c *Connection) ExecuteString(ctx context.Context, line string) (value.Value, error) {
	args, ok := utils.SplitCmdLine(line)
	if !ok {
		return nil, &errs.ValidationError{Command: line, Reason: "unbalanced quotes"}
	}
	return c.Execute(ctx, args)
}

// Execute runs a raw command line typed by a user
func (c *Connection) Execute(ctx context.Context, line [][]byte) (value.Value, error) {
	if len(line) == 0 {
		return nil, &errs.ValidationError{Command: "", Reason: "empty command"}
	}
	if c.internal.ContainsFirstName(string(line[0])) {
		if d, argv, ok := c.internal.FindCommandLine(line); ok {
			if h, ok := d.Handler.(command.InternalHandler); ok {
				return h.ExecInternal(d, argv), nil
			}
		}
		return value.MakeNull(), nil
	}
	d, argv, ok := c.registry.FindCommandLine(line)
	if !ok {
		return nil, &errs.NotSupportedError{Backend: c.backend.String(), Command: command.Normalize(string(line[0]))}
	}
	if err := c.registry.Validate(d, argv); err != nil {
		return nil, err
	}
	name := command.Normalize(d.Name)
	if !ungated[name] {
		if err := c.gate(name); err != nil {
			return nil, err
		}
	} else if c.State() == Disconnected {
		return nil, &errs.ConnectionError{Addr: c.addr}
	}
	if name == "AUTH" {
		c.mu.Lock()
		err := c.authenticate(ctx, argv)
		c.mu.Unlock()
		if err != nil {
			return nil, err
		}
		return value.MakeString([]byte("OK")), nil
	}
	return c.dispatch(ctx, d, argv)
}

// dispatch picks the handler capability matching the descriptor category, Forward is the fallback
func (c *Connection) dispatch(ctx context.Context, d *command.Descriptor, argv [][]byte) (value.Value, error) {
	switch d.Category {
	case command.Native:
		if h, ok := d.Handler.(command.NativeHandler); ok {
			return h.ExecNative(ctx, c, d, argv)
		}
	case command.Extended:
		if h, ok := d.Handler.(command.ExtendedHandler); ok {
			return h.ExecExtended(ctx, c, d, argv)
		}
	case command.Internal:
		if h, ok := d.Handler.(command.InternalHandler); ok {
			return h.ExecInternal(d, argv), nil
		}
		return value.MakeNull(), nil
	}
	return c.Forward(ctx, d.CommandLine(argv))
}

var _ command.Session = (*Connection)(nil)
