package engine

import (
	"context"
	"strconv"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/interface/core"
	"github.com/hdt3213/nosqlcore/interface/redis"
	"github.com/hdt3213/nosqlcore/redis/protocol"
	"github.com/hdt3213/nosqlcore/translator"
	"github.com/hdt3213/nosqlcore/value"
)

// ModuleLoad loads a server module
func (c *Connection) ModuleLoad(ctx context.Context, info *value.ModuleInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("MODULE LOAD"); err != nil {
		return err
	}
	cmd, err := c.translator.ModuleLoadCommand(info)
	if err != nil {
		return err
	}
	if _, err := c.call(ctx, cmd, okKinds...); err != nil {
		return err
	}
	c.notifyModule(func(o core.ModuleObserver) { o.OnLoadedModule(info) })
	return nil
}

// ModuleUnload unloads the module named info.Name
func (c *Connection) ModuleUnload(ctx context.Context, info *value.ModuleInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("MODULE UNLOAD"); err != nil {
		return err
	}
	cmd, err := c.translator.ModuleUnloadCommand(info.Name)
	if err != nil {
		return err
	}
	if _, err := c.call(ctx, cmd, okKinds...); err != nil {
		return err
	}
	c.notifyModule(func(o core.ModuleObserver) { o.OnUnLoadedModule(info) })
	return nil
}

// ModuleList lists the loaded modules
func (c *Connection) ModuleList(ctx context.Context) ([]value.ModuleInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.gate("MODULE LIST"); err != nil {
		return nil, err
	}
	cmd, err := c.translator.ModuleListCommand()
	if err != nil {
		return nil, err
	}
	reply, err := c.call(ctx, cmd, protocol.KindArray)
	if err != nil {
		return nil, err
	}
	entries, _ := protocol.Elements(reply)
	modules := make([]value.ModuleInfo, 0, len(entries))
	for _, entry := range entries {
		info, err := decodeModule(entry)
		if err != nil {
			return nil, err
		}
		modules = append(modules, info)
	}
	return modules, nil
}

// decodeModule reads one MODULE LIST entry, nested arrays such as args are pulled out before map decoding
func decodeModule(entry redis.Reply) (value.ModuleInfo, error) {
	var info value.ModuleInfo
	elements, ok := protocol.Elements(entry)
	if !ok {
		return info, &errs.DecodeError{Kind: "module", Reason: "entry is " + protocol.KindOf(entry).String()}
	}
	flat := make([]redis.Reply, 0, len(elements))
	for i := 0; i+1 < len(elements); i += 2 {
		if nested, ok := protocol.Elements(elements[i+1]); ok {
			for _, arg := range nested {
				if text, ok := protocol.Text(arg); ok {
					info.Args = append(info.Args, string(text))
				}
			}
			continue
		}
		flat = append(flat, elements[i], elements[i+1])
	}
	if len(elements)%2 != 0 {
		flat = append(flat, elements[len(elements)-1])
	}
	fields, err := translator.Decode(protocol.MakeMultiRawReply(flat), value.KindMap)
	if err != nil {
		return info, err
	}
	m := fields.(*value.MapValue)
	name, _ := m.Get("name")
	path, _ := m.Get("path")
	info.Name = string(name)
	info.Path = string(path)
	if ver, ok := m.Get("ver"); ok {
		info.Version, err = strconv.ParseInt(string(ver), 10, 64)
		if err != nil {
			return info, &errs.DecodeError{Kind: "module", Reason: "version '" + string(ver) + "' is not an integer"}
		}
	}
	return info, nil
}
