package discovery

import (
	"errors"
	"net"
	"strconv"
	"strings"

	"github.com/hdt3213/nosqlcore/lib/logger"
)

// ErrNoNodes means a CLUSTER NODES blob described no node at all
var ErrNoNodes = errors.New("cluster nodes: no node found")

// ParseClusterNodes parses the reply of CLUSTER NODES.
// Each line is: id ip:port@cport flags master ping-sent pong-recv config-epoch link-state slot...
// Malformed lines are skipped, an empty host is replaced with defaultHost.
func ParseClusterNodes(defaultHost, blob string) ([]*Node, error) {
	var nodes []*Node
	for _, line := range strings.Split(blob, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		node, err := parseClusterLine(defaultHost, line)
		if err != nil {
			logger.Warn("skip cluster node line: " + err.Error())
			continue
		}
		nodes = append(nodes, node)
	}
	if len(nodes) == 0 {
		return nil, ErrNoNodes
	}
	return nodes, nil
}

func parseClusterLine(defaultHost, line string) (*Node, error) {
	fields := strings.Fields(line)
	if len(fields) < 8 {
		return nil, errors.New("too few fields in '" + line + "'")
	}
	addr := fields[1]
	if idx := strings.IndexByte(addr, '@'); idx >= 0 {
		addr = addr[:idx]
	}
	// redis 7 appends ,hostname
	if idx := strings.IndexByte(addr, ','); idx >= 0 {
		addr = addr[:idx]
	}
	host, rawPort, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, err
	}
	port, err := strconv.Atoi(rawPort)
	if err != nil {
		return nil, errors.New("illegal port in '" + fields[1] + "'")
	}
	if host == "" {
		host = defaultHost
	}
	node := &Node{
		ID:        fields[0],
		Host:      host,
		Port:      port,
		Flags:     strings.Split(fields[2], ","),
		LinkState: fields[7],
	}
	if fields[3] != "-" {
		node.MasterID = fields[3]
	}
	node.Self = node.HasFlag("myself")
	if node.HasFlag("slave") || node.HasFlag("replica") {
		node.Role = RoleSlave
	}
	for _, raw := range fields[8:] {
		if strings.HasPrefix(raw, "[") {
			// migrating or importing marker
			continue
		}
		r, err := parseSlotRange(raw)
		if err != nil {
			return nil, err
		}
		node.Slots = append(node.Slots, r)
	}
	return node, nil
}

func parseSlotRange(raw string) (SlotRange, error) {
	parse := func(s string) (uint16, error) {
		n, err := strconv.ParseUint(s, 10, 16)
		if err != nil || n >= SlotCount {
			return 0, errors.New("illegal slot '" + raw + "'")
		}
		return uint16(n), nil
	}
	startStr, endStr, isRange := strings.Cut(raw, "-")
	start, err := parse(startStr)
	if err != nil {
		return SlotRange{}, err
	}
	if !isRange {
		return SlotRange{Start: start, End: start}, nil
	}
	end, err := parse(endStr)
	if err != nil {
		return SlotRange{}, err
	}
	if end < start {
		return SlotRange{}, errors.New("illegal slot range '" + raw + "'")
	}
	return SlotRange{Start: start, End: end}, nil
}
