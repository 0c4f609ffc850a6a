package discovery

import (
	"errors"
	"strconv"
	"strings"

	"github.com/hdt3213/nosqlcore/value"
)

// ParseSentinelEntry builds a node from the field/value pairs of SENTINEL MASTERS or SENTINEL SLAVES.
// masterName is empty for masters, their own name is used instead.
func ParseSentinelEntry(pairs []value.Pair, masterName string) (*Node, error) {
	fields := make(map[string]string, len(pairs))
	for _, p := range pairs {
		fields[strings.ToLower(string(p.Field))] = string(p.Val)
	}
	host := fields["ip"]
	if host == "" {
		return nil, errors.New("sentinel entry has no ip")
	}
	port, err := strconv.Atoi(fields["port"])
	if err != nil {
		return nil, errors.New("sentinel entry has an illegal port '" + fields["port"] + "'")
	}
	node := &Node{
		ID:         fields["runid"],
		Name:       fields["name"],
		Host:       host,
		Port:       port,
		MasterName: masterName,
	}
	if flags := fields["flags"]; flags != "" {
		node.Flags = strings.Split(flags, ",")
	}
	if node.HasFlag("slave") || node.HasFlag("replica") {
		node.Role = RoleSlave
	}
	if node.Role == RoleSlave && masterName == "" {
		return nil, errors.New("replica entry " + node.Addr() + " without master name")
	}
	if node.Role == RoleMaster {
		if node.Name == "" {
			return nil, errors.New("master entry " + node.Addr() + " has no name")
		}
		node.MasterName = node.Name
	}
	return node, nil
}
