// Package discovery models the nodes of a cluster or sentinel deployment and parses their descriptions.
package discovery

import (
	"net"
	"strconv"
	"strings"
)

// Role of a node in the topology
type Role int

// Roles
const (
	RoleMaster Role = iota
	RoleSlave
)

func (r Role) String() string {
	if r == RoleSlave {
		return "slave"
	}
	return "master"
}

// SlotRange is an inclusive range of hash slots
type SlotRange struct {
	Start uint16
	End   uint16
}

// Contains returns true if slot lies in the range
func (r SlotRange) Contains(slot uint16) bool {
	return slot >= r.Start && slot <= r.End
}

func (r SlotRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(int(r.Start))
	}
	return strconv.Itoa(int(r.Start)) + "-" + strconv.Itoa(int(r.End))
}

// Node is one server discovered from a cluster or sentinel
type Node struct {
	ID         string
	Name       string
	Host       string
	Port       int
	Role       Role
	Flags      []string
	MasterID   string // cluster only, id of the master of a replica
	MasterName string // sentinel only, name of the monitored master
	Self       bool
	Slots      []SlotRange
	LinkState  string
}

// Addr returns host:port
func (n *Node) Addr() string {
	return net.JoinHostPort(n.Host, strconv.Itoa(n.Port))
}

// HasFlag returns true if the node carries flag
func (n *Node) HasFlag(flag string) bool {
	for _, f := range n.Flags {
		if strings.EqualFold(f, flag) {
			return true
		}
	}
	return false
}

// ServesSlot returns true if one of the node slot ranges contains slot
func (n *Node) ServesSlot(slot uint16) bool {
	for _, r := range n.Slots {
		if r.Contains(slot) {
			return true
		}
	}
	return false
}

// SlotCount returns the number of slots served by the node
func (n *Node) SlotCount() int {
	count := 0
	for _, r := range n.Slots {
		count += int(r.End-r.Start) + 1
	}
	return count
}

// PickNode returns the master serving the slot of key, or nil
func PickNode(nodes []*Node, key string) *Node {
	slot := KeySlot(key)
	for _, n := range nodes {
		if n.Role == RoleMaster && n.ServesSlot(slot) {
			return n
		}
	}
	return nil
}
