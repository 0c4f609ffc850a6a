package command

import (
	"fmt"
	"strconv"
	"strings"
)

// UnboundedArgs as MaxArgs means any number of optional arguments
const UnboundedArgs = -1

// Category tells how a command is dispatched
type Category int

// Command categories
const (
	// Native commands are understood by the backend itself
	Native Category = iota
	// Internal pseudo-commands are recognized and silently swallowed, they never reach the backend
	Internal
	// Extended commands are implemented by the client on top of native ones
	Extended
)

func (c Category) String() string {
	switch c {
	case Native:
		return "native"
	case Internal:
		return "internal"
	case Extended:
		return "extended"
	}
	return "category(" + strconv.Itoa(int(c)) + ")"
}

// Group is the documentation section of a command, backend tables are derived by excluding groups
type Group string

// Command groups
const (
	GroupKeyspace     Group = "keyspace"
	GroupString       Group = "string"
	GroupList         Group = "list"
	GroupSet          Group = "set"
	GroupHash         Group = "hash"
	GroupSortedSet    Group = "sorted_set"
	GroupStream       Group = "stream"
	GroupHyperLogLog  Group = "hyperloglog"
	GroupGeo          Group = "geo"
	GroupServer       Group = "server"
	GroupConnection   Group = "connection"
	GroupTransactions Group = "transactions"
	GroupCluster      Group = "cluster"
	GroupSentinel     Group = "sentinel"
	GroupPubSub       Group = "pubsub"
	GroupScripting    Group = "scripting"
	GroupModules      Group = "modules"
	GroupJSON         Group = "json"
	GroupThrottle     Group = "throttle"
	GroupGraph        Group = "graph"
	GroupInternal     Group = "internal"
)

// Descriptor is the immutable catalogue entry of a command
type Descriptor struct {
	// Name may hold several tokens, e.g. "CLIENT GETNAME"
	Name    string
	Params  string
	Summary string
	Since   Version
	Example string
	// MinArgs is the number of required arguments
	MinArgs int
	// MaxArgs is the number of optional arguments allowed beyond MinArgs, or UnboundedArgs
	MaxArgs    int
	Category   Category
	Group      Group
	Validators []Validator
	Handler    Handler
}

// NameTokens splits the name into the tokens sent on the wire
func (d *Descriptor) NameTokens() [][]byte {
	fields := strings.Fields(d.Name)
	tokens := make([][]byte, len(fields))
	for i, f := range fields {
		tokens[i] = []byte(f)
	}
	return tokens
}

// CommandLine prepends the name tokens to argv
func (d *Descriptor) CommandLine(argv [][]byte) [][]byte {
	tokens := d.NameTokens()
	line := make([][]byte, 0, len(tokens)+len(argv))
	line = append(line, tokens...)
	return append(line, argv...)
}

// IsUnbounded returns true if the command accepts any number of extra arguments
func (d *Descriptor) IsUnbounded() bool {
	return d.MaxArgs == UnboundedArgs
}

// SupportedBy returns true if a backend of version v understands the command
func (d *Descriptor) SupportedBy(v Version) bool {
	if d.Since.IsUndefined() || v.IsUndefined() {
		return true
	}
	return d.Since.Compare(v) <= 0
}

// Usage renders the name and the syntax hint
func (d *Descriptor) Usage() string {
	if d.Params == "" {
		return d.Name
	}
	return d.Name + " " + d.Params
}

func (d *Descriptor) String() string {
	return fmt.Sprintf("%s (%s, since %s)", d.Usage(), d.Category, d.Since)
}

// Version is a backend release number
type Version struct {
	Major, Minor, Patch uint32
}

// UndefinedVersion marks commands without a known first release
var UndefinedVersion = Version{}

// MakeVersion creates a Version
func MakeVersion(major, minor, patch uint32) Version {
	return Version{Major: major, Minor: minor, Patch: patch}
}

// ParseVersion parses "major[.minor[.patch]]"
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "undefined" {
		return UndefinedVersion, nil
	}
	parts := strings.Split(s, ".")
	if len(parts) > 3 {
		return UndefinedVersion, fmt.Errorf("illegal version %q", s)
	}
	var nums [3]uint32
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return UndefinedVersion, fmt.Errorf("illegal version %q", s)
		}
		nums[i] = uint32(n)
	}
	return MakeVersion(nums[0], nums[1], nums[2]), nil
}

// IsUndefined returns true for UndefinedVersion
func (v Version) IsUndefined() bool {
	return v == UndefinedVersion
}

// Compare returns -1, 0 or 1
func (v Version) Compare(other Version) int {
	a := [3]uint32{v.Major, v.Minor, v.Patch}
	b := [3]uint32{other.Major, other.Minor, other.Patch}
	for i := range a {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	return 0
}

func (v Version) String() string {
	if v.IsUndefined() {
		return "undefined"
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}
