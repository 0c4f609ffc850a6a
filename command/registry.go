package command

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hdt3213/nosqlcore/errs"
	"github.com/hdt3213/nosqlcore/lib/wildcard"
)

type indexEntry struct {
	name       string
	descriptor *Descriptor
}

// Registry is an immutable catalogue of commands.
// It is built once and shared by pointer, lookups are safe for concurrent use.
type Registry struct {
	name     string
	commands []*Descriptor
	// index is sorted by normalized name
	index []indexEntry
	// firstTokens is sorted and deduplicated
	firstTokens []string
}

// Normalize upper-cases name and collapses blanks
func Normalize(name string) string {
	return strings.ToUpper(strings.Join(strings.Fields(name), " "))
}

// NewRegistry builds a registry keeping the order of descriptors.
// Unless built with the release tag, it panics on duplicate names.
func NewRegistry(name string, descriptors ...*Descriptor) *Registry {
	r := &Registry{
		name:     name,
		commands: descriptors,
		index:    make([]indexEntry, 0, len(descriptors)),
	}
	firsts := make(map[string]struct{})
	for _, d := range descriptors {
		n := Normalize(d.Name)
		r.index = append(r.index, indexEntry{name: n, descriptor: d})
		first, _, _ := strings.Cut(n, " ")
		firsts[first] = struct{}{}
	}
	sort.SliceStable(r.index, func(i, j int) bool {
		return r.index[i].name < r.index[j].name
	})
	for f := range firsts {
		r.firstTokens = append(r.firstTokens, f)
	}
	sort.Strings(r.firstTokens)
	if selfCheck {
		if err := r.checkUnique(); err != nil {
			panic(err)
		}
	}
	return r
}

// checkUnique reports the first duplicate name, duplicates are adjacent in the sorted index
func (r *Registry) checkUnique() error {
	for i := 1; i < len(r.index); i++ {
		if r.index[i].name == r.index[i-1].name {
			return fmt.Errorf("registry %s: duplicate command %q", r.name, r.index[i].name)
		}
	}
	return nil
}

// Name returns the registry name, usually the backend
func (r *Registry) Name() string {
	return r.name
}

// Len returns the number of commands
func (r *Registry) Len() int {
	return len(r.commands)
}

// All returns the descriptors in registration order
func (r *Registry) All() []*Descriptor {
	result := make([]*Descriptor, len(r.commands))
	copy(result, r.commands)
	return result
}

// Find looks up a command by name, case-insensitive
func (r *Registry) Find(name string) (*Descriptor, bool) {
	n := Normalize(name)
	i := sort.Search(len(r.index), func(i int) bool {
		return r.index[i].name >= n
	})
	if i < len(r.index) && r.index[i].name == n {
		return r.index[i].descriptor, true
	}
	return nil, false
}

// FindCommandLine resolves the command of a line, a two-token name wins over a single token.
// argv is the rest of the line after the name tokens.
func (r *Registry) FindCommandLine(line [][]byte) (*Descriptor, [][]byte, bool) {
	if len(line) == 0 {
		return nil, nil, false
	}
	if len(line) > 1 {
		if d, ok := r.Find(string(line[0]) + " " + string(line[1])); ok {
			return d, line[2:], true
		}
	}
	if d, ok := r.Find(string(line[0])); ok {
		return d, line[1:], true
	}
	return nil, nil, false
}

// ContainsFirstName returns true if a command name starts with token
func (r *Registry) ContainsFirstName(token string) bool {
	t := Normalize(token)
	i := sort.SearchStrings(r.firstTokens, t)
	return i < len(r.firstTokens) && r.firstTokens[i] == t
}

// FindByPrefix returns commands whose name starts with prefix, sorted by name
func (r *Registry) FindByPrefix(prefix string) []*Descriptor {
	p := strings.ToUpper(strings.TrimLeft(prefix, " "))
	i := sort.Search(len(r.index), func(i int) bool {
		return r.index[i].name >= p
	})
	var result []*Descriptor
	for ; i < len(r.index) && strings.HasPrefix(r.index[i].name, p); i++ {
		result = append(result, r.index[i].descriptor)
	}
	return result
}

// Match returns commands whose name matches a glob pattern, in registration order
func (r *Registry) Match(pattern string) []*Descriptor {
	p := wildcard.CompilePattern(Normalize(pattern))
	var result []*Descriptor
	for _, d := range r.commands {
		if p.IsMatch(Normalize(d.Name)) {
			result = append(result, d)
		}
	}
	return result
}

// Validate checks arity then runs the validators of d in order
func (r *Registry) Validate(d *Descriptor, argv [][]byte) error {
	got := len(argv)
	if got < d.MinArgs || (d.MaxArgs != UnboundedArgs && got > d.MinArgs+d.MaxArgs) {
		return &errs.ArityError{
			Command: d.Name,
			Got:     got,
			Min:     d.MinArgs,
			Max:     d.MaxArgs,
		}
	}
	for _, validator := range d.Validators {
		if ok, reason := validator(argv); !ok {
			return &errs.ValidationError{
				Command: d.Name,
				Reason:  reason,
			}
		}
	}
	return nil
}

// Unvalidated returns extended commands registered without validators,
// they accept any argument vector within arity
func (r *Registry) Unvalidated() []*Descriptor {
	var result []*Descriptor
	for _, d := range r.commands {
		if d.Category == Extended && len(d.Validators) == 0 {
			result = append(result, d)
		}
	}
	return result
}

// Filter builds a new registry with the commands accepted by keep
func (r *Registry) Filter(name string, keep func(d *Descriptor) bool) *Registry {
	var kept []*Descriptor
	for _, d := range r.commands {
		if keep(d) {
			kept = append(kept, d)
		}
	}
	return NewRegistry(name, kept...)
}
