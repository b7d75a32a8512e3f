package domain

import "unique"

// Name is an interned identifier for kinds, ports and parameters.
// Patches repeat the same handful of port and parameter names across
// thousands of nodes, so interning keeps comparisons cheap and memory flat.
type Name struct {
	h unique.Handle[string]
}

// NewName creates a new Name from a string.
func NewName(s string) Name {
	return Name{h: unique.Make(s)}
}

// NewNames creates a Name slice from a string slice.
func NewNames(s []string) []Name {
	res := make([]Name, len(s))
	for i, v := range s {
		res[i] = NewName(v)
	}
	return res
}

// String returns the underlying string value.
func (n Name) String() string {
	return n.h.Value()
}

// IsZero reports whether the name is the zero value.
func (n Name) IsZero() bool {
	return n == Name{}
}

// MarshalText implements encoding.TextMarshaler.
func (n Name) MarshalText() ([]byte, error) {
	return []byte(n.h.Value()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (n *Name) UnmarshalText(text []byte) error {
	n.h = unique.Make(string(text))
	return nil
}
