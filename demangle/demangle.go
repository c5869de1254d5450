package demangle

import "strings"

// Symbol is the parsed form of one decorated name: the symbol's qualified
// name (innermost fragment first) and its type.
type Symbol struct {
	Name []*Name
	Type *Type

	// keeps the arena (and so every node) alive with the Symbol
	arena *arena
}

// String renders the symbol as a C++ declaration.
func (s *Symbol) String() string {
	var p printer
	return p.str(s)
}

// Demangle converts an MSVC decorated name to readable form. A name that
// does not begin with '?' is not mangled and is returned unchanged.
func Demangle(decorated string) (string, error) {
	if len(decorated) == 0 {
		return "", ErrEmptyInput
	}
	if decorated[0] != '?' {
		return decorated, nil
	}

	sym, err := Parse(decorated)
	if err != nil {
		return "", err
	}
	return sym.String(), nil
}

// Parse parses a decorated name and returns its AST. Partial ASTs are not
// returned: on error the Symbol is nil.
func Parse(decorated string) (*Symbol, error) {
	if len(decorated) == 0 {
		return nil, ErrEmptyInput
	}

	d := newDemangler(decorated)
	sym := d.parse()
	if d.err != nil {
		return nil, d.err
	}
	sym.arena = &d.arena
	return sym, nil
}

// IsMangled reports whether the name appears to be an MSVC decorated name.
func IsMangled(name string) bool {
	return len(name) > 0 && (name[0] == '?' || strings.HasPrefix(name, "@?"))
}
