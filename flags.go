package wyrm

import "sync"

// flagSet holds the Prolog flags enumerated in spec.md §4.14. Reads and
// writes are individually locked so that set_prolog_flag/2 on one
// engine replica (pool.go) is visible to reads on another without
// tearing.
type flagSet struct {
	mu             sync.RWMutex
	unknownDefault unknownAction
	values         map[Atom]Term
}

func newFlagSet() *flagSet {
	return &flagSet{
		unknownDefault: unknownError,
		values: map[Atom]Term{
			"bounded":                   Atom("true"),
			"max_integer":               Integer(1<<63 - 1),
			"min_integer":               Integer(-1 << 63),
			"max_arity":                 Atom("unbounded"),
			"integer_rounding_function": Atom("toward_zero"),
			"char_conversion":           Atom("off"),
			"debug":                     Atom("off"),
			"double_quotes":             Atom("codes"),
			"dialect":                   Atom("wyrm"),
			"version":                   Integer(1),
			"max_character_code":        Integer(0x10FFFF),
		},
	}
}

func (f *flagSet) get(name Atom) (Term, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if name == "unknown" {
		return f.unknownTerm(), true
	}
	v, ok := f.values[name]
	return v, ok
}

func (f *flagSet) unknownTerm() Term {
	switch f.unknownDefault {
	case unknownFail:
		return Atom("fail")
	case unknownWarning:
		return Atom("warning")
	default:
		return Atom("error")
	}
}

func (f *flagSet) set(name Atom, value Term) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if name == "unknown" {
		switch value {
		case Atom("fail"):
			f.unknownDefault = unknownFail
		case Atom("warning"):
			f.unknownDefault = unknownWarning
		default:
			f.unknownDefault = unknownError
		}
		return
	}
	f.values[name] = value
}

func (f *flagSet) setUnknown(a unknownAction) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unknownDefault = a
}

// unknown is the accessor used by resolve.go's unknown-procedure
// handling.
func (f *flagSet) unknown() unknownAction {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.unknownDefault
}

// names lists every flag this set currently tracks, including
// "unknown" which lives outside the values map.
func (f *flagSet) names() []Atom {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]Atom, 0, len(f.values)+1)
	for k := range f.values {
		names = append(names, k)
	}
	names = append(names, "unknown")
	return names
}

func (f *flagSet) clone() *flagSet {
	f.mu.RLock()
	defer f.mu.RUnlock()
	fresh := &flagSet{unknownDefault: f.unknownDefault, values: make(map[Atom]Term, len(f.values))}
	for k, v := range f.values {
		fresh.values[k] = v
	}
	return fresh
}
