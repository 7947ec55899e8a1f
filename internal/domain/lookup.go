package domain

// Lookup is a reference table mapping a code to its description, e.g. the
// mdr_test_type and mdr_test_outcome files. It is read-only after load and is
// never joined into the primary table; its job is to enumerate valid codes.
type Lookup struct {
	byCode map[string]string
	codes  []string
}

// NewLookup returns an empty lookup table.
func NewLookup() *Lookup {
	return &Lookup{byCode: make(map[string]string)}
}

// Add records a code/description pair. First write wins on duplicate codes so
// file order stays authoritative.
func (l *Lookup) Add(code, description string) {
	if _, ok := l.byCode[code]; ok {
		return
	}
	l.byCode[code] = description
	l.codes = append(l.codes, code)
}

// Description returns the description for code; ok is false for unknown codes.
func (l *Lookup) Description(code string) (string, bool) {
	d, ok := l.byCode[code]
	return d, ok
}

// Codes returns the distinct codes in file order.
func (l *Lookup) Codes() []string {
	out := make([]string, len(l.codes))
	copy(out, l.codes)
	return out
}

// Len reports the number of codes.
func (l *Lookup) Len() int { return len(l.codes) }
