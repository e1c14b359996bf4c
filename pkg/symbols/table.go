package symbols

// ID is a dense identifier handed out by a Table, starting at zero.
type ID uint32

// Table interns names. The zero value is not usable; call NewTable.
type Table struct {
	ids   map[string]ID
	names []string
}

// NewTable creates an empty interning table.
func NewTable() *Table {
	return &Table{ids: make(map[string]ID)}
}

// Intern returns the ID of name, allocating the next free ID on first use.
func (t *Table) Intern(name string) ID {
	if id, ok := t.ids[name]; ok {
		return id
	}
	id := ID(len(t.names))
	t.ids[name] = id
	t.names = append(t.names, name)
	return id
}

// Lookup returns the ID of an already interned name.
func (t *Table) Lookup(name string) (ID, bool) {
	id, ok := t.ids[name]
	return id, ok
}

// Name returns the interned name for id. It panics if id was never handed out.
func (t *Table) Name(id ID) string {
	return t.names[id]
}

// Len returns the number of interned names.
func (t *Table) Len() int {
	return len(t.names)
}

// Names returns the interned names in ID order.
func (t *Table) Names() []string {
	out := make([]string, len(t.names))
	copy(out, t.names)
	return out
}
