package symbols

import "fmt"

// Universe holds the typed objects of a problem. Each object has exactly one
// declared type and is indexed under every ancestor of that type, so
// membership queries never walk the hierarchy.
type Universe struct {
	types   *Hierarchy
	objects *Table
	objType []ID
	members [][]ID
}

// NewUniverse creates an empty universe over a closed hierarchy.
func NewUniverse(types *Hierarchy) (*Universe, error) {
	if !types.Closed() {
		return nil, ErrNotClosed
	}
	return &Universe{
		types:   types,
		objects: NewTable(),
		members: make([][]ID, types.Len()),
	}, nil
}

// Types returns the hierarchy backing the universe.
func (u *Universe) Types() *Hierarchy {
	return u.types
}

// Add declares an object of the given type. Re-declaring an object with the
// same type is a no-op; with a different type it is an error.
func (u *Universe) Add(name, typ string) (ID, error) {
	tid, ok := u.types.Lookup(typ)
	if !ok {
		return 0, fmt.Errorf("object %q: %w %q", name, ErrUnknownType, typ)
	}
	if id, ok := u.objects.Lookup(name); ok {
		if u.objType[id] != tid {
			return 0, fmt.Errorf("%w: object %q declared as %q and %q",
				ErrConflict, name, u.types.Name(u.objType[id]), typ)
		}
		return id, nil
	}
	id := u.objects.Intern(name)
	u.objType = append(u.objType, tid)
	for t := 0; t < u.types.Len(); t++ {
		if u.types.IsA(tid, ID(t)) {
			u.members[t] = append(u.members[t], id)
		}
	}
	return id, nil
}

// Lookup returns the ID of an object.
func (u *Universe) Lookup(name string) (ID, bool) {
	return u.objects.Lookup(name)
}

// Name returns the name of an object.
func (u *Universe) Name(id ID) string {
	return u.objects.Name(id)
}

// Len returns the number of objects.
func (u *Universe) Len() int {
	return u.objects.Len()
}

// TypeOf returns the declared type of an object.
func (u *Universe) TypeOf(obj ID) ID {
	return u.objType[obj]
}

// Members returns the objects that are valid bindings for typ, in declaration order.
// The returned slice must not be modified.
func (u *Universe) Members(typ ID) []ID {
	if int(typ) >= len(u.members) {
		return nil
	}
	return u.members[typ]
}

// Satisfies reports whether obj is a valid binding for a parameter of type typ.
func (u *Universe) Satisfies(obj, typ ID) bool {
	if int(obj) >= len(u.objType) {
		return false
	}
	return u.types.IsA(u.objType[obj], typ)
}
