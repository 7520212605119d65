// =============================================================================
// Prisme Transactions - Floating Fields
// =============================================================================
//
// A floating field is self-describing and order independent. It serializes
// as "&" + two-digit id + the field's own serialized value:
//
//   id 2, zero-padded value "0001"  ->  "&020001"
//
// Each floating-field type of a format is declared once in a Registry. The
// registry is built at package initialization and is read-only afterwards,
// so it needs no locking. Building it asserts that ids are unique.
//
// =============================================================================

package field

import (
	"fmt"
	"sort"
	"strconv"
)

// FloatingSpec declares a floating-field type.
type FloatingSpec struct {
	Spec

	// ID is the two-digit field id.
	ID int

	// MaxID, when set, makes the type own every id in ID..MaxID (used by
	// repeated fields such as text lines).
	MaxID int

	Required bool
}

// lastID is the highest id owned by the type.
func (fs FloatingSpec) lastID() int {
	if fs.MaxID > fs.ID {
		return fs.MaxID
	}
	return fs.ID
}

// Owns reports whether id belongs to this type.
func (fs FloatingSpec) Owns(id int) bool {
	return id >= fs.ID && id <= fs.lastID()
}

// Floating is a Field carrying its floating-field id.
type Floating struct {
	Field
	id int
}

// Float attaches the type's base id to f.
func (fs FloatingSpec) Float(f Field) Floating {
	return Floating{Field: f, id: fs.ID}
}

// FloatAt attaches a specific id within the type's range to f.
func (fs FloatingSpec) FloatAt(id int, f Field) (Floating, error) {
	if !fs.Owns(id) {
		return Floating{}, Errorf(ErrOutOfRange, fs.Name, strconv.Itoa(id),
			"id must be between %d and %d", fs.ID, fs.lastID())
	}
	return Floating{Field: f, id: id}, nil
}

// ID is the two-digit field id.
func (f Floating) ID() int { return f.id }

// Serialized renders "&NN<value>".
func (f Floating) Serialized() string {
	return fmt.Sprintf("&%02d%s", f.id, f.Field.Serialized())
}

func (f Floating) String() string {
	return fmt.Sprintf("<%s: %s>", f.Name(), f.Serialized())
}

// SortByID orders floating fields by ascending id, stable for equal ids.
func SortByID(fields []Floating) {
	sort.SliceStable(fields, func(i, j int) bool { return fields[i].id < fields[j].id })
}

// =============================================================================
// REGISTRY
// =============================================================================

// Registry is the id-keyed table of all floating-field types of a format.
type Registry struct {
	specs []FloatingSpec
}

// NewRegistry builds a registry. It fails if a type has no id, an id is not
// two digits, or two types claim the same id.
func NewRegistry(specs ...FloatingSpec) (*Registry, error) {
	r := &Registry{}
	for _, fs := range specs {
		if fs.ID <= 0 {
			return nil, Errorf(ErrMissingID, fs.Name, "", "floating field type has no id")
		}
		if fs.lastID() > 99 {
			return nil, Errorf(ErrOutOfRange, fs.Name, strconv.Itoa(fs.lastID()), "id must be two digits")
		}
		for _, other := range r.specs {
			if fs.ID <= other.lastID() && other.ID <= fs.lastID() {
				return nil, &Error{
					Kind:   ErrDuplicateID,
					Fields: []string{fs.Name, other.Name},
					Value:  strconv.Itoa(fs.ID),
					Detail: fmt.Sprintf("id %d is already in use by %s", fs.ID, other.Name),
				}
			}
		}
		r.specs = append(r.specs, fs)
	}
	sort.Slice(r.specs, func(i, j int) bool { return r.specs[i].ID < r.specs[j].ID })
	return r, nil
}

// MustRegistry is like NewRegistry but panics on error. Use it for
// package-level registries so a conflict stops the program at startup.
func MustRegistry(specs ...FloatingSpec) *Registry {
	r, err := NewRegistry(specs...)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup finds the type owning id.
func (r *Registry) Lookup(id int) (FloatingSpec, bool) {
	for _, fs := range r.specs {
		if fs.Owns(id) {
			return fs, true
		}
	}
	return FloatingSpec{}, false
}

// Specs returns the registered types ordered by id.
func (r *Registry) Specs() []FloatingSpec {
	return append([]FloatingSpec(nil), r.specs...)
}

// ValidateRequired fails with ErrMissingRequired naming every required type
// that has no instance among present.
func (r *Registry) ValidateRequired(present []Floating) error {
	var missing []string
	for _, fs := range r.specs {
		if !fs.Required {
			continue
		}
		found := false
		for _, f := range present {
			if fs.Owns(f.ID()) {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, fs.Name)
		}
	}
	if len(missing) > 0 {
		return &Error{
			Kind:   ErrMissingRequired,
			Fields: missing,
			Detail: "the listed required fields are missing",
		}
	}
	return nil
}
