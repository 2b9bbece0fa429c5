package serial

import "github.com/google/uuid"

// RefTable bridges identifier-based linking in the scenario model and
// name-based linking in the XML format. A table is local to one conversion
// call: the serialize direction fills it id->name from the asset lists, the
// deserialize direction fills it name->id with freshly synthesized
// identifiers. Lookup misses are not errors; callers decide how to degrade.
type RefTable struct {
	nameByID map[string]string
	idByName map[string]string
}

// NewRefTable returns an empty table.
func NewRefTable() *RefTable {
	return &RefTable{
		nameByID: make(map[string]string),
		idByName: make(map[string]string),
	}
}

// AddAsset records an identifier/name pair. Identifiers are unique by
// construction; if a duplicate is inserted anyway, the last write wins.
func (t *RefTable) AddAsset(id, name string) {
	t.nameByID[id] = name
	t.idByName[name] = id
}

// Register synthesizes a fresh identifier for name, records the pair, and
// returns the identifier. Uniqueness is only required within one converted
// document; UUIDs satisfy that without any document-wide bookkeeping.
func (t *RefTable) Register(name string) string {
	id := uuid.NewString()
	t.AddAsset(id, name)
	return id
}

// NameByID returns the display name for an identifier, if present.
func (t *RefTable) NameByID(id string) (string, bool) {
	name, ok := t.nameByID[id]
	return name, ok
}

// IDByName returns the identifier for a display name, if present.
func (t *RefTable) IDByName(name string) (string, bool) {
	id, ok := t.idByName[name]
	return id, ok
}
