package registry

// FieldKind enumerates the value shapes a writable attribute may take.
type FieldKind int

const (
	FieldString FieldKind = iota
	FieldInt
	FieldEnum
	FieldStringSlice
	FieldPolicySlice
	FieldRef
)

// FieldSpec declares one writable attribute of an entity: its API name, the
// backing column, its kind, and the constraints checked on writes.
type FieldSpec struct {
	Name     string
	Column   string
	Kind     FieldKind
	Required bool     // mandatory on create; always optional on update
	Enum     []string // allowed literals for FieldEnum
	Ref      string   // singular name of the referenced entity for FieldRef
	MaxLen   int      // maximum string length, 0 means unbounded
}

// EntitySchema is the compile-time attribute table for one entity. The
// fields/sort header maps and request bodies are validated against it, so
// unknown attribute names never reach the store.
type EntitySchema struct {
	Singular  string
	Plural    string
	Fields    []FieldSpec
	Relations bool // entity has reference fields expandable via relations=true
}

// commonFields are the system-managed attributes present on every entity.
// They are selectable and sortable but never writable.
var commonFields = map[string]string{
	"id":        "id",
	"createdBy": "created_by",
	"updatedBy": "updated_by",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

// Field returns the spec for a writable attribute, or nil if the name is
// not part of the schema.
func (s *EntitySchema) Field(name string) *FieldSpec {
	for i := range s.Fields {
		if s.Fields[i].Name == name {
			return &s.Fields[i]
		}
	}
	return nil
}

// Selectable reports whether name may appear in a fields projection map.
func (s *EntitySchema) Selectable(name string) bool {
	if _, ok := commonFields[name]; ok {
		return true
	}
	return s.Field(name) != nil
}

// SortColumn resolves an attribute name to its database column for sorting.
func (s *EntitySchema) SortColumn(name string) (string, bool) {
	if col, ok := commonFields[name]; ok {
		return col, true
	}
	if f := s.Field(name); f != nil {
		return f.Column, true
	}
	return "", false
}

var sizeSchema = EntitySchema{
	Singular: "size",
	Plural:   "sizes",
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
		{Name: "cpus", Column: "cpus", Kind: FieldInt, Required: true},
		{Name: "ram", Column: "ram", Kind: FieldInt, Required: true},
		{Name: "storage", Column: "storage", Kind: FieldInt, Required: true},
	},
}

var osLanguageSchema = EntitySchema{
	Singular: "oslanguage",
	Plural:   "oslanguages",
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
	},
}

var osFamilySchema = EntitySchema{
	Singular: "osfamily",
	Plural:   "osfamilies",
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
		{Name: "shortName", Column: "short_name", Kind: FieldString, Required: true, MaxLen: 6},
	},
}

var locationSchema = EntitySchema{
	Singular: "location",
	Plural:   "locations",
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
		{Name: "availableNetworks", Column: "available_networks", Kind: FieldStringSlice, Required: true},
	},
}

var endpointSchema = EntitySchema{
	Singular: "endpoint",
	Plural:   "endpoints",
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
		{Name: "shortName", Column: "short_name", Kind: FieldString, Required: true},
		{Name: "url", Column: "url", Kind: FieldString, Required: true},
		{Name: "username", Column: "username", Kind: FieldString, Required: true},
		{Name: "password", Column: "password", Kind: FieldString, Required: true},
		{Name: "availableClusters", Column: "available_clusters", Kind: FieldStringSlice, Required: true},
	},
}

var approvalPolicySchema = EntitySchema{
	Singular: "approvalpolicy",
	Plural:   "approvalpolicies",
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
		{Name: "policies", Column: "policies", Kind: FieldPolicySlice, Required: true},
	},
}

var osTemplateSchema = EntitySchema{
	Singular:  "ostemplate",
	Plural:    "ostemplates",
	Relations: true,
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
		{Name: "templateId", Column: "template_id", Kind: FieldString, Required: true},
		{Name: "osFamily", Column: "os_family_id", Kind: FieldRef, Required: true, Ref: "osfamily"},
		{Name: "location", Column: "location_id", Kind: FieldRef, Required: true, Ref: "location"},
		{Name: "availableNetwork", Column: "available_network", Kind: FieldString, Required: true},
	},
}

var catalogSchema = EntitySchema{
	Singular:  "catalog",
	Plural:    "catalogs",
	Relations: true,
	Fields: []FieldSpec{
		{Name: "name", Column: "name", Kind: FieldString, Required: true},
		{Name: "icon", Column: "icon", Kind: FieldString},
		{Name: "shortName", Column: "short_name", Kind: FieldString, Required: true},
		{Name: "defaultTemplate", Column: "default_template_id", Kind: FieldRef, Required: true, Ref: "ostemplate"},
		{Name: "defaultApprovalPolicy", Column: "default_approval_policy_id", Kind: FieldRef, Required: true, Ref: "approvalpolicy"},
		{Name: "defaultLeasePeriod", Column: "default_lease_period", Kind: FieldInt, Required: true},
		{Name: "permittedMaxLeaseExtensions", Column: "permitted_max_lease_extensions", Kind: FieldInt, Required: true},
		{Name: "type", Column: "type", Kind: FieldEnum, Required: true, Enum: []string{CatalogTypeStandard, CatalogTypeCustom}},
	},
}
