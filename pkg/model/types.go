package model

// ColumnType is the declared storage type of an attribute.
type ColumnType string

const (
	ColumnString    ColumnType = "string"
	ColumnText      ColumnType = "text"
	ColumnInteger   ColumnType = "integer"
	ColumnFloat     ColumnType = "float"
	ColumnDecimal   ColumnType = "decimal"
	ColumnBoolean   ColumnType = "boolean"
	ColumnDate      ColumnType = "date"
	ColumnTime      ColumnType = "time"
	ColumnDatetime  ColumnType = "datetime"
	ColumnTimestamp ColumnType = "timestamp"
	ColumnBinary    ColumnType = "binary"
	ColumnJSON      ColumnType = "json"
	ColumnJSONB     ColumnType = "jsonb"
	ColumnHstore    ColumnType = "hstore"
	ColumnCitext    ColumnType = "citext"
	ColumnInet      ColumnType = "inet"
)

// Column describes schema metadata for a single attribute. Limit is zero when
// the schema does not declare one.
type Column struct {
	Name  string
	Type  ColumnType
	Limit int
}

// AssociationKind enumerates the relationship shapes the builder understands.
type AssociationKind string

const (
	BelongsTo           AssociationKind = "belongs_to"
	HasMany             AssociationKind = "has_many"
	HasAndBelongsToMany AssociationKind = "has_and_belongs_to_many"
	HasOne              AssociationKind = "has_one"
	Enum                AssociationKind = "enum"
)

// Multiple reports whether the association holds a collection of records.
func (k AssociationKind) Multiple() bool {
	return k == HasMany || k == HasAndBelongsToMany
}

// Association describes a declared relationship between the bound object and
// another record type.
type Association struct {
	Name       string
	Kind       AssociationKind
	Target     string
	ForeignKey string
	// Values lists the allowed keys when Kind is Enum.
	Values []string
	// Records lazily loads candidate records for choice inputs. It is only
	// invoked when a renderer actually needs the collection.
	Records CollectionSource
}

// CollectionSource produces the candidate items for a choice input on demand.
type CollectionSource interface {
	Collection() ([]any, error)
}

// CollectionFunc adapts a function into a CollectionSource.
type CollectionFunc func() ([]any, error)

// Collection calls the underlying function.
func (fn CollectionFunc) Collection() ([]any, error) {
	return fn()
}

// Reader exposes attribute values by name. Implementations return an error
// when the object does not respond to the attribute at all.
type Reader interface {
	Attribute(name string) (any, error)
}

// SchemaProvider exposes declared column metadata.
type SchemaProvider interface {
	ColumnFor(attribute string) (Column, bool)
}

// ColumnLister is implemented by schema providers that can enumerate their
// content columns in declaration order.
type ColumnLister interface {
	Columns() []Column
}

// AssociationProvider exposes declared association metadata.
type AssociationProvider interface {
	AssociationFor(attribute string) (Association, bool)
}

// AssociationLister is implemented by providers that can enumerate their
// associations in declaration order.
type AssociationLister interface {
	Associations() []Association
}

// ErrorProvider exposes validation messages for attributes.
type ErrorProvider interface {
	ErrorsFor(attribute string) []string
}

// Persistence reports whether the bound object has been stored yet. Rules
// scoped to create or update consult it.
type Persistence interface {
	NewRecord() bool
}

// Named supplies the param key used to build input names and i18n scopes.
type Named interface {
	ModelName() string
}

// Humanizer lets the bound object provide its own attribute labels.
type Humanizer interface {
	HumanAttributeName(attribute string) string
}
