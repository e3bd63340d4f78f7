package anyof

import (
	"fmt"
	"strings"

	"github.com/zoobzio/anyof/internal/types"
	"github.com/zoobzio/dbml"
)

// primaryKey is the key column every associated table is expected to carry.
const primaryKey = "id"

// AssociationKind distinguishes the two sides of a foreign key.
type AssociationKind int

const (
	HasMany AssociationKind = iota
	BelongsTo
)

func (k AssociationKind) String() string {
	if k == BelongsTo {
		return "belongs_to"
	}
	return "has_many"
}

// Association links a source table to a target table through a foreign key.
// For HasMany the key lives on the target; for BelongsTo it lives on the source.
type Association struct {
	Name       string
	Kind       AssociationKind
	Source     string
	Target     string
	ForeignKey string
}

// Schema represents a DBML schema bound to a rendering engine.
type Schema struct {
	project *dbml.Project
	engine  Engine
	// Internal indexes for fast validation
	tables       map[string]*dbml.Table
	fields       map[string]map[string]*dbml.Column // table -> field -> column
	associations map[string]map[string]Association  // table -> name -> association
}

// NewFromDBML creates a new Schema from a DBML project.
func NewFromDBML(project *dbml.Project, engine Engine) (*Schema, error) {
	if project == nil {
		return nil, fmt.Errorf("project cannot be nil")
	}
	if engine == nil {
		return nil, fmt.Errorf("engine cannot be nil")
	}

	s := &Schema{
		project:      project,
		engine:       engine,
		tables:       make(map[string]*dbml.Table),
		fields:       make(map[string]map[string]*dbml.Column),
		associations: make(map[string]map[string]Association),
	}

	// Build indexes for fast validation
	for _, table := range project.Tables {
		s.tables[table.Name] = table
		s.fields[table.Name] = make(map[string]*dbml.Column)
		for _, col := range table.Columns {
			s.fields[table.Name][col.Name] = col
		}
	}

	return s, nil
}

// Engine returns the engine relations of this schema render through.
func (s *Schema) Engine() Engine {
	return s.engine
}

// HasMany declares that rows of source own rows of target through target.foreignKey.
func (s *Schema) HasMany(source, name, target, foreignKey string) error {
	if err := s.validateField(target, foreignKey); err != nil {
		return fmt.Errorf("invalid association %s.%s: %w", source, name, err)
	}
	return s.addAssociation(Association{
		Name:       name,
		Kind:       HasMany,
		Source:     source,
		Target:     target,
		ForeignKey: foreignKey,
	})
}

// BelongsTo declares that rows of source point at a target row through source.foreignKey.
func (s *Schema) BelongsTo(source, name, target, foreignKey string) error {
	if err := s.validateField(source, foreignKey); err != nil {
		return fmt.Errorf("invalid association %s.%s: %w", source, name, err)
	}
	return s.addAssociation(Association{
		Name:       name,
		Kind:       BelongsTo,
		Source:     source,
		Target:     target,
		ForeignKey: foreignKey,
	})
}

func (s *Schema) addAssociation(assoc Association) error {
	if !isValidSQLIdentifier(assoc.Name) {
		return fmt.Errorf("invalid association name: %s", assoc.Name)
	}
	if err := s.validateTable(assoc.Source); err != nil {
		return err
	}
	if err := s.validateTable(assoc.Target); err != nil {
		return err
	}
	if s.associations[assoc.Source] == nil {
		s.associations[assoc.Source] = make(map[string]Association)
	}
	if _, exists := s.associations[assoc.Source][assoc.Name]; exists {
		return fmt.Errorf("association '%s' already defined on table '%s'", assoc.Name, assoc.Source)
	}
	s.associations[assoc.Source][assoc.Name] = assoc
	return nil
}

// TryFrom returns an unfiltered relation over table, or an error if the table is unknown.
func (s *Schema) TryFrom(table string) (*Relation, error) {
	if err := s.validateTable(table); err != nil {
		return nil, fmt.Errorf("invalid table: %w", err)
	}
	return &Relation{schema: s, table: table}, nil
}

// From returns an unfiltered relation over table.
// It panics if the table doesn't exist in the schema.
func (s *Schema) From(table string) *Relation {
	r, err := s.TryFrom(table)
	if err != nil {
		panic(err)
	}
	return r
}

// Association returns the rows reached from one owner row through a named association:
// the target rows whose foreign key equals ownerKey for HasMany, or the target row whose
// primary key equals ownerKey for BelongsTo.
func (s *Schema) Association(source, name string, ownerKey any) *Relation {
	assoc, err := s.association(source, name)
	if err != nil {
		return &Relation{schema: s, table: source, err: err}
	}
	target := &Relation{schema: s, table: assoc.Target}
	if assoc.Kind == HasMany {
		return target.Where(Fields{assoc.ForeignKey: ownerKey})
	}
	return target.Where(Fields{primaryKey: ownerKey})
}

// association looks up a named association declared on table.
func (s *Schema) association(table, name string) (Association, error) {
	assoc, ok := s.associations[table][name]
	if !ok {
		return Association{}, fmt.Errorf("association '%s' not found on table '%s'", name, table)
	}
	return assoc, nil
}

// tableFor resolves a nested condition key: an association of source, or a table name.
func (s *Schema) tableFor(source, key string) (string, error) {
	if assoc, ok := s.associations[source][key]; ok {
		return assoc.Target, nil
	}
	if err := s.validateTable(key); err != nil {
		return "", fmt.Errorf("'%s' is neither an association of '%s' nor a table", key, source)
	}
	return key, nil
}

// join builds the JOIN clause that brings an association's target into a query on its source.
func (*Schema) join(assoc Association, joinType types.JoinType) types.Join {
	var on types.FieldComparison
	switch assoc.Kind {
	case BelongsTo:
		on = types.FieldComparison{
			LeftField:  types.Field{Name: primaryKey, Table: assoc.Target},
			Operator:   types.EQ,
			RightField: types.Field{Name: assoc.ForeignKey, Table: assoc.Source},
		}
	default:
		on = types.FieldComparison{
			LeftField:  types.Field{Name: assoc.ForeignKey, Table: assoc.Target},
			Operator:   types.EQ,
			RightField: types.Field{Name: primaryKey, Table: assoc.Source},
		}
	}
	return types.Join{Type: joinType, Table: types.Table{Name: assoc.Target}, On: on}
}

// validateTable checks if a table exists in the schema.
func (s *Schema) validateTable(name string) error {
	if _, ok := s.tables[name]; !ok {
		return fmt.Errorf("table '%s' not found in schema", name)
	}
	return nil
}

// validateField checks if a field exists in the given table.
func (s *Schema) validateField(table, field string) error {
	if err := s.validateTable(table); err != nil {
		return err
	}
	if _, ok := s.fields[table][field]; !ok {
		return fmt.Errorf("field '%s' not found in table '%s'", field, table)
	}
	return nil
}

// splitField separates an optional "table." qualifier from a column name.
func splitField(name, defaultTable string) (table, column string) {
	if dot := strings.LastIndexByte(name, '.'); dot != -1 {
		return name[:dot], name[dot+1:]
	}
	return defaultTable, name
}

// isValidSQLIdentifier checks if a string is a valid SQL identifier.
func isValidSQLIdentifier(s string) bool {
	if s == "" {
		return false
	}

	// Must start with letter or underscore
	first := s[0]
	if (first < 'a' || first > 'z') && (first < 'A' || first > 'Z') && first != '_' {
		return false
	}

	// Rest must be alphanumeric or underscore
	for i := 1; i < len(s); i++ {
		ch := s[i]
		if (ch < 'a' || ch > 'z') && (ch < 'A' || ch > 'Z') && (ch < '0' || ch > '9') && ch != '_' {
			return false
		}
	}
	return true
}
