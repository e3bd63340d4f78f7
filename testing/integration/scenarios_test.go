package integration

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/zoobzio/anyof"
	anyoftesting "github.com/zoobzio/anyof/testing"
)

// scenario loads one relation and compares a column of the result.
type scenario struct {
	name     string
	relation func(s *anyof.Schema) *anyof.Relation
	column   string
	want     []string
}

func scenarios() []scenario {
	name := func(v string) anyof.Fields { return anyof.Fields{"name": v} }

	return []scenario{
		{
			name: "any of fields",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("authors").AnyOf(name("David"), name("Mary"))
			},
			column: "name",
			want:   []string{"David", "Mary"},
		},
		{
			name: "none of fields",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("authors").NoneOf(name("David"), name("Mary"))
			},
			column: "name",
			want:   []string{"Bob"},
		},
		{
			name: "raw text",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("authors").AnyOf("name = 'David'", "name = 'Mary'")
			},
			column: "name",
			want:   []string{"David", "Mary"},
		},
		{
			name: "mixed alternatives",
			relation: func(s *anyof.Schema) *anyof.Relation {
				authors := s.From("authors")
				return authors.AnyOf(name("David"), []any{"name = ?", "Mary"}, authors.Where(name("Bob")))
			},
			column: "name",
			want:   []string{"David", "Mary", "Bob"},
		},
		{
			name: "prior negated filter",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("authors").WhereNot(name("Mary")).AnyOf(name("David"), "name = 'Mary'")
			},
			column: "name",
			want:   []string{"David"},
		},
		{
			name: "association scope",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.Association("authors", "posts", anyoftesting.DavidID).AnyOf(
					anyof.Fields{"title": "Welcome to the weblog"},
					anyof.Fields{"type": "SpecialPost"},
				)
			},
			column: "title",
			want:   []string{"Welcome to the weblog", "So I was thinking"},
		},
		{
			name: "association scope excluded",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.Association("authors", "posts", anyoftesting.DavidID).NoneOf(
					anyof.Fields{"title": "Welcome to the weblog"},
					anyof.Fields{"type": "SpecialPost"},
				)
			},
			column: "title",
			want:   []string{"sti comments", "sti me", "habtm sti test"},
		},
		{
			name: "polymorphic memberships",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("users").AnyOf(
					anyoftesting.OrganizationUsers(s, "Company", 1),
					anyoftesting.OrganizationUsers(s, "University", 1),
					anyoftesting.OrganizationUsers(s, "Company", 2),
				)
			},
			column: "name",
			want:   []string{"ezra", "aria", "james"},
		},
		{
			name: "referenced includes",
			relation: func(s *anyof.Schema) *anyof.Relation {
				authors := s.From("authors")
				return authors.AnyOf(
					authors.Includes("posts").References("posts").
						Where(anyof.Fields{"posts": anyof.Fields{"title": "Welcome to the weblog"}}),
					authors.Where(name("Mary")),
				)
			},
			column: "name",
			want:   []string{"David", "Mary"},
		},
		{
			name: "split single fields",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("authors").AnyOf(anyof.Fields{"id": anyoftesting.MaryID, "name": "David"})
			},
			column: "name",
			want:   []string{"David", "Mary"},
		},
		{
			name: "wildcard",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("authors").AnyOf(anyof.Tpl("name LIKE ?", "%av%"), name("Bob"))
			},
			column: "name",
			want:   []string{"David", "Bob"},
		},
		{
			name: "quoted marker text",
			relation: func(s *anyof.Schema) *anyof.Relation {
				return s.From("posts").AnyOf(anyof.Raw("title = 'Price $1'"), anyof.Fields{"id": 7})
			},
			column: "title",
			want:   []string{"Thinking about it"},
		},
		{
			name: "many bind values",
			relation: func(s *anyof.Schema) *anyof.Relation {
				alternatives := make([]any, 0, 16)
				for i := 1; i <= 16; i++ {
					alternatives = append(alternatives, anyof.Fields{"id": i})
				}
				return s.From("posts").Where(anyof.Fields{"author_id": anyoftesting.DavidID}).AnyOf(alternatives...)
			},
			column: "id",
			want:   []string{"1", "2", "3", "4", "5"},
		},
	}
}

// runScenarios loads the fixtures into db and checks every scenario through engine.
func runScenarios(t *testing.T, engine anyof.Engine, db *sql.DB) {
	t.Helper()

	anyoftesting.LoadFixtures(t, db)
	schema := anyoftesting.TestSchema(t, engine)
	ctx := context.Background()

	for _, sc := range scenarios() {
		t.Run(sc.name, func(t *testing.T) {
			relation := sc.relation(schema)

			records, err := relation.Load(ctx, db)
			if err != nil {
				result, _ := relation.Render()
				if result != nil {
					t.Fatalf("Load failed: %v\nSQL: %s", err, result.SQL)
				}
				t.Fatalf("Load failed: %v", err)
			}
			anyoftesting.AssertColumn(t, records, sc.column, sc.want...)

			count, err := relation.Count(ctx, db)
			anyoftesting.AssertNoError(t, err)
			if count != int64(len(sc.want)) {
				t.Errorf("Count() = %d, want %d", count, len(sc.want))
			}
		})
	}

	t.Run("empty alternatives", func(t *testing.T) {
		_, err := schema.From("authors").NoneOf().Load(ctx, db)
		var empty anyof.EmptyAlternativesError
		if !errors.As(err, &empty) {
			t.Errorf("Load() error = %v, want EmptyAlternativesError", err)
		}
	})
}
