package anyof

import (
	"testing"

	"github.com/zoobzio/dbml"
)

// newTestSchema creates an authors/posts schema bound to engine.
func newTestSchema(t *testing.T, engine Engine) *Schema {
	t.Helper()

	project := dbml.NewProject("test")
	authors := dbml.NewTable("authors")
	authors.AddColumn(dbml.NewColumn("id", "int"))
	authors.AddColumn(dbml.NewColumn("name", "varchar"))
	project.AddTable(authors)

	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "int"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("body", "varchar"))
	posts.AddColumn(dbml.NewColumn("author_id", "int"))
	posts.AddColumn(dbml.NewColumn("type", "varchar"))
	project.AddTable(posts)

	schema, err := NewFromDBML(project, engine)
	if err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}
	if err := schema.HasMany("authors", "posts", "posts", "author_id"); err != nil {
		t.Fatalf("Failed to declare authors.posts: %v", err)
	}
	if err := schema.BelongsTo("posts", "author", "authors", "author_id"); err != nil {
		t.Fatalf("Failed to declare posts.author: %v", err)
	}
	return schema
}
