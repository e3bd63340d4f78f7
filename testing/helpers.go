// Package testing provides test utilities for anyof.
package testing

import (
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"testing"

	"github.com/zoobzio/anyof"
	"github.com/zoobzio/anyof/sqlite"
	"github.com/zoobzio/dbml"
)

// FixtureProject returns the DBML project behind the fixture schema:
// authors, posts, users, companies, universities and memberships.
func FixtureProject() *dbml.Project {
	project := dbml.NewProject("anyof_test")

	// Authors table
	authors := dbml.NewTable("authors")
	authors.AddColumn(dbml.NewColumn("id", "int"))
	authors.AddColumn(dbml.NewColumn("name", "varchar"))
	project.AddTable(authors)

	// Posts table
	posts := dbml.NewTable("posts")
	posts.AddColumn(dbml.NewColumn("id", "int"))
	posts.AddColumn(dbml.NewColumn("title", "varchar"))
	posts.AddColumn(dbml.NewColumn("body", "varchar"))
	posts.AddColumn(dbml.NewColumn("author_id", "int"))
	posts.AddColumn(dbml.NewColumn("type", "varchar"))
	project.AddTable(posts)

	// Users table
	users := dbml.NewTable("users")
	users.AddColumn(dbml.NewColumn("id", "int"))
	users.AddColumn(dbml.NewColumn("name", "varchar"))
	project.AddTable(users)

	// Organizations
	companies := dbml.NewTable("companies")
	companies.AddColumn(dbml.NewColumn("id", "int"))
	companies.AddColumn(dbml.NewColumn("name", "varchar"))
	project.AddTable(companies)

	universities := dbml.NewTable("universities")
	universities.AddColumn(dbml.NewColumn("id", "int"))
	universities.AddColumn(dbml.NewColumn("name", "varchar"))
	project.AddTable(universities)

	// Polymorphic memberships: organization_type names the organization table
	memberships := dbml.NewTable("memberships")
	memberships.AddColumn(dbml.NewColumn("id", "int"))
	memberships.AddColumn(dbml.NewColumn("organization_type", "varchar"))
	memberships.AddColumn(dbml.NewColumn("organization_id", "int"))
	memberships.AddColumn(dbml.NewColumn("user_id", "int"))
	project.AddTable(memberships)

	return project
}

// TestSchema creates the fixture schema bound to engine, with associations
// authors.posts, posts.author, users.memberships and memberships.user.
func TestSchema(t testing.TB, engine anyof.Engine) *anyof.Schema {
	t.Helper()

	schema, err := anyof.NewFromDBML(FixtureProject(), engine)
	if err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	associations := []struct {
		kind                     anyof.AssociationKind
		source, name, target, fk string
	}{
		{anyof.HasMany, "authors", "posts", "posts", "author_id"},
		{anyof.BelongsTo, "posts", "author", "authors", "author_id"},
		{anyof.HasMany, "users", "memberships", "memberships", "user_id"},
		{anyof.BelongsTo, "memberships", "user", "users", "user_id"},
	}
	for _, a := range associations {
		var err error
		if a.kind == anyof.HasMany {
			err = schema.HasMany(a.source, a.name, a.target, a.fk)
		} else {
			err = schema.BelongsTo(a.source, a.name, a.target, a.fk)
		}
		if err != nil {
			t.Fatalf("Failed to declare association %s.%s: %v", a.source, a.name, err)
		}
	}
	return schema
}

// Fixture author ids.
const (
	DavidID = 1
	MaryID  = 2
	BobID   = 3
)

// FixtureStatements returns the DDL and seed data for the fixture schema.
// The statements use portable SQL accepted by SQLite, PostgreSQL, MariaDB and SQL Server.
func FixtureStatements() []string {
	return []string{
		"DROP TABLE IF EXISTS memberships",
		"DROP TABLE IF EXISTS universities",
		"DROP TABLE IF EXISTS companies",
		"DROP TABLE IF EXISTS users",
		"DROP TABLE IF EXISTS posts",
		"DROP TABLE IF EXISTS authors",

		"CREATE TABLE authors (id INTEGER PRIMARY KEY, name VARCHAR(255))",
		"CREATE TABLE posts (id INTEGER PRIMARY KEY, title VARCHAR(255), body VARCHAR(1000), author_id INTEGER, type VARCHAR(255))",
		"CREATE TABLE users (id INTEGER PRIMARY KEY, name VARCHAR(255))",
		"CREATE TABLE companies (id INTEGER PRIMARY KEY, name VARCHAR(255))",
		"CREATE TABLE universities (id INTEGER PRIMARY KEY, name VARCHAR(255))",
		"CREATE TABLE memberships (id INTEGER PRIMARY KEY, organization_type VARCHAR(255), organization_id INTEGER, user_id INTEGER)",

		"INSERT INTO authors (id, name) VALUES (1, 'David')",
		"INSERT INTO authors (id, name) VALUES (2, 'Mary')",
		"INSERT INTO authors (id, name) VALUES (3, 'Bob')",

		"INSERT INTO posts (id, title, body, author_id, type) VALUES (1, 'Welcome to the weblog', 'Such a lovely day', 1, 'Post')",
		"INSERT INTO posts (id, title, body, author_id, type) VALUES (2, 'So I was thinking', 'Like I hopefully always am', 1, 'SpecialPost')",
		"INSERT INTO posts (id, title, body, author_id, type) VALUES (3, 'sti comments', 'hello', 1, 'Post')",
		"INSERT INTO posts (id, title, body, author_id, type) VALUES (4, 'sti me', 'hello', 1, 'StiPost')",
		"INSERT INTO posts (id, title, body, author_id, type) VALUES (5, 'habtm sti test', 'hello', 1, 'Post')",
		"INSERT INTO posts (id, title, body, author_id, type) VALUES (6, 'eager loading with OR''d conditions', 'hello', 2, 'Post')",
		"INSERT INTO posts (id, title, body, author_id, type) VALUES (7, 'Thinking about it', 'hello', 3, 'Post')",

		"INSERT INTO users (id, name) VALUES (1, 'ezra')",
		"INSERT INTO users (id, name) VALUES (2, 'aria')",
		"INSERT INTO users (id, name) VALUES (3, 'james')",
		"INSERT INTO users (id, name) VALUES (4, 'alone')",

		"INSERT INTO companies (id, name) VALUES (1, 'Acme')",
		"INSERT INTO companies (id, name) VALUES (2, 'Globex')",
		"INSERT INTO universities (id, name) VALUES (1, 'State')",

		"INSERT INTO memberships (id, organization_type, organization_id, user_id) VALUES (1, 'Company', 1, 1)",
		"INSERT INTO memberships (id, organization_type, organization_id, user_id) VALUES (2, 'University', 1, 2)",
		"INSERT INTO memberships (id, organization_type, organization_id, user_id) VALUES (3, 'Company', 2, 3)",
	}
}

// LoadFixtures creates and seeds the fixture tables.
func LoadFixtures(t testing.TB, db *sql.DB) {
	t.Helper()
	for _, stmt := range FixtureStatements() {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Failed to load fixtures: %v\nStatement: %s", err, stmt)
		}
	}
}

// OpenSQLite opens a seeded in-memory SQLite database that is closed when the test ends.
func OpenSQLite(t testing.TB) *sql.DB {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	if err != nil {
		t.Fatalf("Failed to open sqlite: %v", err)
	}
	// every pooled connection would get its own empty in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	LoadFixtures(t, db)
	return db
}

// OrganizationUsers returns the users that are members of one organization.
func OrganizationUsers(schema *anyof.Schema, organizationType string, organizationID int) *anyof.Relation {
	return schema.From("users").
		JoinsRaw("INNER JOIN memberships ON memberships.user_id = users.id").
		Where(anyof.Fields{"memberships": anyof.Fields{
			"organization_type": organizationType,
			"organization_id":   organizationID,
		}})
}

// Column returns the sorted string form of one column across records.
func Column(records []anyof.Record, column string) []string {
	values := make([]string, 0, len(records))
	for _, r := range records {
		values = append(values, fmt.Sprint(r.Get(column)))
	}
	sort.Strings(values)
	return values
}

// AssertColumn checks the sorted values of a column against expected.
func AssertColumn(t *testing.T, records []anyof.Record, column string, expected ...string) {
	t.Helper()
	want := append([]string(nil), expected...)
	sort.Strings(want)
	got := Column(records, column)
	if len(want) == 0 && len(got) == 0 {
		return
	}
	if !reflect.DeepEqual(want, got) {
		t.Errorf("%s mismatch:\nExpected: %v\nActual:   %v", column, want, got)
	}
}

// AssertSQL compares expected and actual SQL, reporting detailed differences.
func AssertSQL(t *testing.T, expected, actual string) {
	t.Helper()
	if expected != actual {
		t.Errorf("SQL mismatch:\nExpected: %s\nActual:   %s", expected, actual)
	}
}

// AssertArgs checks that the bound arguments match expected values in order.
func AssertArgs(t *testing.T, expected, actual []any) {
	t.Helper()
	if len(expected) != len(actual) {
		t.Errorf("Arg count mismatch: expected %d, got %d\nExpected: %v\nActual: %v",
			len(expected), len(actual), expected, actual)
		return
	}
	for i := range expected {
		if !reflect.DeepEqual(expected[i], actual[i]) {
			t.Errorf("Arg %d mismatch: expected %v (%T), got %v (%T)",
				i, expected[i], expected[i], actual[i], actual[i])
		}
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError fails the test if err is nil.
func AssertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("Expected error but got nil")
	}
}

// AssertErrorContains checks that error message contains substring.
func AssertErrorContains(t *testing.T, err error, substr string) {
	t.Helper()
	if err == nil {
		t.Fatalf("Expected error containing %q but got nil", substr)
	}
	if !strings.Contains(err.Error(), substr) {
		t.Errorf("Expected error containing %q, got: %v", substr, err)
	}
}

// AssertPanics verifies that a function panics.
func AssertPanics(t *testing.T, fn func()) {
	t.Helper()
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic but function completed normally")
		}
	}()
	fn()
}
