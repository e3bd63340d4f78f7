package anyof

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/anyof/internal/render"
	"github.com/zoobzio/anyof/internal/types"
	"github.com/zoobzio/anyof/postgres"
)

func TestRewritePlaceholders(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		values []any
		style  render.PlaceholderStyle
		want   string
		args   []any
	}{
		{
			name:   "dollar",
			sql:    `("authors"."name" = $1 OR "authors"."name" = $2)`,
			values: []any{"David", "Mary"},
			style:  render.PlaceholderDollar,
			want:   `("authors"."name" = ? OR "authors"."name" = ?)`,
			args:   []any{"David", "Mary"},
		},
		{
			name:   "at p",
			sql:    `([authors].[name] = @p1 OR [authors].[id] IN (@p2, @p3))`,
			values: []any{"David", 1, 2},
			style:  render.PlaceholderAtP,
			want:   `([authors].[name] = ? OR [authors].[id] IN (?, ?))`,
			args:   []any{"David", 1, 2},
		},
		{
			name:   "question passes through",
			sql:    `(name = ? OR id = ?)`,
			values: []any{"Mary", 3},
			style:  render.PlaceholderQuestion,
			want:   `(name = ? OR id = ?)`,
			args:   []any{"Mary", 3},
		},
		{
			name:   "quoted literal untouched",
			sql:    `(name = 'Price $1' OR id = $1)`,
			values: []any{5},
			style:  render.PlaceholderDollar,
			want:   `(name = 'Price $1' OR id = ?)`,
			args:   []any{5},
		},
		{
			name:   "reordered markers",
			sql:    `(b = $2 AND a = $1)`,
			values: []any{"first", "second"},
			style:  render.PlaceholderDollar,
			want:   `(b = ? AND a = ?)`,
			args:   []any{"second", "first"},
		},
		{
			name:   "no markers",
			sql:    `(1=1)`,
			style:  render.PlaceholderDollar,
			want:   `(1=1)`,
			args:   []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl, err := rewritePlaceholders(tt.sql, tt.values, tt.style)
			if err != nil {
				t.Fatalf("rewritePlaceholders() error = %v", err)
			}
			if tpl.SQL != tt.want {
				t.Errorf("SQL = %q, want %q", tpl.SQL, tt.want)
			}
			if !reflect.DeepEqual(tpl.Args, tt.args) {
				t.Errorf("Args = %v, want %v", tpl.Args, tt.args)
			}
		})
	}
}

func TestRewritePlaceholders_Errors(t *testing.T) {
	tests := []struct {
		name   string
		sql    string
		values []any
	}{
		{"more markers than values", "a = $1 AND b = $2", []any{1}},
		{"more values than markers", "a = $1", []any{1, 2}},
		{"marker out of range", "a = $3", []any{1}},
		{"marker zero", "a = $0", []any{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := rewritePlaceholders(tt.sql, tt.values, render.PlaceholderDollar)
			var rewriteErr PlaceholderRewriteError
			if !errors.As(err, &rewriteErr) {
				t.Fatalf("error = %v, want PlaceholderRewriteError", err)
			}
		})
	}
}

func TestUnprepare(t *testing.T) {
	engine := postgres.New()
	predicate := or(
		types.Condition{Field: types.Field{Name: "name", Table: "authors"}, Operator: types.EQ, Value: types.Param{Index: 0}},
		types.RawCondition{SQL: "id > ?", Params: []types.Param{{Index: 1}}},
	)

	tpl, err := unprepare(engine, predicate, []any{"David", 0})
	if err != nil {
		t.Fatalf("unprepare() error = %v", err)
	}
	if want := `("authors"."name" = ? OR (id > ?))`; tpl.SQL != want {
		t.Errorf("SQL = %q, want %q", tpl.SQL, want)
	}
	if !reflect.DeepEqual(tpl.Args, []any{"David", 0}) {
		t.Errorf("Args = %v", tpl.Args)
	}

	if _, err := unprepare(engine, predicate, []any{"David"}); err == nil {
		t.Error("expected error for missing bound value")
	}
}
