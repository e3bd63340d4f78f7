package render

import (
	"strings"
	"testing"
)

func TestPlaceholderStyle_Marker(t *testing.T) {
	tests := []struct {
		style PlaceholderStyle
		n     int
		want  string
	}{
		{PlaceholderQuestion, 3, "?"},
		{PlaceholderDollar, 3, "$3"},
		{PlaceholderAtP, 12, "@p12"},
	}
	for _, tt := range tests {
		t.Run(tt.style.String(), func(t *testing.T) {
			if got := tt.style.Marker(tt.n); got != tt.want {
				t.Errorf("Marker(%d) = %q, want %q", tt.n, got, tt.want)
			}
		})
	}
}

func TestFindPlaceholders(t *testing.T) {
	tests := []struct {
		name      string
		sql       string
		style     PlaceholderStyle
		positions []int
		count     int
	}{
		{"question marks", "a = ? AND b = ?", PlaceholderQuestion, nil, 2},
		{"question in literal", "a = '?' AND b = ?", PlaceholderQuestion, nil, 1},
		{"question in identifier", `"wh?" = ? OR ` + "`x?`" + ` = ?`, PlaceholderQuestion, nil, 2},
		{"dollar markers", `("name" = $1 OR "name" = $2)`, PlaceholderDollar, []int{1, 2}, 2},
		{"dollar in literal", `"price" = '$1' AND "id" = $1`, PlaceholderDollar, []int{1}, 1},
		{"escaped quote", `'it\'s $2' = $1`, PlaceholderDollar, []int{1}, 1},
		{"doubled quote", `"name" = 'O''Brien $3' AND "id" = $2`, PlaceholderDollar, []int{2}, 1},
		{"at markers", `[name] = @p1 OR [id] IN (@p2, @p3)`, PlaceholderAtP, []int{1, 2, 3}, 3},
		{"double digit", `a = $10 AND b = $2`, PlaceholderDollar, []int{10, 2}, 2},
		{"none", "a IS NULL", PlaceholderDollar, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := FindPlaceholders(tt.sql, tt.style)
			if len(found) != tt.count {
				t.Fatalf("FindPlaceholders() found %d markers, want %d", len(found), tt.count)
			}
			for i, pos := range tt.positions {
				if found[i].Position != pos {
					t.Errorf("marker %d position = %d, want %d", i, found[i].Position, pos)
				}
			}
		})
	}
}

func TestReplacePlaceholders(t *testing.T) {
	sql := `"name" = $1 AND "note" = '$2' AND "id" = $2`
	markers := FindPlaceholders(sql, PlaceholderDollar)

	got := ReplacePlaceholders(sql, markers, func(_ int, _ Placeholder) string { return "?" })
	want := `"name" = ? AND "note" = '$2' AND "id" = ?`
	if got != want {
		t.Errorf("ReplacePlaceholders() = %q, want %q", got, want)
	}
}

func TestReplacePlaceholders_NoMarkers(t *testing.T) {
	sql := "a IS NULL"
	if got := ReplacePlaceholders(sql, nil, nil); got != sql {
		t.Errorf("ReplacePlaceholders() = %q, want unchanged", got)
	}
}

func TestFindPlaceholders_ManyMarkers(t *testing.T) {
	parts := make([]string, 0, 25)
	for i := 1; i <= 25; i++ {
		parts = append(parts, PlaceholderAtP.Marker(i))
	}
	sql := "[id] IN (" + strings.Join(parts, ", ") + ")"

	found := FindPlaceholders(sql, PlaceholderAtP)
	if len(found) != 25 {
		t.Fatalf("found %d markers, want 25", len(found))
	}
	if found[24].Position != 25 {
		t.Errorf("last position = %d, want 25", found[24].Position)
	}
}
