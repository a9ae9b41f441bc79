package translator

import (
	"fmt"
	"sort"
	"strings"
)

// Deduplicate keeps the first occurrence of each distinct combination of
// the given columns, preserving row order. Empty columns means dedupe
// over every column a row carries.
func Deduplicate(rows []map[string]any, columns []string) []map[string]any {
	if len(rows) == 0 {
		return rows
	}
	seen := make(map[string]struct{}, len(rows))
	out := make([]map[string]any, 0, len(rows))
	for _, row := range rows {
		key := rowKey(row, columns)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, row)
	}
	return out
}

func rowKey(row map[string]any, columns []string) string {
	if len(columns) == 0 {
		columns = make([]string, 0, len(row))
		for column := range row {
			columns = append(columns, column)
		}
		sort.Strings(columns)
	}
	var b strings.Builder
	for _, column := range columns {
		fmt.Fprintf(&b, "%v\x00", row[column])
	}
	return b.String()
}

// GroupCount collapses rows into one row per distinct value of column,
// carrying that value and an occurrence count, largest groups first.
// Ties keep first-seen order.
func GroupCount(rows []map[string]any, column string) []map[string]any {
	counts := make(map[string]int64)
	values := make(map[string]any)
	var order []string
	for _, row := range rows {
		value := row[column]
		key := fmt.Sprintf("%v", value)
		if _, seen := counts[key]; !seen {
			order = append(order, key)
			values[key] = value
		}
		counts[key]++
	}

	out := make([]map[string]any, 0, len(order))
	for _, key := range order {
		out = append(out, map[string]any{
			column:  values[key],
			"count": counts[key],
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i]["count"].(int64) > out[j]["count"].(int64)
	})
	return out
}
