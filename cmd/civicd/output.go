package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/alderbrook/civicd/internal/model"
)

func printJSON(data any) {
	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		return
	}
	fmt.Println(string(out))
}

// fieldString renders one record field for table output.
func fieldString(rec map[string]any, name string) string {
	v, ok := rec[name]
	if !ok || v == nil {
		return ""
	}
	switch t := v.(type) {
	case string:
		return t
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%g", t)
	default:
		out, _ := json.Marshal(t)
		return string(out)
	}
}

// tableColumns picks the columns for a collection: the declared fields from
// the registry, prefixed by the ID.
func tableColumns(typ model.CollectionType) []string {
	cols := []string{"id"}
	if c, ok := model.Lookup(typ); ok {
		for _, f := range c.Fields {
			cols = append(cols, f.Name)
		}
	}
	return cols
}

// printRecordTable prints a list of records as an aligned table.
func printRecordTable(typ model.CollectionType, data json.RawMessage) error {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return fmt.Errorf("decoding records: %w", err)
	}

	cols := tableColumns(typ)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(cols, "\t")))
	for _, rec := range records {
		vals := make([]string, len(cols))
		for i, col := range cols {
			val := fieldString(rec, col)
			if len(val) > 50 {
				val = val[:47] + "..."
			}
			vals[i] = val
		}
		fmt.Fprintln(w, strings.Join(vals, "\t"))
	}
	w.Flush()
	fmt.Printf("\n%d %s\n", len(records), typ)
	return nil
}

// printRecordDetail prints a single record as label/value lines, declared
// fields first, remaining keys after in sorted order.
func printRecordDetail(typ model.CollectionType, data json.RawMessage) error {
	var rec map[string]any
	if err := json.Unmarshal(data, &rec); err != nil {
		return fmt.Errorf("decoding record: %w", err)
	}

	printed := map[string]bool{}
	for _, col := range tableColumns(typ) {
		if v := fieldString(rec, col); v != "" {
			fmt.Printf("%-15s%s\n", col+":", v)
		}
		printed[col] = true
	}

	var rest []string
	for k := range rec {
		if !printed[k] {
			rest = append(rest, k)
		}
	}
	sort.Strings(rest)
	for _, k := range rest {
		if v := fieldString(rec, k); v != "" {
			fmt.Printf("%-15s%s\n", k+":", v)
		}
	}
	return nil
}
