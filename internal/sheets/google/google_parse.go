package google

import (
	"fmt"
	"strings"
)

// toRecords flattens a Sheets values matrix into string records. Cells may
// come back as strings or numbers depending on the render option.
func toRecords(values [][]interface{}) [][]string {
	out := make([][]string, len(values))
	for i, row := range values {
		out[i] = toStrings(row)
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case nil:
		case string:
			out[i] = strings.TrimSpace(x)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(x))
		}
	}
	return out
}
