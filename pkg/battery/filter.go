package battery

import "strings"

// FilterByName returns the records whose name contains filter, ignoring case. An empty filter
// returns records unchanged.
func FilterByName(records []Record, filter string) []Record {
	if filter == "" {
		return records
	}
	needle := strings.ToLower(filter)
	matched := make([]Record, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) {
			matched = append(matched, r)
		}
	}
	return matched
}
