package discovery

import "strings"

// ParseTXT converts raw DNS-SD TXT records into a key-value map.
// Records without an '=' separator or with an empty key are dropped.
func ParseTXT(records []string) map[string]string {
	result := make(map[string]string)
	for _, record := range records {
		if idx := strings.IndexByte(record, '='); idx > 0 {
			key := record[:idx]
			value := record[idx+1:]
			result[key] = value
		}
	}
	return result
}
