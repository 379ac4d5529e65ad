// Package classify maps stored files to canonical tax document type labels.
package classify

import "strings"

// Unknown is returned when no classification rule matches.
const Unknown = "Unknown"

// MetadataKey is the object metadata key that carries an explicit document
// type. When present its value is authoritative and no filename matching
// runs.
const MetadataKey = "document-type"

// rule pairs a canonical label with the filename keywords that imply it.
type rule struct {
	label    string
	keywords []string
}

// Ordered: first match wins, so results stay deterministic when a filename
// matches more than one rule.
var rules = []rule{
	{"W-2", []string{"w2", "w-2", "wage", "tax statement"}},
	{"1099-INT", []string{"1099-int", "1099int", "interest income"}},
	{"1099-DIV", []string{"1099-div", "1099div", "dividend"}},
	{"1099-MISC", []string{"1099-misc", "1099misc", "miscellaneous"}},
	{"1099-NEC", []string{"1099-nec", "1099nec", "non-employee"}},
	{"1099-B", []string{"1099-b", "1099b", "broker"}},
	{"1099-R", []string{"1099-r", "1099r", "retirement"}},
}

// Document classifies a stored file by its filename and object metadata.
// Explicit metadata wins over filename matching; unmatched files classify
// as Unknown.
func Document(filename string, metadata map[string]string) string {
	if dt, ok := metadata[MetadataKey]; ok && dt != "" {
		return dt
	}
	lower := strings.ToLower(filename)
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(lower, kw) {
				return r.label
			}
		}
	}
	return Unknown
}
