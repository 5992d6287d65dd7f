package authz

import (
	"sort"

	"github.com/disserto/disserto-api/model"
)

// mutableFields names the request body fields each role may send, per
// resource kind.
var mutableFields = map[string]map[model.Role][]string{
	KindProject: {
		model.RoleFaculty: {"progress", "feedback"},
		model.RoleHOD:     {"status", "comments", "guide"},
		model.RoleAdmin:   {"status", "comments", "guide", "members"},
	},
	KindMeeting: {
		model.RoleFaculty: {"status", "meetingSummary", "guideRemarks"},
		model.RoleStudent: {"studentPoints"},
	},
	KindSubmission: {
		model.RoleFaculty: {"status", "comments"},
		model.RoleHOD:     {"status", "comments"},
		model.RoleAdmin:   {"status", "comments"},
	},
}

// MutableFields returns the fields role may set on kind.
func MutableFields(role model.Role, kind string) []string {
	return append([]string(nil), mutableFields[kind][role]...)
}

// DisallowedFields returns the members of fields role may not set on kind, sorted.
func DisallowedFields(role model.Role, kind string, fields []string) []string {
	allowed := map[string]bool{}
	for _, f := range mutableFields[kind][role] {
		allowed[f] = true
	}
	var out []string
	for _, f := range fields {
		if !allowed[f] {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}
