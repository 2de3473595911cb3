package sqlgraph

import (
	"github.com/go-openapi/inflect"
)

var rules = ruleset()

// TableName returns the default table name of a node type: the pluralized
// snake_case form of the type name. It is used when a NodeSpec leaves
// Table empty.
func TableName(typ string) string {
	return rules.Pluralize(rules.Underscore(typ))
}

// JoinTableName returns the default join table name of an M2M edge between
// the given owner type and edge name.
func JoinTableName(typ, edge string) string {
	return rules.Underscore(typ) + "_" + rules.Underscore(edge)
}

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Acronyms that should survive snake_casing as a single word.
	for _, w := range []string{
		"ACL", "API", "ASCII", "DB", "EOF", "GUID", "HTML", "HTTP", "HTTPS",
		"ID", "IP", "JSON", "LHS", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP",
		"SQL", "SSH", "TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL",
		"UTF8", "UUID", "VM", "XML", "XSS",
	} {
		rules.AddAcronym(w)
	}
	return rules
}
