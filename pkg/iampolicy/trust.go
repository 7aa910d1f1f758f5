package iampolicy

// TrustedPrincipals returns the principal identifiers found under
// Statement[].Principal.AWS, in document order. Statements without an AWS
// principal contribute nothing. Duplicates are preserved; callers that need
// a set deduplicate on insert.
func TrustedPrincipals(doc *Document) []string {
	var principals []string
	for _, stmt := range doc.Statement {
		if stmt.Principal == nil {
			continue
		}
		principals = append(principals, stmt.Principal.AWS...)
	}
	return principals
}
