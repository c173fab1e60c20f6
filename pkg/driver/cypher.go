package driver

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidIdentifier is returned for labels or relationship types that
// cannot be embedded in a Cypher query.
var ErrInvalidIdentifier = errors.New("invalid cypher identifier")

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier checks that name is a plain Cypher identifier.
func ValidateIdentifier(name string) error {
	if !identifierPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, name)
	}
	return nil
}

// RelationshipType converts a phrase into a relationship type: upper-cased,
// runs of whitespace replaced by "_", other characters outside [A-Z0-9_]
// removed. "due to" becomes "DUE_TO".
func RelationshipType(phrase string) (string, error) {
	fields := strings.Fields(strings.ToUpper(phrase))
	joined := strings.Join(fields, "_")

	var b strings.Builder
	for _, r := range joined {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' {
			b.WriteRune(r)
		}
	}
	relType := strings.Trim(b.String(), "_")
	if relType != "" && relType[0] >= '0' && relType[0] <= '9' {
		relType = "_" + relType
	}
	if err := ValidateIdentifier(relType); err != nil {
		return "", err
	}
	return relType, nil
}

// matchClause returns the MATCH pattern for a node variable, with label when
// set. The label must already be validated.
func matchClause(variable, label string) string {
	if label == "" {
		return fmt.Sprintf("(%s)", variable)
	}
	return fmt.Sprintf("(%s:%s)", variable, label)
}
