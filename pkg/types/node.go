package types

// RawNode is an input record before validation. ID and Content hold whatever
// the decoder produced (string, json.Number, bool, nil, ...).
type RawNode struct {
	ID      any `json:"id" yaml:"id"`
	Content any `json:"content" yaml:"content"`
}

// Node is a validated node. ID is the declared id coerced to its string form.
type Node struct {
	ID      string `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// Contents returns the content of each node, in order.
func Contents(nodes []Node) []string {
	contents := make([]string, len(nodes))
	for i, n := range nodes {
		contents[i] = n.Content
	}
	return contents
}

// IDs returns the id of each node, in order.
func IDs(nodes []Node) []string {
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}
