// Package patterns scans node contents for causal marker phrases and
// heading shapes.
//
// Both detectors are stateless after construction and run in time linear in
// contents × patterns. Matches are keyed by the content's position in the
// filtered node list, rendered as a decimal string:
//
//	d := patterns.NewCausalDetector(nil, nil) // default phrases
//	matches := d.Detect([]string{"It failed because of a bug."})
//	// matches[0] == types.CausalMatch{ID: "0", Phrase: "because", Context: "It failed because of a bug."}
//
// The positional id differs from the declared node ids used by the pairwise
// engines. Consumers that need the declared id resolve it through the same
// filtered list (see package linker).
//
// Heading patterns use RE2 syntax, where \d and \s are ASCII only. The
// default patterns use \p{Nd} and HeadingSpace instead so that headings such
// as "1.\u00a0Intro" match; user-supplied patterns should do the same when
// non-ASCII digits or spaces can occur.
package patterns
