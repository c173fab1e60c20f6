package types

// SimilarityPair links two nodes whose embeddings are closer than the
// similarity threshold.
type SimilarityPair struct {
	StartID    string  `json:"start_id" yaml:"start_id" parquet:"start_id"`
	EndID      string  `json:"end_id" yaml:"end_id" parquet:"end_id"`
	Similarity float64 `json:"similarity" yaml:"similarity" parquet:"similarity"`
}

// KeywordPair links two nodes that share weighted keywords.
type KeywordPair struct {
	StartID  string   `json:"start_id" yaml:"start_id" parquet:"start_id"`
	EndID    string   `json:"end_id" yaml:"end_id" parquet:"end_id"`
	Keywords []string `json:"keywords" yaml:"keywords" parquet:"keywords,list"`
}

// CausalMatch records a causal marker phrase found in a node's content.
// ID is the node's position in the filtered list, not its declared id.
type CausalMatch struct {
	ID      string `json:"id" yaml:"id" parquet:"id"`
	Phrase  string `json:"phrase" yaml:"phrase" parquet:"phrase"`
	Context string `json:"context" yaml:"context" parquet:"context"`
}

// HierarchicalMatch records a heading-shaped node.
// ID is the node's position in the filtered list, not its declared id.
type HierarchicalMatch struct {
	ID      string `json:"id" yaml:"id" parquet:"id"`
	Heading string `json:"heading" yaml:"heading" parquet:"heading"`
}

// Result aggregates the four relationship sets of one run.
type Result struct {
	SimilarPairs      []SimilarityPair    `json:"similar_pairs" yaml:"similar_pairs"`
	KeywordPairs      []KeywordPair       `json:"keyword_pairs" yaml:"keyword_pairs"`
	CausalPairs       []CausalMatch       `json:"causal_pairs" yaml:"causal_pairs"`
	HierarchicalPairs []HierarchicalMatch `json:"hierarchical_pairs" yaml:"hierarchical_pairs"`
}

// NewResult merges the four sets into a Result, replacing nil slices with
// empty ones. No deduplication happens across sets.
func NewResult(similar []SimilarityPair, keyword []KeywordPair, causal []CausalMatch, hierarchical []HierarchicalMatch) *Result {
	if similar == nil {
		similar = []SimilarityPair{}
	}
	if keyword == nil {
		keyword = []KeywordPair{}
	}
	if causal == nil {
		causal = []CausalMatch{}
	}
	if hierarchical == nil {
		hierarchical = []HierarchicalMatch{}
	}
	return &Result{
		SimilarPairs:      similar,
		KeywordPairs:      keyword,
		CausalPairs:       causal,
		HierarchicalPairs: hierarchical,
	}
}

// EmptyResult returns a Result with all four sets empty.
func EmptyResult() *Result {
	return NewResult(nil, nil, nil, nil)
}

// Total returns the number of relationships across all four sets.
func (r *Result) Total() int {
	return len(r.SimilarPairs) + len(r.KeywordPairs) + len(r.CausalPairs) + len(r.HierarchicalPairs)
}
