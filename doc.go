// Package correlato extracts pairwise relationships between short text nodes
// for downstream graph construction.
//
// Given a batch of nodes it produces four relationship sets: semantic
// similarity pairs (cosine similarity of embeddings), keyword-overlap pairs
// (shared TF-IDF terms), causal matches (marker phrases such as "because")
// and hierarchical matches (heading-shaped content such as "1. Introduction").
//
// # Basic Usage
//
//	emb, err := embedder.New(embedder.Config{Provider: embedder.ProviderEmbedEverything})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer emb.Close()
//
//	opts := correlato.DefaultOptions()
//	opts.SimilarityThreshold = 0.85
//
//	analyzer, err := correlato.NewAnalyzer(emb, nil, &opts)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	raw, err := output.ReadNodes("nodes.json", false)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := analyzer.Analyze(ctx, raw)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = output.Write("relationships.json", "", result)
//
// # Node Validation
//
// FilterNodes drops records without a non-empty string content or without a
// truthy id (non-empty string, non-zero number). The position of a node in
// the filtered list is its index for the rest of the run.
//
// Numeric ids keep their literal JSON text: 1E2 stays "1E2". A literal too
// large for float64, such as 1e400, counts as non-zero and is kept.
//
// # Identifiers
//
// Similarity and keyword pairs carry declared node ids. Causal and
// hierarchical matches carry the node's index in the filtered list, rendered
// as a decimal string. Consumers that need declared ids for those matches can
// resolve them through the filtered list, as pkg/linker does.
//
// # Thresholds
//
// Both thresholds are exclusive and must lie in [0, 1]. A pair whose
// similarity equals the similarity threshold is not reported; a term whose
// weight equals the keyword threshold does not count.
package correlato
