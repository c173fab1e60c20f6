// Package tfidf computes sparse TF-IDF term weights over a corpus.
//
// Vectorizer reproduces the default behaviour of scikit-learn's
// TfidfVectorizer: lowercasing, tokens of two or more word characters,
// stopword removal, raw term counts, smoothed idf
//
//	idf(t) = ln((1 + n) / (1 + df(t))) + 1
//
// and L2 row normalization. The vocabulary is the sorted set of distinct
// terms kept across the whole corpus; column indices are shared by all rows.
//
// An empty corpus, or one whose tokens are all stopwords, yields a Matrix
// with an empty vocabulary and one empty row per document.
package tfidf
