package domain

// QueryResult is the raw nearest-neighbour response of a collection.
// It keeps the batch shape of the store API: the outer slices hold one
// entry per query text, and this codebase always issues exactly one.
type QueryResult struct {
	IDs       [][]string
	Documents [][]string
	Metadatas [][]PassageMetadata
	Distances [][]float64
}

// ScoredPassage pairs a retrieved passage with its distance to the query.
type ScoredPassage struct {
	ID       string          `json:"id"`
	Text     string          `json:"text"`
	Metadata PassageMetadata `json:"metadata"`

	// Distance is a non-negative dissimilarity score. Lower is more relevant.
	Distance float64 `json:"distance"`
}

// RetrievalResult is the ranked passage list for one question,
// ordered by ascending distance.
type RetrievalResult struct {
	Question string          `json:"question"`
	TopK     int             `json:"top_k"`
	Passages []ScoredPassage `json:"passages"`
}

// Len returns the number of retrieved passages.
func (r *RetrievalResult) Len() int {
	return len(r.Passages)
}

// FromQueryResult converts the first batch entry of a QueryResult into
// scored passages. Missing parallel entries are left zero-valued.
func FromQueryResult(qr *QueryResult) []ScoredPassage {
	if qr == nil || len(qr.Documents) == 0 {
		return nil
	}
	docs := qr.Documents[0]
	out := make([]ScoredPassage, len(docs))
	for i, text := range docs {
		out[i].Text = text
		if len(qr.IDs) > 0 && i < len(qr.IDs[0]) {
			out[i].ID = qr.IDs[0][i]
		}
		if len(qr.Metadatas) > 0 && i < len(qr.Metadatas[0]) {
			out[i].Metadata = qr.Metadatas[0][i]
		}
		if len(qr.Distances) > 0 && i < len(qr.Distances[0]) {
			out[i].Distance = qr.Distances[0][i]
		}
	}
	return out
}
