// Package nearest ranks stored passages by exact distance to a query
// vector. The sqlite and memory index stores share it.
package nearest

import (
	"sort"

	"github.com/custodia-labs/yonerge/internal/core/domain"
)

// Candidate is one stored passage with its embedding.
type Candidate struct {
	ID        string
	Text      string
	Metadata  domain.PassageMetadata
	Embedding []float32
}

// Search scores every candidate against query and returns the topK
// closest as a single-query QueryResult. Ties keep candidate order.
func Search(space domain.DistanceSpace, query []float32, cands []Candidate, topK int) (*domain.QueryResult, error) {
	type scored struct {
		idx  int
		dist float64
	}

	scores := make([]scored, len(cands))
	for i, c := range cands {
		d, err := space.Distance(query, c.Embedding)
		if err != nil {
			return nil, err
		}
		scores[i] = scored{idx: i, dist: d}
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].dist < scores[j].dist
	})
	if topK < len(scores) {
		scores = scores[:max(topK, 0)]
	}

	res := &domain.QueryResult{
		IDs:       [][]string{make([]string, len(scores))},
		Documents: [][]string{make([]string, len(scores))},
		Metadatas: [][]domain.PassageMetadata{make([]domain.PassageMetadata, len(scores))},
		Distances: [][]float64{make([]float64, len(scores))},
	}
	for i, s := range scores {
		c := cands[s.idx]
		res.IDs[0][i] = c.ID
		res.Documents[0][i] = c.Text
		res.Metadatas[0][i] = c.Metadata
		res.Distances[0][i] = s.dist
	}
	return res, nil
}
