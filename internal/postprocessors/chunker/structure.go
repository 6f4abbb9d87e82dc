// Package chunker splits document text into passages bounded first by
// characters along natural boundaries, then by embedding-model tokens.
package chunker

import (
	"strings"
	"unicode/utf8"
)

// DefaultChunkSize is the default maximum passage length in characters.
const DefaultChunkSize = 1500

// DefaultChunkOverlap is the default number of characters carried between passages.
const DefaultChunkOverlap = 200

// DefaultSeparators is the separator preference order: paragraph, line,
// sentence, word, then single characters.
var DefaultSeparators = []string{"\n\n", "\n", ". ", " ", ""}

// StructureOptions configures SplitByStructure.
type StructureOptions struct {
	// ChunkSize is the maximum passage length in characters (runes).
	ChunkSize int

	// Overlap is the number of characters shared by adjacent passages.
	Overlap int

	// Separators are tried in order. An empty string splits into characters.
	Separators []string
}

func (o StructureOptions) normalised() StructureOptions {
	if o.ChunkSize <= 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Overlap < 0 {
		o.Overlap = 0
	}
	if o.Overlap >= o.ChunkSize {
		o.Overlap = o.ChunkSize / 4
	}
	if len(o.Separators) == 0 {
		o.Separators = DefaultSeparators
	}
	return o
}

// SplitByStructure recursively splits text on the first separator it
// contains, keeping each separator at the start of the piece that follows
// it. Pieces shorter than ChunkSize are merged greedily, carrying up to
// Overlap characters into the next passage. Longer pieces are split again
// with the remaining separators. Passages are trimmed and empty ones dropped.
func SplitByStructure(text string, opts StructureOptions) []string {
	opts = opts.normalised()
	s := &structureSplitter{size: opts.ChunkSize, overlap: opts.Overlap}
	return s.split(text, opts.Separators)
}

type structureSplitter struct {
	size    int
	overlap int
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

func (s *structureSplitter) split(text string, separators []string) []string {
	var final []string

	separator := separators[len(separators)-1]
	var rest []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			rest = separators[i+1:]
			break
		}
	}

	var good []string
	for _, piece := range splitKeepingSeparator(text, separator) {
		if runeLen(piece) < s.size {
			good = append(good, piece)
			continue
		}
		if len(good) > 0 {
			final = append(final, s.merge(good)...)
			good = nil
		}
		if len(rest) == 0 {
			final = append(final, piece)
		} else {
			final = append(final, s.split(piece, rest)...)
		}
	}
	if len(good) > 0 {
		final = append(final, s.merge(good)...)
	}
	return final
}

// splitKeepingSeparator splits text on sep and prefixes every piece after
// the first with sep. An empty sep yields single characters.
func splitKeepingSeparator(text, sep string) []string {
	var pieces []string
	if sep == "" {
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}
	parts := strings.Split(text, sep)
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// merge combines consecutive pieces into passages of at most size
// characters. When a passage is emitted, pieces are dropped from its front
// until what remains fits the overlap window and leaves room for the next piece.
func (s *structureSplitter) merge(pieces []string) []string {
	var docs []string
	var current []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.size {
			if len(current) > 0 {
				if doc := joinTrimmed(current); doc != "" {
					docs = append(docs, doc)
				}
				for total > s.overlap || (total+n > s.size && total > 0) {
					total -= runeLen(current[0])
					current = current[1:]
				}
			}
		}
		current = append(current, piece)
		total += n
	}
	if doc := joinTrimmed(current); doc != "" {
		docs = append(docs, doc)
	}
	return docs
}

func joinTrimmed(pieces []string) string {
	return strings.TrimSpace(strings.Join(pieces, ""))
}
