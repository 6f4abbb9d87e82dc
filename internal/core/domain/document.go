package domain

import "strings"

// DefaultCategory is the category label attached to every ingested passage.
const DefaultCategory = "Ogrenci Yonergeleri"

// PageSeparator joins page texts before structural splitting.
const PageSeparator = "\n\n"

// Document represents a source file queued for ingestion.
// It is immutable once ingested.
type Document struct {
	// Name is the file name, used as the document reference in metadata.
	Name string

	// Path is the location on disk.
	Path string

	// Category is the label attached to every passage of the document.
	Category string

	// Pages holds the extracted page texts in page order.
	Pages []Page
}

// Content returns the page texts joined with PageSeparator.
func (d *Document) Content() string {
	texts := make([]string, len(d.Pages))
	for i, p := range d.Pages {
		texts[i] = p.Text
	}
	return strings.Join(texts, PageSeparator)
}

// Page is an ordered unit of extracted text.
type Page struct {
	// Index is the zero-based position of the page in the source file.
	Index int

	// Text is the trimmed, non-empty page text.
	Text string
}

// Chunk represents a bounded passage derived from a document.
type Chunk struct {
	// ID is the sequential identifier assigned at ingestion time.
	// It is empty until the ingestion service assigns it.
	ID string

	// Document is the owning document's name.
	Document string

	// Category is the document category.
	Category string

	// Content is the passage text.
	Content string

	// Position is the ordinal position within the document.
	Position int
}

// PassageMetadata is the metadata stored alongside every passage.
type PassageMetadata struct {
	Document string `json:"document"`
	Category string `json:"category"`
}

// IndexedPassage is the persisted form of a Chunk inside a collection.
type IndexedPassage struct {
	ID        string
	Text      string
	Metadata  PassageMetadata
	Embedding []float32
}
