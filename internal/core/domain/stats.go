package domain

// EngineStats describes the state of the answering engine.
type EngineStats struct {
	Ready           bool   `json:"ready"`
	CollectionName  string `json:"collection_name"`
	TotalChunks     int    `json:"total_chunks"`
	EmbeddingModel  string `json:"embedding_model"`
	GenerativeModel string `json:"generative_model"`
	Space           string `json:"space"`
	StorageBackend  string `json:"storage_backend"`
}

// IngestReport summarises one ingestion run.
type IngestReport struct {
	// Skipped is true when the collection was already populated.
	Skipped bool `json:"skipped"`

	// Files is the number of PDF files found.
	Files int `json:"files"`

	// Documents is the number of files that produced at least one chunk.
	Documents int `json:"documents"`

	// Chunks is the number of passages added.
	Chunks int `json:"chunks"`

	// Failed lists files that could not be extracted or indexed.
	Failed []string `json:"failed,omitempty"`

	// Empty lists files that yielded no usable text.
	Empty []string `json:"empty,omitempty"`
}
