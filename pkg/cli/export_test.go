package cli

// Exported for testing
var (
	SplitChunks = splitChunks
	IngestOne   = ingestOne
)

type IngestDocument = ingestDocument
