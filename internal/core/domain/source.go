package domain

// SourceKind tells file backed input apart from resident text.
// The kind decides the default chunk size of a plan.
type SourceKind uint8

const (
	// SourceFile is read from local disk one chunk at a time.
	SourceFile SourceKind = iota + 1

	// SourceText is already resident in memory and only sliced.
	SourceText
)

// String returns the string representation of the SourceKind.
func (k SourceKind) String() string {
	switch k {
	case SourceFile:
		return "file"
	case SourceText:
		return "text"
	default:
		return "unknown"
	}
}

// ChunkPlan describes how an input of a known size is cut into chunks.
// It is derived from the source and the configured chunk size and never stored on its own.
type ChunkPlan struct {
	// ChunkSize is the maximum number of bytes read and hashed per step.
	ChunkSize uint32

	// TotalBytes is the fixed size of the source.
	TotalBytes uint64

	// TotalChunks is ceil(TotalBytes / ChunkSize), 0 for an empty source.
	TotalChunks uint64
}

// NewChunkPlan derives the plan for totalBytes split into chunkSize pieces.
// A zero chunkSize yields a plan with no chunks.
func NewChunkPlan(totalBytes uint64, chunkSize uint32) ChunkPlan {
	plan := ChunkPlan{ChunkSize: chunkSize, TotalBytes: totalBytes}
	if chunkSize == 0 || totalBytes == 0 {
		return plan
	}

	size := uint64(chunkSize)
	plan.TotalChunks = totalBytes / size
	if totalBytes%size != 0 {
		plan.TotalChunks++
	}
	return plan
}

// IsEmpty reports whether the plan covers no bytes at all.
func (p ChunkPlan) IsEmpty() bool {
	return p.TotalBytes == 0
}

// ProgressPercent converts processed out of total chunks into a percentage
// clamped to [0, 100]. An empty plan (total 0) is complete by definition.
func ProgressPercent(processed, total uint64) float64 {
	if total == 0 {
		return 100
	}
	if processed >= total {
		return 100
	}
	return float64(processed) / float64(total) * 100
}
