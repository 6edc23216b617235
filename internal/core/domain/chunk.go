package domain

// Chunk is one storage-sized piece of content bound for a collection.
type Chunk struct {
	// Text is the chunk content. Concatenating a plan's chunk texts in
	// order reproduces the source text exactly.
	Text string

	// Domain is the domain whose sizing produced this chunk.
	Domain Domain

	// Start is the byte offset of Text within the source.
	Start int

	// Index is the ordinal position within the plan.
	Index int

	// CharLength is len(Text).
	CharLength int

	// Oversized marks a chunk allowed to exceed the domain maximum because
	// it carries an atomic dispatch block that must not be split.
	Oversized bool

	// Truncated marks a chunk carrying a marker that was cut short at end
	// of input, such as an unterminated dispatch payload.
	Truncated bool
}

// Contains reports whether the byte offset falls inside this chunk.
func (c Chunk) Contains(offset int) bool {
	return offset >= c.Start && offset < c.Start+len(c.Text)
}

// ChunkPlan is the ordered chunk sequence for one domain.
type ChunkPlan struct {
	Domain Domain
	Chunks []Chunk
}

// Reconstruct joins the plan's chunk texts back into the source text.
func (p ChunkPlan) Reconstruct() string {
	var total int
	for _, c := range p.Chunks {
		total += len(c.Text)
	}
	buf := make([]byte, 0, total)
	for _, c := range p.Chunks {
		buf = append(buf, c.Text...)
	}
	return string(buf)
}

// ManifestEntry is one (chunk, destination) assignment handed to the
// storage collaborator.
type ManifestEntry struct {
	// ID uniquely identifies this entry for the storage collaborator.
	ID string

	// FloatID is the content identity the chunk belongs to.
	FloatID FloatID

	// SourcePath is the originating file.
	SourcePath string

	// Collection is the destination: a tripartite domain collection, a
	// special pattern collection, or the general fallback.
	Collection string

	// ChunkText is the chunk content.
	ChunkText string

	// ChunkIndex is the chunk's position within its plan.
	ChunkIndex int

	// TotalChunks is the chunk count of the plan the chunk came from.
	TotalChunks int

	// Domain is the domain that sized the chunk, empty for the general
	// fallback.
	Domain Domain

	// Oversized carries the chunk's atomic-block flag through to storage.
	Oversized bool

	// Truncated carries the chunk's unterminated-marker flag through to
	// storage.
	Truncated bool
}
