package indexer

import "strings"

const (
	// DefaultChunkSize is the target chunk length in runes.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is how many trailing runes consecutive chunks share.
	DefaultChunkOverlap = 50
	// maxChunksPerDocument stops the scan on degenerate input, e.g. text
	// made entirely of separator characters.
	maxChunksPerDocument = 1000
)

var (
	paragraphSep = []rune("\n\n")
	sentenceSep  = []rune(". ")
)

// Chunker splits document text into overlapping segments sized for
// embedding. It is a pure function of its input; sizes are measured in runes
// so multibyte text never splits mid-character.
type Chunker struct {
	size    int
	overlap int
}

// NewChunker creates a chunker. Non-positive size or an overlap outside
// [0, size) falls back to the defaults.
func NewChunker(size, overlap int) *Chunker {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = DefaultChunkOverlap
	}
	return &Chunker{size: size, overlap: overlap}
}

// Chunk splits text into segments of at most the target size. Each cut
// prefers the nearest paragraph break, then the nearest sentence end, as
// long as the boundary lies past the half-chunk mark; otherwise it cuts
// exactly at the target size. Consecutive chunks overlap so context spanning
// a boundary survives in at least one chunk.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(text)
	n := len(runes)
	if n == 0 {
		return nil
	}
	if n <= c.size {
		return []string{text}
	}

	var chunks []string
	offset := 0
	half := c.size / 2

	for iter := 0; offset < n-1 && iter < maxChunksPerDocument; iter++ {
		end := offset + c.size
		if end < n {
			window := runes[offset:end]
			if cut := lastIndexRunes(window, paragraphSep); cut > half {
				end = offset + cut + len(paragraphSep)
			} else if cut := lastIndexRunes(window, sentenceSep); cut > half {
				end = offset + cut + len(sentenceSep)
			}
		} else {
			end = n
		}

		piece := strings.TrimSpace(string(runes[offset:end]))
		if piece != "" {
			chunks = append(chunks, piece)
		}

		if end >= n {
			break
		}
		next := end - c.overlap
		if next <= offset {
			// A boundary cut shorter than the overlap must still advance,
			// or the scan would re-emit the same window until the cap.
			next = offset + 1
		}
		offset = next
	}

	return chunks
}

// lastIndexRunes returns the rune index of the last occurrence of sep in
// window, or -1.
func lastIndexRunes(window, sep []rune) int {
	for i := len(window) - len(sep); i >= 0; i-- {
		match := true
		for j := range sep {
			if window[i+j] != sep[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
