package search

import (
	"fmt"
	"sort"
	"strings"

	"lorekeeper/internal/vectorstore"
)

// BuildContext formats ranked search results into one text block for prompt
// injection. Results are grouped by source document in first-seen order;
// within a group, chunks are restored to reading order by chunk index. An
// empty input produces an empty string, which callers treat as "no context
// to inject".
func BuildContext(results []vectorstore.SearchResult) string {
	if len(results) == 0 {
		return ""
	}

	type groupKey struct {
		docType string
		docID   string
	}

	var order []groupKey
	groups := make(map[groupKey][]vectorstore.Entry)
	for _, result := range results {
		key := groupKey{docType: string(result.Entry.DocumentType), docID: result.Entry.DocumentID}
		if _, seen := groups[key]; !seen {
			order = append(order, key)
		}
		groups[key] = append(groups[key], result.Entry)
	}

	var sb strings.Builder
	for _, key := range order {
		entries := groups[key]
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].ChunkIndex < entries[j].ChunkIndex
		})

		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}

		first := entries[0]
		if first.FolderName != "" {
			sb.WriteString(fmt.Sprintf("## %s (%s, %s)", first.DocumentName, first.DocumentType, first.FolderName))
		} else {
			sb.WriteString(fmt.Sprintf("## %s (%s)", first.DocumentName, first.DocumentType))
		}

		for _, entry := range entries {
			sb.WriteString("\n\n")
			sb.WriteString(entry.Text)
		}
	}

	return sb.String()
}
