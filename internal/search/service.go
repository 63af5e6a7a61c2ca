package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"lorekeeper/internal/contextutil"
	"lorekeeper/internal/llm"
	"lorekeeper/internal/vectorstore"
)

const (
	// DefaultTopK is used when a query does not ask for a specific result
	// count.
	DefaultTopK = 5
	// MaxTopK caps how many chunks a single query may retrieve.
	MaxTopK = 20
)

var (
	// ErrNotConfigured is returned when the service is missing its store or
	// embedding gateway. Fail fast instead of attempting a degraded search.
	ErrNotConfigured = errors.New("search service not configured")
	// ErrNoAnswerer is returned from Ask when no chat client was wired in.
	ErrNoAnswerer = errors.New("answer generation not configured")
)

// Service answers natural-language queries against the vector store.
type Service struct {
	embedder llm.Embedder
	store    vectorstore.Store
	chat     *llm.Client
}

// NewService creates a search service. chat may be nil; Ask then returns
// ErrNoAnswerer while Search keeps working.
func NewService(embedder llm.Embedder, store vectorstore.Store, chat *llm.Client) *Service {
	return &Service{
		embedder: embedder,
		store:    store,
		chat:     chat,
	}
}

// Search embeds the query as a one-element batch and returns the topK most
// similar chunks, optionally filtered by document type. An empty store
// yields an empty result, never an error.
func (s *Service) Search(ctx context.Context, query string, topK int, filter *vectorstore.Filter) ([]vectorstore.SearchResult, error) {
	if s.embedder == nil || s.store == nil {
		return nil, ErrNotConfigured
	}

	logger := contextutil.LoggerFromContext(ctx)

	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxTopK {
		topK = MaxTopK
	}

	vectors, err := s.embedder.EmbedTexts(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("expected 1 query embedding, got %d", len(vectors))
	}

	results, err := s.store.Search(ctx, vectors[0], topK, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search vector store: %w", err)
	}

	logger.InfoContext(ctx, "search completed", "top_k", topK, "results", len(results))
	return results, nil
}

// AskRequest is a retrieve-and-answer query.
type AskRequest struct {
	Question string
	TopK     int
	Filter   *vectorstore.Filter
}

// AskResponse carries the generated answer and the chunks it drew on.
type AskResponse struct {
	Answer  string
	Results []vectorstore.SearchResult
}

// Ask retrieves the most relevant chunks, assembles them into a context
// block and asks the chat model to answer from that context alone.
func (s *Service) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	if s.chat == nil {
		return AskResponse{}, ErrNoAnswerer
	}

	logger := contextutil.LoggerFromContext(ctx)

	results, err := s.Search(ctx, req.Question, req.TopK, req.Filter)
	if err != nil {
		return AskResponse{}, err
	}
	if len(results) == 0 {
		logger.InfoContext(ctx, "no relevant chunks found", "question", req.Question)
		return AskResponse{
			Answer: "I couldn't find anything in the campaign documents to answer that.",
		}, nil
	}

	contextBlock := BuildContext(results)

	var prompt strings.Builder
	prompt.WriteString("You are a game master's assistant. Answer the question using only the campaign excerpts below. ")
	prompt.WriteString("If the excerpts don't contain the answer, say so.\n\n")
	prompt.WriteString(contextBlock)
	prompt.WriteString("\n\nQuestion: ")
	prompt.WriteString(req.Question)

	answer, err := s.chat.Chat(ctx, []llm.ChatMessage{
		{Role: "user", Content: prompt.String()},
	})
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to generate answer: %w", err)
	}

	return AskResponse{Answer: answer, Results: results}, nil
}
