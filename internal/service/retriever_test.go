package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namespaceResult struct {
	candidates []*domain.QueryCandidate
	err        error
	delay      time.Duration
}

// fakeQuerier plays back per-namespace results with optional delays and
// records the namespaces queried.
type fakeQuerier struct {
	mu      sync.Mutex
	results map[string]namespaceResult
	queried []string
}

func (f *fakeQuerier) QueryNamespace(ctx context.Context, namespace string, vector []float32, topK int) ([]*domain.QueryCandidate, error) {
	f.mu.Lock()
	f.queried = append(f.queried, namespace)
	res := f.results[namespace]
	f.mu.Unlock()

	if res.delay > 0 {
		select {
		case <-time.After(res.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return res.candidates, res.err
}

func candidate(namespace, name string) *domain.QueryCandidate {
	return &domain.QueryCandidate{
		Item: &domain.KnowledgeItem{
			Kind:        domain.ItemKindService,
			Namespace:   namespace,
			DisplayName: name,
			Content:     "details",
		},
		Score:     0.5,
		Namespace: namespace,
	}
}

func TestRetriever_MergePreservesNamespaceOrder(t *testing.T) {
	// The schemes namespace responds slower than services; the merge must
	// still list schemes candidates first because of configured order.
	querier := &fakeQuerier{results: map[string]namespaceResult{
		"schemes": {
			candidates: []*domain.QueryCandidate{candidate("schemes", "PM Kisan"), candidate("schemes", "PM Awas")},
			delay:      60 * time.Millisecond,
		},
		"services": {
			candidates: []*domain.QueryCandidate{candidate("services", "Ration Card")},
		},
	}}

	retriever := NewRetriever(querier, RetrieverConfig{
		Namespaces: []string{"schemes", "services"},
		TopK:       3,
	})

	merged, err := retriever.Retrieve(context.Background(), []float32{0.1})
	require.NoError(t, err)
	require.Len(t, merged, 3)
	assert.Equal(t, "PM Kisan", merged[0].Item.DisplayName)
	assert.Equal(t, "PM Awas", merged[1].Item.DisplayName)
	assert.Equal(t, "Ration Card", merged[2].Item.DisplayName)
}

func TestRetriever_QueriesRunConcurrently(t *testing.T) {
	delay := 80 * time.Millisecond
	querier := &fakeQuerier{results: map[string]namespaceResult{
		"schemes":  {candidates: []*domain.QueryCandidate{candidate("schemes", "A")}, delay: delay},
		"services": {candidates: []*domain.QueryCandidate{candidate("services", "B")}, delay: delay},
	}}

	retriever := NewRetriever(querier, RetrieverConfig{
		Namespaces: []string{"schemes", "services"},
	})

	start := time.Now()
	merged, err := retriever.Retrieve(context.Background(), []float32{0.1})
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, merged, 2)
	// Sequential execution would take at least 2x the delay.
	assert.Less(t, elapsed, 2*delay)
}

func TestRetriever_PartialFailureTolerated(t *testing.T) {
	querier := &fakeQuerier{results: map[string]namespaceResult{
		"schemes":  {err: errors.New("index unavailable")},
		"services": {candidates: []*domain.QueryCandidate{candidate("services", "Ration Card")}},
	}}

	retriever := NewRetriever(querier, RetrieverConfig{
		Namespaces: []string{"schemes", "services"},
	})

	merged, err := retriever.Retrieve(context.Background(), []float32{0.1})
	require.NoError(t, err)
	require.Len(t, merged, 1)
	assert.Equal(t, "Ration Card", merged[0].Item.DisplayName)
}

func TestRetriever_AllFailuresYieldEmptyList(t *testing.T) {
	querier := &fakeQuerier{results: map[string]namespaceResult{
		"schemes":  {err: errors.New("down")},
		"services": {err: errors.New("down")},
	}}

	retriever := NewRetriever(querier, RetrieverConfig{
		Namespaces: []string{"schemes", "services"},
	})

	merged, err := retriever.Retrieve(context.Background(), []float32{0.1})
	require.NoError(t, err)
	assert.Empty(t, merged)
}

func TestRetriever_QueriesEveryConfiguredNamespace(t *testing.T) {
	querier := &fakeQuerier{results: map[string]namespaceResult{}}

	retriever := NewRetriever(querier, RetrieverConfig{
		Namespaces: []string{"schemes", "services", "faq"},
	})

	_, err := retriever.Retrieve(context.Background(), []float32{0.1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"schemes", "services", "faq"}, querier.queried)
}
