package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/nagrik-labs/nagrikai/internal/domain"
	"github.com/nagrik-labs/nagrikai/internal/telemetry"
)

// NamespaceQuerier defines the read interface over the knowledge store.
type NamespaceQuerier interface {
	QueryNamespace(ctx context.Context, namespace string, vector []float32, topK int) ([]*domain.QueryCandidate, error)
}

// RetrieverConfig controls fan-out behavior.
type RetrieverConfig struct {
	Namespaces   []string
	TopK         int
	QueryTimeout time.Duration
}

// Retriever fans a query vector out to every configured namespace and merges
// the results. Namespace queries run concurrently; a failed namespace is
// skipped, not fatal. The merge is per-namespace concatenation in configured
// order. Scores are not normalized or re-sorted across namespaces.
type Retriever struct {
	querier NamespaceQuerier
	cfg     RetrieverConfig
}

// NewRetriever creates a new Retriever instance
func NewRetriever(querier NamespaceQuerier, cfg RetrieverConfig) *Retriever {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = 5 * time.Second
	}
	if len(cfg.Namespaces) == 0 {
		cfg.Namespaces = []string{domain.NamespaceSchemes, domain.NamespaceServices}
	}
	return &Retriever{querier: querier, cfg: cfg}
}

// Retrieve returns the merged candidate list for the query vector. When every
// namespace query fails the result is an empty list and a nil error; the
// caller degrades to the no-context answer path.
func (r *Retriever) Retrieve(ctx context.Context, vector []float32) ([]*domain.QueryCandidate, error) {
	ctx, span := telemetry.StartSpan(ctx, "Retriever.Retrieve", telemetry.SpanAttributes{
		Operation: "retrieve",
	})
	defer span.End()

	results := make([][]*domain.QueryCandidate, len(r.cfg.Namespaces))

	var wg sync.WaitGroup
	for i, ns := range r.cfg.Namespaces {
		wg.Add(1)
		go func(slot int, namespace string) {
			defer wg.Done()

			queryCtx, cancel := context.WithTimeout(ctx, r.cfg.QueryTimeout)
			defer cancel()

			candidates, err := r.querier.QueryNamespace(queryCtx, namespace, vector, r.cfg.TopK)
			if err != nil {
				log.Printf("namespace query failed: namespace=%s error=%v", namespace, err)
				telemetry.CaptureError(ctx, err, telemetry.SpanAttributes{
					Namespace: namespace,
					Operation: "query_namespace",
				})
				return
			}
			results[slot] = candidates
		}(i, ns)
	}
	wg.Wait()

	var merged []*domain.QueryCandidate
	for _, candidates := range results {
		merged = append(merged, candidates...)
	}
	if merged == nil {
		merged = []*domain.QueryCandidate{}
	}

	return merged, nil
}
