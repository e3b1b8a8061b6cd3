package service

import (
	"fmt"
	"strings"

	"github.com/nagrik-labs/nagrikai/internal/domain"
)

// ContextAssembler renders retrieved candidates into the prompt context.
// Each candidate becomes one labeled block in candidate-list order. When the
// character budget would be exceeded, whole blocks are dropped from the tail;
// a block is never cut mid-text.
type ContextAssembler struct {
	charBudget int
}

// NewContextAssembler creates a new ContextAssembler. budget <= 0 disables
// the cap.
func NewContextAssembler(budget int) *ContextAssembler {
	return &ContextAssembler{charBudget: budget}
}

// Assemble returns the joined context string. Empty input yields "".
func (a *ContextAssembler) Assemble(candidates []*domain.QueryCandidate) string {
	if len(candidates) == 0 {
		return ""
	}

	blocks := make([]string, 0, len(candidates))
	total := 0
	for _, c := range candidates {
		block := fmt.Sprintf("[%s]: %s", c.Item.Kind.ContextLabel(), c.Item.EmbeddingText())

		cost := len(block)
		if len(blocks) > 0 {
			cost += 2
		}
		if a.charBudget > 0 && total+cost > a.charBudget {
			break
		}

		blocks = append(blocks, block)
		total += cost
	}

	return strings.Join(blocks, "\n\n")
}
