package domain

import (
	"fmt"
	"strings"
	"time"
)

// ItemKind represents the kind of a knowledge item
type ItemKind string

const (
	ItemKindScheme  ItemKind = "scheme"
	ItemKindService ItemKind = "service"
)

// Namespaces partitioning the knowledge store. Each knowledge item lives in
// exactly one namespace, derived from its kind.
const (
	NamespaceSchemes  = "schemes"
	NamespaceServices = "services"
)

// KnowledgeItem represents one published scheme or service in the knowledge
// store. The embedding is computed asynchronously after publication and
// replaced whenever the item is edited.
type KnowledgeItem struct {
	ID          string
	Kind        ItemKind
	Namespace   string
	DisplayName string
	Category    string
	Content     string
	Embedding   []float32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewKnowledgeItem creates a new KnowledgeItem with its namespace derived
// from the kind.
func NewKnowledgeItem(id string, kind ItemKind, displayName, category, content string, now time.Time) *KnowledgeItem {
	return &KnowledgeItem{
		ID:          id,
		Kind:        kind,
		Namespace:   NamespaceForKind(kind),
		DisplayName: displayName,
		Category:    category,
		Content:     content,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NamespaceForKind returns the knowledge store namespace for an item kind.
func NamespaceForKind(kind ItemKind) string {
	if kind == ItemKindScheme {
		return NamespaceSchemes
	}
	return NamespaceServices
}

// ContextLabel returns the label used when an item is rendered into a
// grounding context block. Service items keep the "Info" label the knowledge
// base was originally indexed with; changing it would orphan answers grounded
// on already-published records.
func (k ItemKind) ContextLabel() string {
	if k == ItemKindScheme {
		return "Scheme"
	}
	return "Info"
}

// EmbeddingText builds the canonical text for an item. The same text is used
// for indexing-time embedding and for rendering the item into a grounding
// context block, so retrieval and grounding always agree on the wording.
func (i *KnowledgeItem) EmbeddingText() string {
	var parts []string

	switch i.Kind {
	case ItemKindScheme:
		parts = append(parts, fmt.Sprintf("Scheme Name: %s", i.DisplayName))
	default:
		parts = append(parts, fmt.Sprintf("Service Name: %s", i.DisplayName))
	}

	if i.Category != "" {
		parts = append(parts, fmt.Sprintf("Category: %s", i.Category))
	}
	if i.Content != "" {
		parts = append(parts, fmt.Sprintf("Details: %s", i.Content))
	}

	return strings.Join(parts, "\n")
}

// QueryCandidate is one retrieved knowledge item with its similarity score
// for a given query. Candidates are ephemeral and never persisted.
type QueryCandidate struct {
	Item      *KnowledgeItem
	Score     float32
	Namespace string
}

// ValidateKnowledgeItem validates a KnowledgeItem instance
func ValidateKnowledgeItem(i *KnowledgeItem) error {
	if i == nil {
		return fmt.Errorf("knowledge item cannot be nil")
	}

	if i.ID == "" {
		return fmt.Errorf("knowledge item ID is required")
	}

	if i.DisplayName == "" {
		return fmt.Errorf("knowledge item DisplayName is required")
	}

	if i.Content == "" {
		return fmt.Errorf("knowledge item Content is required")
	}

	if !isValidItemKind(i.Kind) {
		return fmt.Errorf("knowledge item Kind is invalid: %s", i.Kind)
	}

	if i.Namespace != NamespaceForKind(i.Kind) {
		return fmt.Errorf("knowledge item Namespace %q does not match kind %q", i.Namespace, i.Kind)
	}

	return nil
}

// isValidItemKind checks if an ItemKind is valid
func isValidItemKind(k ItemKind) bool {
	switch k {
	case ItemKindScheme, ItemKindService:
		return true
	}
	return false
}
