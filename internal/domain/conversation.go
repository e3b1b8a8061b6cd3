package domain

// TurnRole identifies the author of a conversation turn.
type TurnRole string

const (
	TurnRoleUser  TurnRole = "user"
	TurnRoleModel TurnRole = "model"
)

// ConversationTurn is one prior turn of a citizen conversation. The caller
// supplies the full history on every request; nothing is persisted server
// side. Turns are passed through to the generator verbatim, malformed
// ordering included.
type ConversationTurn struct {
	Role    TurnRole
	Content string
}

// Groundedness indicates whether an answer was produced from retrieved
// knowledge or from the fixed no-knowledge fallback.
type Groundedness string

const (
	GroundednessGrounded  Groundedness = "grounded"
	GroundednessNoContext Groundedness = "no_context"
)

// AnswerResult is the ephemeral outcome of one answer request.
type AnswerResult struct {
	Text         string
	Groundedness Groundedness
}

// Grounded reports whether the answer was produced from retrieved context.
func (r AnswerResult) Grounded() bool {
	return r.Groundedness == GroundednessGrounded
}
