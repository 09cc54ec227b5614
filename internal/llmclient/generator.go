package llmclient

import (
	"context"
	"errors"

	"google.golang.org/genai"
)

// ErrUpstream marks failures coming back from the generation service.
// The relay never retries; callers get a 500 and decide for themselves.
var ErrUpstream = errors.New("generation service error")

// DefaultMaxOutputTokens is the fixed per-call output ceiling. It is global
// on purpose: the per-tenant maxResponseLength only shapes the prompt text,
// matching the behavior existing tenants depend on.
const DefaultMaxOutputTokens int32 = 1024

// SystemTurnStrategy selects how the system message reaches the model
type SystemTurnStrategy string

const (
	// SystemTurnAsUserTurn injects the system message as a leading
	// user-role turn. Default; matches the wire shape of the original
	// deployment, which predates native system instructions.
	SystemTurnAsUserTurn SystemTurnStrategy = "user_turn"
	// SystemTurnNative uses the model's dedicated system channel
	SystemTurnNative SystemTurnStrategy = "native"
)

// Request carries everything the relay assembles for one generation call
type Request struct {
	SystemMessage string
	History       []*genai.Content
	Prompt        string
}

// Generator is the single call contract with the generation service:
// submit a role-tagged message sequence, receive text or fail.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}
