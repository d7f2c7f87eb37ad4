package judge

import "context"

// Response is the plain-text judge contract. Result holds the raw model text.
type Response struct {
	Success bool
	Result  string
	Error   string
}

// Client sends a plain-text prompt to a judge model. Implementations never
// return a Go error; failures are reported through Response.
type Client interface {
	Invoke(ctx context.Context, prompt string) Response
}
