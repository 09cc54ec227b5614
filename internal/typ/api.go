package typ

import "encoding/json"

// AskRequest is the body of POST /ask-gemini. History entries are kept raw
// because callers send several shapes; the relay normalizes them.
type AskRequest struct {
	Prompt  string            `json:"prompt"`
	History []json.RawMessage `json:"history"`
	BotID   string            `json:"botId"`
}

// AskResponse is the success body of POST /ask-gemini
type AskResponse struct {
	Response string `json:"response"`
}

// ErrorBody is the error body shared by every endpoint
type ErrorBody struct {
	Error string `json:"error"`
}

// BotResponse wraps a configuration record together with the system message
// generated from it, as returned by the create and read endpoints.
type BotResponse struct {
	BotConfig     *BotConfig `json:"botConfig"`
	SystemMessage string     `json:"systemMessage"`
}

// BotListResponse is the paginated body of GET /bots
type BotListResponse struct {
	Bots  []BotConfig `json:"bots"`
	Total int64       `json:"total"`
	Page  int         `json:"page"`
	Limit int         `json:"limit"`
}
