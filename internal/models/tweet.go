package models

// Persona is a named voice used to flavor generated tweets.
type Persona struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PublishResult is the data object returned by the platform after a post.
type PublishResult struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// BotResponse is the JSON body returned by the trigger branches.
type BotResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message,omitempty"`
	Tweet   string         `json:"tweet,omitempty"`
	Result  *PublishResult `json:"result,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// StatusResponse is returned when the bot is probed without a trigger.
type StatusResponse struct {
	Status string `json:"status"`
}
