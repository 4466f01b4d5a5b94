package handler

// RegisterRequest carries the raw identifier, untrimmed. Shape checks belong to
// the identifier validator so every malformed value fails as invalid_identifier.
type RegisterRequest struct {
	Identifier string `json:"identifier"`
}
