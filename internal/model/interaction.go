package model

import "time"

// Interaction is one logged message/response exchange with a user.
type Interaction struct {
	ID        int64
	UserID    int64
	Username  string
	Message   string
	Response  string
	Timestamp time.Time
	Metadata  map[string]any
}
