package models

// Event is a normalized fan-out event, built by the ingestion layer from a
// raw pub/sub payload and consumed exactly once by a queue worker. It is
// never persisted itself; workers turn it into a Notification.
type Event struct {
	UserID       string         `json:"userId"`
	Kind         Kind           `json:"kind"`
	ActorID      string         `json:"actorId"`
	ActorName    string         `json:"actorName"`
	ActorPicture string         `json:"actorPicture,omitempty"`
	RelatedID    string         `json:"relatedId,omitempty"`
	Message      string         `json:"message"`
	Priority     string         `json:"priority"`
	Metadata     map[string]any `json:"metadata"`
}
