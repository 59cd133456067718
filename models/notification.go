package models

import "time"

// Kind is the closed set of notification categories the platform emits.
type Kind string

const (
	KindLike          Kind = "like"
	KindMessage       Kind = "message"
	KindProfileView   Kind = "profile-view"
	KindFriendPost    Kind = "friend-post"
	KindFriendRequest Kind = "friend-request"
)

// AllKinds lists every valid kind, in priority-table order.
var AllKinds = []Kind{KindMessage, KindFriendRequest, KindLike, KindProfileView, KindFriendPost}

// IsValidKind reports whether s names a known notification kind.
func IsValidKind(s string) bool {
	for _, k := range AllKinds {
		if string(k) == s {
			return true
		}
	}
	return false
}

// IsGroupable reports whether bursts of this kind collapse into a single
// grouped notification. Only likes and profile views group.
func (k Kind) IsGroupable() bool {
	return k == KindLike || k == KindProfileView
}

// Priority levels for a notification.
const (
	PriorityHigh   = "high"
	PriorityMedium = "medium"
	PriorityLow    = "low"
)

// Notification is the durable per-user notification record.
type Notification struct {
	ID           string         `bson:"id" json:"id"`
	UserID       string         `bson:"userId" json:"userId"`
	Kind         Kind           `bson:"kind" json:"kind"`
	ActorID      string         `bson:"actorId" json:"actorId"`
	ActorName    string         `bson:"actorName" json:"actorName"`
	ActorPicture string         `bson:"actorPicture,omitempty" json:"actorPicture,omitempty"`
	RelatedID    string         `bson:"relatedId,omitempty" json:"relatedId,omitempty"`
	Message      string         `bson:"message" json:"message"`
	Read         bool           `bson:"read" json:"read"`
	Priority     string         `bson:"priority" json:"priority"`
	Metadata     map[string]any `bson:"metadata" json:"metadata"`
	ExpiresAt    time.Time      `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// GroupCount returns how many occurrences this record represents. A record
// without a groupCount entry counts as a single occurrence.
func (n *Notification) GroupCount() int {
	if n.Metadata == nil {
		return 1
	}
	switch v := n.Metadata["groupCount"].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 1
}

// SetGroupCount records the occurrence count in metadata.
func (n *Notification) SetGroupCount(count int) {
	if n.Metadata == nil {
		n.Metadata = make(map[string]any)
	}
	n.Metadata["groupCount"] = count
}

// IsGrouped reports whether the record collapsed more than one occurrence.
func (n *Notification) IsGrouped() bool {
	return n.GroupCount() > 1
}
