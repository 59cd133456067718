package notification

import (
	"fmt"

	"pulse/models"
)

// MessageFor synthesizes the human-readable message for a fresh event.
func MessageFor(kind models.Kind, actorName string) string {
	switch kind {
	case models.KindLike:
		return actorName + " liked your post"
	case models.KindMessage:
		return actorName + " sent you a message"
	case models.KindProfileView:
		return actorName + " viewed your profile"
	case models.KindFriendPost:
		return actorName + " shared a new post"
	case models.KindFriendRequest:
		return actorName + " sent you a friend request"
	}
	return "New notification"
}

// GroupedMessage phrases a collapsed notification. prevCount is the group
// count before the current occurrence was folded in: a first duplicate
// (prevCount 1) reads "and 1 other", later ones "and N others".
func GroupedMessage(kind models.Kind, actorName string, prevCount int) string {
	verb := "liked"
	object := "post"
	if kind == models.KindProfileView {
		verb = "viewed"
		object = "profile"
	}

	if prevCount == 1 {
		return fmt.Sprintf("%s and 1 other %s your %s", actorName, verb, object)
	}
	return fmt.Sprintf("%s and %d others %s your %s", actorName, prevCount, verb, object)
}
