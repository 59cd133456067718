package models

import "time"

// QuietHours is a daily window during which push delivery is muted. Windows
// where Start > End span midnight (e.g. 22:00 -> 08:00).
type QuietHours struct {
	Enabled bool   `bson:"enabled" json:"enabled"`
	Start   string `bson:"start" json:"start"`
	End     string `bson:"end" json:"end"`
}

// UserPreferences holds a user's per-kind notification toggles plus the
// global email/push switches and quiet hours.
type UserPreferences struct {
	ID                 string          `bson:"id" json:"id"`
	UserID             string          `bson:"userId" json:"userId"`
	Notifications      map[string]bool `bson:"notifications" json:"notifications"`
	EmailNotifications bool            `bson:"emailNotifications" json:"emailNotifications"`
	PushNotifications  bool            `bson:"pushNotifications" json:"pushNotifications"`
	QuietHours         QuietHours      `bson:"quietHours" json:"quietHours"`
	DeviceTokens       []string        `bson:"deviceTokens,omitempty" json:"deviceTokens,omitempty"`
	CreatedAt          time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// DefaultPreferences returns the preferences a user gets before ever saving
// any: every kind enabled, quiet hours off.
func DefaultPreferences(userID string) *UserPreferences {
	notifications := make(map[string]bool, len(AllKinds))
	for _, k := range AllKinds {
		notifications[string(k)] = true
	}
	return &UserPreferences{
		UserID:             userID,
		Notifications:      notifications,
		EmailNotifications: true,
		PushNotifications:  true,
		QuietHours:         QuietHours{Enabled: false, Start: "22:00", End: "08:00"},
	}
}

// IsEnabled reports whether the user accepts notifications of the given
// kind. Kinds with no explicit entry are enabled.
func (p *UserPreferences) IsEnabled(kind Kind) bool {
	if p.Notifications == nil {
		return true
	}
	enabled, ok := p.Notifications[string(kind)]
	if !ok {
		return true
	}
	return enabled
}

// IsInQuietHours reports whether the current wall-clock time falls inside
// the user's quiet hours window.
func (p *UserPreferences) IsInQuietHours() bool {
	return p.IsInQuietHoursAt(time.Now())
}

// IsInQuietHoursAt evaluates the quiet hours window against an arbitrary
// probe time. Malformed start/end strings disable the window.
func (p *UserPreferences) IsInQuietHoursAt(t time.Time) bool {
	if !p.QuietHours.Enabled {
		return false
	}
	start, err := time.Parse("15:04", p.QuietHours.Start)
	if err != nil {
		return false
	}
	end, err := time.Parse("15:04", p.QuietHours.End)
	if err != nil {
		return false
	}

	nowMin := t.Hour()*60 + t.Minute()
	startMin := start.Hour()*60 + start.Minute()
	endMin := end.Hour()*60 + end.Minute()

	if startMin > endMin {
		// Window spans midnight.
		return nowMin >= startMin || nowMin < endMin
	}
	return nowMin >= startMin && nowMin < endMin
}

// SetKindEnabled flips a single per-kind toggle.
func (p *UserPreferences) SetKindEnabled(kind Kind, enabled bool) {
	if p.Notifications == nil {
		p.Notifications = make(map[string]bool)
	}
	p.Notifications[string(kind)] = enabled
}
