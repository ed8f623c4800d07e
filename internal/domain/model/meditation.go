package model

// Meditation is a catalog item. Premium-flagged items are only visible
// to users with active premium entitlement.
type Meditation struct {
	ID              int64
	Title           string
	Description     string
	DurationSeconds int
	AudioURL        string
	IsPremium       bool
	Category        string
}
