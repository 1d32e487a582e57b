package models

// Privacy is the audience level of a post or list.
type Privacy string

const (
	// PrivacyPublic means visible to anyone, including anonymous viewers.
	PrivacyPublic Privacy = "public"
	// PrivacyConnections means visible to the author's accepted friends.
	PrivacyConnections Privacy = "connections"
	// PrivacyPrivate means visible only to holders of accepted list access
	// (or users tagged on the post).
	PrivacyPrivate Privacy = "private"
)

// Rank orders privacy levels from most open (0) to most restrictive (2).
// Unknown values rank as private so a bad value can never widen an audience.
func (p Privacy) Rank() int {
	switch p {
	case PrivacyPublic:
		return 0
	case PrivacyConnections:
		return 1
	case PrivacyPrivate:
		return 2
	default:
		return 2
	}
}

// Valid reports whether p is one of the three defined levels.
func (p Privacy) Valid() bool {
	switch p {
	case PrivacyPublic, PrivacyConnections, PrivacyPrivate:
		return true
	}
	return false
}

// StricterOf returns the more restrictive of two privacy levels.
func StricterOf(a, b Privacy) Privacy {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}
