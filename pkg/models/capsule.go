package models

// CapsuleStatus is derived from the unlock date and access policy at read
// time; it is never mutated in place after a capsule is stored.
type CapsuleStatus string

const (
	StatusSealed        CapsuleStatus = "sealed"
	StatusUnlockPending CapsuleStatus = "unlock_pending"
	StatusUnlocked      CapsuleStatus = "unlocked"
	// StatusArchived is a legal value reserved for external curation.
	// No operation in this codebase assigns it.
	StatusArchived CapsuleStatus = "archived"
)

// GeoLocation is a named coordinate pair. Immutable once attached to a
// capsule. Latitude/longitude ranges are not enforced unless strict
// validation is enabled.
type GeoLocation struct {
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	LocationName string  `json:"location_name"`
}

// CapsuleMetadata holds descriptive fields. There is no update operation;
// metadata is immutable after creation.
type CapsuleMetadata struct {
	Title                string       `json:"title"`
	Description          string       `json:"description"`
	Tags                 []string     `json:"tags,omitempty"`
	Location             *GeoLocation `json:"location,omitempty"`
	CulturalSignificance string       `json:"cultural_significance,omitempty"`
}

// TimeCapsule is a stored content record with an unlock time and access
// policy. All fields except Status are immutable after insert; Status is
// recomputed on every read path.
type TimeCapsule struct {
	ID uint64 `json:"id"`
	// Creator is an opaque caller identifier supplied by the identity layer.
	Creator string `json:"creator"`
	// CreationDate and UnlockDate are UTC nanosecond timestamps.
	CreationDate  uint64          `json:"creation_date"`
	UnlockDate    uint64          `json:"unlock_date"`
	Content       Content         `json:"content"`
	AccessControl AccessPolicy    `json:"access_control"`
	Metadata      CapsuleMetadata `json:"metadata"`
	Status        CapsuleStatus   `json:"status"`
}

// CreateCapsulePayload is the write-side input. All fields are required;
// there are no defaults.
type CreateCapsulePayload struct {
	Content       Content         `json:"content"`
	UnlockDate    uint64          `json:"unlock_date"`
	AccessControl AccessPolicy    `json:"access_control"`
	Metadata      CapsuleMetadata `json:"metadata"`
}
