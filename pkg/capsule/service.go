package capsule

import (
	"fmt"
	"time"

	"capsuledb/pkg/geo"
	"capsuledb/pkg/logger"
	"capsuledb/pkg/models"
	"capsuledb/pkg/store"
	"capsuledb/pkg/telemetry"
	"capsuledb/pkg/validation"
)

// Clock supplies the current time as UTC nanoseconds. Tests substitute a
// fixed clock.
type Clock func() uint64

func wallClock() uint64 { return uint64(time.Now().UTC().UnixNano()) }

// Service provides the capsule operations: one write (Create) and three
// reads (Get, ListPublic, ListByLocation). Reads recompute status; nothing
// is ever updated in place or deleted.
type Service struct {
	store *store.Store
	now   Clock
}

// NewService returns a Service over the given store using wall-clock time.
func NewService(st *store.Store) *Service {
	return &Service{store: st, now: wallClock}
}

// NewServiceWithClock returns a Service with an explicit time source.
func NewServiceWithClock(st *store.Store, now Clock) *Service {
	return &Service{store: st, now: now}
}

// Create validates the payload, allocates an id, and appends a new capsule
// record. The stored status captures the derived state at construction
// time; reads re-derive it afterwards.
func (s *Service) Create(payload models.CreateCapsulePayload, creator string) (*models.TimeCapsule, error) {
	now := s.now()
	if err := validation.ValidatePayload(payload, now); err != nil {
		return nil, err
	}
	id, err := s.store.NextID()
	if err != nil {
		return nil, fmt.Errorf("id allocation failed: %w", err)
	}
	c := models.TimeCapsule{
		ID:            id,
		Creator:       creator,
		CreationDate:  now,
		UnlockDate:    payload.UnlockDate,
		Content:       payload.Content,
		AccessControl: payload.AccessControl,
		Metadata:      payload.Metadata,
	}
	c.Status = DeriveStatus(&c, now, creator)
	if err := s.store.Insert(c); err != nil {
		return nil, err
	}
	telemetry.CapsulesCreated.Inc()
	logger.Info("capsule_created", "id", c.ID, "creator", creator, "unlock_date", c.UnlockDate, "status", c.Status)
	return &c, nil
}

// Get fetches a capsule by id for the given viewer. The sealed check takes
// precedence over the access check; both are distinguishable from a
// missing record.
func (s *Service) Get(id uint64, viewer string) (*models.TimeCapsule, error) {
	c, err := s.store.Get(id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	status := DeriveStatus(c, now, viewer)
	switch status {
	case models.StatusSealed:
		telemetry.ReadsDenied.WithLabelValues("sealed").Inc()
		return nil, fmt.Errorf("capsule %d: %w", id, models.ErrSealed)
	case models.StatusUnlockPending:
		telemetry.ReadsDenied.WithLabelValues("access").Inc()
		return nil, fmt.Errorf("capsule %d: %w", id, models.ErrAccessDenied)
	}
	c.Status = status
	return c, nil
}

// ListPublic returns capsules that are both publicly accessible and past
// their unlock date, in store order. Private and conditional capsules are
// excluded regardless of unlock state.
func (s *Service) ListPublic() ([]models.TimeCapsule, error) {
	all, err := s.store.All()
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]models.TimeCapsule, 0, len(all))
	for i := range all {
		c := all[i]
		if c.AccessControl.Type != models.PolicyPublic {
			continue
		}
		if status := DeriveStatus(&c, now, ""); status != models.StatusUnlocked {
			continue
		}
		c.Status = models.StatusUnlocked
		out = append(out, c)
	}
	return out, nil
}

// ListByLocation returns capsules whose metadata location lies within
// radiusKM of the query point. Lock state and access policy are
// intentionally not filtered here: a sealed or private capsule's location
// is discoverable even though its content cannot be fetched.
func (s *Service) ListByLocation(lat, lon, radiusKM float64) ([]models.TimeCapsule, error) {
	all, err := s.store.All()
	if err != nil {
		return nil, err
	}
	telemetry.GeoQueries.Inc()
	q := models.GeoLocation{Latitude: lat, Longitude: lon}
	now := s.now()
	out := make([]models.TimeCapsule, 0)
	for i := range all {
		c := all[i]
		loc := c.Metadata.Location
		if loc == nil {
			continue
		}
		if geo.DistanceKM(*loc, q) > radiusKM {
			continue
		}
		// anonymous-view status so callers see sealed/pending truthfully
		c.Status = DeriveStatus(&c, now, "")
		out = append(out, c)
	}
	return out, nil
}
