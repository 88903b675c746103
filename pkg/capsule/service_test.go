package capsule

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"capsuledb/pkg/models"
	"capsuledb/pkg/store"
)

const (
	past   = uint64(1_000)
	now    = uint64(5_000)
	future = uint64(9_000)
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	st, err := store.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	return NewServiceWithClock(st, func() uint64 { return now })
}

func publicPayload(unlock uint64) models.CreateCapsulePayload {
	return models.CreateCapsulePayload{
		UnlockDate:    unlock,
		Content:       models.Content{Type: models.ContentText, Text: "hello future"},
		AccessControl: models.AccessPolicy{Type: models.PolicyPublic},
		Metadata:      models.CapsuleMetadata{Title: "letter"},
	}
}

func TestCreate_AssignsSequentialIDs(t *testing.T) {
	svc := newTestService(t)
	for want := uint64(1); want <= 3; want++ {
		c, err := svc.Create(publicPayload(future), "alice")
		require.NoError(t, err)
		require.Equal(t, want, c.ID)
	}
}

func TestCreate_SetsCreationDateAndStatus(t *testing.T) {
	svc := newTestService(t)
	c, err := svc.Create(publicPayload(future), "alice")
	require.NoError(t, err)
	require.Equal(t, now, c.CreationDate)
	require.Equal(t, models.StatusSealed, c.Status)

	// a capsule whose unlock date already passed is born unlocked
	c2, err := svc.Create(publicPayload(past), "alice")
	require.NoError(t, err)
	require.Equal(t, models.StatusUnlocked, c2.Status)
}

func TestCreate_RejectsUnknownContentType(t *testing.T) {
	svc := newTestService(t)
	p := publicPayload(future)
	p.Content.Type = "hologram"
	_, err := svc.Create(p, "alice")
	require.Error(t, err)
}

func TestGet_SealedBeforeUnlockDate(t *testing.T) {
	svc := newTestService(t)
	c, err := svc.Create(publicPayload(future), "alice")
	require.NoError(t, err)

	_, err = svc.Get(c.ID, "alice")
	require.True(t, errors.Is(err, models.ErrSealed))
}

func TestGet_SealedTakesPrecedenceOverAccess(t *testing.T) {
	svc := newTestService(t)
	p := publicPayload(future)
	p.AccessControl = models.AccessPolicy{Type: models.PolicyPrivate, AllowedViewers: []string{"alice"}}
	c, err := svc.Create(p, "alice")
	require.NoError(t, err)

	// bob is not allowed either way, but while sealed he must see sealed
	_, err = svc.Get(c.ID, "bob")
	require.True(t, errors.Is(err, models.ErrSealed))
	require.False(t, errors.Is(err, models.ErrAccessDenied))
}

func TestGet_PrivateAfterUnlock(t *testing.T) {
	svc := newTestService(t)
	p := publicPayload(past)
	p.AccessControl = models.AccessPolicy{Type: models.PolicyPrivate, AllowedViewers: []string{"bob"}}
	c, err := svc.Create(p, "alice")
	require.NoError(t, err)

	got, err := svc.Get(c.ID, "bob")
	require.NoError(t, err)
	require.Equal(t, models.StatusUnlocked, got.Status)

	_, err = svc.Get(c.ID, "carol")
	require.True(t, errors.Is(err, models.ErrAccessDenied))

	_, err = svc.Get(c.ID, "")
	require.True(t, errors.Is(err, models.ErrAccessDenied))
}

func TestGet_CreatorCanAlwaysViewAfterUnlock(t *testing.T) {
	svc := newTestService(t)
	p := publicPayload(past)
	p.AccessControl = models.AccessPolicy{Type: models.PolicyPrivate, AllowedViewers: []string{"bob"}}
	c, err := svc.Create(p, "alice")
	require.NoError(t, err)

	got, err := svc.Get(c.ID, "alice")
	require.NoError(t, err)
	require.Equal(t, models.StatusUnlocked, got.Status)
}

func TestGet_ConditionalGatesOnUnlockOnly(t *testing.T) {
	svc := newTestService(t)
	p := publicPayload(past)
	p.AccessControl = models.AccessPolicy{Type: models.PolicyConditional, ConditionType: "quiz", ConditionData: "q"}
	c, err := svc.Create(p, "alice")
	require.NoError(t, err)

	got, err := svc.Get(c.ID, "stranger")
	require.NoError(t, err)
	require.Equal(t, models.StatusUnlocked, got.Status)
}

func TestGet_NotFound(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(99, "alice")
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestListPublic_FiltersPolicyAndLockState(t *testing.T) {
	svc := newTestService(t)

	unlocked, err := svc.Create(publicPayload(past), "alice")
	require.NoError(t, err)

	_, err = svc.Create(publicPayload(future), "alice") // sealed, excluded
	require.NoError(t, err)

	priv := publicPayload(past)
	priv.AccessControl = models.AccessPolicy{Type: models.PolicyPrivate, AllowedViewers: []string{"bob"}}
	_, err = svc.Create(priv, "alice") // private, excluded
	require.NoError(t, err)

	cond := publicPayload(past)
	cond.AccessControl = models.AccessPolicy{Type: models.PolicyConditional, ConditionType: "quiz"}
	_, err = svc.Create(cond, "alice") // conditional, excluded
	require.NoError(t, err)

	out, err := svc.ListPublic()
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, unlocked.ID, out[0].ID)
	require.Equal(t, models.StatusUnlocked, out[0].Status)
}

func TestListByLocation_RadiusFilter(t *testing.T) {
	svc := newTestService(t)

	paris := publicPayload(past)
	paris.Metadata.Location = &models.GeoLocation{Latitude: 48.8566, Longitude: 2.3522, LocationName: "Paris"}
	pc, err := svc.Create(paris, "alice")
	require.NoError(t, err)

	tokyo := publicPayload(past)
	tokyo.Metadata.Location = &models.GeoLocation{Latitude: 35.6762, Longitude: 139.6503, LocationName: "Tokyo"}
	_, err = svc.Create(tokyo, "alice")
	require.NoError(t, err)

	_, err = svc.Create(publicPayload(past), "alice") // no location, excluded
	require.NoError(t, err)

	out, err := svc.ListByLocation(48.85, 2.35, 50)
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, pc.ID, out[0].ID)
}

func TestListByLocation_IncludesSealedAndPrivate(t *testing.T) {
	svc := newTestService(t)

	sealed := publicPayload(future)
	sealed.Metadata.Location = &models.GeoLocation{Latitude: 10, Longitude: 10}
	_, err := svc.Create(sealed, "alice")
	require.NoError(t, err)

	priv := publicPayload(past)
	priv.AccessControl = models.AccessPolicy{Type: models.PolicyPrivate, AllowedViewers: []string{"bob"}}
	priv.Metadata.Location = &models.GeoLocation{Latitude: 10.001, Longitude: 10.001}
	_, err = svc.Create(priv, "alice")
	require.NoError(t, err)

	// geo search reveals locations regardless of lock state or policy
	out, err := svc.ListByLocation(10, 10, 5)
	require.NoError(t, err)
	require.Len(t, out, 2)
	require.Equal(t, models.StatusSealed, out[0].Status)
	require.Equal(t, models.StatusUnlockPending, out[1].Status)
}

func TestDeriveStatus(t *testing.T) {
	c := &models.TimeCapsule{
		Creator:       "alice",
		UnlockDate:    future,
		AccessControl: models.AccessPolicy{Type: models.PolicyPrivate, AllowedViewers: []string{"bob"}},
	}
	require.Equal(t, models.StatusSealed, DeriveStatus(c, past, "bob"))
	require.Equal(t, models.StatusUnlocked, DeriveStatus(c, future, "bob"))
	require.Equal(t, models.StatusUnlocked, DeriveStatus(c, future, "alice"))
	require.Equal(t, models.StatusUnlockPending, DeriveStatus(c, future, "carol"))
	require.Equal(t, models.StatusUnlockPending, DeriveStatus(c, future, ""))
}
