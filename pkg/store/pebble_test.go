package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"capsuledb/pkg/models"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func textCapsule(id uint64, creator string) models.TimeCapsule {
	return models.TimeCapsule{
		ID:            id,
		Creator:       creator,
		CreationDate:  100,
		UnlockDate:    200,
		Content:       models.Content{Type: models.ContentText, Text: "hello"},
		AccessControl: models.AccessPolicy{Type: models.PolicyPublic},
		Status:        models.StatusSealed,
	}
}

func TestNextID_StartsAtOneAndIncrements(t *testing.T) {
	s := openTestStore(t)
	for want := uint64(1); want <= 100; want++ {
		id, err := s.NextID()
		require.NoError(t, err)
		require.Equal(t, want, id)
	}
}

func TestNextID_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	s, err := Open(dir)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		_, err := s.NextID()
		require.NoError(t, err)
	}
	require.NoError(t, s.Close())

	s2, err := Open(dir)
	require.NoError(t, err)
	defer s2.Close()
	id, err := s2.NextID()
	require.NoError(t, err)
	require.Equal(t, uint64(6), id, "counter must not be reused after restart")
}

func TestInsertGet_Roundtrip(t *testing.T) {
	s := openTestStore(t)
	id, err := s.NextID()
	require.NoError(t, err)
	in := textCapsule(id, "alice")
	in.Metadata = models.CapsuleMetadata{
		Title:    "letter",
		Tags:     []string{"memory"},
		Location: &models.GeoLocation{Latitude: 48.85, Longitude: 2.35, LocationName: "Paris"},
	}
	require.NoError(t, s.Insert(in))

	got, err := s.Get(id)
	require.NoError(t, err)
	require.Equal(t, in, *got)
}

func TestInsert_DuplicateID(t *testing.T) {
	s := openTestStore(t)
	c := textCapsule(1, "alice")
	require.NoError(t, s.Insert(c))
	err := s.Insert(c)
	require.Error(t, err)
	require.True(t, errors.Is(err, models.ErrDuplicateID))
}

func TestGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Get(42)
	require.Error(t, err)
	require.True(t, errors.Is(err, models.ErrNotFound))
}

func TestAll_ReturnsInIDOrder(t *testing.T) {
	s := openTestStore(t)
	// insert out of order; the padded key layout must restore id order
	for _, id := range []uint64{3, 1, 2, 10} {
		require.NoError(t, s.Insert(textCapsule(id, "alice")))
	}
	all, err := s.All()
	require.NoError(t, err)
	ids := make([]uint64, 0, len(all))
	for _, c := range all {
		ids = append(ids, c.ID)
	}
	require.Equal(t, []uint64{1, 2, 3, 10}, ids)

	n, err := s.Count()
	require.NoError(t, err)
	require.Equal(t, 4, n)
}

func TestAll_EmptyStore(t *testing.T) {
	s := openTestStore(t)
	all, err := s.All()
	require.NoError(t, err)
	require.Empty(t, all)
}
