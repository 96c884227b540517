package store

import (
	"os"
	"path/filepath"
	"testing"

	"mueen-assist/internal/client"
	"mueen-assist/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFAQStoreMissingDocumentIsEmpty(t *testing.T) {
	s := NewFAQStore(t.TempDir())
	topics, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, topics)
}

func TestFAQStoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	s := NewFAQStore(dir)

	in := []models.Topic{{
		Topic: "ساعات العمل",
		Questions: []models.KnownQuestion{{
			Question: "ما هي ساعات العمل؟",
			Answers:  []string{"من 8 صباحاً حتى 10 مساءً"},
		}},
	}}
	require.NoError(t, s.Save(in))

	out, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, in, out)

	// The document lands under the expected name for the mobile app.
	_, err = os.Stat(filepath.Join(dir, "faq_data.json"))
	assert.NoError(t, err)
}

func TestProfileStoreUpdateIsReadModifyWrite(t *testing.T) {
	s := NewProfileStore(t.TempDir())

	_, err := s.Update(func(p *models.UserProfile) { p.Name = "محمد" })
	require.NoError(t, err)
	_, err = s.Update(func(p *models.UserProfile) { p.Phone = "0501234567" })
	require.NoError(t, err)

	profile, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "محمد", profile.Name)
	assert.Equal(t, "0501234567", profile.Phone)
}

func TestPackageStoreMergeAndReset(t *testing.T) {
	s := NewPackageStore(t.TempDir())

	_, err := s.Update(func(p *models.FixedPackageSelection) {
		p.ServiceID = 7
		p.ServiceName = "تنظيف بالساعة"
	})
	require.NoError(t, err)

	pkg, err := s.Update(func(p *models.FixedPackageSelection) {
		p.NationalityKey = 3
	})
	require.NoError(t, err)
	assert.Equal(t, 7, pkg.ServiceID)
	assert.Equal(t, 3, pkg.NationalityKey)

	require.NoError(t, s.Reset())
	pkg, err = s.Get()
	require.NoError(t, err)
	assert.Zero(t, pkg.ServiceID)
}

func TestCacheStoreKeyedByService(t *testing.T) {
	s := NewCacheStore(t.TempDir())

	require.NoError(t, s.SaveNationalities(7, []client.KeyValue{{Key: 1, Value: "فلبينية"}}))
	require.NoError(t, s.SaveNationalities(9, []client.KeyValue{{Key: 2, Value: "هندية"}}))
	require.NoError(t, s.SaveShifts(7, []client.KeyValue{{Key: 5, Value: "صباحي"}}))

	nats, err := s.Nationalities(7)
	require.NoError(t, err)
	require.Len(t, nats, 1)
	assert.Equal(t, "فلبينية", nats[0].Value)

	other, err := s.Nationalities(9)
	require.NoError(t, err)
	require.Len(t, other, 1)
	assert.Equal(t, 2, other[0].Key)

	shifts, err := s.Shifts(7)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, 5, shifts[0].Key)

	missing, err := s.Shifts(9)
	require.NoError(t, err)
	assert.Empty(t, missing)

	require.NoError(t, s.Clear())
	nats, err = s.Nationalities(7)
	require.NoError(t, err)
	assert.Empty(t, nats)
}
