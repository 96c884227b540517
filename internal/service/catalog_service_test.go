package service

import (
	"context"
	"testing"

	"mueen-assist/internal/client"
	"mueen-assist/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalogAPI() *fakeCatalogAPI {
	return &fakeCatalogAPI{
		sectors: []client.SectorNode{{
			ID:     100,
			Fields: map[string]string{"title": "القطاعات"},
			Children: []client.SectorNode{
				{ID: 10, Fields: map[string]string{"title": "تنظيف بالساعة", "actionType": "hourly"}},
				{ID: 11, Fields: map[string]string{"title": "عقود سنوية", "actionType": "contract"}},
			},
		}},
		services: []client.ServiceEntry{
			{ID: 7, Name: "تنظيف منازل", Description: "تنظيف شامل للمنزل", StepID: 70},
			{ID: 8, Name: "تنظيف مكاتب", StepID: 80},
		},
		nationalities: []client.KeyValue{
			{Key: 3, Value: "فلبينية"},
			{Key: 4, Value: "هندية"},
		},
		shifts: []client.KeyValue{
			{Key: 5, Value: "صباحي"},
			{Key: 6, Value: "مسائي"},
		},
		packages: []client.PackageEntry{
			{ID: 1, Name: "4 ساعات", Price: 120},
		},
	}
}

func newTestCatalogService(t *testing.T, api CatalogAPI) (*CatalogService, *store.PackageStore) {
	t.Helper()
	dir := t.TempDir()
	pkgStore := store.NewPackageStore(dir)
	cacheStore := store.NewCacheStore(dir)
	return NewCatalogService(api, pkgStore, cacheStore, zap.NewNop()), pkgStore
}

func TestListSectorsAssignsCodes(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())

	assert.False(t, svc.HasListed())
	reply := svc.ListSectors(context.Background())
	assert.Contains(t, reply, "1. تنظيف بالساعة")
	assert.Contains(t, reply, "2. عقود سنوية")
	assert.True(t, svc.HasListed())
}

func TestListServicesAppendsEscapeEntry(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())

	reply := svc.ListServices(context.Background(), 1)
	assert.Contains(t, reply, "1.1 تنظيف منازل")
	assert.Contains(t, reply, "1.2 تنظيف مكاتب")
	assert.Contains(t, reply, "1.3 "+msgOtherOption)
}

func TestListServicesUnknownActionType(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())

	assert.Equal(t, msgSectorComing, svc.ListServices(context.Background(), 2))
}

func TestResolveSelectionEscapeHatchStartsLead(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)

	outcome := svc.ResolveSelection(context.Background(), "1.3")
	assert.True(t, outcome.StartLead)
	assert.Empty(t, outcome.Reply)
}

func TestResolveSelectionBareSubCodeRelativeToActiveSector(t *testing.T) {
	svc, pkgStore := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)

	// "2" while sector 1's menu is showing means "1.2".
	outcome := svc.ResolveSelection(context.Background(), "2")
	assert.Contains(t, outcome.Reply, "A. فلبينية")

	pkg, err := pkgStore.Get()
	require.NoError(t, err)
	assert.Equal(t, 8, pkg.ServiceID)
	assert.Equal(t, "تنظيف مكاتب", pkg.ServiceName)
}

func TestResolveSelectionBareEscapeHatchStartsLead(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)

	outcome := svc.ResolveSelection(context.Background(), "3")
	assert.True(t, outcome.StartLead)
	assert.Empty(t, outcome.Reply)
}

func TestResolveSelectionBareIntIsSectorBeforeServicesListing(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())

	outcome := svc.ResolveSelection(context.Background(), "2")
	assert.Equal(t, msgSectorComing, outcome.Reply)
	assert.False(t, outcome.StartLead)
}

func TestResolveSelectionUnknownCode(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)

	outcome := svc.ResolveSelection(context.Background(), "1.9")
	assert.Equal(t, msgUnknownSelection, outcome.Reply)
}

func TestSelectServicePersistsFunnelAndPrompts(t *testing.T) {
	svc, pkgStore := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)

	outcome := svc.ResolveSelection(context.Background(), "1.1")
	assert.Contains(t, outcome.Reply, "تنظيف شامل للمنزل")
	assert.Contains(t, outcome.Reply, "A. فلبينية")
	assert.Contains(t, outcome.Reply, "B. هندية")

	pkg, err := pkgStore.Get()
	require.NoError(t, err)
	assert.Equal(t, 7, pkg.ServiceID)
	assert.Equal(t, 70, pkg.StepID)
	assert.Equal(t, "تنظيف منازل", pkg.ServiceName)
	assert.NotEmpty(t, pkg.SelectedAt)
}

func TestSelectNationality(t *testing.T) {
	svc, pkgStore := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)
	svc.ResolveSelection(context.Background(), "1.1")

	// Out of range letter.
	assert.Equal(t, msgNationalityNotFound, svc.SelectNationality(context.Background(), "C"))

	// Shift rows carry the shift key, not a menu position.
	reply := svc.SelectNationality(context.Background(), "b")
	assert.Contains(t, reply, "B5. صباحي")
	assert.Contains(t, reply, "B6. مسائي")

	pkg, err := pkgStore.Get()
	require.NoError(t, err)
	assert.Equal(t, 4, pkg.NationalityKey)
	assert.Equal(t, "هندية", pkg.NationalityValue)
}

func TestSelectNationalityBeforeService(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	assert.Equal(t, msgNationalityFirst, svc.SelectNationality(context.Background(), "A"))
}

func TestSelectShiftLetterMustMatchNationality(t *testing.T) {
	svc, pkgStore := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)
	svc.ResolveSelection(context.Background(), "1.1")
	svc.SelectNationality(context.Background(), "A")

	reply, completed := svc.SelectShift(context.Background(), "B5")
	assert.False(t, completed)
	// The rejection names both the typed and the assigned letter.
	assert.Contains(t, reply, "B")
	assert.Contains(t, reply, "الجنسية المختارة هي A")

	pkg, err := pkgStore.Get()
	require.NoError(t, err)
	assert.Zero(t, pkg.ShiftKey)
}

func TestSelectShiftCompletesFunnel(t *testing.T) {
	svc, pkgStore := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)
	svc.ResolveSelection(context.Background(), "1.1")
	svc.SelectNationality(context.Background(), "A")

	reply, completed := svc.SelectShift(context.Background(), "A6")
	assert.True(t, completed)
	assert.Contains(t, reply, "4 ساعات")
	assert.Contains(t, reply, "120.00")

	pkg, err := pkgStore.Get()
	require.NoError(t, err)
	assert.Equal(t, 6, pkg.ShiftKey)
	assert.Equal(t, "مسائي", pkg.ShiftValue)
}

func TestSelectShiftLooksUpByKey(t *testing.T) {
	svc, pkgStore := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)
	svc.ResolveSelection(context.Background(), "1.1")
	svc.SelectNationality(context.Background(), "A")

	// Keys are 5 and 6; positional input "1" must not match anything.
	reply, completed := svc.SelectShift(context.Background(), "A1")
	assert.Equal(t, msgShiftMissing, reply)
	assert.False(t, completed)

	_, completed = svc.SelectShift(context.Background(), "A5")
	assert.True(t, completed)

	pkg, err := pkgStore.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, pkg.ShiftKey)
	assert.Equal(t, "صباحي", pkg.ShiftValue)
}

func TestResolveSelectionBareIntRoutesToShiftMidFunnel(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)
	svc.ResolveSelection(context.Background(), "1.1")
	svc.SelectNationality(context.Background(), "A")

	outcome := svc.ResolveSelection(context.Background(), "6")
	assert.True(t, outcome.ShiftCompleted)
	assert.Contains(t, outcome.Reply, msgPackagesHeader)
}

func TestSelectShiftUnknownKey(t *testing.T) {
	svc, _ := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)
	svc.ResolveSelection(context.Background(), "1.1")
	svc.SelectNationality(context.Background(), "A")

	reply, completed := svc.SelectShift(context.Background(), "A9")
	assert.Equal(t, msgShiftMissing, reply)
	assert.False(t, completed)
}

func TestResetFunnel(t *testing.T) {
	svc, pkgStore := newTestCatalogService(t, testCatalogAPI())
	svc.ListSectors(context.Background())
	svc.ListServices(context.Background(), 1)
	svc.ResolveSelection(context.Background(), "1.1")

	require.NoError(t, svc.ResetFunnel())
	pkg, err := pkgStore.Get()
	require.NoError(t, err)
	assert.Zero(t, pkg.ServiceID)
}
