package service

import (
	"context"
	"strings"
	"testing"

	"mueen-assist/internal/index"
	"mueen-assist/internal/models"
	"mueen-assist/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type dispatcherFixture struct {
	dispatcher   *Dispatcher
	text         *fakeText
	leadAPI      *fakeLeadAPI
	profileStore *store.ProfileStore
	pkgStore     *store.PackageStore
}

func newDispatcherFixture(t *testing.T, topics []models.Topic) *dispatcherFixture {
	t.Helper()
	dir := t.TempDir()

	faqStore := store.NewFAQStore(dir)
	require.NoError(t, faqStore.Save(topics))
	profileStore := store.NewProfileStore(dir)
	pkgStore := store.NewPackageStore(dir)
	cacheStore := store.NewCacheStore(dir)

	log := zap.NewNop()
	idx := index.New(&stubEmbedder{}, 0)
	faqService := NewFAQService(faqStore, idx, testRetrievalConfig(), log)
	require.NoError(t, faqService.Reinitialize(context.Background()))

	text := &fakeText{}
	leadAPI := &fakeLeadAPI{}
	catalogService := NewCatalogService(testCatalogAPI(), pkgStore, cacheStore, log)
	profileService := NewProfileService(profileStore, testLookupAPI(), log)
	leadService := NewLeadService(leadAPI, profileStore, pkgStore, nil, log)
	dispatcher := NewDispatcher(text, faqService, catalogService, profileService, leadService, nil, log)

	return &dispatcherFixture{
		dispatcher:   dispatcher,
		text:         text,
		leadAPI:      leadAPI,
		profileStore: profileStore,
		pkgStore:     pkgStore,
	}
}

func (f *dispatcherFixture) handle(msg string) string {
	return f.dispatcher.Handle(context.Background(), "s1", msg)
}

func TestServiceKeywordArmsProfileCollection(t *testing.T) {
	f := newDispatcherFixture(t, nil)

	reply := f.handle("أبغى خدمات تنظيف")
	assert.Equal(t, fieldPrompts[models.FieldName], reply)

	profile, err := f.profileStore.Get()
	require.NoError(t, err)
	assert.Equal(t, models.ActionServices, profile.PendingAction)
	assert.Equal(t, "أبغى خدمات تنظيف", profile.PendingQuery)
	assert.Equal(t, models.PhaseAwaitingField, profile.Phase)
}

func TestProfileCompletionResumesSectorListing(t *testing.T) {
	f := newDispatcherFixture(t, nil)

	f.handle("أبغى خدمات تنظيف")
	assert.Equal(t, fieldPrompts[models.FieldPhone], f.handle("محمد"))
	assert.Equal(t, fieldPrompts[models.FieldCity], f.handle("٠٥٠١٢٣٤٥٦٧"))
	assert.Equal(t, fieldPrompts[models.FieldDistrict], f.handle("الرياض"))

	reply := f.handle("العليا")
	assert.True(t, strings.HasPrefix(reply, msgProfileSaved))
	assert.Contains(t, reply, "تنظيف بالساعة")

	profile, err := f.profileStore.Get()
	require.NoError(t, err)
	assert.Equal(t, models.ActionNone, profile.PendingAction)
	assert.Empty(t, profile.PendingQuery)
}

func TestSelectionBeforeListingGetsHint(t *testing.T) {
	f := newDispatcherFixture(t, nil)

	assert.Equal(t, msgCatalogFirstDotted, f.handle("1.2"))
	assert.Equal(t, msgCatalogFirstBare, f.handle("5"))
}

func TestFullCatalogFlowThroughDispatcher(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	_, err := f.profileStore.Update(func(p *models.UserProfile) {
		p.Name, p.Phone, p.City, p.District = "محمد", "0501234567", "الرياض", "العليا"
		p.CityID, p.DistrictID = 1, 5
	})
	require.NoError(t, err)

	listing := f.handle("وش عندكم خدمات")
	assert.Contains(t, listing, "1. تنظيف بالساعة")

	services := f.handle("1")
	assert.Contains(t, services, "1.1 تنظيف منازل")

	nationalities := f.handle("1.1")
	assert.Contains(t, nationalities, "A. فلبينية")

	shifts := f.handle("A")
	assert.Contains(t, shifts, "A5. صباحي")

	packages := f.handle("A5")
	assert.Contains(t, packages, "4 ساعات")
	// The completed funnel hands the stored address off upstream.
	assert.True(t, strings.HasPrefix(packages, msgAddressSaved))
	assert.Len(t, f.leadAPI.addresses, 1)
}

func TestWrongShiftLetterRejectedWithExpectedLetter(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	_, err := f.profileStore.Update(func(p *models.UserProfile) {
		p.Name, p.Phone, p.City, p.District = "محمد", "0501234567", "الرياض", "العليا"
		p.CityID, p.DistrictID = 1, 5
	})
	require.NoError(t, err)

	f.handle("خدمات")
	f.handle("1")
	f.handle("1.1")
	f.handle("A")

	reply := f.handle("B5")
	assert.Contains(t, reply, "الجنسية المختارة هي A")
	assert.Empty(t, f.leadAPI.addresses)
}

func TestArabicDigitsSelectSectors(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	_, err := f.profileStore.Update(func(p *models.UserProfile) {
		p.Name, p.Phone, p.City, p.District = "محمد", "0501234567", "الرياض", "العليا"
	})
	require.NoError(t, err)

	f.handle("خدمات")
	reply := f.handle("١")
	assert.Contains(t, reply, "1.1 تنظيف منازل")
}

func TestEscapeHatchCollectsLeadAndConfirms(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	_, err := f.profileStore.Update(func(p *models.UserProfile) {
		p.Name, p.Phone, p.City, p.District = "محمد", "0501234567", "الرياض", "العليا"
		p.CityID, p.DistrictID = 1, 5
	})
	require.NoError(t, err)

	f.handle("خدمات")
	f.handle("1")

	// Escape entry goes straight to the address sub-flow when the profile
	// is already complete.
	housing := f.handle("1.3")
	assert.Contains(t, housing, msgAskHousing)

	assert.Equal(t, msgAskHouseNo, f.handle("شقة"))
	assert.Equal(t, msgAskAddressNotes, f.handle("12"))

	confirm := f.handle("بجانب المسجد")
	assert.True(t, strings.HasSuffix(confirm, msgConfirmOrder))

	reply := f.handle("نعم")
	assert.Equal(t, msgLeadCreated, reply)
	require.Len(t, f.leadAPI.leads, 1)
	assert.Equal(t, "محمد", f.leadAPI.leads[0].Name)

	profile, err := f.profileStore.Get()
	require.NoError(t, err)
	assert.Equal(t, models.PhaseFree, profile.Phase)
	assert.Equal(t, models.ActionNone, profile.PendingAction)
}

func TestConfirmationNoCancelsOrder(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	_, err := f.profileStore.Update(func(p *models.UserProfile) {
		p.Phase = models.PhaseAwaitingConfirmation
		p.PendingAction = models.ActionLead
		p.PendingQuery = "طلب خدمة أخرى"
	})
	require.NoError(t, err)

	assert.Equal(t, msgOrderCanceled, f.handle("لا"))
	assert.Empty(t, f.leadAPI.leads)

	profile, err := f.profileStore.Get()
	require.NoError(t, err)
	assert.Equal(t, models.PhaseFree, profile.Phase)
}

func TestFailedLeadKeepsConfirmationPending(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	f.leadAPI.leadErr = assert.AnError
	_, err := f.profileStore.Update(func(p *models.UserProfile) {
		p.Name, p.Phone = "محمد", "0501234567"
		p.Phase = models.PhaseAwaitingConfirmation
		p.PendingAction = models.ActionLead
	})
	require.NoError(t, err)

	assert.Equal(t, msgLeadFailed, f.handle("نعم"))

	profile, err := f.profileStore.Get()
	require.NoError(t, err)
	assert.Equal(t, models.PhaseAwaitingConfirmation, profile.Phase)
}

func TestBareLetterWithoutServiceFallsToFAQ(t *testing.T) {
	f := newDispatcherFixture(t, nil)

	// No service in the funnel yet, so a lone letter is plain free text.
	assert.Equal(t, msgNoAnswer, f.handle("B"))
}

func TestUnsafeInputIsBlocked(t *testing.T) {
	f := newDispatcherFixture(t, nil)
	f.text.unsafe = true

	assert.Equal(t, msgUnsafe, f.handle("كلام سيء"))
}

func TestFAQAnswerAppendsProfilePrompt(t *testing.T) {
	f := newDispatcherFixture(t, hoursCorpus())

	reply := f.handle("ما هي ساعات العمل؟")
	assert.Contains(t, reply, "نعمل يومياً")
	assert.Contains(t, reply, msgCompleteProfileSuffix)
	assert.Contains(t, reply, fieldPrompts[models.FieldName])
}

func TestFAQAnswerWithoutPromptWhenProfileComplete(t *testing.T) {
	f := newDispatcherFixture(t, hoursCorpus())
	_, err := f.profileStore.Update(func(p *models.UserProfile) {
		p.Name, p.Phone, p.City, p.District = "محمد", "0501234567", "الرياض", "العليا"
	})
	require.NoError(t, err)

	reply := f.handle("ما هي ساعات العمل؟")
	assert.NotContains(t, reply, msgCompleteProfileSuffix)
}
