package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"mueen-assist/internal/client"
	"mueen-assist/internal/models"
	"mueen-assist/internal/store"

	"go.uber.org/zap"
)

// CatalogAPI is the remote catalog surface the menus are built from.
type CatalogAPI interface {
	Sectors(ctx context.Context) ([]client.SectorNode, error)
	Services(ctx context.Context, serviceType int) ([]client.ServiceEntry, error)
	Professions(ctx context.Context) ([]client.ServiceEntry, error)
	Nationalities(ctx context.Context, serviceID int) ([]client.KeyValue, error)
	Shifts(ctx context.Context, serviceID int) ([]client.KeyValue, error)
	FixedPackages(ctx context.Context, stepID, nationalityID, shift int) ([]client.PackageEntry, error)
}

// SelectionOutcome tells the dispatcher what a resolved selection produced.
// StartLead means the escape-hatch entry was chosen and the lead sub-flow
// should begin; ShiftCompleted means the funnel just finished and the address
// hand-off may run.
type SelectionOutcome struct {
	Reply          string
	StartLead      bool
	ShiftCompleted bool
}

var shiftSelectionRe = regexp.MustCompile(`^([A-Za-z])?([0-9]+)$`)

// CatalogService owns the numbered menus and the selection funnel: sector
// codes, composite sub-service codes, the per-sector escape hatch, and the
// nationality and shift steps. Menu numbering lives only in process memory;
// the chosen selection itself is persisted in the funnel document.
type CatalogService struct {
	api        CatalogAPI
	pkgStore   *store.PackageStore
	cacheStore *store.CacheStore
	logger     *zap.Logger

	mu           sync.Mutex
	sectors      map[int]models.Sector
	services     map[string]models.SubService
	escapeCodes  map[int]string
	activeSector int
	listed       bool
}

func NewCatalogService(api CatalogAPI, pkgStore *store.PackageStore, cacheStore *store.CacheStore, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		api:         api,
		pkgStore:    pkgStore,
		cacheStore:  cacheStore,
		logger:      logger,
		sectors:     map[int]models.Sector{},
		services:    map[string]models.SubService{},
		escapeCodes: map[int]string{},
	}
}

// HasListed reports whether any sector listing was shown since the process
// started. A selection typed before that gets a hint, never a menu lookup.
func (s *CatalogService) HasListed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listed
}

// ListSectors fetches the sector tree and renders the numbered top-level
// menu. Codes are assigned 1-based in display order.
func (s *CatalogService) ListSectors(ctx context.Context) string {
	nodes, err := s.api.Sectors(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch sectors", zap.Error(err))
		return msgSectorsFailed
	}

	sectors := map[int]models.Sector{}
	var b strings.Builder
	b.WriteString(msgSectorsHeader)

	code := 0
	for _, node := range nodes {
		for _, child := range node.Children {
			title := strings.TrimSpace(child.Fields["title"])
			if title == "" {
				continue
			}
			code++
			sectors[code] = models.Sector{
				Code:       code,
				ID:         child.ID,
				Title:      title,
				ActionType: strings.ToLower(strings.TrimSpace(child.Fields["actionType"])),
			}
			b.WriteString(fmt.Sprintf("%d. %s\n", code, title))
		}
	}
	if code == 0 {
		return msgNoSectors
	}

	s.mu.Lock()
	s.sectors = sectors
	s.services = map[string]models.SubService{}
	s.escapeCodes = map[int]string{}
	s.activeSector = 0
	s.listed = true
	s.mu.Unlock()

	return strings.TrimRight(b.String(), "\n")
}

// ResolveSelection handles a pure numeric selection once a listing has been
// shown. A bare integer is a shift pick when the funnel already holds a
// service and nationality, a sub-code relative to the active sector when its
// menu is showing, and a sector pick otherwise. A dotted code addresses a
// sub-service; the synthetic trailing entry starts the lead flow.
func (s *CatalogService) ResolveSelection(ctx context.Context, selection string) SelectionOutcome {
	if n, err := strconv.Atoi(selection); err == nil {
		pkg, perr := s.pkgStore.Get()
		if perr == nil && pkg.ServiceID != 0 && pkg.NationalityKey != 0 {
			reply, completed := s.SelectShift(ctx, selection)
			return SelectionOutcome{Reply: reply, ShiftCompleted: completed}
		}
		if outcome, ok := s.resolveRelative(ctx, n); ok {
			return outcome
		}
		return SelectionOutcome{Reply: s.ListServices(ctx, n)}
	}

	s.mu.Lock()
	sub, ok := s.services[selection]
	s.mu.Unlock()
	if !ok {
		return SelectionOutcome{Reply: msgUnknownSelection}
	}
	if sub.Other {
		return SelectionOutcome{StartLead: true}
	}
	return SelectionOutcome{Reply: s.SelectService(ctx, sub)}
}

// resolveRelative interprets a bare integer against the active sector's menu,
// so "3" after the sector 1 listing means "1.3". The escape hatch keeps its
// meaning in this form too.
func (s *CatalogService) resolveRelative(ctx context.Context, n int) (SelectionOutcome, bool) {
	s.mu.Lock()
	sector := s.activeSector
	var sub models.SubService
	var ok bool
	if sector != 0 {
		code := models.CompositeCode(sector, n)
		if code == s.escapeCodes[sector] {
			s.mu.Unlock()
			return SelectionOutcome{StartLead: true}, true
		}
		sub, ok = s.services[code]
	}
	s.mu.Unlock()

	if !ok {
		return SelectionOutcome{}, false
	}
	return SelectionOutcome{Reply: s.SelectService(ctx, sub)}, true
}

// ListServices renders the numbered sub-service menu of one sector. The
// action type decides the source catalog; unknown types get the coming-soon
// reply. A synthetic escape entry is always appended after the real rows.
func (s *CatalogService) ListServices(ctx context.Context, sectorCode int) string {
	s.mu.Lock()
	sector, ok := s.sectors[sectorCode]
	s.mu.Unlock()
	if !ok {
		return msgUnknownSelection
	}

	var entries []client.ServiceEntry
	var err error
	switch sector.ActionType {
	case "hourly":
		entries, err = s.api.Services(ctx, sector.ID)
	case "individual":
		entries, err = s.api.Professions(ctx)
	default:
		return msgSectorComing
	}
	if err != nil {
		s.logger.Warn("Failed to fetch sector services",
			zap.Int("sector", sectorCode),
			zap.String("actionType", sector.ActionType),
			zap.Error(err),
		)
		return msgServicesFailed
	}

	services := map[string]models.SubService{}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("خدمات %s:\n\n", sector.Title))

	for i, entry := range entries {
		name := entry.Name
		if name == "" {
			name = entry.Value
		}
		code := models.CompositeCode(sectorCode, i+1)
		services[code] = models.SubService{
			Code:        code,
			ServiceID:   entry.ID,
			StepID:      entry.StepID,
			Name:        name,
			Description: entry.Description,
		}
		b.WriteString(fmt.Sprintf("%s %s\n", code, name))
	}

	escape := models.CompositeCode(sectorCode, len(entries)+1)
	services[escape] = models.SubService{Code: escape, Other: true}
	b.WriteString(fmt.Sprintf("%s %s\n", escape, msgOtherOption))

	s.mu.Lock()
	for k, v := range services {
		s.services[k] = v
	}
	s.escapeCodes[sectorCode] = escape
	s.activeSector = sectorCode
	s.mu.Unlock()

	return strings.TrimRight(b.String(), "\n")
}

// SelectService persists the chosen service into the funnel document,
// prefetches its nationalities and shifts into the cache documents, and
// replies with the description plus the lettered nationality menu.
func (s *CatalogService) SelectService(ctx context.Context, sub models.SubService) string {
	_, err := s.pkgStore.Update(func(pkg *models.FixedPackageSelection) {
		*pkg = models.FixedPackageSelection{
			ServiceID:   sub.ServiceID,
			ServiceName: sub.Name,
			StepID:      sub.StepID,
			SelectedAt:  time.Now().UTC().Format(time.RFC3339),
		}
	})
	if err != nil {
		s.logger.Error("Failed to persist service selection", zap.Error(err))
		return msgTryLater
	}

	nationalities, err := s.api.Nationalities(ctx, sub.ServiceID)
	if err != nil {
		s.logger.Warn("Failed to fetch nationalities", zap.Int("serviceId", sub.ServiceID), zap.Error(err))
		return msgNoNationalities
	}
	if len(nationalities) == 0 {
		return msgNoNationalities
	}
	if err := s.cacheStore.SaveNationalities(sub.ServiceID, nationalities); err != nil {
		s.logger.Warn("Failed to cache nationalities", zap.Error(err))
	}

	// Shifts are prefetched now so the shift turn answers from the cache.
	if shifts, serr := s.api.Shifts(ctx, sub.ServiceID); serr == nil {
		if err := s.cacheStore.SaveShifts(sub.ServiceID, shifts); err != nil {
			s.logger.Warn("Failed to cache shifts", zap.Error(err))
		}
	} else {
		s.logger.Warn("Failed to prefetch shifts", zap.Int("serviceId", sub.ServiceID), zap.Error(serr))
	}

	var b strings.Builder
	if sub.Description != "" {
		b.WriteString(sub.Description)
		b.WriteString("\n\n")
	}
	b.WriteString(msgChooseNationality)
	for i, n := range nationalities {
		b.WriteString(fmt.Sprintf("%s. %s\n", letterFor(i), n.Value))
	}
	return strings.TrimRight(b.String(), "\n")
}

// SelectNationality resolves a bare letter against the cached nationality
// menu of the funnel's service and advances to the shift step.
func (s *CatalogService) SelectNationality(ctx context.Context, letter string) string {
	letter = strings.ToUpper(strings.TrimSpace(letter))
	if len(letter) != 1 || letter[0] < 'A' || letter[0] > 'Z' {
		return msgBadNationality
	}

	pkg, err := s.pkgStore.Get()
	if err != nil || pkg.ServiceID == 0 {
		return msgNationalityFirst
	}

	nationalities, err := s.cacheStore.Nationalities(pkg.ServiceID)
	if err != nil || len(nationalities) == 0 {
		nationalities, err = s.api.Nationalities(ctx, pkg.ServiceID)
		if err != nil || len(nationalities) == 0 {
			return msgNoNationalities
		}
	}

	idx := int(letter[0] - 'A')
	if idx >= len(nationalities) {
		return msgNationalityNotFound
	}
	chosen := nationalities[idx]

	if _, err := s.pkgStore.Update(func(p *models.FixedPackageSelection) {
		p.NationalityKey = chosen.Key
		p.NationalityValue = chosen.Value
	}); err != nil {
		s.logger.Error("Failed to persist nationality selection", zap.Error(err))
		return msgTryLater
	}

	shifts, err := s.cacheStore.Shifts(pkg.ServiceID)
	if err != nil || len(shifts) == 0 {
		shifts, err = s.api.Shifts(ctx, pkg.ServiceID)
		if err != nil || len(shifts) == 0 {
			return msgNoShifts
		}
		if cerr := s.cacheStore.SaveShifts(pkg.ServiceID, shifts); cerr != nil {
			s.logger.Warn("Failed to cache shifts", zap.Error(cerr))
		}
	}

	var b strings.Builder
	b.WriteString(msgChooseShift)
	for _, sh := range shifts {
		b.WriteString(fmt.Sprintf("%s%d. %s\n", letter, sh.Key, sh.Value))
	}
	return strings.TrimRight(b.String(), "\n")
}

// SelectShift resolves a shift pick of the form "A1" or "1". A letter prefix
// must match the chosen nationality's menu letter. The second return value
// reports whether the funnel completed on this turn.
func (s *CatalogService) SelectShift(ctx context.Context, selection string) (string, bool) {
	m := shiftSelectionRe.FindStringSubmatch(strings.ToUpper(strings.TrimSpace(selection)))
	if m == nil {
		return msgBadShift, false
	}

	pkg, err := s.pkgStore.Get()
	if err != nil || pkg.ServiceID == 0 || pkg.NationalityKey == 0 {
		return msgNationalityFirst, false
	}

	if m[1] != "" {
		expected, ok := s.nationalityLetter(ctx, &pkg)
		if !ok {
			return msgShiftMissing, false
		}
		if m[1] != expected {
			return fmt.Sprintf(msgShiftLetterMismatch, m[1], expected), false
		}
	}

	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return msgBadShift, false
	}

	shifts, err := s.cacheStore.Shifts(pkg.ServiceID)
	if err != nil || len(shifts) == 0 {
		shifts, err = s.api.Shifts(ctx, pkg.ServiceID)
		if err != nil || len(shifts) == 0 {
			return msgNoShifts, false
		}
	}

	// The numeric part is the shift's key, not its menu position.
	var chosen client.KeyValue
	found := false
	for _, sh := range shifts {
		if sh.Key == n {
			chosen = sh
			found = true
			break
		}
	}
	if !found {
		return msgShiftMissing, false
	}

	if _, err := s.pkgStore.Update(func(p *models.FixedPackageSelection) {
		p.ShiftKey = chosen.Key
		p.ShiftValue = chosen.Value
	}); err != nil {
		s.logger.Error("Failed to persist shift selection", zap.Error(err))
		return msgTryLater, false
	}

	packages, err := s.api.FixedPackages(ctx, pkg.StepID, pkg.NationalityKey, chosen.Key)
	if err != nil {
		s.logger.Warn("Failed to fetch fixed packages",
			zap.Int("stepId", pkg.StepID),
			zap.Int("nationality", pkg.NationalityKey),
			zap.Int("shift", chosen.Key),
			zap.Error(err),
		)
		return msgTryLater, true
	}
	if len(packages) == 0 {
		return msgNoPackages, true
	}

	var b strings.Builder
	b.WriteString(msgPackagesHeader)
	for i, p := range packages {
		b.WriteString(fmt.Sprintf("%d. %s - %.2f ريال", i+1, p.Name, p.Price))
		if p.Note != "" {
			b.WriteString(" (" + p.Note + ")")
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n"), true
}

// nationalityLetter recovers the menu letter of the funnel's chosen
// nationality from its position in the cached list.
func (s *CatalogService) nationalityLetter(ctx context.Context, pkg *models.FixedPackageSelection) (string, bool) {
	nationalities, err := s.cacheStore.Nationalities(pkg.ServiceID)
	if err != nil || len(nationalities) == 0 {
		nationalities, err = s.api.Nationalities(ctx, pkg.ServiceID)
		if err != nil {
			return "", false
		}
	}
	for i, n := range nationalities {
		if n.Key == pkg.NationalityKey {
			return letterFor(i), true
		}
	}
	return "", false
}

// ServiceSelected reports whether the funnel holds a chosen service.
func (s *CatalogService) ServiceSelected() bool {
	pkg, err := s.pkgStore.Get()
	return err == nil && pkg.ServiceID != 0
}

// NationalitySelected reports whether the funnel holds both a service and a
// nationality.
func (s *CatalogService) NationalitySelected() bool {
	pkg, err := s.pkgStore.Get()
	return err == nil && pkg.ServiceID != 0 && pkg.NationalityKey != 0
}

// ResetFunnel clears the funnel document and cached menus.
func (s *CatalogService) ResetFunnel() error {
	if err := s.pkgStore.Reset(); err != nil {
		return err
	}
	return s.cacheStore.Clear()
}

func letterFor(i int) string {
	return string(rune('A' + i))
}
