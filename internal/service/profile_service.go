package service

import (
	"context"
	"fmt"
	"strings"

	"mueen-assist/internal/client"
	"mueen-assist/internal/models"
	"mueen-assist/internal/nlp"
	"mueen-assist/internal/store"

	"go.uber.org/zap"
)

// LookupAPI is the remote lookup surface used to validate collected profile
// values before they are persisted.
type LookupAPI interface {
	HousingTypes(ctx context.Context) ([]client.KeyValue, error)
	Cities(ctx context.Context) ([]client.City, error)
	Districts(ctx context.Context, cityID int) ([]client.City, error)
}

// ProfileService collects and validates the durable user profile one field
// per turn: the plain required fields first, then the housing and address
// sub-steps. City and district values never enter the profile unvalidated.
type ProfileService struct {
	profiles *store.ProfileStore
	lookup   LookupAPI
	logger   *zap.Logger
}

func NewProfileService(profiles *store.ProfileStore, lookup LookupAPI, logger *zap.Logger) *ProfileService {
	return &ProfileService{profiles: profiles, lookup: lookup, logger: logger}
}

func (s *ProfileService) Get() (models.UserProfile, error) {
	return s.profiles.Get()
}

func (s *ProfileService) Update(mutate func(*models.UserProfile)) (models.UserProfile, error) {
	return s.profiles.Update(mutate)
}

// StartCollection records the interrupted operation and, when required fields
// are missing, arms collection of the first one. Returns the prompt to send
// and whether collection is actually needed.
func (s *ProfileService) StartCollection(action models.PendingAction, query string) (string, bool, error) {
	profile, err := s.profiles.Get()
	if err != nil {
		return "", false, err
	}
	missing := profile.MissingFields()
	if len(missing) == 0 {
		return "", false, nil
	}

	first := missing[0]
	if _, err := s.profiles.Update(func(p *models.UserProfile) {
		p.Phase = models.PhaseAwaitingField
		p.PendingAction = action
		p.PendingQuery = query
		p.PendingField = first
	}); err != nil {
		return "", false, err
	}
	return fieldPrompts[first], true, nil
}

// SubmitField consumes one turn as the value of the armed field. On success
// it either arms the next missing field or clears the collection phase.
// Returns the reply and whether collection completed on this turn.
func (s *ProfileService) SubmitField(ctx context.Context, input string) (string, bool, error) {
	profile, err := s.profiles.Get()
	if err != nil {
		return "", false, err
	}

	field := profile.PendingField
	value := strings.TrimSpace(input)

	var cityID, districtID int
	switch field {
	case models.FieldName:
		// verbatim
	case models.FieldPhone:
		value = strings.TrimSpace(nlp.FoldDigits(value))
	case models.FieldCity:
		city, ok := s.matchCity(ctx, value)
		if !ok {
			return msgCityNotFound, false, nil
		}
		value, cityID = city.Name, city.ID
	case models.FieldDistrict:
		district, ok := s.matchDistrict(ctx, profile.CityID, value)
		if !ok {
			return msgDistrictNotFound, false, nil
		}
		value, districtID = district.Name, district.ID
	default:
		return "", false, fmt.Errorf("no field collection in progress")
	}

	updated, err := s.profiles.Update(func(p *models.UserProfile) {
		switch field {
		case models.FieldName:
			p.Name = value
		case models.FieldPhone:
			p.Phone = value
		case models.FieldCity:
			p.City = value
			p.CityID = cityID
		case models.FieldDistrict:
			p.District = value
			p.DistrictID = districtID
		}

		if missing := p.MissingFields(); len(missing) > 0 {
			p.PendingField = missing[0]
		} else {
			p.Phase = models.PhaseFree
			p.PendingField = ""
		}
	})
	if err != nil {
		return "", false, err
	}

	if updated.PendingField != "" {
		return fieldPrompts[updated.PendingField], false, nil
	}
	return "", true, nil
}

// StartAddress arms the housing step and prompts with the remote
// housing-type enumeration.
func (s *ProfileService) StartAddress(ctx context.Context) (string, error) {
	if _, err := s.profiles.Update(func(p *models.UserProfile) {
		p.Phase = models.PhaseAwaitingHousing
	}); err != nil {
		return "", err
	}

	types, err := s.lookup.HousingTypes(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch housing types", zap.Error(err))
		return msgAskHousing, nil
	}
	return msgAskHousing + "\n" + housingList(types), nil
}

// SubmitHousing fuzzy-matches the turn against the housing-type enumeration.
// On a match it advances to the house-number step; otherwise it re-prompts
// with the available types.
func (s *ProfileService) SubmitHousing(ctx context.Context, input string) (string, bool, error) {
	types, err := s.lookup.HousingTypes(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch housing types", zap.Error(err))
		return msgTryLater, false, nil
	}

	normalized := nlp.Normalize(input)
	for _, t := range types {
		tn := nlp.Normalize(t.Value)
		if tn == "" {
			continue
		}
		if strings.Contains(normalized, tn) || strings.Contains(tn, normalized) {
			if _, err := s.profiles.Update(func(p *models.UserProfile) {
				p.HousingKey = t.Key
				p.HousingValue = t.Value
				p.Phase = models.PhaseAwaitingHouseNo
			}); err != nil {
				return "", false, err
			}
			return msgAskHouseNo, true, nil
		}
	}
	return msgBadHousing + housingList(types), false, nil
}

// SubmitHouseNo stores the house number and advances to the notes step.
func (s *ProfileService) SubmitHouseNo(input string) (string, error) {
	if _, err := s.profiles.Update(func(p *models.UserProfile) {
		p.HouseNo = strings.TrimSpace(nlp.FoldDigits(input))
		p.Phase = models.PhaseAwaitingAddressNotes
	}); err != nil {
		return "", err
	}
	return msgAskAddressNotes, nil
}

// SubmitAddressNotes stores the free-text notes and releases the address
// sub-flow. "no notes" phrasings are stored as empty.
func (s *ProfileService) SubmitAddressNotes(input string) (models.UserProfile, error) {
	notes := strings.TrimSpace(input)
	if nlp.Normalize(notes) == "لا يوجد" {
		notes = ""
	}
	return s.profiles.Update(func(p *models.UserProfile) {
		p.AddressNotes = notes
		p.Phase = models.PhaseFree
	})
}

func (s *ProfileService) matchCity(ctx context.Context, input string) (client.City, bool) {
	cities, err := s.lookup.Cities(ctx)
	if err != nil {
		s.logger.Warn("Failed to fetch cities", zap.Error(err))
		return client.City{}, false
	}
	return matchByName(cities, input)
}

func (s *ProfileService) matchDistrict(ctx context.Context, cityID int, input string) (client.City, bool) {
	districts, err := s.lookup.Districts(ctx, cityID)
	if err != nil {
		s.logger.Warn("Failed to fetch districts", zap.Int("cityId", cityID), zap.Error(err))
		return client.City{}, false
	}
	return matchByName(districts, input)
}

// matchByName accepts an exact normalized match first, then containment in
// either direction.
func matchByName(rows []client.City, input string) (client.City, bool) {
	normalized := nlp.Normalize(input)
	if normalized == "" {
		return client.City{}, false
	}
	for _, row := range rows {
		if nlp.Normalize(row.Name) == normalized {
			return row, true
		}
	}
	for _, row := range rows {
		rn := nlp.Normalize(row.Name)
		if rn == "" {
			continue
		}
		if strings.Contains(rn, normalized) || strings.Contains(normalized, rn) {
			return row, true
		}
	}
	return client.City{}, false
}

func housingList(types []client.KeyValue) string {
	var b strings.Builder
	for _, t := range types {
		b.WriteString("- " + t.Value + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
