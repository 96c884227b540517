package service

import (
	"context"
	"encoding/json"
	"strings"

	"mueen-assist/internal/client"
	"mueen-assist/internal/models"
	"mueen-assist/internal/store"

	"go.uber.org/zap"
)

// LeadAPI is the remote business surface for lead and address creation.
type LeadAPI interface {
	CreateLead(ctx context.Context, lead *client.LeadRequest) error
	CreateAddress(ctx context.Context, addr *client.AddressRequest, bearerToken string) ([]byte, int, error)
}

// AddressAuditor persists one snapshot per address-creation exchange.
type AddressAuditor interface {
	Record(ctx context.Context, audit *models.AddressAudit) error
}

// LeadService submits collected leads and addresses. A failed lead keeps the
// confirmation pending so the user can retry by answering yes again; address
// creation is best-effort and every exchange is audited.
type LeadService struct {
	api      LeadAPI
	profiles *store.ProfileStore
	packages *store.PackageStore
	auditor  AddressAuditor
	logger   *zap.Logger
}

func NewLeadService(api LeadAPI, profiles *store.ProfileStore, packages *store.PackageStore, auditor AddressAuditor, logger *zap.Logger) *LeadService {
	return &LeadService{
		api:      api,
		profiles: profiles,
		packages: packages,
		auditor:  auditor,
		logger:   logger,
	}
}

// SubmitLead posts the pending lead built from the profile and the
// interrupted request. Pending state is cleared only on success.
func (s *LeadService) SubmitLead(ctx context.Context) string {
	profile, err := s.profiles.Get()
	if err != nil {
		s.logger.Error("Failed to load profile for lead", zap.Error(err))
		return msgTryLater
	}

	description := strings.TrimSpace(profile.PendingQuery)
	if description == "" {
		if pkg, perr := s.packages.Get(); perr == nil && pkg.ServiceName != "" {
			description = pkg.ServiceName
		}
	}

	lead := &client.LeadRequest{
		ContactID:   profile.ContactID,
		CityID:      profile.CityID,
		DistrictID:  profile.DistrictID,
		Name:        profile.Name,
		Phone:       profile.Phone,
		Description: description,
	}

	if err := s.api.CreateLead(ctx, lead); err != nil {
		s.logger.Warn("Lead submission failed", zap.Error(err))
		return msgLeadFailed
	}

	if _, err := s.profiles.Update(func(p *models.UserProfile) {
		p.Phase = models.PhaseFree
		p.PendingAction = models.ActionNone
		p.PendingQuery = ""
	}); err != nil {
		s.logger.Error("Failed to clear pending lead state", zap.Error(err))
	}
	return msgLeadCreated
}

// CancelLead drops the pending confirmation without submitting.
func (s *LeadService) CancelLead() string {
	if _, err := s.profiles.Update(func(p *models.UserProfile) {
		p.Phase = models.PhaseFree
		p.PendingAction = models.ActionNone
		p.PendingQuery = ""
	}); err != nil {
		s.logger.Error("Failed to clear canceled lead state", zap.Error(err))
	}
	return msgOrderCanceled
}

// SubmitAddress posts the profile's address with the stored mobile-app token
// and audits the raw exchange regardless of outcome. Returns whether the
// remote accepted it.
func (s *LeadService) SubmitAddress(ctx context.Context) bool {
	profile, err := s.profiles.Get()
	if err != nil {
		s.logger.Error("Failed to load profile for address", zap.Error(err))
		return false
	}
	if profile.CityID == 0 || profile.DistrictID == 0 {
		return false
	}

	addr := &client.AddressRequest{
		ContactID:    profile.ContactID,
		CityID:       profile.CityID,
		DistrictID:   profile.DistrictID,
		HousingKey:   profile.HousingKey,
		HouseNo:      profile.HouseNo,
		FloorNo:      profile.FloorNo,
		ApartmentNo:  profile.ApartmentNo,
		AddressNotes: profile.AddressNotes,
		Latitude:     profile.Latitude,
		Longitude:    profile.Longitude,
	}

	respBody, status, err := s.api.CreateAddress(ctx, addr, profile.AuthToken)
	succeeded := err == nil

	reqJSON, _ := json.Marshal(addr)
	audit := &models.AddressAudit{
		Request:    string(reqJSON),
		Response:   string(respBody),
		StatusCode: status,
		Succeeded:  succeeded,
	}
	if s.auditor != nil {
		if aerr := s.auditor.Record(ctx, audit); aerr != nil {
			s.logger.Warn("Failed to record address audit", zap.Error(aerr))
		}
	}

	if !succeeded {
		s.logger.Warn("Address submission failed", zap.Int("status", status), zap.Error(err))
	}
	return succeeded
}
