package service

import (
	"context"

	"mueen-assist/internal/client"
)

// stubEmbedder returns canned vectors per exact text; unknown texts share one
// default vector.
type stubEmbedder struct {
	vectors map[string][]float32
}

func (s *stubEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		if v, ok := s.vectors[t]; ok {
			out[i] = v
		} else {
			out[i] = []float32{0, 0, 1}
		}
	}
	return out, nil
}

type fakeCatalogAPI struct {
	sectors       []client.SectorNode
	services      []client.ServiceEntry
	professions   []client.ServiceEntry
	nationalities []client.KeyValue
	shifts        []client.KeyValue
	packages      []client.PackageEntry
	err           error
}

func (f *fakeCatalogAPI) Sectors(context.Context) ([]client.SectorNode, error) {
	return f.sectors, f.err
}

func (f *fakeCatalogAPI) Services(context.Context, int) ([]client.ServiceEntry, error) {
	return f.services, f.err
}

func (f *fakeCatalogAPI) Professions(context.Context) ([]client.ServiceEntry, error) {
	return f.professions, f.err
}

func (f *fakeCatalogAPI) Nationalities(context.Context, int) ([]client.KeyValue, error) {
	return f.nationalities, f.err
}

func (f *fakeCatalogAPI) Shifts(context.Context, int) ([]client.KeyValue, error) {
	return f.shifts, f.err
}

func (f *fakeCatalogAPI) FixedPackages(context.Context, int, int, int) ([]client.PackageEntry, error) {
	return f.packages, f.err
}

type fakeLookupAPI struct {
	housingTypes []client.KeyValue
	cities       []client.City
	districts    []client.City
	err          error
}

func (f *fakeLookupAPI) HousingTypes(context.Context) ([]client.KeyValue, error) {
	return f.housingTypes, f.err
}

func (f *fakeLookupAPI) Cities(context.Context) ([]client.City, error) {
	return f.cities, f.err
}

func (f *fakeLookupAPI) Districts(context.Context, int) ([]client.City, error) {
	return f.districts, f.err
}

type fakeLeadAPI struct {
	leadErr    error
	leads      []*client.LeadRequest
	addrStatus int
	addrErr    error
	addresses  []*client.AddressRequest
}

func (f *fakeLeadAPI) CreateLead(_ context.Context, lead *client.LeadRequest) error {
	f.leads = append(f.leads, lead)
	return f.leadErr
}

func (f *fakeLeadAPI) CreateAddress(_ context.Context, addr *client.AddressRequest, _ string) ([]byte, int, error) {
	f.addresses = append(f.addresses, addr)
	status := f.addrStatus
	if status == 0 {
		status = 200
	}
	return []byte(`{}`), status, f.addrErr
}

// fakeText is a deterministic TextService: never a greeting, always Arabic,
// identity translation, configurable safety verdict.
type fakeText struct {
	unsafe bool
}

func (f *fakeText) DetectGreeting(context.Context, string) (string, bool, string) {
	return "", false, "Arabic"
}

func (f *fakeText) Translate(_ context.Context, text, _ string) (string, error) {
	return text, nil
}

func (f *fakeText) IsSafe(context.Context, string) bool {
	return !f.unsafe
}
