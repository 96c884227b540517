package client

import "errors"

// ErrUpstream marks any remote failure (timeout, non-200, malformed payload).
// Callers degrade it to a localized "try again later" reply; nothing retries
// automatically.
var ErrUpstream = errors.New("upstream service unavailable")

// SectorNode is one node of the content-service sector tree. Only children
// with a non-empty fields.title become menu entries.
type SectorNode struct {
	ID       int               `json:"id"`
	Fields   map[string]string `json:"fields"`
	Children []SectorNode      `json:"children"`
}

// ServiceEntry is one row of a per-sector service listing.
type ServiceEntry struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Value       string `json:"value"`
	Description string `json:"description"`
	ActionType  string `json:"actionType"`
	StepID      int    `json:"stepId"`
	Note        string `json:"note"`
}

// KeyValue is the shared shape of nationality, shift and housing-type rows.
type KeyValue struct {
	Key   int    `json:"key"`
	Value string `json:"value"`
}

// PackageEntry is one priced fixed package for a (service, nationality,
// shift) triple.
type PackageEntry struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Note  string  `json:"note"`
}

// City covers both city and district lookup rows.
type City struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// LeadRequest is the payload posted to the lead-creation service.
type LeadRequest struct {
	ContactID   int    `json:"contactId,omitempty"`
	CityID      int    `json:"cityId"`
	DistrictID  int    `json:"districtId"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Description string `json:"description"`
}

// AddressRequest is the payload posted to the address-creation service.
type AddressRequest struct {
	ContactID    int     `json:"contactId,omitempty"`
	CityID       int     `json:"cityId"`
	DistrictID   int     `json:"districtId"`
	HousingKey   int     `json:"housingTypeId,omitempty"`
	HouseNo      string  `json:"houseNo,omitempty"`
	FloorNo      string  `json:"floorNo,omitempty"`
	ApartmentNo  string  `json:"apartmentNo,omitempty"`
	AddressNotes string  `json:"notes,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
}
