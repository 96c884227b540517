package models

// ConversationPhase is the typed program counter of the dialogue: what the
// next user turn is expected to supply.
type ConversationPhase string

const (
	PhaseFree                 ConversationPhase = ""
	PhaseAwaitingField        ConversationPhase = "awaiting_field"
	PhaseAwaitingHousing      ConversationPhase = "awaiting_housing"
	PhaseAwaitingHouseNo      ConversationPhase = "awaiting_house_no"
	PhaseAwaitingAddressNotes ConversationPhase = "awaiting_address_notes"
	PhaseAwaitingConfirmation ConversationPhase = "awaiting_confirmation"
)

// ProfileField identifies one collectable required field.
type ProfileField string

const (
	FieldName     ProfileField = "name"
	FieldPhone    ProfileField = "phone"
	FieldCity     ProfileField = "city"
	FieldDistrict ProfileField = "district"
)

// RequiredFields is the collection order for the profile sub-flow.
var RequiredFields = []ProfileField{FieldName, FieldPhone, FieldCity, FieldDistrict}

// PendingAction names the interrupted operation to resume once collection
// completes.
type PendingAction string

const (
	ActionNone     PendingAction = ""
	ActionServices PendingAction = "services"
	ActionLead     PendingAction = "lead"
)

// UserProfile is the single durable per-deployment profile document. Fields
// are filled one by one as the user confirms them; Phase/PendingField act as
// the resumption pointer.
type UserProfile struct {
	Name         string  `json:"name,omitempty"`
	Phone        string  `json:"phone,omitempty"`
	City         string  `json:"city,omitempty"`
	CityID       int     `json:"city_id,omitempty"`
	District     string  `json:"district,omitempty"`
	DistrictID   int     `json:"district_id,omitempty"`
	HousingKey   int     `json:"housing_key,omitempty"`
	HousingValue string  `json:"housing_value,omitempty"`
	HouseNo      string  `json:"house_no,omitempty"`
	AddressNotes string  `json:"address_notes,omitempty"`
	FloorNo      string  `json:"floor_no,omitempty"`
	ApartmentNo  string  `json:"apartment_no,omitempty"`
	Latitude     float64 `json:"latitude,omitempty"`
	Longitude    float64 `json:"longitude,omitempty"`
	ContactID    int     `json:"contact_id,omitempty"`
	AuthToken    string  `json:"auth_token,omitempty"`

	Phase         ConversationPhase `json:"phase,omitempty"`
	PendingAction PendingAction     `json:"pending_action,omitempty"`
	PendingQuery  string            `json:"pending_query,omitempty"`
	PendingField  ProfileField      `json:"pending_field,omitempty"`
}

// FieldValue returns the stored value of a required field.
func (p *UserProfile) FieldValue(f ProfileField) string {
	switch f {
	case FieldName:
		return p.Name
	case FieldPhone:
		return p.Phone
	case FieldCity:
		return p.City
	case FieldDistrict:
		return p.District
	}
	return ""
}

// MissingFields lists the required fields not collected yet, in collection
// order.
func (p *UserProfile) MissingFields() []ProfileField {
	var missing []ProfileField
	for _, f := range RequiredFields {
		if p.FieldValue(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}
