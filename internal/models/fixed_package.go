package models

// FixedPackageSelection is the single active funnel document: the chosen
// service plus, as the funnel advances, nationality and shift. Merge-updated,
// read back at every later step.
type FixedPackageSelection struct {
	ServiceID        int    `json:"service_id,omitempty"`
	ServiceName      string `json:"service_name,omitempty"`
	StepID           int    `json:"stepId,omitempty"`
	NationalityKey   int    `json:"nationality_key,omitempty"`
	NationalityValue string `json:"nationality_value,omitempty"`
	ShiftKey         int    `json:"shift_key,omitempty"`
	ShiftValue       string `json:"shift_value,omitempty"`
	SelectedAt       string `json:"selected_at,omitempty"`
}
