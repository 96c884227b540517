package models

import "fmt"

// Sector is a top-level category shown as a numbered menu entry.
type Sector struct {
	Code       int
	ID         int
	Title      string
	ActionType string
}

// SubService is one offering inside a sector, addressed by its composite
// "sector.index" code. Synthetic escape-hatch entries carry Other=true.
type SubService struct {
	Code        string
	ServiceID   int
	StepID      int
	Name        string
	Description string
	Other       bool
}

// CompositeCode formats a sector/sub pair the way menus display it.
func CompositeCode(sector, sub int) string {
	return fmt.Sprintf("%d.%d", sector, sub)
}
