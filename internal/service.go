package internal

import "github.com/deevus/sankhya-tui/sankhya"

// Services holds the initialized backend services for one server profile.
type Services struct {
	Automation sankhya.AutomationServiceAPI
	Events     sankhya.EventServiceAPI
	// SessionID identifies this client to the backend.
	SessionID string
	// BaseURL is shown on the overview tab.
	BaseURL string
}

// NewServices creates a Services container from the given service interfaces.
func NewServices(auto sankhya.AutomationServiceAPI, events sankhya.EventServiceAPI) *Services {
	return &Services{
		Automation: auto,
		Events:     events,
	}
}
