package sankhya

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// Endpoint paths, relative to the API base path.
const (
	PathReset        = "/resetar"
	PathVerify       = "/verificar_conexoes"
	PathSearch       = "/buscar_planejamentos"
	PathStart        = "/iniciar_automacao_stream"
	PathSummary      = "/resumo"
	PathFinalize     = "/finalizar_conexoes"
	DefaultAPIPath   = "/api/sankhya"
	DefaultEventPath = "/api/sankhya/events"
)

// Caller performs JSON round trips against the backend.
type Caller interface {
	// Call sends body (nil for none) and decodes the response into out
	// (nil to discard it).
	Call(ctx context.Context, method, path string, body, out any) error
	// Beacon sends an empty POST without waiting for the answer.
	Beacon(ctx context.Context, path string) error
}

// Streamer opens the push-event channel.
type Streamer interface {
	Stream(ctx context.Context) (<-chan Event, io.Closer, error)
}

// AutomationServiceAPI is the control surface of the automation backend.
type AutomationServiceAPI interface {
	Reset(ctx context.Context) (*Result, error)
	VerifyConnections(ctx context.Context) (*Result, error)
	SearchPlans(ctx context.Context, p SearchParams) (*Result, error)
	StartAutomation(ctx context.Context, p SearchParams) (*Result, error)
	FetchSummary(ctx context.Context) (*Summary, error)
	FinalizeConnections(ctx context.Context) error
}

// EventServiceAPI subscribes to the push-event channel.
type EventServiceAPI interface {
	Subscribe(ctx context.Context) (*Subscription, error)
}

// AutomationService implements AutomationServiceAPI over a Caller.
type AutomationService struct {
	caller Caller
}

// NewAutomationService creates an AutomationService using the given caller.
func NewAutomationService(c Caller) *AutomationService {
	return &AutomationService{caller: c}
}

// Reset discards the backend's run state.
func (s *AutomationService) Reset(ctx context.Context) (*Result, error) {
	return s.control(ctx, "reset", http.MethodPost, PathReset, nil)
}

// VerifyConnections asks the backend to check its database and ERP links.
func (s *AutomationService) VerifyConnections(ctx context.Context) (*Result, error) {
	return s.control(ctx, "verify connections", http.MethodPost, PathVerify, nil)
}

// SearchPlans counts pending plans for p.
func (s *AutomationService) SearchPlans(ctx context.Context, p SearchParams) (*Result, error) {
	return s.control(ctx, "search plans", http.MethodPost, PathSearch, p)
}

// StartAutomation asks the backend to start a run. Progress arrives on the
// event stream; this only reports whether the run was accepted.
func (s *AutomationService) StartAutomation(ctx context.Context, p SearchParams) (*Result, error) {
	return s.control(ctx, "start automation", http.MethodPost, PathStart, p)
}

// FetchSummary returns the report of the last run.
func (s *AutomationService) FetchSummary(ctx context.Context) (*Summary, error) {
	var resp struct {
		Summary
		Success *bool  `json:"sucesso"`
		Error   string `json:"erro"`
	}
	if err := s.caller.Call(ctx, http.MethodGet, PathSummary, nil, &resp); err != nil {
		return nil, fmt.Errorf("fetch summary: %w", err)
	}
	if resp.Success != nil && !*resp.Success {
		return nil, &APIError{Op: "fetch summary", Message: resp.Error}
	}
	summary := resp.Summary
	return &summary, nil
}

// FinalizeConnections fires the end-of-session beacon.
func (s *AutomationService) FinalizeConnections(ctx context.Context) error {
	return s.caller.Beacon(ctx, PathFinalize)
}

func (s *AutomationService) control(ctx context.Context, op, method, path string, body any) (*Result, error) {
	var res Result
	if err := s.caller.Call(ctx, method, path, body, &res); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !res.Success {
		return &res, &APIError{Op: op, Message: res.Text()}
	}
	return &res, nil
}

// EventService implements EventServiceAPI over a Streamer.
type EventService struct {
	streamer Streamer
}

// NewEventService creates an EventService using the given streamer.
func NewEventService(s Streamer) *EventService {
	return &EventService{streamer: s}
}

// Subscribe opens a new push-event stream.
func (s *EventService) Subscribe(ctx context.Context) (*Subscription, error) {
	c, closer, err := s.streamer.Stream(ctx)
	if err != nil {
		return nil, fmt.Errorf("subscribe events: %w", err)
	}
	return NewSubscription(c, closer), nil
}
