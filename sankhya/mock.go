package sankhya

import "context"

// MockAutomationService is a func-field mock of AutomationServiceAPI. Unset
// funcs return a successful empty result.
type MockAutomationService struct {
	ResetFunc               func(ctx context.Context) (*Result, error)
	VerifyConnectionsFunc   func(ctx context.Context) (*Result, error)
	SearchPlansFunc         func(ctx context.Context, p SearchParams) (*Result, error)
	StartAutomationFunc     func(ctx context.Context, p SearchParams) (*Result, error)
	FetchSummaryFunc        func(ctx context.Context) (*Summary, error)
	FinalizeConnectionsFunc func(ctx context.Context) error
}

func (m *MockAutomationService) Reset(ctx context.Context) (*Result, error) {
	if m.ResetFunc != nil {
		return m.ResetFunc(ctx)
	}
	return &Result{Success: true}, nil
}

func (m *MockAutomationService) VerifyConnections(ctx context.Context) (*Result, error) {
	if m.VerifyConnectionsFunc != nil {
		return m.VerifyConnectionsFunc(ctx)
	}
	return &Result{Success: true}, nil
}

func (m *MockAutomationService) SearchPlans(ctx context.Context, p SearchParams) (*Result, error) {
	if m.SearchPlansFunc != nil {
		return m.SearchPlansFunc(ctx, p)
	}
	return &Result{Success: true}, nil
}

func (m *MockAutomationService) StartAutomation(ctx context.Context, p SearchParams) (*Result, error) {
	if m.StartAutomationFunc != nil {
		return m.StartAutomationFunc(ctx, p)
	}
	return &Result{Success: true}, nil
}

func (m *MockAutomationService) FetchSummary(ctx context.Context) (*Summary, error) {
	if m.FetchSummaryFunc != nil {
		return m.FetchSummaryFunc(ctx)
	}
	return &Summary{}, nil
}

func (m *MockAutomationService) FinalizeConnections(ctx context.Context) error {
	if m.FinalizeConnectionsFunc != nil {
		return m.FinalizeConnectionsFunc(ctx)
	}
	return nil
}

// MockEventService is a func-field mock of EventServiceAPI. When
// SubscribeFunc is unset, Subscribe returns a stream that never delivers.
type MockEventService struct {
	SubscribeFunc func(ctx context.Context) (*Subscription, error)
}

func (m *MockEventService) Subscribe(ctx context.Context) (*Subscription, error) {
	if m.SubscribeFunc != nil {
		return m.SubscribeFunc(ctx)
	}
	return NewSubscription(make(chan Event), nil), nil
}
