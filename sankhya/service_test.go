package sankhya_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/deevus/sankhya-tui/sankhya"
)

// fakeCaller answers every call with the JSON registered for its path.
type fakeCaller struct {
	responses map[string]string
	err       error
	calls     []string
	bodies    []any
	beacons   []string
}

func (f *fakeCaller) Call(ctx context.Context, method, path string, body, out any) error {
	f.calls = append(f.calls, method+" "+path)
	f.bodies = append(f.bodies, body)
	if f.err != nil {
		return f.err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(f.responses[path]), out)
}

func (f *fakeCaller) Beacon(ctx context.Context, path string) error {
	f.beacons = append(f.beacons, path)
	return f.err
}

func TestAutomationService_VerifyConnections_Success(t *testing.T) {
	fc := &fakeCaller{responses: map[string]string{
		sankhya.PathVerify: `{"sucesso": true, "mensagem": "Conexões estabelecidas com sucesso"}`,
	}}
	svc := sankhya.NewAutomationService(fc)

	res, err := svc.VerifyConnections(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text() != "Conexões estabelecidas com sucesso" {
		t.Errorf("unexpected message %q", res.Text())
	}
	if fc.calls[0] != "POST /verificar_conexoes" {
		t.Errorf("unexpected call %q", fc.calls[0])
	}
}

func TestAutomationService_VerifyConnections_Failure(t *testing.T) {
	fc := &fakeCaller{responses: map[string]string{
		sankhya.PathVerify: `{"sucesso": false, "erro": "Falha na conexão com o banco Oracle"}`,
	}}
	svc := sankhya.NewAutomationService(fc)

	_, err := svc.VerifyConnections(context.Background())
	var apiErr *sankhya.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Falha na conexão com o banco Oracle" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestAutomationService_TransportError(t *testing.T) {
	fc := &fakeCaller{err: io.ErrUnexpectedEOF}
	svc := sankhya.NewAutomationService(fc)

	_, err := svc.SearchPlans(context.Background(), sankhya.SearchParams{})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
	var apiErr *sankhya.APIError
	if errors.As(err, &apiErr) {
		t.Error("transport errors must not be reported as APIError")
	}
}

func TestAutomationService_SearchPlans_SendsParams(t *testing.T) {
	fc := &fakeCaller{responses: map[string]string{
		sankhya.PathSearch: `{"sucesso": true, "total": 3}`,
	}}
	svc := sankhya.NewAutomationService(fc)
	p := sankhya.SearchParams{Date: "2025-07-21", Branch: 2, RoundStart: 1, RoundEnd: 4}

	res, err := svc.SearchPlans(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 3 {
		t.Errorf("expected total=3, got %d", res.Total)
	}
	if got, ok := fc.bodies[0].(sankhya.SearchParams); !ok || got != p {
		t.Errorf("expected params body %+v, got %#v", p, fc.bodies[0])
	}
}

func TestAutomationService_StartAutomation_Rejected(t *testing.T) {
	fc := &fakeCaller{responses: map[string]string{
		sankhya.PathStart: `{"sucesso": false, "mensagem": "Um processo já está em andamento."}`,
	}}
	svc := sankhya.NewAutomationService(fc)

	res, err := svc.StartAutomation(context.Background(), sankhya.SearchParams{})
	var apiErr *sankhya.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if res == nil || res.Success {
		t.Errorf("expected failed result alongside error, got %+v", res)
	}
	if apiErr.Message != "Um processo já está em andamento." {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestAutomationService_FetchSummary(t *testing.T) {
	fc := &fakeCaller{responses: map[string]string{
		sankhya.PathSummary: `{"total_ops_criadas": 1, "ops_criadas_sucesso": [{"nuplan": 7, "idiproc": 70}], "total_falhas": 0, "detalhes_falhas": []}`,
	}}
	svc := sankhya.NewAutomationService(fc)

	s, err := svc.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.TotalCreated != 1 || s.Created[0].OpID != "70" {
		t.Errorf("unexpected summary %+v", s)
	}
	if fc.calls[0] != "GET /resumo" {
		t.Errorf("unexpected call %q", fc.calls[0])
	}
}

func TestAutomationService_FetchSummary_NotInitialized(t *testing.T) {
	fc := &fakeCaller{responses: map[string]string{
		sankhya.PathSummary: `{"sucesso": false, "erro": "Estado não inicializado."}`,
	}}
	svc := sankhya.NewAutomationService(fc)

	_, err := svc.FetchSummary(context.Background())
	var apiErr *sankhya.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
}

func TestAutomationService_FinalizeConnections(t *testing.T) {
	fc := &fakeCaller{}
	svc := sankhya.NewAutomationService(fc)

	if err := svc.FinalizeConnections(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(fc.beacons) != 1 || fc.beacons[0] != sankhya.PathFinalize {
		t.Errorf("expected one beacon to %s, got %v", sankhya.PathFinalize, fc.beacons)
	}
	if len(fc.calls) != 0 {
		t.Errorf("beacon must not use Call, got %v", fc.calls)
	}
}

type fakeStreamer struct {
	ch     chan sankhya.Event
	closed bool
	err    error
}

func (f *fakeStreamer) Stream(ctx context.Context) (<-chan sankhya.Event, io.Closer, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.ch, f, nil
}

func (f *fakeStreamer) Close() error {
	f.closed = true
	return nil
}

func TestEventService_Subscribe(t *testing.T) {
	fs := &fakeStreamer{ch: make(chan sankhya.Event, 1)}
	svc := sankhya.NewEventService(fs)

	sub, err := svc.Subscribe(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ev, _ := sankhya.NewEvent(sankhya.EventFinished, nil)
	fs.ch <- ev
	got := <-sub.C
	if got.Kind != sankhya.EventFinished || string(got.Data) != "{}" {
		t.Errorf("unexpected event %+v", got)
	}

	_ = sub.Close()
	_ = sub.Close()
	if !fs.closed {
		t.Error("expected streamer to be closed")
	}
}

func TestEventService_Subscribe_Error(t *testing.T) {
	svc := sankhya.NewEventService(&fakeStreamer{err: io.EOF})
	if _, err := svc.Subscribe(context.Background()); !errors.Is(err, io.EOF) {
		t.Fatalf("expected wrapped io.EOF, got %v", err)
	}
}
