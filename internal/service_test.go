package internal_test

import (
	"testing"

	"github.com/deevus/sankhya-tui/internal"
	"github.com/deevus/sankhya-tui/sankhya"
)

func TestNewServices(t *testing.T) {
	svc := internal.NewServices(&sankhya.MockAutomationService{}, &sankhya.MockEventService{})

	if svc.Automation == nil {
		t.Fatal("expected Automation service")
	}
	if svc.Events == nil {
		t.Fatal("expected Events service")
	}
}
