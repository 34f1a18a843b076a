package services

import (
	"context"
	"errors"
	"testing"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/models/catalog"
)

func TestWizardManagerTenantScoping(t *testing.T) {
	m := NewWizardManager(newTestDirectory(), newTestPower(), nil)
	defer m.Close()

	wizard, err := m.Create("tenant-1", "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := m.Get("tenant-1", wizard.SessionID())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != wizard {
		t.Error("Get returned a different wizard instance")
	}

	if _, err := m.Get("tenant-2", wizard.SessionID()); !errors.Is(err, constants.ErrSessionNotFound) {
		t.Errorf("cross-tenant Get = %v, want ErrSessionNotFound", err)
	}
	if _, err := m.Get("tenant-1", "no-such-session"); !errors.Is(err, constants.ErrSessionNotFound) {
		t.Errorf("unknown session Get = %v, want ErrSessionNotFound", err)
	}
}

func TestWizardManagerAbortRemovesSession(t *testing.T) {
	m := NewWizardManager(newTestDirectory(), newTestPower(), nil)
	defer m.Close()

	wizard, err := m.Create("tenant-1", "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := m.Abort("tenant-1", wizard.SessionID()); err != nil {
		t.Fatalf("Abort: %v", err)
	}

	if _, err := m.Get("tenant-1", wizard.SessionID()); !errors.Is(err, constants.ErrSessionNotFound) {
		t.Errorf("Get after abort = %v, want ErrSessionNotFound", err)
	}
}

func TestWizardManagerSeedsInitialColumn(t *testing.T) {
	m := NewWizardManager(newTestDirectory(), newTestPower(), nil)
	defer m.Close()

	wizard, err := m.Create("tenant-1", "col-a", nil)
	if err != nil {
		t.Fatalf("Create with seed column: %v", err)
	}

	state := wizard.State()
	if state.Column == nil || state.Column.ID != "col-a" {
		t.Errorf("seeded column = %v, want col-a", state.Column)
	}

	if _, err := m.Create("tenant-1", "no-such-column", nil); err == nil {
		t.Error("expected an error seeding with an unknown column")
	}
}

func TestWizardManagerCompletionRemovesSession(t *testing.T) {
	m := NewWizardManager(newTestDirectory(), newTestPower(), nil)
	defer m.Close()

	notify := make(chan struct{}, 32)
	wizard, err := m.Create("tenant-1", "", nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	wizard.cfg.Notify = func() { notify <- struct{}{} }

	advanceToModules(t, wizard, notify, "col-a")
	if err := wizard.SetModule(catalog.CategoryElectricalPanel, "ep-1"); err != nil {
		t.Fatalf("SetModule: %v", err)
	}
	waitNotify(t, notify)
	if err := wizard.Next(context.Background()); err != nil {
		t.Fatalf("Next to summary: %v", err)
	}
	waitNotify(t, notify)

	if _, err := wizard.Complete(); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	if _, err := m.Get("tenant-1", wizard.SessionID()); !errors.Is(err, constants.ErrSessionNotFound) {
		t.Errorf("Get after completion = %v, want ErrSessionNotFound", err)
	}
}
