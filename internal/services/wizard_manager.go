package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"urbanlight/columnforge/internal/constants"
	"urbanlight/columnforge/internal/logging"
	"urbanlight/columnforge/internal/metrics"
	"urbanlight/columnforge/internal/models/catalog"
)

type managedSession struct {
	wizard    *Wizard
	tenantID  string
	expiresAt time.Time
}

// WizardManager owns the open wizard sessions. Sessions are independent;
// the manager only tracks lifetimes, it never reaches into their state.
type WizardManager struct {
	mu       sync.RWMutex
	sessions map[string]*managedSession

	directory CatalogDirectory
	power     PowerBudget
	metrics   *metrics.MetricsRegistry

	ttl    time.Duration
	ctx    context.Context
	cancel context.CancelFunc
}

func NewWizardManager(directory CatalogDirectory, power PowerBudget, metricsReg *metrics.MetricsRegistry) *WizardManager {
	ctx, cancel := context.WithCancel(context.Background())
	m := &WizardManager{
		sessions:  make(map[string]*managedSession),
		directory: directory,
		power:     power,
		metrics:   metricsReg,
		ttl:       constants.WizardSessionTTL,
		ctx:       ctx,
		cancel:    cancel,
	}

	go m.sweep()
	return m
}

// Create opens a new wizard session for a tenant, optionally seeded with a
// column (the re-open-existing-configuration shortcut).
func (m *WizardManager) Create(tenantID, initialColumnID string, onComplete func(catalog.ConfigurationResult)) (*Wizard, error) {
	sessionID := uuid.New().String()

	wizard, err := NewWizard(m.ctx, WizardConfig{
		SessionID:       sessionID,
		TenantID:        tenantID,
		Directory:       m.directory,
		Power:           m.power,
		Metrics:         m.metrics,
		InitialColumnID: initialColumnID,
		OnComplete: func(result catalog.ConfigurationResult) {
			m.remove(sessionID)
			if onComplete != nil {
				onComplete(result)
			}
		},
		OnCancel: func() {
			m.remove(sessionID)
		},
	})
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	m.sessions[sessionID] = &managedSession{
		wizard:    wizard,
		tenantID:  tenantID,
		expiresAt: time.Now().Add(m.ttl),
	}
	m.mu.Unlock()

	if m.metrics != nil {
		m.metrics.WizardSessionsTotal.Inc()
		m.metrics.WizardSessionsActive.Inc()
	}
	logging.WithSession(sessionID, tenantID).Infow("Wizard session opened", "seed_column_id", initialColumnID)

	return wizard, nil
}

// Get fetches an open session, scoped to the tenant that owns it.
func (m *WizardManager) Get(tenantID, sessionID string) (*Wizard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	session, ok := m.sessions[sessionID]
	if !ok || session.tenantID != tenantID {
		return nil, constants.ErrSessionNotFound
	}

	// activity extends the session
	session.expiresAt = time.Now().Add(m.ttl)
	return session.wizard, nil
}

// Abort cancels a session on behalf of its tenant.
func (m *WizardManager) Abort(tenantID, sessionID string) error {
	wizard, err := m.Get(tenantID, sessionID)
	if err != nil {
		return err
	}
	wizard.Abort()
	return nil
}

// Close cancels every open session and stops the sweeper.
func (m *WizardManager) Close() {
	m.cancel()

	m.mu.Lock()
	sessions := make([]*managedSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.mu.Unlock()

	for _, s := range sessions {
		s.wizard.Abort()
	}
}

func (m *WizardManager) remove(sessionID string) {
	m.mu.Lock()
	_, existed := m.sessions[sessionID]
	delete(m.sessions, sessionID)
	m.mu.Unlock()

	if existed && m.metrics != nil {
		m.metrics.WizardSessionsActive.Dec()
	}
}

// sweep expires idle sessions.
func (m *WizardManager) sweep() {
	ticker := time.NewTicker(constants.WizardSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			return
		case now := <-ticker.C:
			m.mu.Lock()
			var expired []*managedSession
			for id, session := range m.sessions {
				if now.After(session.expiresAt) {
					expired = append(expired, session)
					delete(m.sessions, id)
				}
			}
			m.mu.Unlock()

			for _, session := range expired {
				session.wizard.Abort()
				if m.metrics != nil {
					m.metrics.WizardSessionsActive.Dec()
				}
				logging.WithSession(session.wizard.SessionID(), session.tenantID).Infow("Wizard session expired")
			}
		}
	}
}
