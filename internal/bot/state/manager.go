// Package state tracks per-user interaction state: which chat mode the user
// is in, their in-memory app context (pill registry, reminder presets,
// sessions), and transient edit data like reminder drafts.
package state

import (
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/pillmate/pill-helper/internal/bot/render"
	"github.com/pillmate/pill-helper/internal/chat"
	"github.com/pillmate/pill-helper/internal/domain"
	"github.com/pillmate/pill-helper/internal/registry"
	"github.com/pillmate/pill-helper/internal/reminder"
)

// User input states
const (
	None                      = "none"
	PillChat                  = "pill_chat"
	BagChat                   = "bag_chat"
	HospitalChat              = "hospital_chat"
	WaitingForAlarmTime       = "waiting_for_alarm_time"
	WaitingForPharmacyKeyword = "waiting_for_pharmacy_keyword"
)

const (
	bagWelcome      = "약봉투 사진을 올려주시면 어떤 약이 들었는지 분석해드릴게요."
	hospitalWelcome = "처방전 사진을 올려주시면 처방 내용을 분석해드릴게요."
)

// Services are the backend clients user sessions are wired to.
type Services struct {
	Identifier domain.Identifier
	Consultant domain.Consultant
	Analyzer   domain.PrescriptionAnalyzer
}

// UserApp is one user's in-memory application context: registry, reminder
// presets and scheduler, and lazily created chat sessions. It lives for the
// process lifetime; nothing is persisted.
type UserApp struct {
	Registry *registry.Registry
	Presets  *reminder.Store

	mu              sync.Mutex
	renderer        *render.Renderer
	services        Services
	chatSession     *chat.Session
	bagSession      *chat.PrescriptionSession
	hospitalSession *chat.PrescriptionSession
}

// ChatSession returns the pill identification session, creating it (and
// rendering its welcome message) on first use.
func (a *UserApp) ChatSession() *chat.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.chatSession == nil {
		a.chatSession = chat.NewSession(a.services.Identifier, a.services.Consultant, a.renderer)
	}
	return a.chatSession
}

// PrescriptionSession returns the analysis session for the given mode,
// creating it on first use.
func (a *UserApp) PrescriptionSession(mode domain.PrescriptionMode) *chat.PrescriptionSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	if mode == domain.ModeHospitalPrescription {
		if a.hospitalSession == nil {
			a.hospitalSession = chat.NewPrescriptionSession(a.services.Analyzer, hospitalWelcome, a.renderer)
		}
		return a.hospitalSession
	}
	if a.bagSession == nil {
		a.bagSession = chat.NewPrescriptionSession(a.services.Analyzer, bagWelcome, a.renderer)
	}
	return a.bagSession
}

// Manager manages user states, app contexts and temporary edit data.
type Manager struct {
	api      *tgbotapi.BotAPI
	services Services

	mu           sync.RWMutex
	userStates   map[int64]string
	apps         map[int64]*UserApp
	drafts       map[int64]*reminder.Draft
	editingSlots map[int64]string
	locations    map[int64]domain.LatLng
}

// NewManager creates a new state manager.
func NewManager(api *tgbotapi.BotAPI, services Services) *Manager {
	return &Manager{
		api:          api,
		services:     services,
		userStates:   make(map[int64]string),
		apps:         make(map[int64]*UserApp),
		drafts:       make(map[int64]*reminder.Draft),
		editingSlots: make(map[int64]string),
		locations:    make(map[int64]domain.LatLng),
	}
}

// SetUserState sets the input state for a user.
func (m *Manager) SetUserState(userID int64, state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.userStates[userID] = state
}

// GetUserState gets the input state for a user.
func (m *Manager) GetUserState(userID int64) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	state, exists := m.userStates[userID]
	if !exists {
		return None
	}
	return state
}

// GetOrCreateApp returns the user's app context, building it on first
// contact. The renderer and reminder notifier are bound to the chat the user
// talks in; the per-user reminder scheduler starts immediately.
func (m *Manager) GetOrCreateApp(userID, chatID int64) *UserApp {
	m.mu.Lock()
	defer m.mu.Unlock()
	if app, ok := m.apps[userID]; ok {
		return app
	}

	reg := registry.New()
	scheduler := reminder.NewCronScheduler(render.NewNotifier(m.api, chatID))
	scheduler.Start()

	app := &UserApp{
		Registry: reg,
		Presets:  reminder.NewStore(reg, scheduler),
		renderer: render.New(m.api, chatID),
		services: m.services,
	}
	m.apps[userID] = app
	return app
}

// SetDraft stores the reminder draft the user is editing and which slot it
// belongs to.
func (m *Manager) SetDraft(userID int64, slotKey string, draft *reminder.Draft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts[userID] = draft
	m.editingSlots[userID] = slotKey
}

// GetDraft returns the draft under edit and its slot key.
func (m *Manager) GetDraft(userID int64) (string, *reminder.Draft, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	draft, ok := m.drafts[userID]
	if !ok {
		return "", nil, false
	}
	return m.editingSlots[userID], draft, true
}

// ClearDraft drops the draft under edit.
func (m *Manager) ClearDraft(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, userID)
	delete(m.editingSlots, userID)
}

// SetLocation remembers the user's last shared location for keyword search
// bias.
func (m *Manager) SetLocation(userID int64, loc domain.LatLng) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.locations[userID] = loc
}

// GetLocation returns the user's last shared location.
func (m *Manager) GetLocation(userID int64) (domain.LatLng, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	loc, ok := m.locations[userID]
	return loc, ok
}
