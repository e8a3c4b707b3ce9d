// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/realty/lib/clock"
	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/realtyapi"
	"github.com/bureau-foundation/realty/lib/realtyapi/realtyapitest"
	"github.com/bureau-foundation/realty/lib/session"
)

var testEpoch = time.Date(2024, time.October, 15, 9, 0, 0, 0, time.UTC)

// testDesk bundles a model with the fake backend and session it runs
// against.
type testDesk struct {
	server *realtyapitest.Server
	store  *session.MemoryStore
	gate   *session.Gate
	client *realtyapi.Client
	clock  *clock.FakeClock
}

// newTestDesk starts a fake backend with no stored session.
func newTestDesk(t *testing.T) *testDesk {
	t.Helper()
	server := realtyapitest.NewServer(t)
	store := &session.MemoryStore{}
	gate := session.NewGate(store, slog.New(slog.DiscardHandler))
	client, err := realtyapi.NewClient(realtyapi.Config{BaseURL: server.BaseURL(), Tokens: gate})
	if err != nil {
		t.Fatal(err)
	}
	return &testDesk{server: server, store: store, gate: gate, client: client, clock: clock.Fake(testEpoch)}
}

// newLoggedInDesk starts a fake backend with user "meera" already
// logged in, as if restored from a previous run.
func newLoggedInDesk(t *testing.T) *testDesk {
	t.Helper()
	fixture := newTestDesk(t)
	if err := fixture.store.Save(fixture.server.AddUser("meera", "pw")); err != nil {
		t.Fatal(err)
	}
	if status, err := fixture.gate.Restore(); err != nil || status != session.Authenticated {
		t.Fatalf("Restore() = %v, %v", status, err)
	}
	return fixture
}

// model builds a sized Model over backend. Toast ticks are stubbed out
// so draining commands never sleeps.
func (fixture *testDesk) model(t *testing.T, backend Backend) Model {
	t.Helper()
	model := NewModel(Config{
		Backend: backend,
		Session: fixture.gate,
		Clock:   fixture.clock,
		Logger:  slog.New(slog.DiscardHandler),
	})
	model.tick = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return drain(t, updated.(Model), model.Init())
}

// drain runs cmd and every command that follows from it, feeding each
// message back into the model. Spinner frames are skipped.
func drain(t *testing.T, model Model, cmd tea.Cmd) Model {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for steps := 0; len(queue) > 0; steps++ {
		if steps > 500 {
			t.Fatal("commands did not settle")
		}
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch message := next().(type) {
		case nil, spinner.TickMsg, tea.QuitMsg:
		case tea.BatchMsg:
			queue = append(queue, message...)
		default:
			updated, followup := model.Update(message)
			model = updated.(Model)
			queue = append(queue, followup)
		}
	}
	return model
}

func send(t *testing.T, model Model, message tea.Msg) Model {
	t.Helper()
	updated, cmd := model.Update(message)
	return drain(t, updated.(Model), cmd)
}

func press(t *testing.T, model Model, act action) Model {
	t.Helper()
	updated, cmd := model.press(act)
	return drain(t, updated.(Model), cmd)
}

func choose(t *testing.T, model Model, dropdown desk.Dropdown, value string) Model {
	t.Helper()
	cmd := model.choose(dropdown, value)
	return drain(t, model, cmd)
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

func screen(model Model) string {
	return ansi.Strip(model.View())
}

func toastTexts(model Model) []string {
	var texts []string
	for _, toast := range model.Toasts() {
		texts = append(texts, toast.Text)
	}
	return texts
}

func hasToast(model Model, text string) bool {
	for _, toast := range model.Toasts() {
		if toast.Text == text {
			return true
		}
	}
	return false
}

// loginStub answers login with a fixed token and forwards everything
// else to the fake backend.
type loginStub struct {
	*realtyapi.Client
	token string
}

func (stub loginStub) Login(context.Context, realtyapi.Credentials) (string, error) {
	return stub.token, nil
}

// receiptStub answers add-payment with a fixed receipt.
type receiptStub struct {
	*realtyapi.Client
	receipt realtyapi.PaymentReceipt
}

func (stub receiptStub) AddPayment(context.Context, realtyapi.PaymentInput) (realtyapi.PaymentReceipt, error) {
	return stub.receipt, nil
}

func TestStartsOnAuthScreenWithoutSession(t *testing.T) {
	fixture := newTestDesk(t)
	model := fixture.model(t, fixture.client)

	if model.Screen() != ScreenAuth {
		t.Fatalf("screen = %v, want auth", model.Screen())
	}
	if calls := fixture.server.CallCount(); calls != 0 {
		t.Errorf("made %d calls before login", calls)
	}
	if !strings.Contains(screen(model), "Sign in to the desk") {
		t.Errorf("auth screen missing subtitle:\n%s", screen(model))
	}
}

func TestLoginStoresTokenAndShowsDashboard(t *testing.T) {
	fixture := newTestDesk(t)
	valid := fixture.server.AddUser("asha", "secret")
	client, err := realtyapi.NewClient(realtyapi.Config{
		BaseURL: fixture.server.BaseURL(),
		Tokens:  realtyapi.StaticToken(valid),
	})
	if err != nil {
		t.Fatal(err)
	}
	model := fixture.model(t, loginStub{Client: client, token: "x.y.z"})

	model.authForm.setValue(fieldUsername, "asha")
	model.authForm.setValue(fieldPassword, "secret")
	model.authForm.setFocus(1)
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	stored, err := fixture.store.Load()
	if err != nil || stored != "x.y.z" {
		t.Fatalf("stored token = %q, %v; want x.y.z", stored, err)
	}
	if model.Screen() != ScreenDesk || model.Page() != desk.PageDashboard {
		t.Fatalf("screen %v page %v, want desk dashboard", model.Screen(), model.Page())
	}
	if !hasToast(model, desk.MessageLoginSuccess) {
		t.Errorf("toasts = %q, want login success", toastTexts(model))
	}
	if name := fixture.gate.DisplayName(); name != "asha" {
		t.Errorf("display name = %q, want asha", name)
	}
	if fixture.server.Calls("GET /clients") != 1 || fixture.server.Calls("GET /stats") == 0 {
		t.Errorf("login did not load reference data and stats")
	}
	if !strings.Contains(screen(model), "Total Paid") {
		t.Errorf("dashboard missing stat cards:\n%s", screen(model))
	}
}

func TestLoginValidationMakesNoCall(t *testing.T) {
	fixture := newTestDesk(t)
	model := fixture.model(t, fixture.client)

	model = press(t, model, actionLogin)

	if !hasToast(model, desk.MessageCredentialsRequired) {
		t.Errorf("toasts = %q", toastTexts(model))
	}
	if calls := fixture.server.CallCount(); calls != 0 {
		t.Errorf("made %d calls", calls)
	}
}

func TestRegisterReturnsToLogin(t *testing.T) {
	fixture := newTestDesk(t)
	model := fixture.model(t, fixture.client)

	model = send(t, model, tea.KeyMsg{Type: tea.KeyCtrlR})
	if !model.registerMode {
		t.Fatal("ctrl+r did not switch to register")
	}
	model.authForm.setValue(fieldUsername, "ravi")
	model.authForm.setValue(fieldPassword, "pw")
	model = press(t, model, actionRegister)

	if model.registerMode {
		t.Error("still in register mode after success")
	}
	if model.Screen() != ScreenAuth {
		t.Error("register must not log in")
	}
	if fixture.server.Calls("POST /register") != 1 {
		t.Error("register call missing")
	}
}

func TestRestoredSessionLoadsDesk(t *testing.T) {
	fixture := newLoggedInDesk(t)
	fixture.server.SeedClient("Asha", "Rao")

	model := fixture.model(t, fixture.client)

	if model.Screen() != ScreenDesk {
		t.Fatalf("screen = %v, want desk", model.Screen())
	}
	if !model.cache.Loaded() || len(model.cache.Clients()) != 1 {
		t.Errorf("cache not loaded: %d clients", len(model.cache.Clients()))
	}
	if model.reports.stats == nil || model.reports.stats.Clients != 1 {
		t.Errorf("stats = %+v", model.reports.stats)
	}
	if !strings.Contains(screen(model), "meera") {
		t.Error("header missing display name")
	}
}

func TestRestoredSessionOpensStartPage(t *testing.T) {
	fixture := newLoggedInDesk(t)
	model := NewModel(Config{
		Backend:   fixture.client,
		Session:   fixture.gate,
		Clock:     fixture.clock,
		Logger:    slog.New(slog.DiscardHandler),
		StartPage: desk.PageHighValueClients,
	})
	model.tick = func(time.Duration, func(time.Time) tea.Msg) tea.Cmd { return nil }
	updated, _ := model.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	model = drain(t, updated.(Model), model.Init())

	if model.Page() != desk.PageHighValueClients {
		t.Fatalf("page = %v, want high-value clients", model.Page())
	}
	if fixture.server.Calls("GET /clients/high_value") == 0 {
		t.Error("start page report not fetched")
	}
	if fixture.server.Calls("GET /stats") != 0 {
		t.Error("dashboard stats fetched for a different start page")
	}
	if !strings.Contains(screen(model), desk.NoHighValue) {
		t.Errorf("placeholder missing:\n%s", screen(model))
	}
}

func TestExpiredSessionReturnsToLogin(t *testing.T) {
	fixture := newLoggedInDesk(t)
	model := fixture.model(t, fixture.client)

	fixture.server.ExpireTokens()
	model = send(t, model, runes("r"))

	if model.Screen() != ScreenAuth {
		t.Fatalf("screen = %v, want auth", model.Screen())
	}
	if _, err := fixture.store.Load(); err == nil {
		t.Error("token still stored after 401")
	}
	if !hasToast(model, realtyapi.ErrSessionExpired.Error()) {
		t.Errorf("toasts = %q, want session expired", toastTexts(model))
	}
	if hasToast(model, desk.MessageRefreshFailed) {
		t.Error("refresh failure toast shown for an expired session")
	}
	if model.cache.Loaded() {
		t.Error("cache survived logout")
	}
}

func TestLogoutKey(t *testing.T) {
	fixture := newLoggedInDesk(t)
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("L"))

	if model.Screen() != ScreenAuth || fixture.gate.Authenticated() {
		t.Fatal("still logged in")
	}
	if !hasToast(model, desk.MessageLoggedOut) {
		t.Errorf("toasts = %q", toastTexts(model))
	}
}

func TestRefreshFailureKeepsSession(t *testing.T) {
	fixture := newLoggedInDesk(t)
	model := fixture.model(t, fixture.client)

	fixture.server.Fail("GET /agents", 500, "")
	model = send(t, model, runes("r"))

	if model.Screen() != ScreenDesk {
		t.Fatal("server error logged the user out")
	}
	if !hasToast(model, desk.MessageRefreshFailed) {
		t.Errorf("toasts = %q", toastTexts(model))
	}
}

func TestPaymentShowsCommissionAndRefetchesHistory(t *testing.T) {
	fixture := newLoggedInDesk(t)
	clientID := fixture.server.SeedClient("Asha", "Rao")
	agentID := fixture.server.SeedAgent("Vik", "Das")
	contractID := fixture.server.SeedContract(clientID, agentID, 100000, 10)
	contractKey := strconv.Itoa(contractID)

	model := fixture.model(t, receiptStub{
		Client: fixture.client,
		receipt: realtyapi.PaymentReceipt{
			Message: "Payment added! Trigger updated commission.",
			CommissionReport: realtyapi.CommissionReport{
				CommissionID: 7,
				PreAmount:    100,
				PostAmount:   150,
			},
		},
	})

	model = send(t, model, runes("4"))
	model = choose(t, model, desk.DropdownPaymentContract, contractKey)
	if calls := fixture.server.Calls("GET /payments/" + contractKey); calls != 1 {
		t.Fatalf("payments fetched %d times on select, want 1", calls)
	}

	model.forms[desk.PageAddPayment].setValue(fieldAmount, "500")
	model = press(t, model, actionAddPayment)

	view := screen(model)
	if !strings.Contains(view, "+₹50.00") {
		t.Errorf("commission change missing:\n%s", view)
	}
	if calls := fixture.server.Calls("GET /payments/" + contractKey); calls != 2 {
		t.Errorf("payments fetched %d times, want 2", calls)
	}
	if got := model.forms[desk.PageAddPayment].value(fieldAmount); got != "" {
		t.Errorf("amount not cleared: %q", got)
	}
	if model.selects[desk.DropdownPaymentContract].Value() != contractKey {
		t.Error("contract selection lost after payment")
	}
	if !hasToast(model, "Payment added! Trigger updated commission.") {
		t.Errorf("toasts = %q", toastTexts(model))
	}
}

func TestChangingPaymentContractHidesCommission(t *testing.T) {
	fixture := newLoggedInDesk(t)
	clientID := fixture.server.SeedClient("Asha", "Rao")
	agentID := fixture.server.SeedAgent("Vik", "Das")
	first := strconv.Itoa(fixture.server.SeedContract(clientID, agentID, 1000, 10))
	second := strconv.Itoa(fixture.server.SeedContract(clientID, agentID, 2000, 10))
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("4"))
	model = choose(t, model, desk.DropdownPaymentContract, first)
	model.forms[desk.PageAddPayment].setValue(fieldAmount, "100")
	model = press(t, model, actionAddPayment)
	if model.reports.commission == nil {
		t.Fatal("no commission report after payment")
	}

	model = choose(t, model, desk.DropdownPaymentContract, second)
	if model.reports.commission != nil {
		t.Error("commission report kept after switching contract")
	}
	if strings.Contains(screen(model), "Commission report") {
		t.Error("commission report still drawn")
	}
}

func TestDeleteClientNeedsConfirmation(t *testing.T) {
	fixture := newLoggedInDesk(t)
	clientID := fixture.server.SeedClient("Asha", "Rao")
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("2"))
	model = choose(t, model, desk.DropdownDeleteClient, strconv.Itoa(clientID))

	model = press(t, model, actionDeleteClient)
	if model.confirmModal == nil {
		t.Fatal("no confirmation shown")
	}
	if view := screen(model); !strings.Contains(view, "Delete Client?") || !strings.Contains(view, "Asha") {
		t.Errorf("confirmation text missing:\n%s", view)
	}
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if calls := fixture.server.Calls("DELETE /client/" + strconv.Itoa(clientID)); calls != 0 {
		t.Fatalf("cancel made %d delete calls", calls)
	}

	model = press(t, model, actionDeleteClient)
	model = send(t, model, runes("y"))
	if calls := fixture.server.Calls("DELETE /client/" + strconv.Itoa(clientID)); calls != 1 {
		t.Fatalf("confirm made %d delete calls, want 1", calls)
	}
	if fixture.server.ClientCount() != 0 {
		t.Error("client not deleted")
	}
	if model.selects[desk.DropdownDeleteClient].Value() != "" {
		t.Error("delete selection kept")
	}
	if len(model.cache.Clients()) != 0 {
		t.Error("cache not refreshed after delete")
	}

	// A stray confirm with nothing pending does nothing.
	updated, cmd := model.confirmDelete()
	if cmd != nil {
		t.Error("confirm without a pending delete issued a command")
	}
	model = updated.(Model)
	if calls := fixture.server.Calls("DELETE /client/" + strconv.Itoa(clientID)); calls != 1 {
		t.Errorf("delete calls = %d after stray confirm", calls)
	}
}

func TestDeleteWithoutSelectionWarns(t *testing.T) {
	fixture := newLoggedInDesk(t)
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("3"))
	model = press(t, model, actionDeleteContract)

	if model.confirmModal != nil {
		t.Error("confirmation shown with nothing selected")
	}
	if !hasToast(model, desk.MessageSelectContract) {
		t.Errorf("toasts = %q", toastTexts(model))
	}
}

func TestHighValueEmptyShowsPlaceholder(t *testing.T) {
	fixture := newLoggedInDesk(t)
	fixture.server.SeedClient("Asha", "Rao")
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("7"))

	if model.Page() != desk.PageHighValueClients {
		t.Fatalf("page = %v", model.Page())
	}
	if !strings.Contains(screen(model), desk.NoHighValue) {
		t.Errorf("placeholder missing:\n%s", screen(model))
	}
}

func TestEarningsPlaceholderUntilAgentChosen(t *testing.T) {
	fixture := newLoggedInDesk(t)
	agentID := fixture.server.SeedAgent("Vik", "Das")
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("5"))
	if !strings.Contains(screen(model), desk.NoAgentChosen) {
		t.Errorf("agent placeholder missing:\n%s", screen(model))
	}

	model = choose(t, model, desk.DropdownEarningsAgent, strconv.Itoa(agentID))
	if calls := fixture.server.Calls("GET /agent_earnings/" + strconv.Itoa(agentID)); calls != 1 {
		t.Errorf("earnings fetched %d times", calls)
	}

	before := fixture.server.CallCount()
	model = choose(t, model, desk.DropdownEarningsAgent, "")
	if fixture.server.CallCount() != before {
		t.Error("clearing the agent made a call")
	}
	if !strings.Contains(screen(model), desk.NoAgentChosen) {
		t.Error("placeholder not restored after clearing")
	}
}

func TestContractDateConflictBlocksSubmit(t *testing.T) {
	fixture := newLoggedInDesk(t)
	clientID := fixture.server.SeedClient("Asha", "Rao")
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("3"))
	model = choose(t, model, desk.DropdownContractClient, strconv.Itoa(clientID))
	contractForm := model.forms[desk.PageAddContract]
	contractForm.setValue(fieldStartDate, "2024-05-01")
	contractForm.setValue(fieldEndDate, "2024-05-01")
	contractForm.setValue(fieldAmount, "250000")

	if !strings.Contains(screen(model), desk.MessageContractOrder) {
		t.Errorf("date warning missing:\n%s", screen(model))
	}
	model = press(t, model, actionAddContract)
	if calls := fixture.server.Calls("POST /add_contract"); calls != 0 {
		t.Fatalf("conflicting dates submitted %d times", calls)
	}

	contractForm.setValue(fieldEndDate, "")
	model = press(t, model, actionAddContract)
	if !hasToast(model, desk.MessageContractDates) {
		t.Errorf("toasts = %q, want missing dates", toastTexts(model))
	}

	contractForm.setValue(fieldEndDate, "2025-05-01")
	if strings.Contains(screen(model), desk.MessageContractOrder) {
		t.Error("warning still shown for ordered dates")
	}
	model = press(t, model, actionAddContract)
	if calls := fixture.server.Calls("POST /add_contract"); calls != 1 {
		t.Fatalf("valid contract submitted %d times", calls)
	}
	if fixture.server.ContractCount() != 1 {
		t.Error("contract not stored")
	}
	if contractForm.value(fieldStartDate) != "" || model.selects[desk.DropdownContractClient].Value() != "" {
		t.Error("contract form not reset after success")
	}
}

func TestSubmitIgnoredWhileInFlight(t *testing.T) {
	fixture := newLoggedInDesk(t)
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("2"))
	clientForm := model.forms[desk.PageAddClient]
	for name, value := range map[string]string{
		fieldFname: "Asha", fieldLname: "Rao", fieldHireDate: "2024-01-10",
		fieldAddress: "12 MG Road", fieldCity: "Pune", fieldState: "MH", fieldZipCode: "411001",
	} {
		clientForm.setValue(name, value)
	}

	updated, first := model.press(actionAddClient)
	model = updated.(Model)
	updated, second := model.press(actionAddClient)
	model = updated.(Model)
	if second != nil {
		t.Fatal("second submit issued a command while the first was in flight")
	}
	model = drain(t, model, first)

	if calls := fixture.server.Calls("POST /add_client"); calls != 1 {
		t.Fatalf("add_client calls = %d, want 1", calls)
	}
	if !hasToast(model, "Client added successfully!") {
		t.Errorf("toasts = %q", toastTexts(model))
	}
	if clientForm.value(fieldFname) != "" {
		t.Error("client form not reset")
	}
	if model.inFlight[actionAddClient] {
		t.Error("add client still marked in flight")
	}
}

func TestStaleResultsAreDropped(t *testing.T) {
	fixture := newLoggedInDesk(t)
	agentID := fixture.server.SeedAgent("Vik", "Das")
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("5"))
	model = choose(t, model, desk.DropdownEarningsAgent, strconv.Itoa(agentID))

	// A result for a different agent than the one selected.
	model = send(t, model, earningsResultMsg{
		epoch: model.epoch,
		key:   "999",
		rows:  []realtyapi.Earning{{ContractID: 1}},
	})
	if len(model.reports.earnings) != 0 {
		t.Error("earnings for another agent were rendered")
	}

	staleEpoch := model.epoch
	model = send(t, model, runes("L"))
	model = send(t, model, statsResultMsg{epoch: staleEpoch, stats: realtyapi.Stats{Clients: 42}})
	if model.reports.stats != nil {
		t.Error("stats from before logout were applied")
	}
	model = send(t, model, refreshResultMsg{epoch: staleEpoch, err: realtyapi.ErrSessionExpired})
	if hasToast(model, realtyapi.ErrSessionExpired.Error()) {
		t.Error("stale failure produced a toast")
	}
}

func TestSupersededReportStillExpiresSession(t *testing.T) {
	fixture := newLoggedInDesk(t)
	agentID := fixture.server.SeedAgent("Vik", "Das")
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("5"))
	model = choose(t, model, desk.DropdownEarningsAgent, strconv.Itoa(agentID))

	// The rejection already revoked the stored token; its report was for
	// an agent that is no longer selected.
	if _, err := fixture.gate.Revoke(fixture.gate.Token()); err != nil {
		t.Fatal(err)
	}
	model = send(t, model, earningsResultMsg{epoch: model.epoch, key: "999", err: realtyapi.ErrSessionExpired})

	if model.Screen() != ScreenAuth {
		t.Fatalf("screen = %v, want auth after a rejected session", model.Screen())
	}
	if !hasToast(model, realtyapi.ErrSessionExpired.Error()) {
		t.Errorf("toasts = %q, want session expired", toastTexts(model))
	}
	if len(model.reports.earnings) != 0 {
		t.Error("superseded earnings were rendered")
	}
}

func TestToastsExpireOnClock(t *testing.T) {
	fixture := newTestDesk(t)
	model := fixture.model(t, fixture.client)

	model.pushToast(ToastSuccess, "saved")
	fixture.clock.Advance(2 * time.Second)
	model = send(t, model, toastExpireMsg{id: 1})
	if len(model.Toasts()) != 1 {
		t.Fatalf("toast expired early: %q", toastTexts(model))
	}

	fixture.clock.Advance(time.Second)
	model = send(t, model, toastExpireMsg{id: 1})
	if len(model.Toasts()) != 0 {
		t.Errorf("toast not expired: %q", toastTexts(model))
	}
}

func TestToastStackIsBounded(t *testing.T) {
	fixture := newTestDesk(t)
	model := fixture.model(t, fixture.client)

	for index := range toastStackLimit + 2 {
		model.pushToast(ToastError, "failure "+strconv.Itoa(index))
	}
	toasts := model.Toasts()
	if len(toasts) != toastStackLimit {
		t.Fatalf("%d toasts, want %d", len(toasts), toastStackLimit)
	}
	if toasts[0].Text != "failure 2" {
		t.Errorf("oldest kept toast = %q", toasts[0].Text)
	}
}

func TestNavigationKeys(t *testing.T) {
	fixture := newLoggedInDesk(t)
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("j"))
	model = send(t, model, runes("j"))
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.Page() != desk.PageAddContract {
		t.Fatalf("page = %v, want add-contract", model.Page())
	}
	if model.focus != FocusForm {
		t.Error("enter did not focus the form")
	}

	model = send(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	if model.focus != FocusNavigation {
		t.Error("esc did not return to navigation")
	}

	model = send(t, model, runes("?"))
	if !model.showHelp {
		t.Fatal("help not shown")
	}
	model = send(t, model, runes("1"))
	if model.Page() != desk.PageAddContract {
		t.Error("keys leaked through the help overlay")
	}
	model = send(t, model, runes("?"))
	if model.showHelp {
		t.Error("help not dismissed")
	}
}

func TestDropdownFilterAndPick(t *testing.T) {
	fixture := newLoggedInDesk(t)
	fixture.server.SeedAgent("Vik", "Das")
	meenaID := fixture.server.SeedAgent("Meena", "Iyer")
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("5"))
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if model.focus != FocusForm {
		t.Fatal("form not focused")
	}

	model = send(t, model, runes("meena"))
	if model.dropdown == nil {
		t.Fatal("typing on a select did not open it")
	}
	if len(model.dropdown.Options) != 1 {
		t.Fatalf("filtered options = %+v", model.dropdown.Options)
	}
	model = send(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	if model.dropdown != nil {
		t.Error("dropdown still open after pick")
	}
	if got := model.selects[desk.DropdownEarningsAgent].Value(); got != strconv.Itoa(meenaID) {
		t.Errorf("selected %q, want %d", got, meenaID)
	}
	if fixture.server.Calls("GET /agent_earnings/"+strconv.Itoa(meenaID)) != 1 {
		t.Error("earnings not fetched for the picked agent")
	}
}

func TestRefreshDropsVanishedSelection(t *testing.T) {
	fixture := newLoggedInDesk(t)
	clientID := fixture.server.SeedClient("Asha", "Rao")
	agentID := fixture.server.SeedAgent("Vik", "Das")
	contractKey := strconv.Itoa(fixture.server.SeedContract(clientID, agentID, 5000, 10))
	model := fixture.model(t, fixture.client)

	model = send(t, model, runes("6"))
	model = choose(t, model, desk.DropdownTotalContract, contractKey)
	if model.reports.totalKey != contractKey {
		t.Fatalf("total not loaded for %s", contractKey)
	}

	if _, err := fixture.client.DeleteClient(context.Background(), clientID); err != nil {
		t.Fatal(err)
	}
	model = send(t, model, runes("r"))

	if model.selects[desk.DropdownTotalContract].Value() != "" {
		t.Error("selection of a deleted contract survived refresh")
	}
	if !strings.Contains(screen(model), desk.NoContractChosen) {
		t.Errorf("total placeholder missing:\n%s", screen(model))
	}
}

func TestViewBeforeSize(t *testing.T) {
	fixture := newTestDesk(t)
	model := NewModel(Config{Backend: fixture.client, Session: fixture.gate})
	if model.View() != desk.Loading {
		t.Errorf("View() = %q before the first size message", model.View())
	}
}
