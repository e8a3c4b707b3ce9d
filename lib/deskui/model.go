// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/realty/lib/clock"
	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/realtyapi"
	"github.com/bureau-foundation/realty/lib/session"
	"github.com/bureau-foundation/realty/lib/tui"
)

// Screen is which of the two top-level screens is showing.
type Screen int

const (
	ScreenAuth Screen = iota
	ScreenDesk
)

// FocusRegion identifies which part of the desk receives keyboard
// input.
type FocusRegion int

const (
	FocusNavigation FocusRegion = iota
	FocusForm
)

// reportKind names a report the desk can be loading.
type reportKind int

const (
	reportStats reportKind = iota
	reportHighValue
	reportEarnings
	reportTotal
	reportPayments
)

// defaultToastDuration is how long a toast stays up when the config
// does not say.
const defaultToastDuration = 3 * time.Second

// Config holds what a Model needs from its caller.
type Config struct {
	// Backend serves every call. Required.
	Backend Backend

	// Session is the auth gate. Call Restore on it before NewModel to
	// start on the dashboard with a stored token. Required.
	Session *session.Gate

	// Clock decides toast expiry. Defaults to clock.Real().
	Clock clock.Clock

	// Theme defaults to tui.DefaultTheme.
	Theme tui.Theme

	// ToastDuration defaults to 3 seconds.
	ToastDuration time.Duration

	// StartPage is shown first when the session was restored. A fresh
	// login always lands on the dashboard.
	StartPage desk.Page

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// reports holds the last rendered result of each report. Keyed reports
// remember the selection value they belong to.
type reports struct {
	stats     *realtyapi.Stats
	highValue []realtyapi.HighValueClient

	earnings    []realtyapi.Earning
	earningsKey string

	total    realtyapi.Money
	totalKey string

	payments    []realtyapi.Payment
	paymentsKey string

	commission    *realtyapi.CommissionReport
	commissionKey string
}

// Model is the top-level bubbletea model for the desk.
type Model struct {
	backend Backend
	session *session.Gate
	clock   clock.Clock
	logger  *slog.Logger
	theme   tui.Theme
	keys    KeyMap
	help    help.Model
	spinner spinner.Model

	// tick schedules a delayed message. tea.Tick outside tests.
	tick func(time.Duration, func(time.Time) tea.Msg) tea.Cmd

	// Terminal dimensions (set by WindowSizeMsg).
	width  int
	height int
	ready  bool

	// epoch advances on every logout. Results stamped with an older
	// epoch are dropped.
	epoch int

	screen Screen

	// Auth screen.
	registerMode bool
	authForm     *form

	// Desk state.
	cache     *desk.Cache
	router    *desk.Router
	confirm   *desk.Gate
	selects   map[desk.Dropdown]*desk.Select
	forms     map[desk.Page]*form
	focus     FocusRegion
	navCursor int
	scroll    int // First visible content line.
	reports   reports

	// Overlays. At most one of dropdown, confirmModal and showHelp is
	// active at a time.
	dropdown      *tui.DropdownOverlay
	dropdownOwner desk.Dropdown
	confirmModal  *tui.ConfirmModal
	showHelp      bool

	// In-flight bookkeeping. A form action present in inFlight ignores
	// further submits until its result arrives.
	inFlight   map[action]bool
	loading    map[reportKind]bool
	refreshing int
	spinning   bool

	toasts        []Toast
	nextToastID   int
	toastDuration time.Duration
}

// NewModel creates a Model. When the session gate is already
// Authenticated the desk opens on the dashboard and Init starts the
// initial load; otherwise the auth screen shows.
func NewModel(config Config) Model {
	clk := config.Clock
	if clk == nil {
		clk = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	theme := config.Theme
	if theme == (tui.Theme{}) {
		theme = tui.DefaultTheme
	}
	toastDuration := config.ToastDuration
	if toastDuration <= 0 {
		toastDuration = defaultToastDuration
	}

	model := Model{
		backend:       config.Backend,
		session:       config.Session,
		clock:         clk,
		logger:        logger,
		theme:         theme,
		keys:          DefaultKeyMap,
		help:          help.New(),
		spinner:       spinner.New(spinner.WithSpinner(spinner.Dot)),
		tick:          tea.Tick,
		cache:         &desk.Cache{},
		confirm:       &desk.Gate{},
		toastDuration: toastDuration,
	}
	model.resetDesk()
	model.setAuthForm(false)

	if config.Session.Authenticated() {
		model.screen = ScreenDesk
		model.refreshing++
		model.navCursor = int(config.StartPage)
		switch model.router.Show(config.StartPage).Fetch {
		case desk.ReportStats:
			model.loading[reportStats] = true
		case desk.ReportHighValue:
			model.loading[reportHighValue] = true
		}
	}
	return model
}

// Init implements tea.Model. With a restored session it starts the
// reference-data refresh and the start page's report fetch.
func (model Model) Init() tea.Cmd {
	if model.screen != ScreenDesk {
		return nil
	}
	cmds := []tea.Cmd{refreshCmd(model.backend, model.epoch), model.spinner.Tick}
	switch {
	case model.loading[reportStats]:
		cmds = append(cmds, statsCmd(model.backend, model.epoch))
	case model.loading[reportHighValue]:
		cmds = append(cmds, highValueCmd(model.backend, model.epoch))
	}
	return tea.Batch(cmds...)
}

// resetDesk puts every piece of desk state back to its zero: empty
// cache, dashboard page, empty selections and forms, no reports and
// nothing in flight.
func (model *Model) resetDesk() {
	model.cache.Reset()
	model.router = &desk.Router{}
	model.confirm.Cancel()
	model.selects = make(map[desk.Dropdown]*desk.Select, len(desk.Dropdowns()))
	for _, dropdown := range desk.Dropdowns() {
		selection := desk.NewSelect(dropdown.Placeholder())
		model.selects[dropdown] = &selection
	}
	model.forms = newPageForms()
	for _, pageForm := range model.forms {
		staticCursors(pageForm)
	}
	model.focus = FocusNavigation
	model.navCursor = 0
	model.scroll = 0
	model.reports = reports{}
	model.dropdown = nil
	model.confirmModal = nil
	model.showHelp = false
	model.inFlight = make(map[action]bool)
	model.loading = make(map[reportKind]bool)
	model.refreshing = 0
}

// setAuthForm replaces the auth form with an empty login or register
// form, focused on the username.
func (model *Model) setAuthForm(register bool) tea.Cmd {
	model.registerMode = register
	model.authForm = newAuthForm(register)
	staticCursors(model.authForm)
	return model.authForm.setFocus(0)
}

// staticCursors turns off cursor blinking.
func staticCursors(f *form) {
	for _, candidate := range f.fields {
		if candidate.kind == fieldText {
			candidate.input.Cursor.SetMode(cursor.CursorStatic)
		}
	}
}

// Screen returns the screen currently showing.
func (model Model) Screen() Screen { return model.screen }

// Page returns the visible desk page.
func (model Model) Page() desk.Page { return model.router.Current() }

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case tea.WindowSizeMsg:
		model.width = message.Width
		model.height = message.Height
		model.ready = true
		model.help.Width = message.Width
		model.clampScroll()
		return model, nil

	case tea.KeyMsg:
		return model.handleKey(message)

	case tea.MouseMsg:
		return model.handleMouse(message)

	case spinner.TickMsg:
		if !model.busy() {
			model.spinning = false
			return model, nil
		}
		var cmd tea.Cmd
		model.spinner, cmd = model.spinner.Update(message)
		return model, cmd

	case toastExpireMsg:
		model.expireToasts()
		return model, nil

	case logRecordMsg:
		kind := ToastWarning
		if message.Level >= slog.LevelError {
			kind = ToastError
		}
		return model, model.pushToast(kind, message.Summary)

	case registerResultMsg:
		return model.handleRegisterResult(message)
	case loginResultMsg:
		return model.handleLoginResult(message)
	case refreshResultMsg:
		return model.handleRefreshResult(message)
	case statsResultMsg:
		return model.handleStatsResult(message)
	case highValueResultMsg:
		return model.handleHighValueResult(message)
	case earningsResultMsg:
		return model.handleEarningsResult(message)
	case totalResultMsg:
		return model.handleTotalResult(message)
	case paymentsResultMsg:
		return model.handlePaymentsResult(message)
	case mutationResultMsg:
		return model.handleMutationResult(message)
	case paymentResultMsg:
		return model.handlePaymentResult(message)
	}
	return model, nil
}

// busy reports whether any call is outstanding.
func (model *Model) busy() bool {
	if model.refreshing > 0 {
		return true
	}
	for _, active := range model.inFlight {
		if active {
			return true
		}
	}
	for _, active := range model.loading {
		if active {
			return true
		}
	}
	return false
}

// startSpinner begins the spinner animation if it is not running.
func (model *Model) startSpinner() tea.Cmd {
	if model.spinning {
		return nil
	}
	model.spinning = true
	return model.spinner.Tick
}

// --- Keyboard ---

func (model Model) handleKey(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(message, model.keys.ForceQuit) {
		return model, tea.Quit
	}

	if model.showHelp {
		if key.Matches(message, model.keys.DismissHelp) {
			model.showHelp = false
		}
		return model, nil
	}

	if model.confirmModal != nil {
		switch model.confirmModal.Update(message) {
		case tui.ConfirmAccepted:
			return model.confirmDelete()
		case tui.ConfirmRejected:
			model.cancelDelete()
		}
		return model, nil
	}

	if model.dropdown != nil {
		return model.handleDropdownKeys(message)
	}

	if model.screen == ScreenAuth {
		return model.handleAuthKeys(message)
	}

	if model.focus == FocusForm {
		return model.handleFormKeys(message)
	}
	return model.handleNavigationKeys(message)
}

func (model Model) handleAuthKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	authForm := model.authForm
	switch {
	case key.Matches(message, model.keys.AuthToggle):
		return model, model.setAuthForm(!model.registerMode)

	case key.Matches(message, model.keys.NextField):
		return model, authForm.next()

	case key.Matches(message, model.keys.PreviousField):
		return model, authForm.previous()

	case message.Type == tea.KeyEnter:
		focused := authForm.focused()
		if focused.kind == fieldButton {
			return model.press(focused.action)
		}
		if focused.name == fieldPassword {
			return model.press(authForm.ownerOf(authForm.focus))
		}
		return model, authForm.next()
	}

	return model, model.updateFocusedInput(authForm, message)
}

func (model Model) handleNavigationKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	pages := desk.Pages()
	switch {
	case key.Matches(message, model.keys.Quit):
		return model, tea.Quit

	case key.Matches(message, model.keys.Up):
		model.navCursor = (model.navCursor - 1 + len(pages)) % len(pages)

	case key.Matches(message, model.keys.Down):
		model.navCursor = (model.navCursor + 1) % len(pages)

	case key.Matches(message, model.keys.Jump):
		index := int(message.Runes[0] - '1')
		if index >= 0 && index < len(pages) {
			model.navCursor = index
			return model, model.show(pages[index])
		}

	case key.Matches(message, model.keys.Enter):
		page := pages[model.navCursor]
		cmd := model.show(page)
		if pageForm := model.forms[page]; len(pageForm.fields) > 0 {
			model.focus = FocusForm
			return model, tea.Batch(cmd, pageForm.setFocus(0))
		}
		return model, cmd

	case key.Matches(message, model.keys.Refresh):
		return model, model.startRefresh()

	case key.Matches(message, model.keys.Logout):
		return model, model.logout(desk.MessageLoggedOut, ToastSuccess)

	case key.Matches(message, model.keys.Help):
		model.showHelp = true

	case message.String() == "pgup":
		model.scrollBy(-model.contentHeight())

	case message.String() == "pgdown":
		model.scrollBy(model.contentHeight())
	}
	return model, nil
}

func (model Model) handleFormKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	pageForm := model.forms[model.router.Current()]
	focused := pageForm.focused()
	if focused == nil {
		model.focus = FocusNavigation
		return model, nil
	}

	switch {
	case key.Matches(message, model.keys.Back):
		pageForm.blur()
		model.focus = FocusNavigation
		return model, nil

	case key.Matches(message, model.keys.NextField):
		return model, pageForm.next()

	case key.Matches(message, model.keys.PreviousField):
		return model, pageForm.previous()

	case key.Matches(message, model.keys.Submit):
		return model.press(pageForm.ownerOf(pageForm.focus))

	case message.Type == tea.KeyEnter:
		switch focused.kind {
		case fieldButton:
			return model.press(focused.action)
		case fieldSelect:
			model.openDropdown(pageForm.focus)
			return model, nil
		}
		return model, pageForm.next()

	case focused.kind == fieldSelect && key.Matches(message, model.keys.ClearSelect):
		return model, model.choose(focused.dropdown, "")

	case focused.kind == fieldSelect && message.Type == tea.KeyRunes:
		// Typing on a closed dropdown opens it with the typed filter.
		model.openDropdown(pageForm.focus)
		model.dropdown.Query = string(message.Runes)
		model.filterDropdown()
		return model, nil
	}

	return model, model.updateFocusedInput(pageForm, message)
}

// updateFocusedInput forwards a key to the focused text input.
func (model *Model) updateFocusedInput(f *form, message tea.KeyMsg) tea.Cmd {
	focused := f.focused()
	if focused == nil || focused.kind != fieldText {
		return nil
	}
	var cmd tea.Cmd
	focused.input, cmd = focused.input.Update(message)
	return cmd
}

// --- Dropdown overlay ---

// openDropdown opens the overlay for the select field at index of the
// current page's form.
func (model *Model) openDropdown(index int) {
	pageForm := model.forms[model.router.Current()]
	owner := pageForm.fields[index].dropdown
	anchorX, anchorY := model.fieldScreenPosition(index)
	model.dropdownOwner = owner
	model.dropdown = &tui.DropdownOverlay{
		AnchorX: anchorX,
		AnchorY: anchorY + 1,
	}
	model.filterDropdown()

	// Start on the current choice when there is one.
	current := model.selects[owner].Value()
	for position, option := range model.dropdown.Options {
		if option.Value == current {
			model.dropdown.Cursor = position
		}
	}
	model.dropdown.SetOptions(model.dropdown.Options)
}

// filterDropdown recomputes the overlay's options from its query. With
// no query, a first entry showing the placeholder clears the choice.
func (model *Model) filterDropdown() {
	selection := model.selects[model.dropdownOwner]
	var options []tui.DropdownOption
	if model.dropdown.Query == "" {
		options = append(options, tui.DropdownOption{Label: selection.Placeholder(), Value: ""})
	}
	for _, match := range selection.Filter(model.dropdown.Query) {
		options = append(options, tui.DropdownOption{
			Label:   match.Option.Label,
			Value:   match.Option.Value,
			Matches: match.Positions,
		})
	}
	model.dropdown.Cursor = 0
	model.dropdown.SetOptions(options)
}

func (model Model) handleDropdownKeys(message tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(message, model.keys.Back):
		model.dropdown = nil

	case message.Type == tea.KeyUp || message.String() == "shift+tab":
		model.dropdown.MoveUp()

	case message.Type == tea.KeyDown || message.Type == tea.KeyTab:
		model.dropdown.MoveDown()

	case message.Type == tea.KeyEnter:
		selected, ok := model.dropdown.Selected()
		model.dropdown = nil
		if !ok {
			return model, nil
		}
		return model, model.choose(model.dropdownOwner, selected.Value)

	case message.Type == tea.KeyBackspace:
		query := []rune(model.dropdown.Query)
		if len(query) > 0 {
			model.dropdown.Query = string(query[:len(query)-1])
			model.filterDropdown()
		}

	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		model.dropdown.Query += string(message.Runes)
		if message.Type == tea.KeySpace && len(message.Runes) == 0 {
			model.dropdown.Query += " "
		}
		model.filterDropdown()
	}
	return model, nil
}

// choose sets a dropdown's value ("" clears it) and runs the report
// fetch or reset that the dropdown drives.
func (model *Model) choose(dropdown desk.Dropdown, value string) tea.Cmd {
	selection := model.selects[dropdown]
	if value == "" {
		selection.Clear()
	} else if !selection.Set(value) {
		return nil
	}
	return model.selectionChanged(dropdown)
}

// selectionChanged fetches or clears the report bound to dropdown.
// Clearing never touches the network.
func (model *Model) selectionChanged(dropdown desk.Dropdown) tea.Cmd {
	selection := model.selects[dropdown]
	value := selection.Value()
	id, hasID := selection.ID()

	switch dropdown {
	case desk.DropdownEarningsAgent:
		model.reports.earnings = nil
		model.reports.earningsKey = value
		if !hasID {
			model.loading[reportEarnings] = false
			return nil
		}
		model.loading[reportEarnings] = true
		return tea.Batch(earningsCmd(model.backend, model.epoch, value, id), model.startSpinner())

	case desk.DropdownTotalContract:
		model.reports.total = 0
		model.reports.totalKey = value
		if !hasID {
			model.loading[reportTotal] = false
			return nil
		}
		model.loading[reportTotal] = true
		return tea.Batch(totalCmd(model.backend, model.epoch, value, id), model.startSpinner())

	case desk.DropdownPaymentContract:
		model.reports.commission = nil
		model.reports.commissionKey = ""
		model.reports.payments = nil
		model.reports.paymentsKey = value
		if !hasID {
			model.loading[reportPayments] = false
			return nil
		}
		return model.fetchPayments(value, id)
	}
	return nil
}

func (model *Model) fetchPayments(contractKey string, contractID int) tea.Cmd {
	model.loading[reportPayments] = true
	return tea.Batch(paymentsCmd(model.backend, model.epoch, contractKey, contractID), model.startSpinner())
}

// --- Navigation and refresh ---

// show makes page visible and runs its entry effect.
func (model *Model) show(page desk.Page) tea.Cmd {
	if model.router.Current() != page {
		model.scroll = 0
		model.forms[model.router.Current()].blur()
	}
	model.navCursor = int(page)
	return model.applyEffect(model.router.Show(page))
}

// applyEffect repopulates the effect's dropdowns from the cache and
// issues its report fetch. A dropdown whose choice disappeared also
// drops the report it drove.
func (model *Model) applyEffect(effect desk.Effect) tea.Cmd {
	var cmds []tea.Cmd
	for _, dropdown := range effect.Dropdowns {
		if kept := model.selects[dropdown].Populate(dropdown.Options(model.cache)); !kept {
			cmds = append(cmds, model.selectionChanged(dropdown))
		}
	}
	switch effect.Fetch {
	case desk.ReportStats:
		model.loading[reportStats] = true
		cmds = append(cmds, statsCmd(model.backend, model.epoch), model.startSpinner())
	case desk.ReportHighValue:
		model.loading[reportHighValue] = true
		cmds = append(cmds, highValueCmd(model.backend, model.epoch), model.startSpinner())
	}
	return tea.Batch(cmds...)
}

// startRefresh fetches the three reference collections.
func (model *Model) startRefresh() tea.Cmd {
	model.refreshing++
	return tea.Batch(refreshCmd(model.backend, model.epoch), model.startSpinner())
}

// --- Session ---

// logout purges the session and returns to the auth screen with every
// piece of desk state reset. Results of calls issued before this point
// are dropped when they arrive.
func (model *Model) logout(notice string, kind ToastKind) tea.Cmd {
	if err := model.session.Logout(); err != nil {
		model.logger.Warn("clearing stored session failed", "error", err)
	}
	model.epoch++
	model.resetDesk()
	model.screen = ScreenAuth
	focusCmd := model.setAuthForm(false)
	return tea.Batch(focusCmd, model.pushToast(kind, notice))
}

// expired handles the session-expiry outcome of a call. It reports
// whether err was a session expiry, in which case the desk has already
// logged out and cmd carries the toast.
func (model *Model) expired(err error) (bool, tea.Cmd) {
	if !errors.Is(err, realtyapi.ErrSessionExpired) {
		return false, nil
	}
	model.logger.Info("session expired, returning to login")
	return true, model.logout(realtyapi.ErrSessionExpired.Error(), ToastError)
}

// superseded handles the outcome of a report call whose selection has
// since changed. Its rows are dropped, but a rejected session is not: the
// call carried this epoch's token, so the desk returns to login.
func (model *Model) superseded(err error) tea.Cmd {
	_, cmd := model.expired(err)
	return cmd
}

// failure turns a failed call into its toast, logging out first when
// the backend rejected the session.
func (model *Model) failure(err error, fallback string) tea.Cmd {
	if expired, cmd := model.expired(err); expired {
		return cmd
	}
	return model.pushToast(ToastError, realtyapi.UserMessage(err, fallback))
}

// --- Actions ---

// press runs a button's action.
func (model Model) press(act action) (tea.Model, tea.Cmd) {
	if act == actionNone {
		return model, nil
	}
	if act == actionToggleAuth {
		return model, model.setAuthForm(!model.registerMode)
	}
	if model.inFlight[act] {
		return model, nil
	}

	switch act {
	case actionLogin, actionRegister:
		return model.submitCredentials(act)
	case actionAddClient:
		return model.submitClient()
	case actionAddContract:
		return model.submitContract()
	case actionAddPayment:
		return model.submitPayment()
	case actionDeleteClient:
		return model.requestDeleteClient()
	case actionDeleteContract:
		return model.requestDeleteContract()
	}
	return model, nil
}

func (model Model) submitCredentials(act action) (tea.Model, tea.Cmd) {
	credentials, err := desk.ValidateCredentials(model.authForm.value(fieldUsername), model.authForm.value(fieldPassword))
	if err != nil {
		return model, model.pushToast(ToastError, err.Error())
	}
	model.inFlight[act] = true
	if act == actionRegister {
		return model, tea.Batch(registerCmd(model.backend, model.epoch, credentials), model.startSpinner())
	}
	return model, tea.Batch(loginCmd(model.backend, model.epoch, credentials), model.startSpinner())
}

func (model Model) submitClient() (tea.Model, tea.Cmd) {
	pageForm := model.forms[desk.PageAddClient]
	input, err := desk.ValidateClient(desk.ClientForm{
		Fname:    pageForm.value(fieldFname),
		Lname:    pageForm.value(fieldLname),
		HireDate: pageForm.value(fieldHireDate),
		Address:  pageForm.value(fieldAddress),
		City:     pageForm.value(fieldCity),
		State:    pageForm.value(fieldState),
		ZipCode:  pageForm.value(fieldZipCode),
	})
	if err != nil {
		return model, model.pushToast(ToastError, err.Error())
	}
	model.inFlight[actionAddClient] = true
	return model, tea.Batch(addClientCmd(model.backend, model.epoch, input), model.startSpinner())
}

// contractSubmittable reports whether the add-contract button is
// enabled: both dates present and in order.
func (model *Model) contractSubmittable() bool {
	pageForm := model.forms[desk.PageAddContract]
	return desk.ContractDatesValid(pageForm.value(fieldStartDate), pageForm.value(fieldEndDate))
}

func (model Model) submitContract() (tea.Model, tea.Cmd) {
	pageForm := model.forms[desk.PageAddContract]
	start, end := pageForm.value(fieldStartDate), pageForm.value(fieldEndDate)
	if !model.contractSubmittable() {
		// The button is disabled. With both dates typed the warning
		// line already explains why; otherwise say what is missing.
		if desk.ContractDatesConflict(start, end) {
			return model, nil
		}
		return model, model.pushToast(ToastError, desk.MessageContractDates)
	}
	input, err := desk.ValidateContract(desk.ContractForm{
		ClientID:  model.selects[desk.DropdownContractClient].Value(),
		StartDate: start,
		EndDate:   end,
		Amount:    pageForm.value(fieldAmount),
	})
	if err != nil {
		return model, model.pushToast(ToastError, err.Error())
	}
	model.inFlight[actionAddContract] = true
	return model, tea.Batch(addContractCmd(model.backend, model.epoch, input), model.startSpinner())
}

func (model Model) submitPayment() (tea.Model, tea.Cmd) {
	contractKey := model.selects[desk.DropdownPaymentContract].Value()
	input, err := desk.ValidatePayment(desk.PaymentForm{
		ContractID: contractKey,
		Amount:     model.forms[desk.PageAddPayment].value(fieldAmount),
	})
	if err != nil {
		return model, model.pushToast(ToastError, err.Error())
	}
	model.inFlight[actionAddPayment] = true
	return model, tea.Batch(addPaymentCmd(model.backend, model.epoch, contractKey, input), model.startSpinner())
}

func (model Model) requestDeleteClient() (tea.Model, tea.Cmd) {
	id, ok := model.selects[desk.DropdownDeleteClient].ID()
	if !ok {
		return model, model.pushToast(ToastError, desk.MessageSelectClient)
	}
	model.openConfirm(desk.DeleteClientTarget(model.cache, id))
	return model, nil
}

func (model Model) requestDeleteContract() (tea.Model, tea.Cmd) {
	id, ok := model.selects[desk.DropdownDeleteContract].ID()
	if !ok {
		return model, model.pushToast(ToastError, desk.MessageSelectContract)
	}
	model.openConfirm(desk.DeleteContractTarget(id))
	return model, nil
}

func (model *Model) openConfirm(target desk.Target) {
	model.confirm.Request(target)
	modal := tui.NewConfirmModal(target.Title, target.Message, model.theme)
	model.confirmModal = &modal
}

// confirmDelete runs the pending delete exactly once.
func (model Model) confirmDelete() (tea.Model, tea.Cmd) {
	model.confirmModal = nil
	target, ok := model.confirm.Confirm()
	if !ok {
		return model, nil
	}
	act := actionDeleteClient
	if target.Kind == desk.TargetContract {
		act = actionDeleteContract
	}
	model.inFlight[act] = true
	return model, tea.Batch(deleteCmd(model.backend, model.epoch, target), model.startSpinner())
}

// cancelDelete discards the pending delete without a call.
func (model *Model) cancelDelete() {
	model.confirmModal = nil
	model.confirm.Cancel()
}

// --- Results ---

func (model Model) handleRegisterResult(message registerResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	delete(model.inFlight, actionRegister)
	if message.err != nil {
		return model, model.pushToast(ToastError, realtyapi.UserMessage(message.err, desk.MessageRegisterFailed))
	}
	focusCmd := model.setAuthForm(false)
	return model, tea.Batch(focusCmd, model.pushToast(ToastSuccess, message.message))
}

func (model Model) handleLoginResult(message loginResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	delete(model.inFlight, actionLogin)
	if message.err != nil {
		return model, model.pushToast(ToastError, realtyapi.UserMessage(message.err, desk.MessageLoginFailed))
	}
	if err := model.session.Login(message.token, message.username); err != nil {
		model.logger.Error("storing session failed", "error", err)
		return model, model.pushToast(ToastError, desk.MessageLoginFailed)
	}

	model.setAuthForm(false)
	model.authForm.blur()
	model.screen = ScreenDesk
	model.focus = FocusNavigation
	return model, tea.Batch(
		model.pushToast(ToastSuccess, desk.MessageLoginSuccess),
		model.show(desk.PageDashboard),
		model.startRefresh(),
	)
}

func (model Model) handleRefreshResult(message refreshResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	model.refreshing = max(model.refreshing-1, 0)
	if message.err != nil {
		if expired, cmd := model.expired(message.err); expired {
			return model, cmd
		}
		model.logger.Warn("refresh failed", "error", message.err)
		return model, model.pushToast(ToastError, desk.MessageRefreshFailed)
	}
	model.cache.Replace(message.snapshot)
	return model, model.applyEffect(model.router.Reenter())
}

func (model Model) handleStatsResult(message statsResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	model.loading[reportStats] = false
	if message.err != nil {
		if expired, cmd := model.expired(message.err); expired {
			return model, cmd
		}
		return model, model.pushToast(ToastError, desk.MessageStatsFailed)
	}
	stats := message.stats
	model.reports.stats = &stats
	return model, nil
}

func (model Model) handleHighValueResult(message highValueResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	model.loading[reportHighValue] = false
	if message.err != nil {
		return model, model.failure(message.err, desk.MessageHighValueFailed)
	}
	model.reports.highValue = message.rows
	return model, nil
}

func (model Model) handleEarningsResult(message earningsResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	if message.key != model.selects[desk.DropdownEarningsAgent].Value() {
		return model, model.superseded(message.err)
	}
	model.loading[reportEarnings] = false
	if message.err != nil {
		return model, model.failure(message.err, desk.MessageEarningsFailed)
	}
	model.reports.earnings = message.rows
	model.reports.earningsKey = message.key
	return model, nil
}

func (model Model) handleTotalResult(message totalResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	if message.key != model.selects[desk.DropdownTotalContract].Value() {
		return model, model.superseded(message.err)
	}
	model.loading[reportTotal] = false
	if message.err != nil {
		return model, model.failure(message.err, desk.MessageTotalFailed)
	}
	model.reports.total = message.total
	model.reports.totalKey = message.key
	return model, nil
}

func (model Model) handlePaymentsResult(message paymentsResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	if message.key != model.selects[desk.DropdownPaymentContract].Value() {
		return model, model.superseded(message.err)
	}
	model.loading[reportPayments] = false
	if message.err != nil {
		return model, model.failure(message.err, desk.MessagePaymentsFailed)
	}
	model.reports.payments = message.payments
	model.reports.paymentsKey = message.key
	return model, nil
}

func (model Model) handleMutationResult(message mutationResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	delete(model.inFlight, message.action)

	fallback := desk.MessageRequestFailed
	if message.action == actionDeleteClient || message.action == actionDeleteContract {
		fallback = desk.MessageDeleteFailed
	}
	if message.err != nil {
		return model, model.failure(message.err, fallback)
	}

	switch message.action {
	case actionAddClient:
		model.forms[desk.PageAddClient].reset()
	case actionAddContract:
		model.forms[desk.PageAddContract].reset()
		model.selects[desk.DropdownContractClient].Clear()
	case actionDeleteClient:
		model.selects[desk.DropdownDeleteClient].Clear()
	case actionDeleteContract:
		model.selects[desk.DropdownDeleteContract].Clear()
	}
	return model, tea.Batch(model.pushToast(ToastSuccess, message.message), model.startRefresh())
}

// handlePaymentResult keeps the contract chosen, clears the amount,
// shows the commission movement and refetches that contract's history
// alongside the full refresh.
func (model Model) handlePaymentResult(message paymentResultMsg) (tea.Model, tea.Cmd) {
	if message.epoch != model.epoch {
		return model, nil
	}
	delete(model.inFlight, actionAddPayment)
	if message.err != nil {
		return model, model.failure(message.err, desk.MessageRequestFailed)
	}

	model.forms[desk.PageAddPayment].reset(fieldAmount)
	cmds := []tea.Cmd{
		model.pushToast(ToastSuccess, message.receipt.Message),
		model.startRefresh(),
	}

	selection := model.selects[desk.DropdownPaymentContract]
	if selection.Value() == message.key {
		report := message.receipt.CommissionReport
		model.reports.commission = &report
		model.reports.commissionKey = message.key
		if id, ok := selection.ID(); ok {
			cmds = append(cmds, model.fetchPayments(message.key, id))
		}
	}
	return model, tea.Batch(cmds...)
}
