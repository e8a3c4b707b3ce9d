// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	json "github.com/goccy/go-json"

	"github.com/bureau-foundation/realty/cmd/realty/cli"
	"github.com/bureau-foundation/realty/lib/realtyapi/realtyapitest"
	"github.com/bureau-foundation/realty/lib/session"
)

// harness runs the command tree against a fake backend with captured
// output and a private session file.
type harness struct {
	server      *realtyapitest.Server
	configPath  string
	sessionPath string
	stdout      *bytes.Buffer
	stderr      *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	for _, name := range []string{"REALTY_API_URL", "REALTY_SESSION_FILE", "REALTY_LOG_LEVEL", "REALTY_CONFIG"} {
		t.Setenv(name, "")
	}

	server := realtyapitest.NewServer(t)
	directory := t.TempDir()
	h := &harness{
		server:      server,
		configPath:  filepath.Join(directory, "config.yaml"),
		sessionPath: filepath.Join(directory, "session.json"),
		stdout:      &bytes.Buffer{},
		stderr:      &bytes.Buffer{},
	}
	config := fmt.Sprintf("api:\n  base_url: %s\nsession:\n  file: %s\nlog:\n  level: error\n", server.BaseURL(), h.sessionPath)
	if err := os.WriteFile(h.configPath, []byte(config), 0o600); err != nil {
		t.Fatal(err)
	}

	previousOut, previousErr, previousIn := cli.Stdout, cli.Stderr, cli.Stdin
	cli.Stdout, cli.Stderr, cli.Stdin = h.stdout, h.stderr, strings.NewReader("")
	t.Cleanup(func() { cli.Stdout, cli.Stderr, cli.Stdin = previousOut, previousErr, previousIn })
	return h
}

// run executes realty with args followed by --config.
func (h *harness) run(args ...string) error {
	h.stdout.Reset()
	h.stderr.Reset()
	return Root().Execute(context.Background(), append(args, "--config", h.configPath))
}

// login stores a valid token for a fresh user.
func (h *harness) login(t *testing.T) {
	t.Helper()
	token := h.server.AddUser("meera", "pw")
	if err := session.NewFileStore(h.sessionPath).Save(token); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) storedToken() string {
	token, err := session.NewFileStore(h.sessionPath).Load()
	if err != nil {
		return ""
	}
	return token
}

func (h *harness) passwordFile(t *testing.T, password string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "password")
	if err := os.WriteFile(path, []byte(password+"\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func category(err error) cli.ErrorCategory {
	var toolErr *cli.ToolError
	if errors.As(err, &toolErr) {
		return toolErr.Category
	}
	return ""
}

func TestReadWithoutSessionIsForbidden(t *testing.T) {
	h := newHarness(t)

	err := h.run("clients", "list")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if err.(*cli.ToolError).ExitCode() != 4 {
		t.Errorf("exit code = %d, want 4", err.(*cli.ToolError).ExitCode())
	}
	if h.server.CallCount() != 0 {
		t.Errorf("made %d calls without a session", h.server.CallCount())
	}
}

func TestLoginStoresToken(t *testing.T) {
	h := newHarness(t)
	h.server.AddUser("meera", "pw")

	if err := h.run("login", "meera", "--password-file", h.passwordFile(t, "pw")); err != nil {
		t.Fatalf("login: %v", err)
	}
	if h.storedToken() != realtyapitest.Token("meera") {
		t.Errorf("stored token = %q", h.storedToken())
	}
	if !strings.Contains(h.stderr.String(), "Login Successful! Welcome.") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	h.server.AddUser("meera", "pw")

	err := h.run("login", "meera", "--password-file", h.passwordFile(t, "wrong"))
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if !strings.Contains(err.Error(), "Invalid username or password") {
		t.Errorf("error = %q", err.Error())
	}
	if h.storedToken() != "" {
		t.Error("a token was stored after a failed login")
	}
}

func TestLoginRequiresUsername(t *testing.T) {
	h := newHarness(t)
	if err := h.run("login"); category(err) != cli.CategoryValidation {
		t.Errorf("error = %v, want validation", err)
	}
	if h.server.CallCount() != 0 {
		t.Error("login without a username reached the backend")
	}
}

func TestRegisterThenConflict(t *testing.T) {
	h := newHarness(t)
	password := h.passwordFile(t, "pw")

	if err := h.run("register", "ravi", "--password-file", password); err != nil {
		t.Fatalf("register: %v", err)
	}
	if !strings.Contains(h.stderr.String(), "User registered successfully!") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
	if h.storedToken() != "" {
		t.Error("register stored a token")
	}

	err := h.run("register", "ravi", "--password-file", password)
	if category(err) != cli.CategoryConflict {
		t.Errorf("second register = %v, want conflict", err)
	}
}

func TestLogout(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if err := h.run("logout"); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if h.storedToken() != "" {
		t.Error("token survived logout")
	}
	if !strings.Contains(h.stderr.String(), "You have been logged out.") {
		t.Errorf("stderr = %q", h.stderr.String())
	}

	if err := h.run("logout"); err != nil {
		t.Errorf("second logout: %v", err)
	}
}

func TestWhoAmI(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if err := h.run("whoami", "--json"); err != nil {
		t.Fatalf("whoami: %v", err)
	}
	var result struct {
		Username string `json:"username"`
		Initial  string `json:"initial"`
		BaseURL  string `json:"base_url"`
	}
	if err := json.Unmarshal(h.stdout.Bytes(), &result); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if result.Username != "meera" || result.Initial != "M" || result.BaseURL != h.server.BaseURL() {
		t.Errorf("whoami = %+v", result)
	}
	if h.server.CallCount() != 0 {
		t.Error("whoami contacted the backend")
	}
}

func TestExpiredTokenIsPurged(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.server.ExpireTokens()

	err := h.run("stats")
	if category(err) != cli.CategoryForbidden {
		t.Fatalf("error = %v, want forbidden", err)
	}
	if !strings.Contains(err.Error(), "Session expired. Please login again.") {
		t.Errorf("error = %q", err.Error())
	}
	if h.storedToken() != "" {
		t.Error("rejected token was not purged")
	}
}

func TestStats(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	clientID := h.server.SeedClient("Asha", "Rao")
	agentID := h.server.SeedAgent("Dev", "Mehta")
	h.server.SeedContract(clientID, agentID, 100000, 10)

	if err := h.run("stats"); err != nil {
		t.Fatalf("stats: %v", err)
	}
	for _, want := range []string{"Total Clients:", "Total Contracts:", "Total Agents:", "Total Paid:", "₹0.00"} {
		if !strings.Contains(h.stdout.String(), want) {
			t.Errorf("stats output missing %q:\n%s", want, h.stdout.String())
		}
	}
}

func TestClientsListQuery(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.server.SeedClient("Asha", "Rao")
	h.server.SeedClient("Bina", "Shah")

	if err := h.run("clients", "list", "--query", "[].Fname"); err != nil {
		t.Fatalf("clients list: %v", err)
	}
	var names []string
	if err := json.Unmarshal(h.stdout.Bytes(), &names); err != nil {
		t.Fatalf("decoding %q: %v", h.stdout.String(), err)
	}
	if strings.Join(names, ",") != "Asha,Bina" {
		t.Errorf("names = %v", names)
	}
}

func TestClientsListText(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	id := h.server.SeedClient("Asha", "Rao")

	if err := h.run("clients", "list"); err != nil {
		t.Fatalf("clients list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(h.stdout.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "ID") {
		t.Fatalf("output = %q", h.stdout.String())
	}
	if !strings.HasPrefix(lines[1], strconv.Itoa(id)) || !strings.Contains(lines[1], "Asha") {
		t.Errorf("row = %q", lines[1])
	}
}

func TestClientsAddValidatesBeforeCalling(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	err := h.run("clients", "add", "--fname", "Asha")
	if category(err) != cli.CategoryValidation {
		t.Fatalf("error = %v, want validation", err)
	}
	if h.server.Calls("POST /add_client") != 0 {
		t.Error("incomplete client reached the backend")
	}
}

func TestClientsAddFromFile(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	path := filepath.Join(t.TempDir(), "asha.jsonc")
	payload := `{
	// new client
	"fname": "Asha",
	"lname": "Rao",
	"hire_date": "2024-10-01",
	"address": "12 MG Road",
	"city": "Pune",
	"state": "MH",
	"zip_code": "411001",
}`
	if err := os.WriteFile(path, []byte(payload), 0o600); err != nil {
		t.Fatal(err)
	}

	if err := h.run("clients", "add", "--file", path, "--city", "Mumbai"); err != nil {
		t.Fatalf("clients add: %v", err)
	}
	call, ok := h.server.LastCall("POST /add_client")
	if !ok {
		t.Fatal("no add_client call")
	}
	if !strings.Contains(call.Body, `"city":"Mumbai"`) || !strings.Contains(call.Body, `"fname":"Asha"`) {
		t.Errorf("body = %s", call.Body)
	}
	if h.server.ClientCount() != 1 {
		t.Errorf("client count = %d", h.server.ClientCount())
	}
	if !strings.Contains(h.stderr.String(), "Client added successfully!") {
		t.Errorf("stderr = %q", h.stderr.String())
	}
}

func TestClientsDeleteDeclined(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	id := h.server.SeedClient("Asha", "Rao")
	cli.Stdin = strings.NewReader("n\n")

	err := h.run("clients", "delete", strconv.Itoa(id))
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != 1 {
		t.Fatalf("error = %v, want exit code 1", err)
	}
	if !strings.Contains(h.stderr.String(), "This will permanently delete Asha and all of their contracts and payments.") {
		t.Errorf("prompt = %q", h.stderr.String())
	}
	if h.server.Calls("DELETE /client/"+strconv.Itoa(id)) != 0 {
		t.Error("declined delete reached the backend")
	}
}

func TestClientsDeleteConfirmed(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	id := h.server.SeedClient("Asha", "Rao")
	agentID := h.server.SeedAgent("Dev", "Mehta")
	h.server.SeedContract(id, agentID, 50000, 10)
	cli.Stdin = strings.NewReader("y\n")

	if err := h.run("clients", "delete", strconv.Itoa(id)); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if h.server.ClientCount() != 0 || h.server.ContractCount() != 0 {
		t.Errorf("after delete: %d clients, %d contracts", h.server.ClientCount(), h.server.ContractCount())
	}
}

func TestClientsDeleteYesSkipsPrompt(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	id := h.server.SeedClient("Asha", "Rao")

	if err := h.run("clients", "delete", strconv.Itoa(id), "--yes"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if strings.Contains(h.stderr.String(), "[y/N]") {
		t.Error("prompted despite --yes")
	}
	if h.server.Calls("GET /clients") != 0 {
		t.Error("looked up the client name without a prompt to show it in")
	}
	if h.server.Calls("DELETE /client/"+strconv.Itoa(id)) != 1 {
		t.Error("delete not sent")
	}
}

func TestClientsDeleteRejectsBadID(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	if err := h.run("clients", "delete", "abc", "--yes"); category(err) != cli.CategoryValidation {
		t.Errorf("error = %v, want validation", err)
	}
}

func TestHighValueEmpty(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	if err := h.run("clients", "high-value"); err != nil {
		t.Fatalf("high-value: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "No clients found with above-average contracts.") {
		t.Errorf("output = %q", h.stdout.String())
	}
}

func TestContractsAddRejectsDateOrder(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	id := h.server.SeedClient("Asha", "Rao")

	err := h.run("contracts", "add", "--client", strconv.Itoa(id), "--start", "2024-11-01", "--end", "2024-11-01", "--amount", "1000")
	if category(err) != cli.CategoryValidation || !strings.Contains(err.Error(), "End date must be after start date.") {
		t.Fatalf("error = %v", err)
	}
	if h.server.Calls("POST /add_contract") != 0 {
		t.Error("invalid contract reached the backend")
	}

	if err := h.run("contracts", "add", "--client", strconv.Itoa(id), "--start", "2024-11-01", "--end", "2025-10-31", "--amount", "2,50,000"); err != nil {
		t.Fatalf("contracts add: %v", err)
	}
	if h.server.ContractCount() != 1 {
		t.Errorf("contract count = %d", h.server.ContractCount())
	}
}

func TestContractsDeleteYes(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	clientID := h.server.SeedClient("Asha", "Rao")
	agentID := h.server.SeedAgent("Dev", "Mehta")
	contractID := h.server.SeedContract(clientID, agentID, 50000, 10)

	if err := h.run("contracts", "delete", strconv.Itoa(contractID), "-y"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if h.server.ContractCount() != 0 {
		t.Error("contract survived")
	}
	if h.server.ClientCount() != 1 {
		t.Error("deleting a contract removed its client")
	}
}

func TestPaymentsAddShowsCommission(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	clientID := h.server.SeedClient("Asha", "Rao")
	agentID := h.server.SeedAgent("Dev", "Mehta")
	contractID := h.server.SeedContract(clientID, agentID, 100000, 10)

	if err := h.run("payments", "add", strconv.Itoa(contractID), "--amount", "5000"); err != nil {
		t.Fatalf("payments add: %v", err)
	}
	output := h.stdout.String()
	for _, want := range []string{"Commission report", "Commission ID:", "Amount Before:", "Amount After:", "Change:"} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
	if !strings.Contains(h.stderr.String(), "Payment added! Trigger updated commission.") {
		t.Errorf("stderr = %q", h.stderr.String())
	}

	if err := h.run("payments", "total", strconv.Itoa(contractID)); err != nil {
		t.Fatalf("payments total: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "₹5,000.00") {
		t.Errorf("total output = %q", h.stdout.String())
	}

	if err := h.run("payments", "list", strconv.Itoa(contractID), "--query", "length(@)"); err != nil {
		t.Fatalf("payments list: %v", err)
	}
	if strings.TrimSpace(h.stdout.String()) != "1" {
		t.Errorf("payment count = %q", h.stdout.String())
	}
}

func TestPaymentsAddRequiresAmount(t *testing.T) {
	h := newHarness(t)
	h.login(t)

	err := h.run("payments", "add", "12")
	if category(err) != cli.CategoryValidation || !strings.Contains(err.Error(), "Please select a contract and enter an amount.") {
		t.Errorf("error = %v", err)
	}
	if h.server.CallCount() != 0 {
		t.Error("invalid payment reached the backend")
	}
}

func TestPaymentsTotalWithoutPayments(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	clientID := h.server.SeedClient("Asha", "Rao")
	agentID := h.server.SeedAgent("Dev", "Mehta")
	contractID := h.server.SeedContract(clientID, agentID, 100000, 10)

	if err := h.run("payments", "total", strconv.Itoa(contractID)); err != nil {
		t.Fatalf("payments total: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "₹0.00") {
		t.Errorf("output = %q", h.stdout.String())
	}
}

func TestAgentsEarnings(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	clientID := h.server.SeedClient("Asha", "Rao")
	agentID := h.server.SeedAgent("Dev", "Mehta")
	h.server.SeedContract(clientID, agentID, 100000, 12.5)

	if err := h.run("agents", "earnings", strconv.Itoa(agentID)); err != nil {
		t.Fatalf("earnings: %v", err)
	}
	output := h.stdout.String()
	if !strings.Contains(output, "12.5%") || !strings.Contains(output, "₹1,00,000.00") {
		t.Errorf("earnings output:\n%s", output)
	}

	other := h.server.SeedAgent("Ira", "Nair")
	if err := h.run("agents", "earnings", strconv.Itoa(other)); err != nil {
		t.Fatalf("earnings: %v", err)
	}
	if !strings.Contains(h.stdout.String(), "No earnings found.") {
		t.Errorf("empty earnings output = %q", h.stdout.String())
	}
}

func TestServerErrorIsTransient(t *testing.T) {
	h := newHarness(t)
	h.login(t)
	h.server.Fail("GET /agents", 500, "database is down")

	err := h.run("agents", "list")
	if category(err) != cli.CategoryTransient {
		t.Fatalf("error = %v, want transient", err)
	}
	if h.storedToken() == "" {
		t.Error("a server error purged the session")
	}
}

func TestUnknownCommandSuggests(t *testing.T) {
	h := newHarness(t)
	err := h.run("contarcts")
	if err == nil || !strings.Contains(err.Error(), `did you mean "contracts"`) {
		t.Errorf("error = %v", err)
	}
}

func TestDeskRejectsUnknownPage(t *testing.T) {
	h := newHarness(t)
	err := h.run("--page", "nowhere")
	if category(err) != cli.CategoryValidation || !strings.Contains(err.Error(), `unknown page "nowhere"`) {
		t.Errorf("error = %v", err)
	}
}

func TestVersion(t *testing.T) {
	h := newHarness(t)
	if err := Root().Execute(context.Background(), []string{"version"}); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(h.stdout.String(), "realty ") {
		t.Errorf("output = %q", h.stdout.String())
	}
}
