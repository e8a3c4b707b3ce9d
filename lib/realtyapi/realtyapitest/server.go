// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package realtyapitest serves an in-memory copy of the backend REST
// API for tests. It keeps enough state to make every endpoint behave
// plausibly (cascading deletes, commission updates on payment, the
// above-average contract query) and records every request so tests can
// assert how many calls a flow made.
package realtyapitest

import (
	"bytes"
	"cmp"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	json "github.com/goccy/go-json"
)

// Call is one request the server received.
type Call struct {
	Method string
	Path   string
	Body   string
	Token  string
}

// Client is a stored client row.
type Client struct {
	ID       int
	Fname    string
	Lname    string
	HireDate string
	Address  string
	City     string
	State    string
	ZipCode  string
}

// Agent is a stored agent row.
type Agent struct {
	ID    int
	Fname string
	Lname string
}

// Contract is a stored contract row with its commission.
type Contract struct {
	ID        int
	ClientID  int
	AgentID   int
	StartDate string
	EndDate   string
	Amount    float64

	// Commission bookkeeping: one commission per contract.
	CommissionID     int
	Percentage       float64
	CommissionAmount float64
}

// Payment is a stored payment row.
type Payment struct {
	Number     int
	ContractID int
	Date       time.Time
	Amount     float64
}

type failure struct {
	status int
	body   string
}

// Server is a fake backend. The zero value is not usable; call
// NewServer.
type Server struct {
	*httptest.Server

	mu        sync.Mutex
	users     map[string]string
	tokens    map[string]string
	clients   []Client
	agents    []Agent
	contracts []Contract
	payments  []Payment
	nextID    int
	calls     []Call
	failures  map[string]failure
	holds     map[string]chan struct{}
	today     time.Time
}

// NewServer starts a fake backend that is closed when the test ends.
// The API root is BaseURL().
func NewServer(t testing.TB) *Server {
	server := &Server{
		users:    make(map[string]string),
		tokens:   make(map[string]string),
		failures: make(map[string]failure),
		holds:    make(map[string]chan struct{}),
		nextID:   100,
		today:    time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/register", server.handleRegister)
	mux.HandleFunc("POST /api/login", server.handleLogin)
	mux.HandleFunc("GET /api/stats", server.authenticated(server.handleStats))
	mux.HandleFunc("GET /api/clients", server.authenticated(server.handleClients))
	mux.HandleFunc("GET /api/agents", server.authenticated(server.handleAgents))
	mux.HandleFunc("GET /api/contracts", server.authenticated(server.handleContracts))
	mux.HandleFunc("GET /api/clients/high_value", server.authenticated(server.handleHighValue))
	mux.HandleFunc("GET /api/agent_earnings/{id}", server.authenticated(server.handleEarnings))
	mux.HandleFunc("GET /api/total_payment/{id}", server.authenticated(server.handleTotal))
	mux.HandleFunc("GET /api/payments/{id}", server.authenticated(server.handlePayments))
	mux.HandleFunc("POST /api/add_client", server.authenticated(server.handleAddClient))
	mux.HandleFunc("POST /api/add_contract", server.authenticated(server.handleAddContract))
	mux.HandleFunc("POST /api/add_payment", server.authenticated(server.handleAddPayment))
	mux.HandleFunc("DELETE /api/client/{id}", server.authenticated(server.handleDeleteClient))
	mux.HandleFunc("DELETE /api/contract/{id}", server.authenticated(server.handleDeleteContract))

	server.Server = httptest.NewServer(server.record(mux))
	t.Cleanup(server.Close)
	return server
}

// BaseURL returns the API root to pass as a client's base URL.
func (server *Server) BaseURL() string { return server.URL + "/api" }

// Token builds a token for subject in the backend's format: an unsigned
// JWT whose payload carries "sub".
func Token(subject string) string {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(fmt.Sprintf(`{"sub":%q,"iat":1700000000}`, subject)))
	return header + "." + payload + ".fake-signature"
}

// AddUser registers a user directly and returns a token already valid
// for them, for tests that start logged in.
func (server *Server) AddUser(username, password string) string {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.users[username] = password
	token := Token(username)
	server.tokens[token] = username
	return token
}

// ExpireTokens invalidates every issued token, so the next
// authenticated call is answered with 401.
func (server *Server) ExpireTokens() {
	server.mu.Lock()
	defer server.mu.Unlock()
	clear(server.tokens)
}

// Fail makes every request matching "METHOD /path" (path without the
// /api prefix, for example "GET /agents") answer status with body
// {"error": message}. An empty message sends "{}".
func (server *Server) Fail(route string, status int, message string) {
	body := "{}"
	if message != "" {
		encoded, _ := json.Marshal(map[string]string{"error": message})
		body = string(encoded)
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	server.failures[route] = failure{status: status, body: body}
}

// Recover undoes Fail for route.
func (server *Server) Recover(route string) {
	server.mu.Lock()
	defer server.mu.Unlock()
	delete(server.failures, route)
}

// Hold makes requests for route block until the returned function is
// called. Used to keep a call in flight.
func (server *Server) Hold(route string) (release func()) {
	gate := make(chan struct{})
	server.mu.Lock()
	server.holds[route] = gate
	server.mu.Unlock()
	var once sync.Once
	return func() {
		once.Do(func() {
			server.mu.Lock()
			delete(server.holds, route)
			server.mu.Unlock()
			close(gate)
		})
	}
}

// Calls returns how many requests matched "METHOD /path" (without the
// /api prefix).
func (server *Server) Calls(route string) int {
	server.mu.Lock()
	defer server.mu.Unlock()
	count := 0
	for _, call := range server.calls {
		if call.Method+" "+call.Path == route {
			count++
		}
	}
	return count
}

// CallCount returns the total number of requests received.
func (server *Server) CallCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.calls)
}

// LastCall returns the most recent request matching route.
func (server *Server) LastCall(route string) (Call, bool) {
	server.mu.Lock()
	defer server.mu.Unlock()
	for index := len(server.calls) - 1; index >= 0; index-- {
		call := server.calls[index]
		if call.Method+" "+call.Path == route {
			return call, true
		}
	}
	return Call{}, false
}

// SeedClient adds a client and returns its ID.
func (server *Server) SeedClient(fname, lname string) int {
	server.mu.Lock()
	defer server.mu.Unlock()
	id := server.allocateID()
	server.clients = append(server.clients, Client{ID: id, Fname: fname, Lname: lname})
	return id
}

// SeedAgent adds an agent and returns its ID.
func (server *Server) SeedAgent(fname, lname string) int {
	server.mu.Lock()
	defer server.mu.Unlock()
	id := server.allocateID()
	server.agents = append(server.agents, Agent{ID: id, Fname: fname, Lname: lname})
	return id
}

// SeedContract adds a contract for clientID, earning agentID a
// commission at percentage, and returns its ID.
func (server *Server) SeedContract(clientID, agentID int, amount, percentage float64) int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return server.insertContract(Contract{
		ClientID:   clientID,
		AgentID:    agentID,
		StartDate:  "2024-01-01",
		EndDate:    "2025-01-01",
		Amount:     amount,
		Percentage: percentage,
	})
}

// SeedPayment records a payment against contractID on date.
func (server *Server) SeedPayment(contractID int, date time.Time, amount float64) {
	server.mu.Lock()
	defer server.mu.Unlock()
	server.insertPayment(contractID, date, amount)
}

// ContractCount returns the number of stored contracts.
func (server *Server) ContractCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.contracts)
}

// ClientCount returns the number of stored clients.
func (server *Server) ClientCount() int {
	server.mu.Lock()
	defer server.mu.Unlock()
	return len(server.clients)
}

func (server *Server) allocateID() int {
	server.nextID++
	return server.nextID
}

func (server *Server) insertContract(contract Contract) int {
	contract.ID = server.allocateID()
	contract.CommissionID = server.allocateID()
	server.contracts = append(server.contracts, contract)
	return contract.ID
}

func (server *Server) insertPayment(contractID int, date time.Time, amount float64) {
	number := server.allocateID()
	server.payments = append(server.payments, Payment{
		Number:     number,
		ContractID: contractID,
		Date:       date,
		Amount:     amount,
	})
	for index := range server.contracts {
		if server.contracts[index].ID == contractID {
			contract := &server.contracts[index]
			contract.CommissionAmount += amount * contract.Percentage / 100
		}
	}
}

// record logs the call, then applies any configured hold or failure
// before handing the request to the real handler.
func (server *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		var body []byte
		if request.Body != nil {
			body, _ = io.ReadAll(request.Body)
		}
		path := strings.TrimPrefix(request.URL.Path, "/api")
		route := request.Method + " " + path
		token := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")

		server.mu.Lock()
		server.calls = append(server.calls, Call{
			Method: request.Method,
			Path:   path,
			Body:   string(body),
			Token:  token,
		})
		hold := server.holds[route]
		failed, isFailing := server.failures[route]
		server.mu.Unlock()

		if hold != nil {
			select {
			case <-hold:
			case <-request.Context().Done():
				return
			}
		}
		if isFailing {
			writer.Header().Set("Content-Type", "application/json")
			writer.WriteHeader(failed.status)
			writer.Write([]byte(failed.body))
			return
		}

		request.Body = io.NopCloser(bytes.NewReader(body))
		next.ServeHTTP(writer, request)
	})
}

func (server *Server) authenticated(handler http.HandlerFunc) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		token := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")
		server.mu.Lock()
		_, valid := server.tokens[token]
		server.mu.Unlock()
		if token == "" || !valid {
			writeJSON(writer, http.StatusUnauthorized, map[string]string{"msg": "Token has expired"})
			return
		}
		handler(writer, request)
	}
}

func writeJSON(writer http.ResponseWriter, status int, value any) {
	encoded, err := json.Marshal(value)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write(encoded)
}

func writeError(writer http.ResponseWriter, status int, message string) {
	writeJSON(writer, status, map[string]string{"error": message})
}

// decimal renders an amount the way the backend's MySQL driver does
// for DECIMAL columns: as a two-place string.
func decimal(amount float64) string {
	return strconv.FormatFloat(amount, 'f', 2, 64)
}

func pathID(request *http.Request) (int, bool) {
	id, err := strconv.Atoi(request.PathValue("id"))
	return id, err == nil
}

func (server *Server) handleRegister(writer http.ResponseWriter, request *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(request.Body).Decode(&credentials); err != nil || credentials.Username == "" || credentials.Password == "" {
		writeError(writer, http.StatusBadRequest, "Username and password are required.")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	if _, exists := server.users[credentials.Username]; exists {
		writeError(writer, http.StatusConflict, "Username already exists.")
		return
	}
	server.users[credentials.Username] = credentials.Password
	writeJSON(writer, http.StatusCreated, map[string]string{"message": "User registered successfully!"})
}

func (server *Server) handleLogin(writer http.ResponseWriter, request *http.Request) {
	var credentials struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(request.Body).Decode(&credentials); err != nil {
		writeError(writer, http.StatusBadRequest, "Invalid request body.")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	password, exists := server.users[credentials.Username]
	if !exists || password != credentials.Password {
		writeError(writer, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	token := Token(credentials.Username)
	server.tokens[token] = credentials.Username
	writeJSON(writer, http.StatusOK, map[string]string{"access_token": token})
}

func (server *Server) handleStats(writer http.ResponseWriter, request *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()
	var totalPaid float64
	for _, payment := range server.payments {
		totalPaid += payment.Amount
	}
	writeJSON(writer, http.StatusOK, map[string]any{
		"clients":   len(server.clients),
		"contracts": len(server.contracts),
		"agents":    len(server.agents),
		"totalPaid": totalPaid,
	})
}

func (server *Server) handleClients(writer http.ResponseWriter, request *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()
	sorted := slices.Clone(server.clients)
	slices.SortFunc(sorted, func(a, b Client) int {
		return cmp.Or(cmp.Compare(a.Lname, b.Lname), cmp.Compare(a.Fname, b.Fname))
	})
	rows := make([]map[string]any, 0, len(sorted))
	for _, client := range sorted {
		rows = append(rows, map[string]any{"ClientID": client.ID, "Fname": client.Fname, "Lname": client.Lname})
	}
	writeJSON(writer, http.StatusOK, rows)
}

func (server *Server) handleAgents(writer http.ResponseWriter, request *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()
	sorted := slices.Clone(server.agents)
	slices.SortFunc(sorted, func(a, b Agent) int {
		return cmp.Or(cmp.Compare(a.Lname, b.Lname), cmp.Compare(a.Fname, b.Fname))
	})
	rows := make([]map[string]any, 0, len(sorted))
	for _, agent := range sorted {
		rows = append(rows, map[string]any{"AgentID": agent.ID, "Fname": agent.Fname, "Lname": agent.Lname})
	}
	writeJSON(writer, http.StatusOK, rows)
}

func (server *Server) clientName(clientID int) string {
	for _, client := range server.clients {
		if client.ID == clientID {
			return client.Fname + " " + client.Lname
		}
	}
	return ""
}

func (server *Server) handleContracts(writer http.ResponseWriter, request *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()
	sorted := slices.Clone(server.contracts)
	slices.SortFunc(sorted, func(a, b Contract) int { return cmp.Compare(b.ID, a.ID) })
	rows := make([]map[string]any, 0, len(sorted))
	for _, contract := range sorted {
		rows = append(rows, map[string]any{
			"ContractID": contract.ID,
			"Amount":     decimal(contract.Amount),
			"ClientName": server.clientName(contract.ClientID),
		})
	}
	writeJSON(writer, http.StatusOK, rows)
}

func (server *Server) handleHighValue(writer http.ResponseWriter, request *http.Request) {
	server.mu.Lock()
	defer server.mu.Unlock()
	rows := []map[string]any{}
	if len(server.contracts) > 0 {
		var sum float64
		for _, contract := range server.contracts {
			sum += contract.Amount
		}
		average := sum / float64(len(server.contracts))
		for _, contract := range server.contracts {
			if contract.Amount <= average {
				continue
			}
			for _, client := range server.clients {
				if client.ID == contract.ClientID {
					rows = append(rows, map[string]any{
						"ClientID":   client.ID,
						"Fname":      client.Fname,
						"Lname":      client.Lname,
						"ContractID": contract.ID,
						"Amount":     contract.Amount,
					})
				}
			}
		}
	}
	writeJSON(writer, http.StatusOK, rows)
}

func (server *Server) handleEarnings(writer http.ResponseWriter, request *http.Request) {
	agentID, ok := pathID(request)
	if !ok {
		writeError(writer, http.StatusNotFound, "Not found")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	rows := []map[string]any{}
	for _, contract := range server.contracts {
		if contract.AgentID != agentID {
			continue
		}
		rows = append(rows, map[string]any{
			"ContractID":         contract.ID,
			"CommissionID":       contract.CommissionID,
			"ContractAmount":     decimal(contract.Amount),
			"Percentage":         decimal(contract.Percentage),
			"PotentialEarning":   decimal(contract.Amount * contract.Percentage / 100),
			"ActualEarnedAmount": decimal(contract.CommissionAmount),
		})
	}
	writeJSON(writer, http.StatusOK, rows)
}

func (server *Server) handleTotal(writer http.ResponseWriter, request *http.Request) {
	contractID, ok := pathID(request)
	if !ok {
		writeError(writer, http.StatusNotFound, "Not found")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	var total float64
	found := false
	for _, payment := range server.payments {
		if payment.ContractID == contractID {
			total += payment.Amount
			found = true
		}
	}
	if !found {
		writeJSON(writer, http.StatusOK, map[string]any{"total": nil})
		return
	}
	writeJSON(writer, http.StatusOK, map[string]any{"total": decimal(total)})
}

func (server *Server) handlePayments(writer http.ResponseWriter, request *http.Request) {
	contractID, ok := pathID(request)
	if !ok {
		writeError(writer, http.StatusNotFound, "Not found")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	var matching []Payment
	for _, payment := range server.payments {
		if payment.ContractID == contractID {
			matching = append(matching, payment)
		}
	}
	slices.SortFunc(matching, func(a, b Payment) int {
		return cmp.Or(b.Date.Compare(a.Date), cmp.Compare(b.Number, a.Number))
	})
	rows := make([]map[string]any, 0, len(matching))
	for _, payment := range matching {
		rows = append(rows, map[string]any{
			"PaymentNo":   payment.Number,
			"PaymentDate": payment.Date.Format(http.TimeFormat),
			"Amount":      decimal(payment.Amount),
		})
	}
	writeJSON(writer, http.StatusOK, rows)
}

func (server *Server) handleAddClient(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		Fname    string `json:"fname"`
		Lname    string `json:"lname"`
		HireDate string `json:"hire_date"`
		Address  string `json:"address"`
		City     string `json:"city"`
		State    string `json:"state"`
		ZipCode  string `json:"zip_code"`
	}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		writeError(writer, http.StatusInternalServerError, "'fname'")
		return
	}
	if input.Fname == "" || input.Lname == "" {
		writeError(writer, http.StatusInternalServerError, "Column 'Fname' cannot be null")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	server.clients = append(server.clients, Client{
		ID:       server.allocateID(),
		Fname:    input.Fname,
		Lname:    input.Lname,
		HireDate: input.HireDate,
		Address:  input.Address,
		City:     input.City,
		State:    input.State,
		ZipCode:  input.ZipCode,
	})
	writeJSON(writer, http.StatusCreated, map[string]string{"message": "Client added successfully!"})
}

func (server *Server) handleAddContract(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		ClientID  json.Number `json:"client_id"`
		StartDate string      `json:"start_date"`
		EndDate   string      `json:"end_date"`
		Amount    json.Number `json:"amount"`
	}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		writeError(writer, http.StatusBadRequest, "Database Error: malformed contract")
		return
	}
	clientID, clientError := input.ClientID.Int64()
	amount, amountError := input.Amount.Float64()
	if clientError != nil || amountError != nil {
		writeError(writer, http.StatusBadRequest, "Database Error: malformed contract")
		return
	}
	if input.EndDate <= input.StartDate {
		writeError(writer, http.StatusBadRequest, "Database Error: End date must be after start date.")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	if server.clientName(int(clientID)) == "" {
		writeError(writer, http.StatusBadRequest, "Database Error: Cannot add or update a child row: a foreign key constraint fails")
		return
	}
	agentID := 0
	if len(server.agents) > 0 {
		agentID = server.agents[0].ID
	}
	server.insertContract(Contract{
		ClientID:   int(clientID),
		AgentID:    agentID,
		StartDate:  input.StartDate,
		EndDate:    input.EndDate,
		Amount:     amount,
		Percentage: 10,
	})
	writeJSON(writer, http.StatusCreated, map[string]string{"message": "Contract added successfully! Trigger validated dates."})
}

func (server *Server) handleAddPayment(writer http.ResponseWriter, request *http.Request) {
	var input struct {
		ContractID json.Number `json:"contract_id"`
		Amount     json.Number `json:"amount"`
	}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		writeError(writer, http.StatusInternalServerError, "'contract_id'")
		return
	}
	contractID, idError := input.ContractID.Int64()
	amount, amountError := input.Amount.Float64()
	if idError != nil || amountError != nil {
		writeError(writer, http.StatusInternalServerError, "'contract_id'")
		return
	}

	server.mu.Lock()
	defer server.mu.Unlock()
	index := slices.IndexFunc(server.contracts, func(contract Contract) bool { return contract.ID == int(contractID) })
	if index < 0 {
		writeError(writer, http.StatusBadRequest, fmt.Sprintf("Database Error: No 'earns' or 'commission' record found for ContractID %d. Cannot add payment.", contractID))
		return
	}
	before := server.contracts[index]
	server.insertPayment(int(contractID), server.today, amount)
	after := server.contracts[index]
	writeJSON(writer, http.StatusCreated, map[string]any{
		"message": "Payment added! Trigger updated commission.",
		"commissionReport": map[string]any{
			"CommissionID": before.CommissionID,
			"PreAmount":    decimal(before.CommissionAmount),
			"PostAmount":   decimal(after.CommissionAmount),
			"Percentage":   decimal(before.Percentage),
		},
	})
}

func (server *Server) deleteContractLocked(contractID int) {
	server.payments = slices.DeleteFunc(server.payments, func(payment Payment) bool { return payment.ContractID == contractID })
	server.contracts = slices.DeleteFunc(server.contracts, func(contract Contract) bool { return contract.ID == contractID })
}

func (server *Server) handleDeleteClient(writer http.ResponseWriter, request *http.Request) {
	clientID, ok := pathID(request)
	if !ok {
		writeError(writer, http.StatusNotFound, "Not found")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	for _, contract := range slices.Clone(server.contracts) {
		if contract.ClientID == clientID {
			server.deleteContractLocked(contract.ID)
		}
	}
	server.clients = slices.DeleteFunc(server.clients, func(client Client) bool { return client.ID == clientID })
	writeJSON(writer, http.StatusOK, map[string]string{"message": "Client and all related records deleted."})
}

func (server *Server) handleDeleteContract(writer http.ResponseWriter, request *http.Request) {
	contractID, ok := pathID(request)
	if !ok {
		writeError(writer, http.StatusNotFound, "Not found")
		return
	}
	server.mu.Lock()
	defer server.mu.Unlock()
	server.deleteContractLocked(contractID)
	writeJSON(writer, http.StatusOK, map[string]string{"message": "Contract and all related records deleted."})
}
