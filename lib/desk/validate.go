// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// ValidationError is a form problem caught before any network call.
// Its text is shown to the user as is.
type ValidationError struct {
	Message string
}

func (err *ValidationError) Error() string { return err.Message }

func invalid(message string) error { return &ValidationError{Message: message} }

// Validation messages.
const (
	MessageCredentialsRequired = "Username and password are required."
	MessageClientFieldsMissing = "All client fields are required."
	MessageHireDateInvalid     = "Hire date must be a date (YYYY-MM-DD)."
	MessageContractClient      = "Please select a client."
	MessageContractDates       = "Start and end dates are required (YYYY-MM-DD)."
	MessageContractOrder       = "End date must be after start date."
	MessageAmountInvalid       = "Please enter a valid amount."
	MessagePaymentMissing      = "Please select a contract and enter an amount."
)

// ClientForm is the raw text of the add-client form.
type ClientForm struct {
	Fname    string
	Lname    string
	HireDate string
	Address  string
	City     string
	State    string
	ZipCode  string
}

// ContractForm is the raw text of the add-contract form. ClientID is a
// dropdown value.
type ContractForm struct {
	ClientID  string
	StartDate string
	EndDate   string
	Amount    string
}

// PaymentForm is the raw text of the add-payment form. ContractID is a
// dropdown value.
type PaymentForm struct {
	ContractID string
	Amount     string
}

// ValidateCredentials checks the login and register forms. The
// username is trimmed; the password is taken as typed.
func ValidateCredentials(username, password string) (realtyapi.Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return realtyapi.Credentials{}, invalid(MessageCredentialsRequired)
	}
	return realtyapi.Credentials{Username: username, Password: password}, nil
}

// ValidateClient requires every field and a YYYY-MM-DD hire date.
func ValidateClient(form ClientForm) (realtyapi.ClientInput, error) {
	input := realtyapi.ClientInput{
		Fname:    strings.TrimSpace(form.Fname),
		Lname:    strings.TrimSpace(form.Lname),
		HireDate: strings.TrimSpace(form.HireDate),
		Address:  strings.TrimSpace(form.Address),
		City:     strings.TrimSpace(form.City),
		State:    strings.TrimSpace(form.State),
		ZipCode:  strings.TrimSpace(form.ZipCode),
	}
	for _, field := range []string{input.Fname, input.Lname, input.HireDate, input.Address, input.City, input.State, input.ZipCode} {
		if field == "" {
			return realtyapi.ClientInput{}, invalid(MessageClientFieldsMissing)
		}
	}
	if _, ok := parseFormDate(input.HireDate); !ok {
		return realtyapi.ClientInput{}, invalid(MessageHireDateInvalid)
	}
	return input, nil
}

// ContractDatesValid reports whether both dates parse and end is
// strictly after start. Equal dates are invalid. The contract form's
// submit is disabled whenever this is false.
func ContractDatesValid(start, end string) bool {
	startDate, startOK := parseFormDate(start)
	endDate, endOK := parseFormDate(end)
	return startOK && endOK && endDate.After(startDate)
}

// ContractDatesConflict reports whether both dates parse but end is
// not after start: the state in which the form shows its date warning.
// Incomplete input is not a conflict yet.
func ContractDatesConflict(start, end string) bool {
	startDate, startOK := parseFormDate(start)
	endDate, endOK := parseFormDate(end)
	return startOK && endOK && !endDate.After(startDate)
}

// ValidateContract requires a client, two ordered dates and a positive
// amount.
func ValidateContract(form ContractForm) (realtyapi.ContractInput, error) {
	clientID, err := strconv.Atoi(strings.TrimSpace(form.ClientID))
	if err != nil {
		return realtyapi.ContractInput{}, invalid(MessageContractClient)
	}
	start, end := strings.TrimSpace(form.StartDate), strings.TrimSpace(form.EndDate)
	if _, ok := parseFormDate(start); !ok {
		return realtyapi.ContractInput{}, invalid(MessageContractDates)
	}
	if _, ok := parseFormDate(end); !ok {
		return realtyapi.ContractInput{}, invalid(MessageContractDates)
	}
	if !ContractDatesValid(start, end) {
		return realtyapi.ContractInput{}, invalid(MessageContractOrder)
	}
	amount, err := ParseAmount(form.Amount)
	if err != nil {
		return realtyapi.ContractInput{}, err
	}
	return realtyapi.ContractInput{ClientID: clientID, StartDate: start, EndDate: end, Amount: amount}, nil
}

// ValidatePayment requires a contract and a positive amount.
func ValidatePayment(form PaymentForm) (realtyapi.PaymentInput, error) {
	if strings.TrimSpace(form.ContractID) == "" || strings.TrimSpace(form.Amount) == "" {
		return realtyapi.PaymentInput{}, invalid(MessagePaymentMissing)
	}
	contractID, err := strconv.Atoi(strings.TrimSpace(form.ContractID))
	if err != nil {
		return realtyapi.PaymentInput{}, invalid(MessagePaymentMissing)
	}
	amount, err := ParseAmount(form.Amount)
	if err != nil {
		return realtyapi.PaymentInput{}, err
	}
	return realtyapi.PaymentInput{ContractID: contractID, Amount: amount}, nil
}

// ParseAmount parses a rupee amount typed by the user. Grouping commas
// and a leading ₹ are accepted. The amount must be finite and positive.
func ParseAmount(text string) (float64, error) {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "₹")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return 0, invalid(MessageAmountInvalid)
	}
	return amount, nil
}

func parseFormDate(value string) (time.Time, bool) {
	parsed, err := time.Parse(time.DateOnly, strings.TrimSpace(value))
	return parsed, err == nil
}
