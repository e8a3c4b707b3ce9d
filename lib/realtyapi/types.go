// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtyapi

import (
	"bytes"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"
)

// Money is a rupee amount. It decodes from a JSON number, a numeric
// string, or null (zero).
type Money float64

// UnmarshalJSON implements json.Unmarshaler.
func (money *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*money = 0
		return nil
	}
	if data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		if text == "" {
			*money = 0
			return nil
		}
		value, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return fmt.Errorf("amount %q is not a number", text)
		}
		*money = Money(value)
		return nil
	}
	value, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("amount %s is not a number", data)
	}
	*money = Money(value)
	return nil
}

// Float returns the amount as a float64.
func (money Money) Float() float64 { return float64(money) }

// ClientRecord is a customer as listed by GET /clients.
type ClientRecord struct {
	ClientID int    `json:"ClientID"`
	Fname    string `json:"Fname"`
	Lname    string `json:"Lname"`
}

// AgentRecord is a sales agent as listed by GET /agents.
type AgentRecord struct {
	AgentID int    `json:"AgentID"`
	Fname   string `json:"Fname"`
	Lname   string `json:"Lname"`
}

// ContractRecord is a contract as listed by GET /contracts. The backend joins
// the client's full name in as ClientName. StartDate and EndDate are
// present only on backends that select them.
type ContractRecord struct {
	ContractID int    `json:"ContractID"`
	ClientName string `json:"ClientName"`
	Amount     Money  `json:"Amount"`
	StartDate  string `json:"StartDate,omitempty"`
	EndDate    string `json:"EndDate,omitempty"`
}

// Stats is the dashboard aggregate from GET /stats.
type Stats struct {
	Clients   int   `json:"clients"`
	Contracts int   `json:"contracts"`
	Agents    int   `json:"agents"`
	TotalPaid Money `json:"totalPaid"`
}

// HighValueClient is one row of GET /clients/high_value: a client with
// a contract above the average contract amount.
type HighValueClient struct {
	ClientID   int    `json:"ClientID"`
	Fname      string `json:"Fname"`
	Lname      string `json:"Lname"`
	ContractID int    `json:"ContractID"`
	Amount     Money  `json:"Amount"`
}

// Earning is one row of GET /agent_earnings/{agentId}.
type Earning struct {
	ContractID         int   `json:"ContractID"`
	CommissionID       int   `json:"CommissionID"`
	ContractAmount     Money `json:"ContractAmount"`
	Percentage         Money `json:"Percentage"`
	PotentialEarning   Money `json:"PotentialEarning"`
	ActualEarnedAmount Money `json:"ActualEarnedAmount"`
}

// Payment is one row of GET /payments/{contractId}, newest first.
type Payment struct {
	PaymentNo   int    `json:"PaymentNo"`
	PaymentDate string `json:"PaymentDate"`
	Amount      Money  `json:"Amount"`
}

// CommissionReport shows a commission before and after a payment was
// recorded against its contract.
type CommissionReport struct {
	CommissionID int   `json:"CommissionID"`
	PreAmount    Money `json:"PreAmount"`
	PostAmount   Money `json:"PostAmount"`
	Percentage   Money `json:"Percentage,omitempty"`
}

// PaymentReceipt is the response to POST /add_payment.
type PaymentReceipt struct {
	Message          string           `json:"message"`
	CommissionReport CommissionReport `json:"commissionReport"`
}

// Credentials is the body of POST /register and POST /login.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ClientInput is the body of POST /add_client. Every field is required.
type ClientInput struct {
	Fname    string `json:"fname"`
	Lname    string `json:"lname"`
	HireDate string `json:"hire_date"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
}

// ContractInput is the body of POST /add_contract. Dates are YYYY-MM-DD.
type ContractInput struct {
	ClientID  int     `json:"client_id"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	Amount    float64 `json:"amount"`
}

// PaymentInput is the body of POST /add_payment.
type PaymentInput struct {
	ContractID int     `json:"contract_id"`
	Amount     float64 `json:"amount"`
}

// messageResponse is the success body of mutations.
type messageResponse struct {
	Message string `json:"message"`
}

// tokenResponse is the success body of POST /login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// totalResponse is the body of GET /total_payment/{contractId}. A
// contract with no payments has a null total.
type totalResponse struct {
	Total Money `json:"total"`
}
