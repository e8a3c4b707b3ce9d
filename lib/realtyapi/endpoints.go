// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package realtyapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"
)

// Register creates a backend account and returns the backend's
// confirmation message. It does not log in.
func (client *Client) Register(ctx context.Context, credentials Credentials) (string, error) {
	var response messageResponse
	if err := client.call(ctx, http.MethodPost, "/register", credentials, &response, false); err != nil {
		return "", err
	}
	return response.Message, nil
}

// Login exchanges credentials for a bearer token. Wrong credentials are
// a 401 *APIError, never ErrSessionExpired.
func (client *Client) Login(ctx context.Context, credentials Credentials) (string, error) {
	var response tokenResponse
	if err := client.call(ctx, http.MethodPost, "/login", credentials, &response, false); err != nil {
		return "", err
	}
	if response.AccessToken == "" {
		return "", errors.New("realty: login response has no access_token")
	}
	return response.AccessToken, nil
}

// Clients lists every client, ordered by last then first name.
func (client *Client) Clients(ctx context.Context) ([]ClientRecord, error) {
	var clients []ClientRecord
	if err := client.get(ctx, "/clients", &clients); err != nil {
		return nil, err
	}
	return nonNil(clients), nil
}

// Agents lists every agent, ordered by last then first name.
func (client *Client) Agents(ctx context.Context) ([]AgentRecord, error) {
	var agents []AgentRecord
	if err := client.get(ctx, "/agents", &agents); err != nil {
		return nil, err
	}
	return nonNil(agents), nil
}

// Contracts lists every contract, newest first.
func (client *Client) Contracts(ctx context.Context) ([]ContractRecord, error) {
	var contracts []ContractRecord
	if err := client.get(ctx, "/contracts", &contracts); err != nil {
		return nil, err
	}
	return nonNil(contracts), nil
}

// Stats returns the dashboard aggregates.
func (client *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := client.get(ctx, "/stats", &stats)
	return stats, err
}

// HighValueClients lists clients holding a contract above the average
// contract amount. An empty slice is a normal answer.
func (client *Client) HighValueClients(ctx context.Context) ([]HighValueClient, error) {
	var rows []HighValueClient
	if err := client.get(ctx, "/clients/high_value", &rows); err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// AddClient creates a client and returns the backend's message.
func (client *Client) AddClient(ctx context.Context, input ClientInput) (string, error) {
	var response messageResponse
	if err := client.post(ctx, "/add_client", input, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// AddContract creates a contract and returns the backend's message. The
// backend's trigger rejects an end date that is not after the start.
func (client *Client) AddContract(ctx context.Context, input ContractInput) (string, error) {
	var response messageResponse
	if err := client.post(ctx, "/add_contract", input, &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// AddPayment records a payment and returns the commission movement it
// caused.
func (client *Client) AddPayment(ctx context.Context, input PaymentInput) (PaymentReceipt, error) {
	var receipt PaymentReceipt
	err := client.post(ctx, "/add_payment", input, &receipt)
	return receipt, err
}

// DeleteClient deletes a client with all of its contracts and their
// payments.
func (client *Client) DeleteClient(ctx context.Context, clientID int) (string, error) {
	var response messageResponse
	if err := client.delete(ctx, "/client/"+strconv.Itoa(clientID), &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// DeleteContract deletes a contract with all of its payments.
func (client *Client) DeleteContract(ctx context.Context, contractID int) (string, error) {
	var response messageResponse
	if err := client.delete(ctx, "/contract/"+strconv.Itoa(contractID), &response); err != nil {
		return "", err
	}
	return response.Message, nil
}

// AgentEarnings lists an agent's commission rows.
func (client *Client) AgentEarnings(ctx context.Context, agentID int) ([]Earning, error) {
	var rows []Earning
	if err := client.get(ctx, "/agent_earnings/"+strconv.Itoa(agentID), &rows); err != nil {
		return nil, err
	}
	return nonNil(rows), nil
}

// TotalPayment returns the sum of a contract's payments. A contract
// with no payments totals zero.
func (client *Client) TotalPayment(ctx context.Context, contractID int) (Money, error) {
	var response totalResponse
	if err := client.get(ctx, "/total_payment/"+strconv.Itoa(contractID), &response); err != nil {
		return 0, err
	}
	return response.Total, nil
}

// Payments lists a contract's payments, newest first.
func (client *Client) Payments(ctx context.Context, contractID int) ([]Payment, error) {
	var payments []Payment
	if err := client.get(ctx, "/payments/"+strconv.Itoa(contractID), &payments); err != nil {
		return nil, err
	}
	return nonNil(payments), nil
}

// nonNil turns a JSON null list into an empty one so callers can tell
// "no rows" from "not loaded" by nil-ness alone.
func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
