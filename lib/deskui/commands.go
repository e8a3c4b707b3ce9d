// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package deskui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/realty/lib/desk"
	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// Backend is the REST surface the desk calls. *realtyapi.Client
// implements it.
type Backend interface {
	desk.Source

	Register(ctx context.Context, credentials realtyapi.Credentials) (string, error)
	Login(ctx context.Context, credentials realtyapi.Credentials) (string, error)
	Stats(ctx context.Context) (realtyapi.Stats, error)
	HighValueClients(ctx context.Context) ([]realtyapi.HighValueClient, error)
	AddClient(ctx context.Context, input realtyapi.ClientInput) (string, error)
	AddContract(ctx context.Context, input realtyapi.ContractInput) (string, error)
	AddPayment(ctx context.Context, input realtyapi.PaymentInput) (realtyapi.PaymentReceipt, error)
	DeleteClient(ctx context.Context, clientID int) (string, error)
	DeleteContract(ctx context.Context, contractID int) (string, error)
	AgentEarnings(ctx context.Context, agentID int) ([]realtyapi.Earning, error)
	TotalPayment(ctx context.Context, contractID int) (realtyapi.Money, error)
	Payments(ctx context.Context, contractID int) ([]realtyapi.Payment, error)
}

var _ Backend = (*realtyapi.Client)(nil)

// Result messages. Each carries the epoch it was issued in; the model
// drops results from an earlier epoch. Report results also carry the
// selection value they were fetched for.

type registerResultMsg struct {
	epoch   int
	message string
	err     error
}

type loginResultMsg struct {
	epoch    int
	username string
	token    string
	err      error
}

type refreshResultMsg struct {
	epoch    int
	snapshot desk.Snapshot
	err      error
}

type statsResultMsg struct {
	epoch int
	stats realtyapi.Stats
	err   error
}

type highValueResultMsg struct {
	epoch int
	rows  []realtyapi.HighValueClient
	err   error
}

type earningsResultMsg struct {
	epoch int
	key   string
	rows  []realtyapi.Earning
	err   error
}

type totalResultMsg struct {
	epoch int
	key   string
	total realtyapi.Money
	err   error
}

type paymentsResultMsg struct {
	epoch    int
	key      string
	payments []realtyapi.Payment
	err      error
}

// mutationResultMsg answers add-client, add-contract and the deletes.
type mutationResultMsg struct {
	epoch   int
	action  action
	message string
	err     error
}

type paymentResultMsg struct {
	epoch   int
	key     string
	receipt realtyapi.PaymentReceipt
	err     error
}

func registerCmd(backend Backend, epoch int, credentials realtyapi.Credentials) tea.Cmd {
	return func() tea.Msg {
		message, err := backend.Register(context.Background(), credentials)
		return registerResultMsg{epoch: epoch, message: message, err: err}
	}
}

func loginCmd(backend Backend, epoch int, credentials realtyapi.Credentials) tea.Cmd {
	return func() tea.Msg {
		token, err := backend.Login(context.Background(), credentials)
		return loginResultMsg{epoch: epoch, username: credentials.Username, token: token, err: err}
	}
}

func refreshCmd(backend Backend, epoch int) tea.Cmd {
	return func() tea.Msg {
		snapshot, err := desk.Fetch(context.Background(), backend)
		return refreshResultMsg{epoch: epoch, snapshot: snapshot, err: err}
	}
}

func statsCmd(backend Backend, epoch int) tea.Cmd {
	return func() tea.Msg {
		stats, err := backend.Stats(context.Background())
		return statsResultMsg{epoch: epoch, stats: stats, err: err}
	}
}

func highValueCmd(backend Backend, epoch int) tea.Cmd {
	return func() tea.Msg {
		rows, err := backend.HighValueClients(context.Background())
		return highValueResultMsg{epoch: epoch, rows: rows, err: err}
	}
}

func earningsCmd(backend Backend, epoch int, key string, agentID int) tea.Cmd {
	return func() tea.Msg {
		rows, err := backend.AgentEarnings(context.Background(), agentID)
		return earningsResultMsg{epoch: epoch, key: key, rows: rows, err: err}
	}
}

func totalCmd(backend Backend, epoch int, key string, contractID int) tea.Cmd {
	return func() tea.Msg {
		total, err := backend.TotalPayment(context.Background(), contractID)
		return totalResultMsg{epoch: epoch, key: key, total: total, err: err}
	}
}

func paymentsCmd(backend Backend, epoch int, key string, contractID int) tea.Cmd {
	return func() tea.Msg {
		payments, err := backend.Payments(context.Background(), contractID)
		return paymentsResultMsg{epoch: epoch, key: key, payments: payments, err: err}
	}
}

func addClientCmd(backend Backend, epoch int, input realtyapi.ClientInput) tea.Cmd {
	return func() tea.Msg {
		message, err := backend.AddClient(context.Background(), input)
		return mutationResultMsg{epoch: epoch, action: actionAddClient, message: message, err: err}
	}
}

func addContractCmd(backend Backend, epoch int, input realtyapi.ContractInput) tea.Cmd {
	return func() tea.Msg {
		message, err := backend.AddContract(context.Background(), input)
		return mutationResultMsg{epoch: epoch, action: actionAddContract, message: message, err: err}
	}
}

func addPaymentCmd(backend Backend, epoch int, key string, input realtyapi.PaymentInput) tea.Cmd {
	return func() tea.Msg {
		receipt, err := backend.AddPayment(context.Background(), input)
		return paymentResultMsg{epoch: epoch, key: key, receipt: receipt, err: err}
	}
}

func deleteCmd(backend Backend, epoch int, target desk.Target) tea.Cmd {
	return func() tea.Msg {
		var message string
		var err error
		act := actionDeleteClient
		switch target.Kind {
		case desk.TargetClient:
			message, err = backend.DeleteClient(context.Background(), target.ID)
		case desk.TargetContract:
			act = actionDeleteContract
			message, err = backend.DeleteContract(context.Background(), target.ID)
		}
		return mutationResultMsg{epoch: epoch, action: act, message: message, err: err}
	}
}
