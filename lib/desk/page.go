// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

import (
	"fmt"
	"strconv"

	"github.com/bureau-foundation/realty/lib/realtyapi"
)

// Page identifies one screen of the desk.
type Page int

const (
	PageDashboard Page = iota
	PageAddClient
	PageAddContract
	PageAddPayment
	PageAgentEarnings
	PageTotalPayments
	PageHighValueClients
)

var pageIDs = [...]string{
	PageDashboard:        "dashboard",
	PageAddClient:        "add-client",
	PageAddContract:      "add-contract",
	PageAddPayment:       "add-payment",
	PageAgentEarnings:    "agent-earnings",
	PageTotalPayments:    "total-payments",
	PageHighValueClients: "high-value-clients",
}

var pageTitles = [...]string{
	PageDashboard:        "Dashboard",
	PageAddClient:        "Clients",
	PageAddContract:      "Contracts",
	PageAddPayment:       "Payments",
	PageAgentEarnings:    "Agent Earnings",
	PageTotalPayments:    "Total Payments",
	PageHighValueClients: "High-Value Clients",
}

// Pages returns every page in navigation order.
func Pages() []Page {
	pages := make([]Page, len(pageIDs))
	for index := range pages {
		pages[index] = Page(index)
	}
	return pages
}

// ParsePage maps a page identifier such as "add-payment" to its Page.
func ParsePage(id string) (Page, error) {
	for index, candidate := range pageIDs {
		if candidate == id {
			return Page(index), nil
		}
	}
	return 0, fmt.Errorf("unknown page %q", id)
}

// String returns the page identifier.
func (page Page) String() string {
	if page < 0 || int(page) >= len(pageIDs) {
		return "page(" + strconv.Itoa(int(page)) + ")"
	}
	return pageIDs[page]
}

// Title returns the navigation label.
func (page Page) Title() string {
	if page < 0 || int(page) >= len(pageTitles) {
		return page.String()
	}
	return pageTitles[page]
}

// Dropdown identifies one dropdown on one page. Two pages listing the
// same entities still have distinct dropdowns with their own
// selections.
type Dropdown int

const (
	DropdownDeleteClient Dropdown = iota
	DropdownContractClient
	DropdownDeleteContract
	DropdownPaymentContract
	DropdownEarningsAgent
	DropdownTotalContract
)

// dropdownCount is the number of Dropdown values, for sizing arrays.
const dropdownCount = int(DropdownTotalContract) + 1

// Dropdowns returns every dropdown.
func Dropdowns() []Dropdown {
	dropdowns := make([]Dropdown, dropdownCount)
	for index := range dropdowns {
		dropdowns[index] = Dropdown(index)
	}
	return dropdowns
}

// Placeholder is the text shown while nothing is selected.
func (dropdown Dropdown) Placeholder() string {
	switch dropdown {
	case DropdownDeleteClient:
		return "Select a client to delete"
	case DropdownContractClient:
		return "Select a client"
	case DropdownDeleteContract:
		return "Select a contract to delete"
	case DropdownPaymentContract, DropdownTotalContract:
		return "Select a contract"
	case DropdownEarningsAgent:
		return "Select an agent"
	}
	return "Select"
}

// Options builds the dropdown's choices from the cache.
func (dropdown Dropdown) Options(cache *Cache) []Option {
	switch dropdown {
	case DropdownDeleteClient, DropdownContractClient:
		return ClientOptions(cache.Clients())
	case DropdownDeleteContract, DropdownPaymentContract, DropdownTotalContract:
		return ContractOptions(cache.Contracts())
	case DropdownEarningsAgent:
		return AgentOptions(cache.Agents())
	}
	return nil
}

// ClientOptions labels clients "Fname - Lname".
func ClientOptions(clients []realtyapi.ClientRecord) []Option {
	options := make([]Option, 0, len(clients))
	for _, client := range clients {
		options = append(options, Option{
			Value: strconv.Itoa(client.ClientID),
			Label: client.Fname + " - " + client.Lname,
		})
	}
	return options
}

// AgentOptions labels agents "Fname - Lname".
func AgentOptions(agents []realtyapi.AgentRecord) []Option {
	options := make([]Option, 0, len(agents))
	for _, agent := range agents {
		options = append(options, Option{
			Value: strconv.Itoa(agent.AgentID),
			Label: agent.Fname + " - " + agent.Lname,
		})
	}
	return options
}

// ContractOptions labels contracts "ContractID - ClientName".
func ContractOptions(contracts []realtyapi.ContractRecord) []Option {
	options := make([]Option, 0, len(contracts))
	for _, contract := range contracts {
		id := strconv.Itoa(contract.ContractID)
		options = append(options, Option{
			Value: id,
			Label: id + " - " + contract.ClientName,
		})
	}
	return options
}

// Report names a read the desk performs on its own, without a user
// selection.
type Report int

const (
	ReportNone Report = iota
	ReportStats
	ReportHighValue
)

// Effect is what entering a page requires: dropdowns to repopulate
// from the cache and at most one report to fetch.
type Effect struct {
	Page      Page
	Dropdowns []Dropdown
	Fetch     Report
}

// EntryEffect returns the effect of entering page.
func EntryEffect(page Page) Effect {
	effect := Effect{Page: page}
	switch page {
	case PageDashboard:
		effect.Fetch = ReportStats
	case PageAddClient:
		effect.Dropdowns = []Dropdown{DropdownDeleteClient}
	case PageAddContract:
		effect.Dropdowns = []Dropdown{DropdownContractClient, DropdownDeleteContract}
	case PageAddPayment:
		effect.Dropdowns = []Dropdown{DropdownPaymentContract}
	case PageAgentEarnings:
		effect.Dropdowns = []Dropdown{DropdownEarningsAgent}
	case PageTotalPayments:
		effect.Dropdowns = []Dropdown{DropdownTotalContract}
	case PageHighValueClients:
		effect.Fetch = ReportHighValue
	}
	return effect
}

// Router tracks the one visible page. The zero value shows the
// dashboard.
type Router struct {
	current Page
}

// Show makes page the visible page and returns its entry effect.
// Showing the current page again re-runs its entry effect.
func (router *Router) Show(page Page) Effect {
	router.current = page
	return EntryEffect(page)
}

// Reenter returns the current page's entry effect, for use after the
// cache has been refreshed.
func (router *Router) Reenter() Effect {
	return EntryEffect(router.current)
}

// Current returns the visible page.
func (router *Router) Current() Page { return router.current }

// Active reports whether page's navigation entry is the highlighted
// one. Exactly one page is active at any time.
func (router *Router) Active(page Page) bool { return page == router.current }
