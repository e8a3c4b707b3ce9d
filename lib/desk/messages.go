// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package desk

// User-facing notices. Backend messages are shown verbatim; these are
// the desk's own texts and the fallbacks for failures the backend did
// not explain.
const (
	MessageLoginSuccess     = "Login Successful! Welcome."
	MessageLoggedOut        = "You have been logged out."
	MessageRefreshFailed    = "Failed to load initial data. Check if backend is running."
	MessageStatsFailed      = "Failed to load dashboard stats."
	MessageSelectClient     = "Please select a client to delete."
	MessageSelectContract   = "Please select a contract to delete."
	MessageRegisterFailed   = "Registration failed."
	MessageLoginFailed      = "Login failed."
	MessageRequestFailed    = "Request failed. Check if backend is running."
	MessageDeleteFailed     = "Delete failed."
	MessageEarningsFailed   = "Failed to fetch earnings."
	MessageTotalFailed      = "Failed to fetch total."
	MessagePaymentsFailed   = "Failed to fetch payments."
	MessageHighValueFailed  = "Failed to fetch high-value clients."
	MessageStatsFetchFailed = "Failed to fetch stats."
)

// Placeholders for empty or unselected reports.
const (
	NoEarnings       = "No earnings found."
	NoPayments       = "No payments found."
	NoContractChosen = "Select a contract."
	NoAgentChosen    = "Select an agent."
	NoHighValue      = "No clients found with above-average contracts."
	Loading          = "Loading..."
)
