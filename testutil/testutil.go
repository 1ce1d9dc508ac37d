// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/danielhkuo/gauge-autovoter/models"
)

// Well-known development key (first account of the "test ... junk" mnemonic)
const (
	TestPrivateKey = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	TestAddress    = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	TestMnemonic   = "test test test test test test test test test test test junk"
)

// FakeHub serves the parts of a Snapshot hub and a lockers registry the
// autovoter talks to:
//
//	POST /graphql       latest proposal per space
//	POST /api/msg       signed messages
//	GET  /lockers.json  active lockers registry
type FakeHub struct {
	Server *httptest.Server

	mu        sync.Mutex
	proposals map[string]*models.Proposal
	lockers   []models.Locker
	queried   []string
	messages  []json.RawMessage

	// MsgStatus, when set, is returned by /api/msg with a hub error body
	MsgStatus int
	// GraphQLErrors, when set, is returned as the GraphQL errors array
	GraphQLErrors []string
}

// NewFakeHub starts a fake hub that is closed when the test ends
func NewFakeHub(t *testing.T) *FakeHub {
	t.Helper()

	h := &FakeHub{proposals: make(map[string]*models.Proposal)}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /graphql", h.handleGraphQL)
	mux.HandleFunc("POST /api/msg", h.handleMessage)
	mux.HandleFunc("GET /lockers.json", h.handleLockers)

	h.Server = httptest.NewServer(mux)
	t.Cleanup(h.Server.Close)
	return h
}

// URL is the hub base URL
func (h *FakeHub) URL() string { return h.Server.URL }

// LockersURL is the registry URL
func (h *FakeHub) LockersURL() string { return h.Server.URL + "/lockers.json" }

// SetProposal makes p the latest gauge vote of space
func (h *FakeHub) SetProposal(space string, p models.Proposal) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.proposals[strings.ToLower(space)] = &p
}

// SetLockers replaces the registry content with one locker per space
func (h *FakeHub) SetLockers(spaces ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.lockers = h.lockers[:0]
	for _, s := range spaces {
		h.lockers = append(h.lockers, models.Locker{Space: s})
	}
}

// Queried returns the spaces proposals were requested for, in order
func (h *FakeHub) Queried() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.queried...)
}

// Messages returns the raw bodies posted to /api/msg, in order
func (h *FakeHub) Messages() []json.RawMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]json.RawMessage(nil), h.messages...)
}

func (h *FakeHub) handleGraphQL(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query     string         `json:"query"`
		Variables map[string]any `json:"variables"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	space, _ := req.Variables["space"].(string)
	title, _ := req.Variables["title"].(string)

	h.mu.Lock()
	h.queried = append(h.queried, space)
	p := h.proposals[strings.ToLower(space)]
	gqlErrors := h.GraphQLErrors
	h.mu.Unlock()

	resp := map[string]any{}
	if len(gqlErrors) > 0 {
		errs := make([]map[string]string, 0, len(gqlErrors))
		for _, msg := range gqlErrors {
			errs = append(errs, map[string]string{"message": msg})
		}
		resp["errors"] = errs
	}

	proposals := []models.Proposal{}
	if p != nil && strings.Contains(p.Title, title) {
		proposals = append(proposals, *p)
	}
	resp["data"] = map[string]any{"proposals": proposals}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func (h *FakeHub) handleMessage(w http.ResponseWriter, r *http.Request) {
	var body json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.mu.Lock()
	status := h.MsgStatus
	if status == 0 {
		h.messages = append(h.messages, body)
	}
	n := len(h.messages)
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(models.ErrorResponse{Error: "client_error", Description: "vote rejected"})
		return
	}
	json.NewEncoder(w).Encode(map[string]any{
		"id":   "0xreceipt" + strings.Repeat("0", n),
		"ipfs": "bafy-test",
	})
}

func (h *FakeHub) handleLockers(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	lockers := append([]models.Locker{}, h.lockers...)
	h.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(lockers)
}

// OpenProposal returns a proposal whose voting window contains now
func OpenProposal(id string, now time.Time, choices ...string) models.Proposal {
	return models.Proposal{
		ID:      id,
		Title:   "Gauge vote - CRV - week 42",
		Choices: choices,
		Start:   now.Add(-time.Hour).Unix(),
		End:     now.Add(24 * time.Hour).Unix(),
		State:   "active",
	}
}

// ClosedProposal returns a proposal that ended an hour before now
func ClosedProposal(id string, now time.Time, choices ...string) models.Proposal {
	p := OpenProposal(id, now, choices...)
	p.Start = now.Add(-7 * 24 * time.Hour).Unix()
	p.End = now.Add(-time.Hour).Unix()
	p.State = "closed"
	return p
}

// ProposalID is a 32-byte hex id like the ones the hub assigns
func ProposalID(b byte) string {
	return "0x" + strings.Repeat(string("0123456789abcdef"[b%16]), 64)
}
