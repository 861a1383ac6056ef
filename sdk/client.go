// Package sdk is a Go client for the supercluster HTTP API.
package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/openalpha/supercluster/app"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
	adapterkeeper "github.com/openalpha/supercluster/x/adapter/keeper"
	assetstypes "github.com/openalpha/supercluster/x/assets/types"
	pilotkeeper "github.com/openalpha/supercluster/x/pilot/keeper"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
	stokenkeeper "github.com/openalpha/supercluster/x/stoken/keeper"
	stokentypes "github.com/openalpha/supercluster/x/stoken/types"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
	withdrawkeeper "github.com/openalpha/supercluster/x/withdraw/keeper"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
)

// DefaultAddress is the API address used when none is configured
const DefaultAddress = "http://localhost:8080"

// Client calls the API over HTTP
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for the API at baseURL
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultAddress
	}
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// WithHTTPClient replaces the underlying http.Client
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.http = hc
	return c
}

// APIError is a non-2xx API response
type APIError struct {
	Status    int    `json:"-"`
	Codespace string `json:"codespace"`
	Code      uint32 `json:"code"`
	Message   string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s/%d, http %d)", e.Message, e.Codespace, e.Code, e.Status)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(bz)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var envelope struct {
			Error APIError `json:"error"`
		}
		apiErr := &envelope.Error
		if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		apiErr.Status = resp.StatusCode
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// ============ Queries ============

// Health is the /health body
type Health struct {
	Status    string `json:"status"`
	Height    int64  `json:"height"`
	Clients   int    `json:"ws_clients"`
	Timestamp int64  `json:"timestamp"`
}

// Health reports node liveness and height
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	return &out, c.get(ctx, "/health", &out)
}

// Vault returns the vault snapshot
func (c *Client) Vault(ctx context.Context) (*superclustertypes.VaultState, error) {
	var out superclustertypes.VaultState
	return &out, c.get(ctx, "/v1/vault", &out)
}

// Params returns the orchestrator parameters
func (c *Client) Params(ctx context.Context) (*superclustertypes.Params, error) {
	var out superclustertypes.Params
	return &out, c.get(ctx, "/v1/vault/params", &out)
}

// RegisteredPilots lists the pilots the vault routes through
func (c *Client) RegisteredPilots(ctx context.Context) ([]string, error) {
	var out struct {
		Pilots []string `json:"pilots"`
	}
	return out.Pilots, c.get(ctx, "/v1/vault/pilots", &out)
}

// Ledger returns the ledger header
func (c *Client) Ledger(ctx context.Context) (*stokenkeeper.LedgerResponse, error) {
	var out stokenkeeper.LedgerResponse
	return &out, c.get(ctx, "/v1/stoken", &out)
}

// Account returns the ledger balance and shares of addr
func (c *Client) Account(ctx context.Context, addr string) (*stokenkeeper.AccountResponse, error) {
	var out stokenkeeper.AccountResponse
	return &out, c.get(ctx, "/v1/stoken/accounts/"+url.PathEscape(addr), &out)
}

// Allowance returns the remaining allowance of spender over owner
func (c *Client) Allowance(ctx context.Context, owner, spender string) (string, error) {
	var out struct {
		Allowance string `json:"allowance"`
	}
	err := c.get(ctx, "/v1/stoken/allowances/"+url.PathEscape(owner)+"/"+url.PathEscape(spender), &out)
	return out.Allowance, err
}

// RebaseHistory returns up to limit rebase records, newest first
func (c *Client) RebaseHistory(ctx context.Context, limit int) ([]stokentypes.RebaseRecord, error) {
	var out struct {
		Records []stokentypes.RebaseRecord `json:"records"`
	}
	return out.Records, c.get(ctx, "/v1/stoken/history?limit="+strconv.Itoa(limit), &out)
}

// Pilots lists every pilot
func (c *Client) Pilots(ctx context.Context) ([]*pilottypes.Pilot, error) {
	var out struct {
		Pilots []*pilottypes.Pilot `json:"pilots"`
	}
	return out.Pilots, c.get(ctx, "/v1/pilots", &out)
}

// Pilot returns one pilot with its holdings
func (c *Client) Pilot(ctx context.Context, id string) (*pilotkeeper.PilotResponse, error) {
	var out pilotkeeper.PilotResponse
	return &out, c.get(ctx, "/v1/pilots/"+url.PathEscape(id), &out)
}

// Adapters lists every adapter with its balance
func (c *Client) Adapters(ctx context.Context) ([]*adapterkeeper.AdapterResponse, error) {
	var out struct {
		Adapters []*adapterkeeper.AdapterResponse `json:"adapters"`
	}
	return out.Adapters, c.get(ctx, "/v1/adapters", &out)
}

// Withdrawal returns one withdrawal request
func (c *Client) Withdrawal(ctx context.Context, id uint64) (*withdrawkeeper.RequestResponse, error) {
	var out withdrawkeeper.RequestResponse
	return &out, c.get(ctx, "/v1/withdrawals/"+strconv.FormatUint(id, 10), &out)
}

// UserWithdrawals lists a requester's live requests
func (c *Client) UserWithdrawals(ctx context.Context, addr string) ([]withdrawkeeper.RequestResponse, error) {
	var out struct {
		Requests []withdrawkeeper.RequestResponse `json:"requests"`
	}
	return out.Requests, c.get(ctx, "/v1/withdrawals/user/"+url.PathEscape(addr), &out)
}

// PendingWithdrawals lists every pending request
func (c *Client) PendingWithdrawals(ctx context.Context) ([]withdrawkeeper.RequestResponse, error) {
	var out struct {
		Requests []withdrawkeeper.RequestResponse `json:"requests"`
	}
	return out.Requests, c.get(ctx, "/v1/withdrawals/pending", &out)
}

// Queue summarizes the withdrawal queue's funds
func (c *Client) Queue(ctx context.Context) (*withdrawkeeper.QueueResponse, error) {
	var out withdrawkeeper.QueueResponse
	return &out, c.get(ctx, "/v1/withdrawals/queue", &out)
}

// Balance is a base-asset balance
type Balance struct {
	Address string `json:"address"`
	Denom   string `json:"denom"`
	Balance string `json:"balance"`
}

// Balance returns the base-asset balance of addr
func (c *Client) Balance(ctx context.Context, addr string) (*Balance, error) {
	var out Balance
	return &out, c.get(ctx, "/v1/assets/"+url.PathEscape(addr), &out)
}

// Roles returns the roles held by addr
func (c *Client) Roles(ctx context.Context, addr string) ([]accesstypes.Role, error) {
	var out struct {
		Roles []accesstypes.Role `json:"roles"`
	}
	return out.Roles, c.get(ctx, "/v1/access/roles/"+url.PathEscape(addr), &out)
}

// Events returns recorded events, newest first, optionally of one type
func (c *Client) Events(ctx context.Context, limit int, eventType string) ([]app.Event, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	if eventType != "" {
		q.Set("type", eventType)
	}
	var out struct {
		Events []app.Event `json:"events"`
	}
	return out.Events, c.get(ctx, "/v1/events?"+q.Encode(), &out)
}

// ============ Operations ============

// Deposit deposits base asset into the vault
func (c *Client) Deposit(ctx context.Context, msg superclustertypes.MsgDeposit) (*superclustertypes.MsgDepositResponse, error) {
	var out superclustertypes.MsgDepositResponse
	return &out, c.post(ctx, "/v1/vault/deposit", msg, &out)
}

// Withdraw burns ledger value and queues its payout
func (c *Client) Withdraw(ctx context.Context, msg superclustertypes.MsgWithdraw) (*superclustertypes.MsgWithdrawResponse, error) {
	var out superclustertypes.MsgWithdrawResponse
	return &out, c.post(ctx, "/v1/vault/withdraw", msg, &out)
}

// Rebase sets managed value to the live figure
func (c *Client) Rebase(ctx context.Context, msg superclustertypes.MsgRebase) (*superclustertypes.MsgValueResponse, error) {
	var out superclustertypes.MsgValueResponse
	return &out, c.post(ctx, "/v1/vault/rebase", msg, &out)
}

// UpdateManagedValue sets managed value to a reported figure
func (c *Client) UpdateManagedValue(ctx context.Context, msg superclustertypes.MsgUpdateManagedValue) (*superclustertypes.MsgValueResponse, error) {
	var out superclustertypes.MsgValueResponse
	return &out, c.post(ctx, "/v1/vault/managed-value", msg, &out)
}

// RegisterPilot adds a pilot to the vault
func (c *Client) RegisterPilot(ctx context.Context, msg superclustertypes.MsgRegisterPilot) error {
	return c.post(ctx, "/v1/vault/pilots/register", msg, nil)
}

// DeregisterPilot removes an empty pilot from the vault
func (c *Client) DeregisterPilot(ctx context.Context, msg superclustertypes.MsgDeregisterPilot) error {
	return c.post(ctx, "/v1/vault/pilots/deregister", msg, nil)
}

// UpdateParams replaces the orchestrator parameters
func (c *Client) UpdateParams(ctx context.Context, msg superclustertypes.MsgUpdateParams) error {
	return c.post(ctx, "/v1/vault/params", msg, nil)
}

// Transfer moves ledger value between holders
func (c *Client) Transfer(ctx context.Context, msg stokentypes.MsgTransfer) (*stokentypes.MsgTransferResponse, error) {
	var out stokentypes.MsgTransferResponse
	return &out, c.post(ctx, "/v1/stoken/transfer", msg, &out)
}

// Approve sets a spender allowance
func (c *Client) Approve(ctx context.Context, msg stokentypes.MsgApprove) error {
	return c.post(ctx, "/v1/stoken/approve", msg, nil)
}

// TransferFrom moves ledger value using an allowance
func (c *Client) TransferFrom(ctx context.Context, msg stokentypes.MsgTransferFrom) (*stokentypes.MsgTransferResponse, error) {
	var out stokentypes.MsgTransferResponse
	return &out, c.post(ctx, "/v1/stoken/transfer-from", msg, &out)
}

// CreatePilot creates a pilot
func (c *Client) CreatePilot(ctx context.Context, msg pilottypes.MsgCreatePilot) (*pilottypes.Pilot, error) {
	var out pilottypes.Pilot
	return &out, c.post(ctx, "/v1/pilots", msg, &out)
}

// SetAllocation replaces a pilot's allocation
func (c *Client) SetAllocation(ctx context.Context, msg pilottypes.MsgSetAllocation) (*pilottypes.MsgAmountResponse, error) {
	var out pilottypes.MsgAmountResponse
	return &out, c.post(ctx, "/v1/pilots/"+url.PathEscape(msg.PilotID)+"/allocation", msg, &out)
}

// Invest splits a pilot's idle funds across its allocation
func (c *Client) Invest(ctx context.Context, msg pilottypes.MsgInvest) (*pilottypes.MsgAmountResponse, error) {
	var out pilottypes.MsgAmountResponse
	return &out, c.post(ctx, "/v1/pilots/"+url.PathEscape(msg.PilotID)+"/invest", msg, &out)
}

// Divest pulls funds out of a pilot to a destination
func (c *Client) Divest(ctx context.Context, msg pilottypes.MsgDivest) (*pilottypes.MsgAmountResponse, error) {
	var out pilottypes.MsgAmountResponse
	return &out, c.post(ctx, "/v1/pilots/"+url.PathEscape(msg.PilotID)+"/divest", msg, &out)
}

// DrainAdapter empties an inactive adapter back into its pilot
func (c *Client) DrainAdapter(ctx context.Context, msg pilottypes.MsgDrainAdapter) (*pilottypes.MsgAmountResponse, error) {
	var out pilottypes.MsgAmountResponse
	return &out, c.post(ctx, "/v1/pilots/"+url.PathEscape(msg.PilotID)+"/drain", msg, &out)
}

// RequestWithdraw queues a custodial withdrawal
func (c *Client) RequestWithdraw(ctx context.Context, msg withdrawtypes.MsgRequestWithdraw) (*withdrawtypes.MsgRequestResponse, error) {
	var out withdrawtypes.MsgRequestResponse
	return &out, c.post(ctx, "/v1/withdrawals/request", msg, &out)
}

// FinalizeWithdraw fixes the settlement of a pending request
func (c *Client) FinalizeWithdraw(ctx context.Context, msg withdrawtypes.MsgFinalizeWithdraw) (*withdrawtypes.MsgRequestResponse, error) {
	var out withdrawtypes.MsgRequestResponse
	return &out, c.post(ctx, "/v1/withdrawals/finalize", msg, &out)
}

// Claim pays out a finalized request
func (c *Client) Claim(ctx context.Context, msg withdrawtypes.MsgClaim) (*withdrawtypes.MsgRequestResponse, error) {
	var out withdrawtypes.MsgRequestResponse
	return &out, c.post(ctx, "/v1/withdrawals/claim", msg, &out)
}

// CancelRequest cancels a pending request
func (c *Client) CancelRequest(ctx context.Context, msg withdrawtypes.MsgCancelRequest) (*withdrawtypes.MsgRequestResponse, error) {
	var out withdrawtypes.MsgRequestResponse
	return &out, c.post(ctx, "/v1/withdrawals/cancel", msg, &out)
}

// FundQueue adds settlement liquidity to the queue
func (c *Client) FundQueue(ctx context.Context, msg withdrawtypes.MsgFundQueue) (*withdrawtypes.MsgRequestResponse, error) {
	var out withdrawtypes.MsgRequestResponse
	return &out, c.post(ctx, "/v1/withdrawals/fund", msg, &out)
}

// GrantRole grants a role
func (c *Client) GrantRole(ctx context.Context, msg accesstypes.MsgGrantRole) error {
	return c.post(ctx, "/v1/access/grant", msg, nil)
}

// RevokeRole revokes a role
func (c *Client) RevokeRole(ctx context.Context, msg accesstypes.MsgRevokeRole) error {
	return c.post(ctx, "/v1/access/revoke", msg, nil)
}

// SetPaused flips a module's pause switch
func (c *Client) SetPaused(ctx context.Context, msg accesstypes.MsgSetPaused) error {
	return c.post(ctx, "/v1/access/pause", msg, nil)
}

// Send moves base asset between accounts
func (c *Client) Send(ctx context.Context, msg assetstypes.MsgSend) (*assetstypes.MsgSendResponse, error) {
	var out assetstypes.MsgSendResponse
	return &out, c.post(ctx, "/v1/assets/send", msg, &out)
}

// Mint creates base asset; caller must hold the minter role
func (c *Client) Mint(ctx context.Context, msg assetstypes.MsgMint) (*assetstypes.MsgSendResponse, error) {
	var out assetstypes.MsgSendResponse
	return &out, c.post(ctx, "/v1/assets/mint", msg, &out)
}

// Accrue moves amount from sponsor into a yield source
func (c *Client) Accrue(ctx context.Context, sourceID, caller, sponsor, amount string) error {
	body := map[string]string{"caller": caller, "account": sponsor, "amount": amount}
	return c.post(ctx, "/v1/sources/"+url.PathEscape(sourceID)+"/accrue", body, nil)
}

// Slash moves amount out of a yield source to recipient
func (c *Client) Slash(ctx context.Context, sourceID, caller, recipient, amount string) error {
	body := map[string]string{"caller": caller, "account": recipient, "amount": amount}
	return c.post(ctx, "/v1/sources/"+url.PathEscape(sourceID)+"/slash", body, nil)
}
