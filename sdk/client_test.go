package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
)

func TestNewClientNormalizesAddress(t *testing.T) {
	require.Equal(t, DefaultAddress, NewClient("").baseURL)
	require.Equal(t, "http://localhost:9000", NewClient("localhost:9000/").baseURL)
	require.Equal(t, "https://vault.example", NewClient("https://vault.example").baseURL)
}

func TestDepositPostsMessage(t *testing.T) {
	var got superclustertypes.MsgDeposit
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/v1/vault/deposit", r.URL.Path)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(superclustertypes.MsgDepositResponse{Shares: "500"})
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL).Deposit(context.Background(), superclustertypes.MsgDeposit{
		Depositor: "alice",
		Amount:    "500",
	})
	require.NoError(t, err)
	require.Equal(t, "500", resp.Shares)
	require.Equal(t, "alice", got.Depositor)
	require.Equal(t, "500", got.Amount)
}

func TestErrorBodyDecoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"error":{"codespace":"withdraw","code":5,"message":"request not finalized"}}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Claim(context.Background(), withdrawtypes.MsgClaim{Caller: "alice", RequestID: 1})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "withdraw", apiErr.Codespace)
	require.EqualValues(t, 5, apiErr.Code)
	require.Contains(t, apiErr.Error(), "request not finalized")
}

func TestErrorWithoutBodyUsesStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL).Vault(context.Background())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestQueriesEscapeAndEncode(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	ctx := context.Background()
	_, err := c.Account(ctx, "a b")
	require.NoError(t, err)
	_, err = c.Withdrawal(ctx, 7)
	require.NoError(t, err)
	_, err = c.Events(ctx, 5, "stoken_rebase")
	require.NoError(t, err)
	_, err = c.RebaseHistory(ctx, 3)
	require.NoError(t, err)

	require.Equal(t, []string{
		"/v1/stoken/accounts/a%20b",
		"/v1/withdrawals/7",
		"/v1/events?limit=5&type=stoken_rebase",
		"/v1/stoken/history?limit=3",
	}, paths)
}
