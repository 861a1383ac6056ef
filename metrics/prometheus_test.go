package metrics

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"cosmossdk.io/math"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/supercluster/app"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
)

func TestOnEvents(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.OnEvents([]app.Event{
		{Type: "supercluster_deposit", Height: 4, Attributes: map[string]string{"pilot": "p1", "amount": "1000"}},
		{Type: "supercluster_deposit", Height: 4, Attributes: map[string]string{"pilot": "p1", "amount": "250"}},
		{Type: "supercluster_withdraw", Height: 5, Attributes: map[string]string{"delivered": "300"}},
		{Type: "stoken_rebase", Height: 6, Attributes: map[string]string{"new_value": "2200"}},
	})

	require.Equal(t, 2.0, testutil.ToFloat64(c.DepositsTotal.WithLabelValues("p1")))
	require.Equal(t, 1250.0, testutil.ToFloat64(c.DepositValue.WithLabelValues("p1")))
	require.Equal(t, 300.0, testutil.ToFloat64(c.WithdrawValue.WithLabelValues()))
	require.Equal(t, 1.0, testutil.ToFloat64(c.RebasesTotal.WithLabelValues()))
	require.Equal(t, 2200.0, testutil.ToFloat64(c.ManagedValue.WithLabelValues()))
	require.Equal(t, 6.0, testutil.ToFloat64(c.BlockHeight))
	require.Equal(t, 2.0, testutil.ToFloat64(c.EventsTotal.WithLabelValues("supercluster_deposit")))
}

func TestRecordVaultState(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.RecordVaultState(&superclustertypes.VaultState{
		TotalShares:       math.NewInt(900),
		TotalManagedValue: math.NewInt(1000),
		LiveValue:         math.NewInt(1010),
		Idle:              math.NewInt(10),
		Pilots:            []superclustertypes.PilotValue{{PilotID: "p1", Value: math.NewInt(1000)}},
	})
	c.RecordQueue(math.NewInt(300), math.NewInt(120), 2)

	require.Equal(t, 1010.0, testutil.ToFloat64(c.LiveValue.WithLabelValues()))
	require.Equal(t, 1000.0, testutil.ToFloat64(c.PilotValue.WithLabelValues("p1")))
	require.Equal(t, 120.0, testutil.ToFloat64(c.QueueReserved.WithLabelValues()))
	require.Equal(t, 2.0, testutil.ToFloat64(c.PendingRequests.WithLabelValues()))
}

func TestRecordOperationAndHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)
	c.RecordOperation("deposit", nil, 1.5)
	c.RecordOperation("deposit", errors.New("x"), 0.5)
	c.RecordAPIRequest("GET", "/v1/vault", "200", 3)

	require.Equal(t, 1.0, testutil.ToFloat64(c.OperationsTotal.WithLabelValues("deposit", "error")))

	rec := httptest.NewRecorder()
	HandlerFor(reg).ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(rec.Body.String(), "supercluster_api_requests_total"))
}
