package scheduler

import (
	"context"
	"testing"
	"time"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/openalpha/supercluster/app"
	"github.com/openalpha/supercluster/config"
	"github.com/openalpha/supercluster/metrics"
	accesstypes "github.com/openalpha/supercluster/x/access/types"
)

func newApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(dbm.NewMemDB(), config.Default().Genesis, log.NewNopLogger())
	require.NoError(t, err)
	require.NoError(t, a.Exec(func(ctx sdk.Context) error {
		_, err := a.Supercluster.Deposit(ctx, "admin", math.NewInt(1000), "")
		return err
	}))
	require.NoError(t, a.Exec(func(ctx sdk.Context) error {
		return a.YieldSource.Accrue(ctx, "admin", "lending", "operator", math.NewInt(70))
	}))
	return a
}

func TestRunRebase(t *testing.T) {
	a := newApp(t)
	m := metrics.NewCollector(prometheus.NewRegistry())
	s := New(a, "keeper", m, log.NewNopLogger())

	value, err := s.RunRebase()
	require.NoError(t, err)
	require.Equal(t, "1070", value.String())
	require.Equal(t, 1.0, testutil.ToFloat64(m.OperationsTotal.WithLabelValues("scheduled_rebase", "ok")))

	require.NoError(t, a.Query(func(ctx sdk.Context) error {
		require.Equal(t, "1070", a.Ledger.TotalManagedValue(ctx).String())
		return nil
	}))
}

func TestRunRebaseRequiresController(t *testing.T) {
	s := New(newApp(t), "operator", nil, log.NewNopLogger())
	_, err := s.RunRebase()
	require.ErrorIs(t, err, accesstypes.ErrUnauthorized)
}

func TestRunReport(t *testing.T) {
	a := newApp(t)
	m := metrics.NewCollector(prometheus.NewRegistry())
	s := New(a, "keeper", m, log.NewNopLogger())

	r, err := s.RunReport()
	require.NoError(t, err)
	require.Equal(t, "1000", r.Vault.TotalManagedValue.String())
	require.Equal(t, "1070", r.Vault.LiveValue.String())
	require.Zero(t, r.PendingRequests)
	require.Equal(t, 1070.0, testutil.ToFloat64(m.LiveValue.WithLabelValues()))
}

func TestRegisterAll(t *testing.T) {
	s := New(newApp(t), "keeper", nil, log.NewNopLogger())
	require.Error(t, s.RegisterAll("not a cron", ""))

	s = New(newApp(t), "keeper", nil, log.NewNopLogger())
	require.NoError(t, s.RegisterAll("*/1 * * * * *", "0 0 * * * *"))
	require.Len(t, s.cron.Entries(), 2)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	s.Stop(ctx)
}
