package handlers

import (
	"errors"
	"net/http"

	errorsmod "cosmossdk.io/errors"

	accesstypes "github.com/openalpha/supercluster/x/access/types"
	adaptertypes "github.com/openalpha/supercluster/x/adapter/types"
	assetstypes "github.com/openalpha/supercluster/x/assets/types"
	pilottypes "github.com/openalpha/supercluster/x/pilot/types"
	stokentypes "github.com/openalpha/supercluster/x/stoken/types"
	superclustertypes "github.com/openalpha/supercluster/x/supercluster/types"
	withdrawtypes "github.com/openalpha/supercluster/x/withdraw/types"
	yieldsourcetypes "github.com/openalpha/supercluster/x/yieldsource/types"
)

var forbidden = []error{
	accesstypes.ErrUnauthorized,
	adaptertypes.ErrUnauthorized,
	withdrawtypes.ErrNotAuthorized,
}

var notFound = []error{
	withdrawtypes.ErrInvalidRequest,
	pilottypes.ErrPilotNotFound,
	pilottypes.ErrAdapterNotFound,
	adaptertypes.ErrAdapterNotFound,
	yieldsourcetypes.ErrSourceNotFound,
	superclustertypes.ErrPilotNotRegistered,
}

// state-machine violations: the request is well formed but the current
// state refuses it
var conflict = []error{
	accesstypes.ErrModulePaused,
	accesstypes.ErrLastAdmin,
	assetstypes.ErrInsufficientFunds,
	stokentypes.ErrInsufficientBalance,
	stokentypes.ErrInsufficientAllowance,
	stokentypes.ErrInvalidState,
	yieldsourcetypes.ErrSourceExists,
	yieldsourcetypes.ErrInsufficientShares,
	yieldsourcetypes.ErrInsufficientLiquidity,
	adaptertypes.ErrAdapterExists,
	adaptertypes.ErrInsufficientFunds,
	adaptertypes.ErrAdapterNotEmpty,
	pilottypes.ErrPilotExists,
	pilottypes.ErrZeroHoldings,
	pilottypes.ErrInsufficientFunds,
	pilottypes.ErrAdapterStillActive,
	withdrawtypes.ErrAlreadyFinalized,
	withdrawtypes.ErrAlreadyClaimed,
	withdrawtypes.ErrNotFinalized,
	withdrawtypes.ErrNotYetAvailable,
	withdrawtypes.ErrInsufficientFunds,
	superclustertypes.ErrPilotAlreadyRegistered,
	superclustertypes.ErrPilotNotEmpty,
	superclustertypes.ErrRebaseDeviation,
}

// StatusFor maps an operation error onto an HTTP status. Registered kinds
// not listed are validation failures; unregistered errors are internal.
func StatusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if isAny(err, forbidden) {
		return http.StatusForbidden
	}
	if isAny(err, notFound) {
		return http.StatusNotFound
	}
	if isAny(err, conflict) {
		return http.StatusConflict
	}
	if codespace, _, _ := errorsmod.ABCIInfo(err, false); codespace == errorsmod.UndefinedCodespace {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}

func isAny(err error, kinds []error) bool {
	for _, kind := range kinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
