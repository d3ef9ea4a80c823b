package handlers

import (
	"net/http"

	"tls-constraints/internal/middlewares"
)

// GETReservations dumps the identifier reservation table for operators.
func GETReservations(ctx *middlewares.AppContext) {
	table, err := ctx.Store.Get(ctx)
	if err != nil {
		ctx.Logger.Error("failed to read reservation table", "error", err)
		ctx.SetJSONError(http.StatusServiceUnavailable, "reservation store unavailable")
		return
	}

	ctx.WriteJSON(http.StatusOK, table)
}

// GETOutstanding lists every pending certificate request across tenants.
func GETOutstanding(ctx *middlewares.AppContext) {
	outstanding, err := ctx.Registry.Outstanding(ctx)
	if err != nil {
		ctx.Logger.Error("failed to snapshot outstanding requests", "error", err)
		ctx.SetJSONError(http.StatusInternalServerError, "failed to snapshot outstanding requests")
		return
	}

	ctx.WriteJSON(http.StatusOK, outstanding)
}
