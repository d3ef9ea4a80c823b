package handlers

import (
	"net/http"

	"tls-constraints/internal/middlewares"
)

// HandlerHealth reports ok when the upstream CA link exists and degraded
// otherwise. Degraded is still a 200: the service is up, it just cannot
// forward anything yet.
func HandlerHealth(ctx *middlewares.AppContext) {
	if ctx.Upstream == nil || !ctx.Upstream.Connected() {
		ctx.WriteJSON(http.StatusOK, map[string]string{
			"status": "degraded",
			"reason": "need a connection to a TLS certificates provider",
		})
		return
	}

	ctx.SetJSONStatus(http.StatusOK, "ok")
}
