package handler

import (
	"net/http"

	"github.com/dplus/internal/config"
	"github.com/dplus/internal/locale"
	"github.com/dplus/internal/logging"
	"github.com/dplus/internal/metrics"
	"github.com/dplus/internal/routing"
	"github.com/gin-gonic/gin"
)

const decisionContextKey = "__route_decision"

// RoutingMiddleware canonicalizes the request path before any page handler runs.
// Redirects keep the original query string and use 307 so the method survives.
func (a *API) RoutingMiddleware() gin.HandlerFunc {
	mode := a.routingMode()
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}

		decision := a.Decide(c.Request.URL.Path, locale.FromRequest(c.Request))
		metrics.RecordRouteDecision(mode, decision.Rule, decision.Action.String())
		c.Set(decisionContextKey, decision)

		if !decision.IsRedirect() {
			c.Next()
			return
		}

		location := decision.Location
		if raw := c.Request.URL.RawQuery; raw != "" {
			location += "?" + raw
		}
		logging.Ctx(c.Request.Context()).Debug().
			Str("mode", mode).
			Str("rule", decision.Rule).
			Str("from", c.Request.URL.Path).
			Str("to", location).
			Msg("route redirect")

		c.Redirect(http.StatusTemporaryRedirect, location)
		c.Abort()
	}
}

func (a *API) routingMode() string {
	if a.cfg.Routing.Mode == config.RoutingModeCity {
		return config.RoutingModeCity
	}
	return config.RoutingModeCountry
}

func routeDecision(c *gin.Context) (routing.Decision, bool) {
	value, exists := c.Get(decisionContextKey)
	if !exists {
		return routing.Decision{}, false
	}
	decision, ok := value.(routing.Decision)
	return decision, ok
}
