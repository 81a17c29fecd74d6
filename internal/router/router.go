package router

import (
	"errors"
	"fmt"

	"TradeFalcon/internal/config"
	"TradeFalcon/internal/model"
)

// ErrUnmappedClassification indicates a classification missing from the routing
// table. With a total classifier and a validated config this cannot happen, so
// it is surfaced as a loud error rather than silently defaulted.
var ErrUnmappedClassification = errors.New("classification not in routing table")

// Router maps classifications to strategy engines using a static table.
type Router struct {
	routes map[model.Classification]config.RouteConfig
}

// New creates a Router from the configured routing table.
func New(routes map[model.Classification]config.RouteConfig) *Router {
	return &Router{routes: routes}
}

// Route selects the strategy for a classified instrument. An unmapped
// classification yields an unrouted decision and ErrUnmappedClassification.
func (r *Router) Route(symbol string, cls model.Classification) (model.RoutingDecision, error) {
	route, ok := r.routes[cls]
	if !ok {
		return model.RoutingDecision{
			Symbol:         symbol,
			Strategy:       model.StrategyUnrouted,
			Classification: cls,
			Reason:         fmt.Sprintf("no route for classification %q", cls),
		}, fmt.Errorf("route %s: %w: %q", symbol, ErrUnmappedClassification, cls)
	}
	return model.RoutingDecision{
		Symbol:         symbol,
		Strategy:       route.Strategy,
		Confidence:     route.Confidence,
		Classification: cls,
		Reason:         fmt.Sprintf("classified as %s", cls),
	}, nil
}
