package executor

import (
	"fmt"
	"log"
	"sort"
	"time"

	"TradeFalcon/internal/classifier"
	"TradeFalcon/internal/collector"
	"TradeFalcon/internal/config"
	"TradeFalcon/internal/ledger"
	"TradeFalcon/internal/model"
	"TradeFalcon/internal/router"
	"TradeFalcon/internal/screener"
	"TradeFalcon/internal/strategy"
	"TradeFalcon/internal/validator"
)

// Outcome is the terminal state of one symbol's processing cycle.
type Outcome string

const (
	OutcomeExecuted Outcome = "EXECUTED"
	OutcomeSkipped  Outcome = "SKIPPED"
	OutcomeFailed   Outcome = "FAILED"
)

// Stage names the pipeline step a result was decided at.
type Stage string

const (
	StageClassify Stage = "CLASSIFY"
	StageRoute    Stage = "ROUTE"
	StageFetch    Stage = "FETCH_DATA"
	StageValidate Stage = "VALIDATE"
	StageSignal   Stage = "SIGNAL"
	StageExecute  Stage = "EXECUTE"
)

// Result reports one symbol's pass through the pipeline.
type Result struct {
	Symbol   string
	Outcome  Outcome
	Stage    Stage
	Reason   string
	Decision model.RoutingDecision
	Order    *model.Order
}

// Executor orchestrates the per-symbol pipeline
// CLASSIFY → ROUTE → FETCH_DATA → VALIDATE → SIGNAL → EXECUTE|SKIP
// and the periodic monitoring pass over open positions. All ledger mutations,
// entries and exits alike, flow through the same Ledger.Execute path.
type Executor struct {
	cfg       *config.Config
	collector *collector.Collector
	feed      screener.Feed
	router    *router.Router
	validator *validator.Validator
	engines   map[model.StrategyID]strategy.Engine
	ledger    *ledger.Ledger
	now       func() time.Time
}

// New wires the pipeline components.
func New(cfg *config.Config, col *collector.Collector, feed screener.Feed, ldg *ledger.Ledger) *Executor {
	return &Executor{
		cfg:       cfg,
		collector: col,
		feed:      feed,
		router:    router.New(cfg.Routes),
		validator: validator.New(cfg.Validator),
		engines:   strategy.BuildEngines(cfg),
		ledger:    ldg,
		now:       time.Now,
	}
}

// WithClock replaces the executor's clock (and the validator's) for tests.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	e.validator.WithClock(now)
	return e
}

// ProcessSymbol runs one instrument through the entry pipeline. A failure
// here never affects any other symbol's processing.
func (e *Executor) ProcessSymbol(symbol string, rec *model.Recommendation) Result {
	if pos := e.ledger.Position(symbol); pos != nil {
		return Result{Symbol: symbol, Outcome: OutcomeSkipped, Stage: StageSignal,
			Reason: fmt.Sprintf("position already open (%.0f shares)", pos.Quantity())}
	}

	data, err := e.collector.Collect(symbol)
	if err != nil {
		log.Printf("[WARN] %s: market data unavailable: %v", symbol, err)
		return Result{Symbol: symbol, Outcome: OutcomeFailed, Stage: StageFetch, Reason: err.Error()}
	}

	cls := classifier.Classify(data.Instrument, e.cfg.Classifier)
	decision, err := e.router.Route(symbol, cls)
	if err != nil {
		// Configuration defect: the table misses a classification the
		// validated config should guarantee. Halt this symbol only.
		log.Printf("[ERROR] %s: routing invariant violation: %v", symbol, err)
		return Result{Symbol: symbol, Outcome: OutcomeFailed, Stage: StageRoute,
			Reason: err.Error(), Decision: decision}
	}

	proposedStop := 0.0
	if rec != nil {
		proposedStop = rec.StopLoss
	}
	vres := e.validator.ValidateEntry(data.Instrument.LastPrice, proposedStop, rec)
	if !vres.Accepted {
		return Result{Symbol: symbol, Outcome: OutcomeSkipped, Stage: StageValidate,
			Reason: vres.Reason, Decision: decision}
	}

	engine, ok := e.engines[decision.Strategy]
	if !ok {
		log.Printf("[ERROR] %s: no engine for strategy %q", symbol, decision.Strategy)
		return Result{Symbol: symbol, Outcome: OutcomeFailed, Stage: StageSignal,
			Reason: fmt.Sprintf("no engine for strategy %q", decision.Strategy), Decision: decision}
	}
	sig := engine.EvaluateEntry(data.History, e.ledger.Cash())
	if sig.Direction != model.Buy {
		return Result{Symbol: symbol, Outcome: OutcomeSkipped, Stage: StageSignal,
			Reason: sig.Reason, Decision: decision}
	}

	if e.ledger.OpenPositionCount() >= e.cfg.Trading.MaxPositions {
		return Result{Symbol: symbol, Outcome: OutcomeSkipped, Stage: StageExecute,
			Reason: fmt.Sprintf("max positions (%d) reached", e.cfg.Trading.MaxPositions), Decision: decision}
	}

	order, err := e.ledger.Execute(symbol, sig, data.Instrument.LastPrice, e.now())
	if err != nil {
		log.Printf("[WARN] %s: ledger rejected %s: %v", symbol, sig.Direction, err)
		return Result{Symbol: symbol, Outcome: OutcomeSkipped, Stage: StageExecute,
			Reason: err.Error(), Decision: decision}
	}
	log.Printf("[INFO] %s: %s %.0f @ %.2f via %s (%s)",
		symbol, order.Side, order.Quantity, order.Price, decision.Strategy, sig.Reason)
	return Result{Symbol: symbol, Outcome: OutcomeExecuted, Stage: StageExecute,
		Reason: sig.Reason, Decision: decision, Order: &order}
}

// ProcessFeed runs every screener recommendation through the entry pipeline,
// in symbol order for deterministic logs. Per-symbol failures are isolated.
func (e *Executor) ProcessFeed() []Result {
	recs, err := e.feed.Recommendations()
	if err != nil {
		log.Printf("[ERROR] screener feed unavailable: %v", err)
		return nil
	}

	symbols := make([]string, 0, len(recs))
	for sym := range recs {
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)

	results := make([]Result, 0, len(symbols))
	var executed, skipped, failed int
	for _, sym := range symbols {
		rec := recs[sym]
		res := e.ProcessSymbol(sym, &rec)
		results = append(results, res)
		switch res.Outcome {
		case OutcomeExecuted:
			executed++
		case OutcomeSkipped:
			skipped++
		case OutcomeFailed:
			failed++
		}
	}
	log.Printf("[INFO] feed scan: %d symbols, %d executed, %d skipped, %d failed",
		len(symbols), executed, skipped, failed)
	return results
}

// MonitorPositions re-evaluates every open position through its opening
// engine's exit rules and applies SELL signals via the same ledger path as
// entries. A single position's failure never stops the pass.
func (e *Executor) MonitorPositions() []Result {
	positions := e.ledger.Positions()
	sort.Slice(positions, func(i, j int) bool { return positions[i].Symbol < positions[j].Symbol })

	results := make([]Result, 0, len(positions))
	for _, pos := range positions {
		results = append(results, e.monitorOne(pos))
	}
	return results
}

func (e *Executor) monitorOne(pos *model.Position) Result {
	data, err := e.collector.Collect(pos.Symbol)
	if err != nil {
		log.Printf("[WARN] monitor %s: market data unavailable: %v", pos.Symbol, err)
		return Result{Symbol: pos.Symbol, Outcome: OutcomeFailed, Stage: StageFetch, Reason: err.Error()}
	}

	engine, ok := e.engines[pos.Strategy]
	if !ok {
		log.Printf("[ERROR] monitor %s: no engine for strategy %q", pos.Symbol, pos.Strategy)
		return Result{Symbol: pos.Symbol, Outcome: OutcomeFailed, Stage: StageSignal,
			Reason: fmt.Sprintf("no engine for strategy %q", pos.Strategy)}
	}

	sig := engine.EvaluateExit(pos, data.History)
	if sig.Direction != model.Sell {
		return Result{Symbol: pos.Symbol, Outcome: OutcomeSkipped, Stage: StageSignal, Reason: sig.Reason}
	}

	price := data.History[len(data.History)-1].Close
	order, err := e.ledger.Execute(pos.Symbol, sig, price, e.now())
	if err != nil {
		log.Printf("[WARN] monitor %s: ledger rejected SELL: %v", pos.Symbol, err)
		return Result{Symbol: pos.Symbol, Outcome: OutcomeSkipped, Stage: StageExecute, Reason: err.Error()}
	}
	log.Printf("[INFO] monitor %s: SELL %.0f @ %.2f, realized %.2f (%s)",
		pos.Symbol, order.Quantity, order.Price, order.RealizedPnL, sig.Reason)
	return Result{Symbol: pos.Symbol, Outcome: OutcomeExecuted, Stage: StageExecute,
		Reason: sig.Reason, Order: &order}
}

// PortfolioSnapshot derives the current portfolio view at live prices and
// persists a performance row.
func (e *Executor) PortfolioSnapshot() model.PortfolioSnapshot {
	prices := make(map[string]float64)
	for _, pos := range e.ledger.Positions() {
		data, err := e.collector.Collect(pos.Symbol)
		if err != nil {
			log.Printf("[WARN] snapshot %s: %v", pos.Symbol, err)
			continue
		}
		prices[pos.Symbol] = data.Instrument.LastPrice
	}
	return e.ledger.RecordSnapshot(prices, e.now())
}
