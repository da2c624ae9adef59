package bridge

import (
	"context"

	"github.com/yanun0323/logs"

	"main/internal/account"
	"main/internal/host"
	"main/internal/md"
	"main/internal/om"
)

// Journal records executions for audit. Implementations must not block the
// event consumer.
type Journal interface {
	RecordExecution(exec host.Execution)
}

// Router is the single consumer of the host event stream. Running it in
// exactly one goroutine decouples the host's callback threading from the
// bridge's invariants: every event is applied in arrival order.
type Router struct {
	orders   *om.Manager
	market   *md.Manager
	accounts *account.Monitor
	journal  Journal
	events   <-chan host.Event
}

// NewRouter creates a host event router. journal may be nil.
func NewRouter(orders *om.Manager, market *md.Manager, accounts *account.Monitor, journal Journal, events <-chan host.Event) *Router {
	return &Router{
		orders:   orders,
		market:   market,
		accounts: accounts,
		journal:  journal,
		events:   events,
	}
}

// Run consumes host events until the context is done or the stream closes.
func (r *Router) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-r.events:
			if !ok {
				logs.Info("host event stream closed")
				return
			}
			r.apply(ev)
		}
	}
}

func (r *Router) apply(ev host.Event) {
	switch ev := ev.(type) {
	case host.OrderEvent:
		r.orders.OnOrderEvent(ev)
	case host.Execution:
		r.orders.OnExecution(ev)
		if r.journal != nil {
			r.journal.RecordExecution(ev)
		}
	case host.TickEvent:
		r.market.OnTick(ev)
	case host.AccountEvent:
		r.accounts.OnEvent(ev)
	default:
		logs.Errorf("unhandled host event %T", ev)
	}
}
