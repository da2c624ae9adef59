package host

import (
	"time"

	"main/internal/schema"
)

// OrderState is the closed set of order states the host can report.
// WireStateOf in internal/om must stay total over this set; its
// exhaustiveness test iterates up to orderStateEnd.
type OrderState uint8

const (
	OrderInitialized OrderState = iota
	OrderSubmitted
	OrderAccepted
	OrderWorking
	OrderChangePending
	OrderCancelPending
	OrderPartFilled
	OrderFilled
	OrderCancelled
	OrderRejected

	orderStateEnd
)

// OrderStateCount is the number of defined host order states.
const OrderStateCount = int(orderStateEnd)

func (s OrderState) String() string {
	switch s {
	case OrderInitialized:
		return "INITIALIZED"
	case OrderSubmitted:
		return "SUBMITTED"
	case OrderAccepted:
		return "ACCEPTED"
	case OrderWorking:
		return "WORKING"
	case OrderChangePending:
		return "CHANGE_PENDING"
	case OrderCancelPending:
		return "CANCEL_PENDING"
	case OrderPartFilled:
		return "PART_FILLED"
	case OrderFilled:
		return "FILLED"
	case OrderCancelled:
		return "CANCELLED"
	case OrderRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Event is one host-originated occurrence. The concrete types below are the
// complete set.
type Event interface {
	eventMarker()
}

// OrderEvent reports an order state change.
type OrderEvent struct {
	Handle    Handle
	State     OrderState
	Filled    int32
	Remaining int32
	AvgPrice  float64
	Time      time.Time
}

// Execution reports one fill.
type Execution struct {
	Handle     Handle
	Instrument string
	Action     schema.OrderAction
	Quantity   int32
	Price      float64
	Time       time.Time
}

// TickEvent reports one market data tick.
type TickEvent struct {
	Instrument string
	Price      float64
	Volume     int64
	Bid        float64
	Ask        float64
	Time       time.Time
}

// AccountEvent reports an account balance snapshot.
type AccountEvent struct {
	Account        string
	Cash           float64
	BuyingPower    float64
	RealizedPnl    float64
	UnrealizedPnl  float64
	NetLiquidation float64
	UpdateType     string
	Time           time.Time
}

func (OrderEvent) eventMarker() {}
func (Execution) eventMarker() {}
func (TickEvent) eventMarker() {}
func (AccountEvent) eventMarker() {}
