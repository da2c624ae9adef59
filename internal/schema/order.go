package schema

// OrderAction is the trade direction of an order command.
type OrderAction uint8

const (
	ActionUnknown OrderAction = 0
	ActionBuy     OrderAction = 1
	ActionSell    OrderAction = 2
)

func (a OrderAction) String() string {
	switch a {
	case ActionBuy:
		return "BUY"
	case ActionSell:
		return "SELL"
	default:
		return "UNKNOWN"
	}
}

// OrderKind is the order type byte of an order command.
type OrderKind uint8

const (
	KindUnknown    OrderKind = 0
	KindMarket     OrderKind = 1
	KindLimit      OrderKind = 2
	KindStopMarket OrderKind = 3
	KindStopLimit  OrderKind = 4
)

func (k OrderKind) String() string {
	switch k {
	case KindMarket:
		return "MARKET"
	case KindLimit:
		return "LIMIT"
	case KindStopMarket:
		return "STOP_MARKET"
	case KindStopLimit:
		return "STOP_LIMIT"
	default:
		return "UNKNOWN"
	}
}

// Valid reports whether the kind is one the host can submit.
func (k OrderKind) Valid() bool {
	return k >= KindMarket && k <= KindStopLimit
}

// WireState is the order state byte carried in OrderUpdate frames.
type WireState uint8

const (
	StateUnknown    WireState = 0
	StateSubmitted  WireState = 1
	StateAccepted   WireState = 2
	StateWorking    WireState = 3
	StateFilled     WireState = 4
	StatePartFilled WireState = 5
	StateCancelled  WireState = 6
	StateRejected   WireState = 7
)

func (s WireState) String() string {
	switch s {
	case StateSubmitted:
		return "SUBMITTED"
	case StateAccepted:
		return "ACCEPTED"
	case StateWorking:
		return "WORKING"
	case StateFilled:
		return "FILLED"
	case StatePartFilled:
		return "PART_FILLED"
	case StateCancelled:
		return "CANCELLED"
	case StateRejected:
		return "REJECTED"
	default:
		return "UNKNOWN"
	}
}

// Terminal reports whether no further transitions are possible.
func (s WireState) Terminal() bool {
	switch s {
	case StateFilled, StateCancelled, StateRejected:
		return true
	default:
		return false
	}
}

// Rank orders states for the monotonicity check. PartFilled is re-entrant:
// equal ranks are allowed, a lower rank is a regression.
func (s WireState) Rank() int {
	switch s {
	case StateSubmitted:
		return 1
	case StateAccepted:
		return 2
	case StateWorking:
		return 3
	case StatePartFilled:
		return 4
	case StateFilled, StateCancelled, StateRejected:
		return 5
	default:
		return 0
	}
}

// OrderCommand is the decoded 94-byte place-order payload.
type OrderCommand struct {
	Action      OrderAction
	Instrument  string
	Quantity    int32
	Kind        OrderKind
	TimeInForce string
	LimitPrice  float64
	StopPrice   float64
	SignalName  string
}

// CancelCommand is the decoded cancel payload.
type CancelCommand struct {
	OrderID string
}

// ModifyCommand is the decoded 52-byte modify payload. Zero fields mean
// "leave unchanged".
type ModifyCommand struct {
	OrderID    string
	Quantity   int32
	LimitPrice float64
	StopPrice  float64
}
