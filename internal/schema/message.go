package schema

// MessageType is the 1-byte tag leading every outbound frame.
type MessageType uint8

const (
	MessageUnknown        MessageType = 0
	MessageTick           MessageType = 1
	MessageOrderUpdate    MessageType = 2
	MessagePositionUpdate MessageType = 3
	MessageAccountUpdate  MessageType = 4
	MessageInstrumentInfo MessageType = 6
	MessageError          MessageType = 99
)

// Fixed string field widths on the wire.
const (
	InstrumentWidth = 32
	OrderIDWidth    = 32
	AccountWidth    = 32
	SignalWidth     = 32
	UpdateTypeWidth = 16
	ExchangeWidth   = 16
	TIFWidth        = 8
	ErrorMsgWidth   = 128
)

// Tick is one trade print with the surrounding quote.
type Tick struct {
	Timestamp  float64
	Price      float64
	Volume     int64
	Bid        float64
	Ask        float64
	Instrument string
}

// OrderUpdate reports one order state change to the client.
type OrderUpdate struct {
	OrderID   string
	State     WireState
	Filled    int32
	Remaining int32
	AvgPrice  float64
	Timestamp float64
}

// PositionUpdate reports the net position after an execution.
type PositionUpdate struct {
	Instrument    string
	Position      PositionType
	Quantity      int32
	AvgPrice      float64
	UnrealizedPnl float64
}

// AccountUpdate is a snapshot of account balances.
type AccountUpdate struct {
	Account        string
	Timestamp      float64
	Cash           float64
	BuyingPower    float64
	RealizedPnl    float64
	UnrealizedPnl  float64
	NetLiquidation float64
	UpdateType     string
}

// InstrumentInfo describes contract terms for one instrument.
type InstrumentInfo struct {
	Instrument string
	TickSize   float64
	PointValue float64
	MinMove    float64
	Exchange   string
}

// ErrorFrame carries a coded error to the client.
type ErrorFrame struct {
	Code    int32
	Message string
}

// PositionType is the direction of a net position.
type PositionType uint8

const (
	PositionFlat  PositionType = 0
	PositionLong  PositionType = 1
	PositionShort PositionType = 2
)

func (p PositionType) String() string {
	switch p {
	case PositionFlat:
		return "FLAT"
	case PositionLong:
		return "LONG"
	case PositionShort:
		return "SHORT"
	default:
		return "UNKNOWN"
	}
}
