package om

import (
	"main/internal/host"
	"main/internal/schema"
)

// WireStateOf maps a host order state to its wire state. Total over the
// host.OrderState set; the exhaustiveness test in statemap_test.go fails
// when a new host state is added without a mapping here.
func WireStateOf(s host.OrderState) schema.WireState {
	switch s {
	case host.OrderInitialized, host.OrderSubmitted:
		return schema.StateSubmitted
	case host.OrderAccepted:
		return schema.StateAccepted
	case host.OrderWorking, host.OrderChangePending, host.OrderCancelPending:
		return schema.StateWorking
	case host.OrderPartFilled:
		return schema.StatePartFilled
	case host.OrderFilled:
		return schema.StateFilled
	case host.OrderCancelled:
		return schema.StateCancelled
	case host.OrderRejected:
		return schema.StateRejected
	default:
		return schema.StateUnknown
	}
}
