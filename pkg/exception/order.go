package exception

import "errors"

// Order errors
var (
	ErrOrderUnsupportedType   = errors.New("order: unsupported order type")
	ErrOrderInvalidQuantity   = errors.New("order: invalid quantity")
	ErrOrderDuplicateID       = errors.New("order: duplicate external id")
	ErrOrderNotFound          = errors.New("order: not found")
	ErrOrderNotCancelable     = errors.New("order: state does not allow cancel")
	ErrOrderNotModifiable     = errors.New("order: state does not allow modify")
	ErrOrderHostDisconnected  = errors.New("order: host disconnected")
	ErrOrderUnknownInstrument = errors.New("order: instrument unresolved")
)
