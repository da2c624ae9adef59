package codec

import (
	"main/internal/schema"
	"main/pkg/exception"
)

// Inbound command payloads carry no leading tag; the command verb on the
// transport message selects the layout.
const (
	// OrderCommandSize is action + instrument + quantity + orderType + tif +
	// limitPrice + stopPrice + signalName.
	OrderCommandSize = 1 + schema.InstrumentWidth + 4 + 1 + schema.TIFWidth + 8 + 8 + schema.SignalWidth

	// CancelCommandSize is orderId only.
	CancelCommandSize = schema.OrderIDWidth

	// ModifyCommandSize is orderId + quantity + limitPrice + stopPrice.
	ModifyCommandSize = schema.OrderIDWidth + 4 + 8 + 8
)

// EncodeOrderCommand serializes a place-order payload.
func EncodeOrderCommand(dst []byte, cmd schema.OrderCommand) []byte {
	dst = sized(dst, OrderCommandSize)

	dst[0] = byte(cmd.Action)
	putString(dst[1:33], cmd.Instrument, schema.InstrumentWidth)
	putInt32(dst[33:37], cmd.Quantity)
	dst[37] = byte(cmd.Kind)
	putString(dst[38:46], cmd.TimeInForce, schema.TIFWidth)
	putFloat64(dst[46:54], cmd.LimitPrice)
	putFloat64(dst[54:62], cmd.StopPrice)
	putString(dst[62:94], cmd.SignalName, schema.SignalWidth)

	return dst
}

// DecodeOrderCommand parses a place-order payload.
func DecodeOrderCommand(src []byte) (schema.OrderCommand, error) {
	if len(src) < OrderCommandSize {
		return schema.OrderCommand{}, exception.ErrMalformedMessage
	}
	return schema.OrderCommand{
		Action:      schema.OrderAction(src[0]),
		Instrument:  getString(src[1:33], schema.InstrumentWidth),
		Quantity:    getInt32(src[33:37]),
		Kind:        schema.OrderKind(src[37]),
		TimeInForce: getString(src[38:46], schema.TIFWidth),
		LimitPrice:  getFloat64(src[46:54]),
		StopPrice:   getFloat64(src[54:62]),
		SignalName:  getString(src[62:94], schema.SignalWidth),
	}, nil
}

// EncodeCancelCommand serializes a cancel payload.
func EncodeCancelCommand(dst []byte, cmd schema.CancelCommand) []byte {
	dst = sized(dst, CancelCommandSize)
	putString(dst[0:32], cmd.OrderID, schema.OrderIDWidth)
	return dst
}

// DecodeCancelCommand parses a cancel payload.
func DecodeCancelCommand(src []byte) (schema.CancelCommand, error) {
	if len(src) < CancelCommandSize {
		return schema.CancelCommand{}, exception.ErrMalformedMessage
	}
	return schema.CancelCommand{
		OrderID: getString(src[0:32], schema.OrderIDWidth),
	}, nil
}

// EncodeModifyCommand serializes a modify payload.
func EncodeModifyCommand(dst []byte, cmd schema.ModifyCommand) []byte {
	dst = sized(dst, ModifyCommandSize)

	putString(dst[0:32], cmd.OrderID, schema.OrderIDWidth)
	putInt32(dst[32:36], cmd.Quantity)
	putFloat64(dst[36:44], cmd.LimitPrice)
	putFloat64(dst[44:52], cmd.StopPrice)

	return dst
}

// DecodeModifyCommand parses a modify payload.
func DecodeModifyCommand(src []byte) (schema.ModifyCommand, error) {
	if len(src) < ModifyCommandSize {
		return schema.ModifyCommand{}, exception.ErrMalformedMessage
	}
	return schema.ModifyCommand{
		OrderID:    getString(src[0:32], schema.OrderIDWidth),
		Quantity:   getInt32(src[32:36]),
		LimitPrice: getFloat64(src[36:44]),
		StopPrice:  getFloat64(src[44:52]),
	}, nil
}
