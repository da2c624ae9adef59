package codec

import (
	"main/internal/schema"
	"main/pkg/exception"
)

// OrderUpdateFrameSize is tag + orderId + state + filled + remaining +
// avgPrice + timestamp.
const OrderUpdateFrameSize = 1 + schema.OrderIDWidth + 1 + 4 + 4 + 8 + 8

// EncodeOrderUpdate serializes an order update frame.
func EncodeOrderUpdate(dst []byte, update schema.OrderUpdate) []byte {
	dst = sized(dst, OrderUpdateFrameSize)

	dst[0] = byte(schema.MessageOrderUpdate)
	putString(dst[1:33], update.OrderID, schema.OrderIDWidth)
	dst[33] = byte(update.State)
	putInt32(dst[34:38], update.Filled)
	putInt32(dst[38:42], update.Remaining)
	putFloat64(dst[42:50], update.AvgPrice)
	putFloat64(dst[50:58], update.Timestamp)

	return dst
}

// DecodeOrderUpdate parses an order update frame.
func DecodeOrderUpdate(src []byte) (schema.OrderUpdate, error) {
	if len(src) < OrderUpdateFrameSize {
		return schema.OrderUpdate{}, exception.ErrMalformedMessage
	}
	return schema.OrderUpdate{
		OrderID:   getString(src[1:33], schema.OrderIDWidth),
		State:     schema.WireState(src[33]),
		Filled:    getInt32(src[34:38]),
		Remaining: getInt32(src[38:42]),
		AvgPrice:  getFloat64(src[42:50]),
		Timestamp: getFloat64(src[50:58]),
	}, nil
}
