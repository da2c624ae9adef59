package codec

import (
	"main/internal/schema"
	"main/pkg/exception"
)

// PositionUpdateFrameSize is tag + instrument + positionType + quantity +
// avgPrice + unrealizedPnl.
const PositionUpdateFrameSize = 1 + schema.InstrumentWidth + 1 + 4 + 8 + 8

// EncodePositionUpdate serializes a position update frame.
func EncodePositionUpdate(dst []byte, update schema.PositionUpdate) []byte {
	dst = sized(dst, PositionUpdateFrameSize)

	dst[0] = byte(schema.MessagePositionUpdate)
	putString(dst[1:33], update.Instrument, schema.InstrumentWidth)
	dst[33] = byte(update.Position)
	putInt32(dst[34:38], update.Quantity)
	putFloat64(dst[38:46], update.AvgPrice)
	putFloat64(dst[46:54], update.UnrealizedPnl)

	return dst
}

// DecodePositionUpdate parses a position update frame.
func DecodePositionUpdate(src []byte) (schema.PositionUpdate, error) {
	if len(src) < PositionUpdateFrameSize {
		return schema.PositionUpdate{}, exception.ErrMalformedMessage
	}
	return schema.PositionUpdate{
		Instrument:    getString(src[1:33], schema.InstrumentWidth),
		Position:      schema.PositionType(src[33]),
		Quantity:      getInt32(src[34:38]),
		AvgPrice:      getFloat64(src[38:46]),
		UnrealizedPnl: getFloat64(src[46:54]),
	}, nil
}
