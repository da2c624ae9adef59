package codec

import (
	"main/internal/schema"
	"main/pkg/exception"
)

// InstrumentInfoFrameSize is tag + instrument + tickSize + pointValue +
// minMove + exchange.
const InstrumentInfoFrameSize = 1 + schema.InstrumentWidth + 8*3 + schema.ExchangeWidth

// EncodeInstrumentInfo serializes an instrument info frame.
func EncodeInstrumentInfo(dst []byte, info schema.InstrumentInfo) []byte {
	dst = sized(dst, InstrumentInfoFrameSize)

	dst[0] = byte(schema.MessageInstrumentInfo)
	putString(dst[1:33], info.Instrument, schema.InstrumentWidth)
	putFloat64(dst[33:41], info.TickSize)
	putFloat64(dst[41:49], info.PointValue)
	putFloat64(dst[49:57], info.MinMove)
	putString(dst[57:73], info.Exchange, schema.ExchangeWidth)

	return dst
}

// DecodeInstrumentInfo parses an instrument info frame.
func DecodeInstrumentInfo(src []byte) (schema.InstrumentInfo, error) {
	if len(src) < InstrumentInfoFrameSize {
		return schema.InstrumentInfo{}, exception.ErrMalformedMessage
	}
	return schema.InstrumentInfo{
		Instrument: getString(src[1:33], schema.InstrumentWidth),
		TickSize:   getFloat64(src[33:41]),
		PointValue: getFloat64(src[41:49]),
		MinMove:    getFloat64(src[49:57]),
		Exchange:   getString(src[57:73], schema.ExchangeWidth),
	}, nil
}
