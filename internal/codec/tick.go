package codec

import (
	"main/internal/schema"
	"main/pkg/exception"
)

// TickFrameSize is tag + timestamp + price + volume + bid + ask + instrument.
const TickFrameSize = 1 + 8 + 8 + 8 + 8 + 8 + schema.InstrumentWidth

// EncodeTick serializes a tick frame into dst, reusing it when large enough.
func EncodeTick(dst []byte, tick schema.Tick) []byte {
	dst = sized(dst, TickFrameSize)

	dst[0] = byte(schema.MessageTick)
	putFloat64(dst[1:9], tick.Timestamp)
	putFloat64(dst[9:17], tick.Price)
	putInt64(dst[17:25], tick.Volume)
	putFloat64(dst[25:33], tick.Bid)
	putFloat64(dst[33:41], tick.Ask)
	putString(dst[41:73], tick.Instrument, schema.InstrumentWidth)

	return dst
}

// DecodeTick parses a tick frame.
func DecodeTick(src []byte) (schema.Tick, error) {
	if len(src) < TickFrameSize {
		return schema.Tick{}, exception.ErrMalformedMessage
	}
	return schema.Tick{
		Timestamp:  getFloat64(src[1:9]),
		Price:      getFloat64(src[9:17]),
		Volume:     getInt64(src[17:25]),
		Bid:        getFloat64(src[25:33]),
		Ask:        getFloat64(src[33:41]),
		Instrument: getString(src[41:73], schema.InstrumentWidth),
	}, nil
}
