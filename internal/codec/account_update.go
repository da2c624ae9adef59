package codec

import (
	"main/internal/schema"
	"main/pkg/exception"
)

// AccountUpdateFrameSize is tag + account + timestamp + five balances +
// updateType.
const AccountUpdateFrameSize = 1 + schema.AccountWidth + 8*6 + schema.UpdateTypeWidth

// EncodeAccountUpdate serializes an account update frame.
func EncodeAccountUpdate(dst []byte, update schema.AccountUpdate) []byte {
	dst = sized(dst, AccountUpdateFrameSize)

	dst[0] = byte(schema.MessageAccountUpdate)
	putString(dst[1:33], update.Account, schema.AccountWidth)
	putFloat64(dst[33:41], update.Timestamp)
	putFloat64(dst[41:49], update.Cash)
	putFloat64(dst[49:57], update.BuyingPower)
	putFloat64(dst[57:65], update.RealizedPnl)
	putFloat64(dst[65:73], update.UnrealizedPnl)
	putFloat64(dst[73:81], update.NetLiquidation)
	putString(dst[81:97], update.UpdateType, schema.UpdateTypeWidth)

	return dst
}

// DecodeAccountUpdate parses an account update frame.
func DecodeAccountUpdate(src []byte) (schema.AccountUpdate, error) {
	if len(src) < AccountUpdateFrameSize {
		return schema.AccountUpdate{}, exception.ErrMalformedMessage
	}
	return schema.AccountUpdate{
		Account:        getString(src[1:33], schema.AccountWidth),
		Timestamp:      getFloat64(src[33:41]),
		Cash:           getFloat64(src[41:49]),
		BuyingPower:    getFloat64(src[49:57]),
		RealizedPnl:    getFloat64(src[57:65]),
		UnrealizedPnl:  getFloat64(src[65:73]),
		NetLiquidation: getFloat64(src[73:81]),
		UpdateType:     getString(src[81:97], schema.UpdateTypeWidth),
	}, nil
}
