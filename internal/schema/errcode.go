package schema

// ErrorCode ranges: 1000-1099 order placement, 1100-1199 manager level,
// 1200-1299 command parsing, 2000-2099 market data, 9999 unclassified.
type ErrorCode int32

const (
	CodeInstrumentUnresolved ErrorCode = 1001
	CodeHostDisconnected     ErrorCode = 1002
	CodeUnsupportedOrderType ErrorCode = 1003
	CodeInvalidQuantity      ErrorCode = 1004
	CodeDuplicateOrderID     ErrorCode = 1005
	CodeSubmitFailed         ErrorCode = 1006

	CodeOrderNotFound      ErrorCode = 1101
	CodeOrderNotCancelable ErrorCode = 1102
	CodeOrderNotModifiable ErrorCode = 1103
	CodeCancelFailed       ErrorCode = 1104
	CodeModifyFailed       ErrorCode = 1105
	CodeClientRejected     ErrorCode = 1199

	CodeMalformedCommand ErrorCode = 1201
	CodeEmptyCommand     ErrorCode = 1202

	CodeSubscribeFailed       ErrorCode = 2001
	CodeInstrumentInfoMissing ErrorCode = 2002

	CodeUnclassified ErrorCode = 9999
)
