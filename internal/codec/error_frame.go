package codec

import (
	"main/internal/schema"
	"main/pkg/exception"
)

// ErrorFrameSize is tag + errorCode + message.
const ErrorFrameSize = 1 + 4 + schema.ErrorMsgWidth

// EncodeError serializes an error frame.
func EncodeError(dst []byte, frame schema.ErrorFrame) []byte {
	dst = sized(dst, ErrorFrameSize)

	dst[0] = byte(schema.MessageError)
	putInt32(dst[1:5], frame.Code)
	putString(dst[5:133], frame.Message, schema.ErrorMsgWidth)

	return dst
}

// DecodeError parses an error frame.
func DecodeError(src []byte) (schema.ErrorFrame, error) {
	if len(src) < ErrorFrameSize {
		return schema.ErrorFrame{}, exception.ErrMalformedMessage
	}
	return schema.ErrorFrame{
		Code:    getInt32(src[1:5]),
		Message: getString(src[5:133], schema.ErrorMsgWidth),
	}, nil
}
