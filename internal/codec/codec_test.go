package codec

import (
	"errors"
	"strings"
	"testing"

	"main/internal/schema"
	"main/pkg/exception"
)

func TestTickRoundTrip(t *testing.T) {
	in := schema.Tick{
		Timestamp:  1_700_000_000.5,
		Price:      4512.25,
		Volume:     7,
		Bid:        4512.00,
		Ask:        4512.50,
		Instrument: "ES 12-25",
	}

	frame := EncodeTick(nil, in)
	if len(frame) != TickFrameSize {
		t.Fatalf("frame size mismatch! should be %d but got %d", TickFrameSize, len(frame))
	}
	if schema.MessageType(frame[0]) != schema.MessageTick {
		t.Fatalf("tag mismatch! should be %d but got %d", schema.MessageTick, frame[0])
	}

	out, err := DecodeTick(frame)
	if err != nil {
		t.Fatalf("DecodeTick: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch! should be %+v but got %+v", in, out)
	}
}

func TestOrderUpdateRoundTrip(t *testing.T) {
	in := schema.OrderUpdate{
		OrderID:   "strategy-42",
		State:     schema.StatePartFilled,
		Filled:    3,
		Remaining: 2,
		AvgPrice:  101.5,
		Timestamp: 1_700_000_001,
	}

	out, err := DecodeOrderUpdate(EncodeOrderUpdate(nil, in))
	if err != nil {
		t.Fatalf("DecodeOrderUpdate: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch! should be %+v but got %+v", in, out)
	}
}

func TestPositionUpdateRoundTrip(t *testing.T) {
	in := schema.PositionUpdate{
		Instrument:    "NQ 12-25",
		Position:      schema.PositionShort,
		Quantity:      4,
		AvgPrice:      15800.25,
		UnrealizedPnl: -120.5,
	}

	out, err := DecodePositionUpdate(EncodePositionUpdate(nil, in))
	if err != nil {
		t.Fatalf("DecodePositionUpdate: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch! should be %+v but got %+v", in, out)
	}
}

func TestAccountUpdateRoundTrip(t *testing.T) {
	in := schema.AccountUpdate{
		Account:        "Sim101",
		Timestamp:      1_700_000_002.25,
		Cash:           98_500,
		BuyingPower:    394_000,
		RealizedPnl:    -1_500,
		UnrealizedPnl:  250,
		NetLiquidation: 98_750,
		UpdateType:     "FILL",
	}

	out, err := DecodeAccountUpdate(EncodeAccountUpdate(nil, in))
	if err != nil {
		t.Fatalf("DecodeAccountUpdate: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch! should be %+v but got %+v", in, out)
	}
}

func TestInstrumentInfoRoundTrip(t *testing.T) {
	in := schema.InstrumentInfo{
		Instrument: "ES 12-25",
		TickSize:   0.25,
		PointValue: 50,
		MinMove:    0.25,
		Exchange:   "CME",
	}

	out, err := DecodeInstrumentInfo(EncodeInstrumentInfo(nil, in))
	if err != nil {
		t.Fatalf("DecodeInstrumentInfo: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch! should be %+v but got %+v", in, out)
	}
}

func TestErrorRoundTrip(t *testing.T) {
	in := schema.ErrorFrame{
		Code:    int32(schema.CodeInstrumentUnresolved),
		Message: "order: unknown instrument",
	}

	out, err := DecodeError(EncodeError(nil, in))
	if err != nil {
		t.Fatalf("DecodeError: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch! should be %+v but got %+v", in, out)
	}
}

func TestOrderCommandRoundTrip(t *testing.T) {
	in := schema.OrderCommand{
		Action:      schema.ActionSell,
		Instrument:  "ES 12-25",
		Quantity:    2,
		Kind:        schema.KindStopLimit,
		TimeInForce: "GTC",
		LimitPrice:  4500.25,
		StopPrice:   4498.75,
		SignalName:  "breakout-3",
	}

	payload := EncodeOrderCommand(nil, in)
	if len(payload) != OrderCommandSize {
		t.Fatalf("payload size mismatch! should be %d but got %d", OrderCommandSize, len(payload))
	}
	out, err := DecodeOrderCommand(payload)
	if err != nil {
		t.Fatalf("DecodeOrderCommand: %v", err)
	}
	if out != in {
		t.Fatalf("round trip mismatch! should be %+v but got %+v", in, out)
	}
}

func TestCancelAndModifyRoundTrip(t *testing.T) {
	cancel := schema.CancelCommand{OrderID: "strategy-42"}
	gotCancel, err := DecodeCancelCommand(EncodeCancelCommand(nil, cancel))
	if err != nil {
		t.Fatalf("DecodeCancelCommand: %v", err)
	}
	if gotCancel != cancel {
		t.Fatalf("cancel mismatch! should be %+v but got %+v", cancel, gotCancel)
	}

	modify := schema.ModifyCommand{
		OrderID:    "strategy-42",
		Quantity:   5,
		LimitPrice: 4501.25,
		StopPrice:  0,
	}
	gotModify, err := DecodeModifyCommand(EncodeModifyCommand(nil, modify))
	if err != nil {
		t.Fatalf("DecodeModifyCommand: %v", err)
	}
	if gotModify != modify {
		t.Fatalf("modify mismatch! should be %+v but got %+v", modify, gotModify)
	}
}

// Strings longer than their wire field are cut at the field width, not
// rejected.
func TestStringFieldTruncation(t *testing.T) {
	long := strings.Repeat("x", schema.InstrumentWidth+10)

	tick, err := DecodeTick(EncodeTick(nil, schema.Tick{Instrument: long}))
	if err != nil {
		t.Fatalf("DecodeTick: %v", err)
	}
	if tick.Instrument != long[:schema.InstrumentWidth] {
		t.Fatalf("instrument truncation mismatch! should be %q but got %q",
			long[:schema.InstrumentWidth], tick.Instrument)
	}

	ef, err := DecodeError(EncodeError(nil, schema.ErrorFrame{
		Message: strings.Repeat("m", schema.ErrorMsgWidth+1),
	}))
	if err != nil {
		t.Fatalf("DecodeError: %v", err)
	}
	if len(ef.Message) != schema.ErrorMsgWidth {
		t.Fatalf("message width mismatch! should be %d but got %d",
			schema.ErrorMsgWidth, len(ef.Message))
	}
}

func TestDecodeShortBuffer(t *testing.T) {
	testCases := []struct {
		desc   string
		size   int
		decode func([]byte) error
	}{
		{"tick", TickFrameSize, func(b []byte) error { _, err := DecodeTick(b); return err }},
		{"order update", OrderUpdateFrameSize, func(b []byte) error { _, err := DecodeOrderUpdate(b); return err }},
		{"position update", PositionUpdateFrameSize, func(b []byte) error { _, err := DecodePositionUpdate(b); return err }},
		{"account update", AccountUpdateFrameSize, func(b []byte) error { _, err := DecodeAccountUpdate(b); return err }},
		{"instrument info", InstrumentInfoFrameSize, func(b []byte) error { _, err := DecodeInstrumentInfo(b); return err }},
		{"error", ErrorFrameSize, func(b []byte) error { _, err := DecodeError(b); return err }},
		{"order command", OrderCommandSize, func(b []byte) error { _, err := DecodeOrderCommand(b); return err }},
		{"cancel command", CancelCommandSize, func(b []byte) error { _, err := DecodeCancelCommand(b); return err }},
		{"modify command", ModifyCommandSize, func(b []byte) error { _, err := DecodeModifyCommand(b); return err }},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			if err := tc.decode(make([]byte, tc.size-1)); !errors.Is(err, exception.ErrMalformedMessage) {
				t.Fatalf("expected ErrMalformedMessage, got %v", err)
			}
			if err := tc.decode(nil); !errors.Is(err, exception.ErrMalformedMessage) {
				t.Fatalf("expected ErrMalformedMessage for empty input, got %v", err)
			}
		})
	}
}

// Encoding into a reused buffer must not allocate when the buffer is
// already frame-sized.
func TestEncodeReusesBuffer(t *testing.T) {
	buf := make([]byte, TickFrameSize)
	out := EncodeTick(buf, schema.Tick{Instrument: "ES 12-25", Price: 100})
	if &out[0] != &buf[0] {
		t.Fatalf("expected encode to reuse the provided buffer")
	}
}
