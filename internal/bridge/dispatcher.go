package bridge

import (
	"bytes"
	"context"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/yanun0323/logs"

	"main/internal/account"
	"main/internal/codec"
	"main/internal/md"
	"main/internal/obs"
	"main/internal/om"
	"main/internal/schema"
	"main/pkg/exception"
)

// Dispatcher classifies inbound transport messages and routes them. Two
// command surfaces share the transport: delimited ASCII text for simple
// control, and fixed-layout binary payloads behind the ORDER/CANCEL/MODIFY
// verbs.
type Dispatcher struct {
	orders   *om.Manager
	market   *md.Manager
	accounts *account.Monitor
	emit     Emitter
	metrics  *obs.Metrics
	seq      atomic.Uint64
}

// Emitter enqueues one encoded frame for the client.
type Emitter interface {
	Emit(frame []byte) error
}

// NewDispatcher creates a command dispatcher.
func NewDispatcher(orders *om.Manager, market *md.Manager, accounts *account.Monitor, emit Emitter, metrics *obs.Metrics) *Dispatcher {
	return &Dispatcher{
		orders:   orders,
		market:   market,
		accounts: accounts,
		emit:     emit,
		metrics:  metrics,
	}
}

// Dispatch handles one whole transport message. It never panics and never
// returns an error: every failure is logged and, where a reply makes sense,
// answered with an error frame. The read loop must survive anything that
// arrives here.
func (d *Dispatcher) Dispatch(ctx context.Context, msg []byte) {
	defer func() {
		if r := recover(); r != nil {
			logs.Errorf("dispatch panic recovered: %+v", r)
			d.emitError(schema.CodeUnclassified, "internal error")
		}
	}()

	d.metrics.Command()

	verb, payload := splitVerb(msg)
	switch verb {
	case "SUBSCRIBE":
		d.handleSubscribe(textArg(payload))
	case "UNSUBSCRIBE":
		d.handleUnsubscribe(textArg(payload))
	case "INSTRUMENT_INFO":
		d.handleInstrumentInfo(textArg(payload))
	case "REQUEST_ACCOUNT":
		if err := d.accounts.HandleRequest(ctx); err != nil {
			logs.Errorf("account request, err: %+v", err)
		}
	case "ORDER":
		d.handleOrder(ctx, payload)
	case "CANCEL":
		d.handleCancel(ctx, payload)
	case "MODIFY":
		d.handleModify(ctx, payload)
	case "":
		d.metrics.ProtocolError()
		d.emitError(schema.CodeEmptyCommand, "empty command")
	default:
		// Unknown verbs are dropped without closing the connection.
		d.metrics.ProtocolError()
		logs.Infof("dropping unknown command verb %q", verb)
	}
}

func (d *Dispatcher) handleSubscribe(instrument string) {
	if instrument == "" {
		d.emitError(schema.CodeMalformedCommand, "subscribe: missing instrument")
		return
	}
	if err := d.market.Subscribe(instrument); err != nil {
		logs.Errorf("subscribe %s, err: %+v", instrument, err)
		d.emitError(schema.CodeSubscribeFailed, "subscribe failed: "+instrument)
	}
}

func (d *Dispatcher) handleUnsubscribe(instrument string) {
	if instrument == "" {
		d.emitError(schema.CodeMalformedCommand, "unsubscribe: missing instrument")
		return
	}
	if err := d.market.Unsubscribe(instrument); err != nil {
		logs.Errorf("unsubscribe %s, err: %+v", instrument, err)
	}
}

func (d *Dispatcher) handleInstrumentInfo(instrument string) {
	if instrument == "" {
		d.emitError(schema.CodeMalformedCommand, "instrument info: missing instrument")
		return
	}
	if err := d.market.InstrumentInfo(instrument); err != nil {
		logs.Errorf("instrument info %s, err: %+v", instrument, err)
		d.emitError(schema.CodeInstrumentInfoMissing, "no instrument info: "+instrument)
	}
}

func (d *Dispatcher) handleOrder(ctx context.Context, payload []byte) {
	cmd, err := codec.DecodeOrderCommand(payload)
	if err != nil {
		d.metrics.ProtocolError()
		d.emitError(schema.CodeMalformedCommand, "order: short payload")
		return
	}

	externalID := cmd.SignalName
	if externalID == "" {
		externalID = d.nextID()
	}
	if err := d.orders.PlaceOrder(ctx, cmd, externalID); err != nil {
		logs.Infof("place order %s rejected, err: %+v", externalID, err)
	}
}

func (d *Dispatcher) handleCancel(ctx context.Context, payload []byte) {
	// Accepts both the 32-byte zero-padded payload and a bare text id;
	// zero-trimming makes the forms converge.
	id := textArg(payload)
	if id == "" {
		d.metrics.ProtocolError()
		d.emitError(schema.CodeMalformedCommand, "cancel: missing order id")
		return
	}
	if len(id) > schema.OrderIDWidth {
		id = id[:schema.OrderIDWidth]
	}
	if err := d.orders.CancelOrder(ctx, id); err != nil {
		logs.Infof("cancel %s rejected, err: %+v", id, err)
	}
}

func (d *Dispatcher) handleModify(ctx context.Context, payload []byte) {
	var (
		cmd schema.ModifyCommand
		err error
	)
	if len(payload) == codec.ModifyCommandSize {
		cmd, err = codec.DecodeModifyCommand(payload)
	} else {
		cmd, err = parseTextModify(payload)
	}
	if err != nil {
		d.metrics.ProtocolError()
		d.emitError(schema.CodeMalformedCommand, "modify: malformed payload")
		return
	}
	if err := d.orders.ModifyOrder(ctx, cmd); err != nil {
		logs.Infof("modify %s rejected, err: %+v", cmd.OrderID, err)
	}
}

func (d *Dispatcher) emitError(code schema.ErrorCode, msg string) {
	frame := codec.EncodeError(nil, schema.ErrorFrame{Code: int32(code), Message: msg})
	_ = d.emit.Emit(frame)
}

func (d *Dispatcher) nextID() string {
	return "ord-" + strconv.FormatInt(time.Now().Unix(), 10) + "-" + strconv.FormatUint(d.seq.Add(1), 10)
}

// splitVerb separates the ASCII verb from the rest of the message. The
// payload keeps its raw bytes: binary commands may contain zero bytes and
// pipes.
func splitVerb(msg []byte) (string, []byte) {
	if i := bytes.IndexByte(msg, '|'); i >= 0 {
		return strings.ToUpper(strings.TrimSpace(string(msg[:i]))), msg[i+1:]
	}
	return strings.ToUpper(strings.TrimSpace(trimZero(string(msg)))), nil
}

// textArg trims whitespace and zero padding from a text argument.
func textArg(payload []byte) string {
	return strings.TrimSpace(trimZero(string(payload)))
}

func trimZero(s string) string {
	return strings.TrimRight(s, "\x00")
}

// parseTextModify reads the delimited modify form:
// <orderId>|qty=<n>|limit=<p>|stop=<p>, any subset of keys.
func parseTextModify(payload []byte) (schema.ModifyCommand, error) {
	parts := strings.Split(textArg(payload), "|")
	if len(parts) == 0 || parts[0] == "" {
		return schema.ModifyCommand{}, exception.ErrMalformedMessage
	}

	cmd := schema.ModifyCommand{OrderID: strings.TrimSpace(parts[0])}
	for _, part := range parts[1:] {
		key, value, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			return schema.ModifyCommand{}, exception.ErrMalformedMessage
		}
		switch key {
		case "qty":
			qty, err := strconv.ParseInt(value, 10, 32)
			if err != nil {
				return schema.ModifyCommand{}, exception.ErrMalformedMessage
			}
			cmd.Quantity = int32(qty)
		case "limit":
			price, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return schema.ModifyCommand{}, exception.ErrMalformedMessage
			}
			cmd.LimitPrice = price
		case "stop":
			price, err := strconv.ParseFloat(value, 64)
			if err != nil {
				return schema.ModifyCommand{}, exception.ErrMalformedMessage
			}
			cmd.StopPrice = price
		default:
			return schema.ModifyCommand{}, exception.ErrMalformedMessage
		}
	}
	return cmd, nil
}
