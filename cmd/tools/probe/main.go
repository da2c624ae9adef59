// Probe is a manual smoke client for the bridge socket: it subscribes to an
// instrument, places one market order, and prints everything the bridge
// sends back until interrupted.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/yanun0323/pkg/sys"

	"main/internal/codec"
	"main/internal/schema"
	"main/pkg/uds"
)

func main() {
	socketPath := flag.String("socket", "/tmp/trading-bridge.sock", "Bridge socket path")
	instrument := flag.String("instrument", "ES 12-25", "Instrument to subscribe and trade")
	quantity := flag.Int("qty", 1, "Order quantity")
	order := flag.Bool("order", true, "Place a market order after subscribing")
	flag.Parse()

	client, err := uds.NewClient(*socketPath, "")
	if err != nil {
		log.Fatalf("create client: %v", err)
	}
	conn, err := client.DialRetry(5*time.Second, 100*time.Millisecond)
	if err != nil {
		log.Fatalf("dial %s: %v", *socketPath, err)
	}
	defer conn.Close()

	send := func(msg []byte) {
		if _, err := conn.Write(msg); err != nil {
			log.Fatalf("write: %v", err)
		}
	}

	send([]byte("SUBSCRIBE|" + *instrument))
	send([]byte("INSTRUMENT_INFO|" + *instrument))
	send([]byte("REQUEST_ACCOUNT"))

	if *order {
		cmd := schema.OrderCommand{
			Action:      schema.ActionBuy,
			Instrument:  *instrument,
			Quantity:    int32(*quantity),
			Kind:        schema.KindMarket,
			TimeInForce: "DAY",
			SignalName:  fmt.Sprintf("probe-%d", time.Now().Unix()),
		}
		send(append([]byte("ORDER|"), codec.EncodeOrderCommand(nil, cmd)...))
	}

	go func() {
		buf := make([]byte, 64*1024)
		for {
			n, err := conn.Read(buf)
			if err != nil || n == 0 {
				log.Printf("read: %v", err)
				return
			}
			printFrame(buf[:n])
		}
	}()

	<-sys.Shutdown()
}

func printFrame(frame []byte) {
	if len(frame) == 0 {
		return
	}
	switch schema.MessageType(frame[0]) {
	case schema.MessageTick:
		if tick, err := codec.DecodeTick(frame); err == nil {
			fmt.Printf("tick  %s price=%.2f bid=%.2f ask=%.2f vol=%d\n",
				tick.Instrument, tick.Price, tick.Bid, tick.Ask, tick.Volume)
		}
	case schema.MessageOrderUpdate:
		if up, err := codec.DecodeOrderUpdate(frame); err == nil {
			fmt.Printf("order %s state=%s filled=%d remaining=%d avg=%.2f\n",
				up.OrderID, up.State, up.Filled, up.Remaining, up.AvgPrice)
		}
	case schema.MessagePositionUpdate:
		if up, err := codec.DecodePositionUpdate(frame); err == nil {
			fmt.Printf("pos   %s %s qty=%d avg=%.2f upnl=%.2f\n",
				up.Instrument, up.Position, up.Quantity, up.AvgPrice, up.UnrealizedPnl)
		}
	case schema.MessageAccountUpdate:
		if up, err := codec.DecodeAccountUpdate(frame); err == nil {
			fmt.Printf("acct  %s cash=%.2f net=%.2f rpnl=%.2f upnl=%.2f\n",
				up.Account, up.Cash, up.NetLiquidation, up.RealizedPnl, up.UnrealizedPnl)
		}
	case schema.MessageInstrumentInfo:
		if info, err := codec.DecodeInstrumentInfo(frame); err == nil {
			fmt.Printf("info  %s tick=%.4f point=%.2f exchange=%s\n",
				info.Instrument, info.TickSize, info.PointValue, info.Exchange)
		}
	case schema.MessageError:
		if ef, err := codec.DecodeError(frame); err == nil {
			fmt.Printf("error code=%d msg=%s\n", ef.Code, ef.Message)
		}
	default:
		fmt.Printf("frame tag=%d len=%d\n", frame[0], len(frame))
	}
}
