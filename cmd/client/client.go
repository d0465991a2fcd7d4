// Command client is a small CLI for exercising a running aurum venue over
// its TCP gateway, in the teacher's flag-driven cmd/client/client.go style,
// extended to cover the full command set (submit/cancel/modify/snapshot/
// get-order) instead of just place/cancel/log.
package main

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"time"

	"github.com/saiputravu/aurum/internal/gateway"
	aurumnet "github.com/saiputravu/aurum/internal/net"
)

func main() {
	serverAddr := flag.String("server", "127.0.0.1:9001", "Address of the exchange server")
	action := flag.String("action", "submit", "Action to perform: submit|cancel|modify|snapshot|get-order")

	symbol := flag.String("symbol", "AAPL", "Instrument symbol")
	side := flag.String("side", "BUY", "Order side: BUY|SELL")
	orderType := flag.String("type", "LIMIT", "Order type: LIMIT|MARKET")
	price := flag.String("price", "", "Limit price (required for limit orders)")
	quantity := flag.String("qty", "10", "Order quantity")
	user := flag.String("user", "", "User id (compulsory)")
	tif := flag.String("tif", "GTC", "Time in force: GTC|IOC|FOK|GTD|DAY")
	stp := flag.String("stp", "NONE", "Self-trade prevention mode")
	postOnly := flag.Bool("post-only", false, "Reject the order if it would cross the book")
	feeTier := flag.String("fee-tier", "", "Optional fee tier name")

	orderID := flag.String("order-id", "", "Order id (required for cancel/modify/get-order)")
	newPrice := flag.String("new-price", "", "New price for modify")
	newQty := flag.String("new-qty", "", "New quantity for modify")

	depth := flag.Int("depth", 10, "Book depth for snapshot")

	flag.Parse()

	if *user == "" && *action != "snapshot" && *action != "get-order" {
		fmt.Println("Error: -user is required for this action")
		flag.Usage()
		os.Exit(1)
	}

	conn, err := net.DialTimeout("tcp", *serverAddr, 5*time.Second)
	if err != nil {
		log.Fatalf("failed to connect to %s: %v", *serverAddr, err)
	}
	defer conn.Close()

	var frame []byte
	switch *action {
	case "submit":
		req := gateway.SubmitRequest{
			Symbol:   *symbol,
			Side:     *side,
			Type:     *orderType,
			Price:    *price,
			Quantity: *quantity,
			UserID:   *user,
			TIF:      *tif,
			STP:      *stp,
			PostOnly: *postOnly,
			FeeTier:  *feeTier,
		}
		frame = aurumnet.EncodeSubmit(req)
	case "cancel":
		if *orderID == "" {
			log.Fatal("-order-id is required for cancel")
		}
		frame = aurumnet.EncodeCancel(gateway.CancelRequest{Symbol: *symbol, OrderID: *orderID, UserID: *user})
	case "modify":
		if *orderID == "" {
			log.Fatal("-order-id is required for modify")
		}
		frame = aurumnet.EncodeModify(gateway.ModifyRequest{
			Symbol:      *symbol,
			OrderID:     *orderID,
			UserID:      *user,
			NewPrice:    *newPrice,
			NewQuantity: *newQty,
		})
	case "snapshot":
		frame = aurumnet.EncodeSnapshotRequest(*symbol, *depth)
	case "get-order":
		if *orderID == "" {
			log.Fatal("-order-id is required for get-order")
		}
		frame = aurumnet.EncodeGetOrderRequest(*symbol, *orderID)
	default:
		log.Fatalf("unknown action: %s", *action)
	}

	if _, err := conn.Write(frame); err != nil {
		log.Fatalf("failed to send request: %v", err)
	}

	printResponse(conn)
}

func printResponse(conn net.Conn) {
	typ, body, err := aurumnet.ReadFrame(conn)
	if err != nil {
		log.Fatalf("failed to read response: %v", err)
	}

	switch aurumnet.ReportType(typ) {
	case aurumnet.ExecutionReport:
		resp, err := aurumnet.DecodeExecutionReport(body)
		if err != nil {
			log.Fatalf("failed to decode execution report: %v", err)
		}
		if resp.Error != nil {
			fmt.Printf("REJECTED [%s]: %s\n", resp.Error.Code, resp.Error.Reason)
			return
		}
		fmt.Printf("order=%s status=%s filled=%s/%s\n", resp.Order.OrderID, resp.Order.Status, resp.Order.Filled, resp.Order.Quantity)
		for _, tr := range resp.Trades {
			fmt.Printf("  trade %s price=%s qty=%s maker=%s taker=%s\n", tr.ID, tr.Price, tr.Quantity, tr.MakerUser, tr.TakerUser)
		}
		for _, id := range resp.CancelledOrders {
			fmt.Printf("  cancelled %s\n", id)
		}

	case aurumnet.OrderReport:
		view, ok, err := aurumnet.DecodeOrderReport(body)
		if err != nil {
			log.Fatalf("failed to decode order report: %v", err)
		}
		if !ok {
			fmt.Println("order not found")
			return
		}
		fmt.Printf("order=%s status=%s price=%s qty=%s filled=%s\n", view.OrderID, view.Status, view.Price, view.Quantity, view.Filled)

	case aurumnet.SnapshotReportType:
		view, ok, err := aurumnet.DecodeSnapshotReport(body)
		if err != nil {
			log.Fatalf("failed to decode snapshot report: %v", err)
		}
		if !ok {
			fmt.Println("unknown symbol")
			return
		}
		fmt.Printf("snapshot %s sequence=%d\n", view.Symbol, view.Sequence)
		for _, l := range view.Bids {
			fmt.Printf("  bid %s x%s (%d orders)\n", l.Price, l.Qty, l.Count)
		}
		for _, l := range view.Asks {
			fmt.Printf("  ask %s x%s (%d orders)\n", l.Price, l.Qty, l.Count)
		}

	case aurumnet.ErrorReport:
		code, reason, err := aurumnet.DecodeErrorReport(body)
		if err != nil {
			log.Fatalf("failed to decode error report: %v", err)
		}
		fmt.Printf("TRANSPORT ERROR [%s]: %s\n", code, reason)

	default:
		fmt.Printf("unrecognized response type %d\n", typ)
	}
}
