// Command admin is an operator CLI for the POS gateway. It drives the running
// service's operation endpoints, which is how stuck transactions get queried
// and reversed during an incident without touching the database by hand.
package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/alecthomas/kingpin/v2"
)

type operationRequest struct {
	OrderID             string `json:"order_id,omitempty"`
	RestaurantID        string `json:"restaurant_id,omitempty"`
	Amount              string `json:"amount,omitempty"`
	TicketNumber        string `json:"ticket_number,omitempty"`
	OriginalDateTime    string `json:"original_datetime,omitempty"`
	TransactionID       *int64 `json:"transaction_id,omitempty"`
	StringTransactionID string `json:"s_transaction_id,omitempty"`
}

type cli struct {
	app     *kingpin.Application
	baseURL *string
	timeout *time.Duration

	saleCmd    *kingpin.CmdClause
	saleOrder  *string
	saleRest   *string
	saleAmount *string

	cancelCmd    *kingpin.CmdClause
	cancelOrder  *string
	cancelRest   *string
	cancelAmount *string
	cancelTicket *string

	refundCmd    *kingpin.CmdClause
	refundOrder  *string
	refundRest   *string
	refundAmount *string
	refundTicket *string

	queryCmd   *kingpin.CmdClause
	queryOrder *string
	queryTxn   *int64
	querySTxn  *string

	reverseCmd    *kingpin.CmdClause
	reverseOrder  *string
	reverseTxn    *int64
	reverseSTxn   *string
	reverseTicket *string
	reverseDate   *string
}

func newCLI() *cli {
	c := &cli{app: kingpin.New("pos-admin", "Operator CLI for the POS transaction gateway.")}

	c.baseURL = c.app.Flag("base-url", "Base URL of the pos-gateway service.").
		Default("http://localhost:8080").Envar("POS_GATEWAY_URL").String()
	c.timeout = c.app.Flag("timeout", "Request timeout.").Default("35s").Duration()

	c.saleCmd = c.app.Command("sale", "Authorize a card payment for an order.")
	c.saleOrder = c.saleCmd.Flag("order", "Order id.").Required().String()
	c.saleRest = c.saleCmd.Flag("restaurant", "Restaurant id.").String()
	c.saleAmount = c.saleCmd.Flag("amount", "Amount in major units, e.g. 2000.00.").Required().String()

	c.cancelCmd = c.app.Command("cancel", "Void a sale by ticket number (same day).")
	c.cancelOrder = c.cancelCmd.Flag("order", "Order id.").Required().String()
	c.cancelRest = c.cancelCmd.Flag("restaurant", "Restaurant id.").String()
	c.cancelAmount = c.cancelCmd.Flag("amount", "Amount in major units.").Required().String()
	c.cancelTicket = c.cancelCmd.Flag("ticket", "Explicit 4-char ticket number.").String()

	c.refundCmd = c.app.Command("refund", "Refund a settled sale.")
	c.refundOrder = c.refundCmd.Flag("order", "Order id.").Required().String()
	c.refundRest = c.refundCmd.Flag("restaurant", "Restaurant id.").String()
	c.refundAmount = c.refundCmd.Flag("amount", "Amount in major units.").Required().String()
	c.refundTicket = c.refundCmd.Flag("ticket", "Explicit 4-char ticket number.").String()

	c.queryCmd = c.app.Command("query", "Query the final status of a transaction.")
	c.queryOrder = c.queryCmd.Flag("order", "Order id.").String()
	c.queryTxn = c.queryCmd.Flag("txn", "Numeric transaction id.").Int64()
	c.querySTxn = c.queryCmd.Flag("stxn", "String transaction id.").String()

	c.reverseCmd = c.app.Command("reverse", "Reverse a transaction with no received response.")
	c.reverseOrder = c.reverseCmd.Flag("order", "Order id.").String()
	c.reverseTxn = c.reverseCmd.Flag("txn", "Numeric transaction id.").Int64()
	c.reverseSTxn = c.reverseCmd.Flag("stxn", "String transaction id.").String()
	c.reverseTicket = c.reverseCmd.Flag("ticket", "Explicit 4-char ticket number; required when no order id is given.").String()
	c.reverseDate = c.reverseCmd.Flag("original-datetime", "Original 17-digit transaction timestamp.").String()

	return c
}

func (c *cli) buildRequest(command string) (string, operationRequest) {
	switch command {
	case c.saleCmd.FullCommand():
		return "/pos/sale", operationRequest{OrderID: *c.saleOrder, RestaurantID: *c.saleRest, Amount: *c.saleAmount}
	case c.cancelCmd.FullCommand():
		return "/pos/cancel", operationRequest{OrderID: *c.cancelOrder, RestaurantID: *c.cancelRest, Amount: *c.cancelAmount, TicketNumber: *c.cancelTicket}
	case c.refundCmd.FullCommand():
		return "/pos/refund", operationRequest{OrderID: *c.refundOrder, RestaurantID: *c.refundRest, Amount: *c.refundAmount, TicketNumber: *c.refundTicket}
	case c.queryCmd.FullCommand():
		req := operationRequest{OrderID: *c.queryOrder, StringTransactionID: *c.querySTxn}
		if *c.queryTxn != 0 {
			req.TransactionID = c.queryTxn
		}
		return "/pos/query", req
	case c.reverseCmd.FullCommand():
		req := operationRequest{
			OrderID:             *c.reverseOrder,
			StringTransactionID: *c.reverseSTxn,
			TicketNumber:        *c.reverseTicket,
			OriginalDateTime:    *c.reverseDate,
		}
		if *c.reverseTxn != 0 {
			req.TransactionID = c.reverseTxn
		}
		return "/pos/reverse", req
	}
	return "", operationRequest{}
}

func main() {
	c := newCLI()
	command := kingpin.MustParse(c.app.Parse(os.Args[1:]))

	path, req := c.buildRequest(command)
	if err := c.post(path, req); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func (c *cli) post(path string, req operationRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	client := &http.Client{Timeout: *c.timeout}
	resp, err := client.Post(*c.baseURL+path, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	fmt.Printf("HTTP %d (%s)\n", resp.StatusCode, time.Now().Format(time.RFC3339))
	var pretty bytes.Buffer
	if json.Indent(&pretty, respBody, "", "  ") == nil {
		fmt.Println(pretty.String())
	} else {
		fmt.Println(string(respBody))
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("operation failed with status %d", resp.StatusCode)
	}
	return nil
}
