package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	baseURL string
	timeout time.Duration
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "walletledger-cli",
		Short: "Wallet ledger CLI tool",
		Long:  `A command line interface for interacting with the wallet ledger API.`,
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the wallet ledger API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 10*time.Second, "Request timeout")

	rootCmd.AddCommand(walletCmd())
	rootCmd.AddCommand(creditCmd())
	rootCmd.AddCommand(debitCmd())
	rootCmd.AddCommand(transferCmd())
	rootCmd.AddCommand(holdCmd())
	rootCmd.AddCommand(entriesCmd())
	rootCmd.AddCommand(recalculateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func walletCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wallet",
		Short: "Wallet operations",
	}

	var tenantID, walletType, ownerRef, currency string
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Get or create a wallet",
		Run: func(cmd *cobra.Command, args []string) {
			payload := map[string]any{
				"tenant_id": tenantID,
				"type":      walletType,
				"currency":  currency,
			}
			if ownerRef != "" {
				payload["owner_ref"] = ownerRef
			}
			doRequest(http.MethodPost, "/api/v1/wallets/", payload, "")
		},
	}
	createCmd.Flags().StringVar(&tenantID, "tenant", "", "Tenant ID")
	createCmd.Flags().StringVar(&walletType, "type", "customer", "Wallet type (customer, vendor, platform)")
	createCmd.Flags().StringVar(&ownerRef, "owner", "", "Owner reference")
	createCmd.Flags().StringVar(&currency, "currency", "USD", "Currency code")

	getCmd := &cobra.Command{
		Use:   "get [wallet-id]",
		Short: "Get a wallet by ID",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/wallets/"+args[0], nil, "")
		},
	}

	var listTenant string
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List a tenant's wallets",
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodGet, "/api/v1/wallets/?tenant_id="+listTenant, nil, "")
		},
	}
	listCmd.Flags().StringVar(&listTenant, "tenant", "", "Tenant ID")

	var status string
	statusCmd := &cobra.Command{
		Use:   "status [wallet-id]",
		Short: "Update a wallet's status",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPut, "/api/v1/wallets/"+args[0]+"/status", map[string]any{"status": status}, "")
		},
	}
	statusCmd.Flags().StringVar(&status, "to", "", "Target status (active, suspended, closed)")

	cmd.AddCommand(createCmd, getCmd, listCmd, statusCmd)
	return cmd
}

func creditCmd() *cobra.Command {
	var entryType, amount, key, reference string
	cmd := &cobra.Command{
		Use:   "credit [wallet-id]",
		Short: "Credit a wallet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			k := orNewKey(key)
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/credit", map[string]any{
				"entry_type":      entryType,
				"amount":          amount,
				"idempotency_key": k,
				"reference_id":    reference,
			}, k)
		},
	}
	cmd.Flags().StringVar(&entryType, "type", "CREDIT_PAYMENT", "Entry type")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to credit")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key (generated if omitted)")
	cmd.Flags().StringVar(&reference, "reference", "", "Reference ID")
	return cmd
}

func debitCmd() *cobra.Command {
	var entryType, amount, key, reference string
	cmd := &cobra.Command{
		Use:   "debit [wallet-id]",
		Short: "Debit a wallet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			k := orNewKey(key)
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/debit", map[string]any{
				"entry_type":      entryType,
				"amount":          amount,
				"idempotency_key": k,
				"reference_id":    reference,
			}, k)
		},
	}
	cmd.Flags().StringVar(&entryType, "type", "DEBIT_PAYOUT", "Entry type")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to debit")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key (generated if omitted)")
	cmd.Flags().StringVar(&reference, "reference", "", "Reference ID")
	return cmd
}

func transferCmd() *cobra.Command {
	var from, to, amount, key string
	cmd := &cobra.Command{
		Use:   "transfer",
		Short: "Transfer funds between wallets",
		Run: func(cmd *cobra.Command, args []string) {
			k := orNewKey(key)
			doRequest(http.MethodPost, "/api/v1/transfers", map[string]any{
				"from_wallet_id":  from,
				"to_wallet_id":    to,
				"amount":          amount,
				"idempotency_key": k,
			}, k)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source wallet ID")
	cmd.Flags().StringVar(&to, "to", "", "Destination wallet ID")
	cmd.Flags().StringVar(&amount, "amount", "", "Amount to transfer")
	cmd.Flags().StringVar(&key, "key", "", "Idempotency key (generated if omitted)")
	return cmd
}

func holdCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hold",
		Short: "Hold operations",
	}

	var holdID, amount string
	createCmd := &cobra.Command{
		Use:   "create [wallet-id]",
		Short: "Reserve funds on a wallet",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/holds", map[string]any{
				"hold_id": orNewKey(holdID),
				"amount":  amount,
			}, "")
		},
	}
	createCmd.Flags().StringVar(&holdID, "hold", "", "Hold ID (generated if omitted)")
	createCmd.Flags().StringVar(&amount, "amount", "", "Amount to hold")

	var settleAmount string
	releaseCmd := &cobra.Command{
		Use:   "release [wallet-id] [hold-id]",
		Short: "Release a hold",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/holds/"+args[1]+"/release", settlePayload(settleAmount), "")
		},
	}
	releaseCmd.Flags().StringVar(&settleAmount, "amount", "", "Amount to release (full hold if omitted)")

	captureCmd := &cobra.Command{
		Use:   "capture [wallet-id] [hold-id]",
		Short: "Capture a hold",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/holds/"+args[1]+"/capture", settlePayload(settleAmount), "")
		},
	}
	captureCmd.Flags().StringVar(&settleAmount, "amount", "", "Amount to capture (full hold if omitted)")

	cmd.AddCommand(createCmd, releaseCmd, captureCmd)
	return cmd
}

func entriesCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "entries [wallet-id]",
		Short: "List a wallet's ledger entries",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			path := fmt.Sprintf("/api/v1/wallets/%s/entries?limit=%d&offset=%d", args[0], limit, offset)
			doRequest(http.MethodGet, path, nil, "")
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to return")
	cmd.Flags().IntVar(&offset, "offset", 0, "Entries to skip")
	return cmd
}

func recalculateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recalculate [wallet-id]",
		Short: "Replay a wallet's ledger and repair cached balances",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			doRequest(http.MethodPost, "/api/v1/wallets/"+args[0]+"/recalculate", nil, "")
		},
	}
}

func settlePayload(amount string) map[string]any {
	if amount == "" {
		return nil
	}
	return map[string]any{"amount": amount}
}

// orNewKey returns the given key, or a fresh UUID when empty.
func orNewKey(key string) string {
	if key != "" {
		return key
	}
	return uuid.NewString()
}

func doRequest(method, path string, payload map[string]any, idempotencyKey string) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			fmt.Printf("Failed to encode request: %v\n", err)
			os.Exit(1)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, baseURL+path, body)
	if err != nil {
		fmt.Printf("Failed to build request: %v\n", err)
		os.Exit(1)
	}
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", idempotencyKey)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error making request: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode >= 400 {
		fmt.Printf("Request failed (Status: %d)\nResponse: %s\n", resp.StatusCode, string(respBody))
		os.Exit(1)
	}

	var result any
	if err := json.Unmarshal(respBody, &result); err != nil {
		fmt.Println(string(respBody))
		return
	}
	printJSON(result)
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Printf("Failed to format response: %v\n", err)
		return
	}
	fmt.Println(string(data))
}
