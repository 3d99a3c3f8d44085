// fractl is a small operator CLI for a running claims server: export the
// CSV, seed claims from a JSON file, and move a claim through the workflow.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var serverURL string

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := newRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "fractl: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "fractl",
		Short:        "FRA-GIS claims CLI",
		Long:         `fractl talks to a running claims server: export the claims CSV, seed records from a JSON file, and update claim statuses.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:5001", "Base URL of the claims server")
	cmd.AddCommand(
		newExportCmd(),
		newSeedCmd(),
		newStatusCmd(),
	)
	return cmd
}

func newExportCmd() *cobra.Command {
	var out string
	var district, state, status string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download the claims CSV export",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			params := url.Values{}
			if district != "" {
				params.Set("district", district)
			}
			if state != "" {
				params.Set("state", state)
			}
			if status != "" {
				params.Set("status", status)
			}
			target := serverURL + "/api/claims/export"
			if len(params) > 0 {
				target += "?" + params.Encode()
			}

			body, err := get(ctx, target)
			if err != nil {
				return err
			}
			defer body.Close()

			f, err := os.Create(out)
			if err != nil {
				return err
			}
			defer f.Close()
			n, err := io.Copy(f, body)
			if err != nil {
				return err
			}
			fmt.Printf("wrote %d bytes to %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "claims_data.csv", "Output file")
	cmd.Flags().StringVar(&district, "district", "", "Filter by district")
	cmd.Flags().StringVar(&state, "state", "", "Filter by state")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	return cmd
}

func newSeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed <claims.json>",
		Short: "Create claims from a JSON array of records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var records []json.RawMessage
			if err := json.Unmarshal(data, &records); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			created := 0
			for i, rec := range records {
				if err := post(ctx, serverURL+"/api/claims", rec); err != nil {
					return fmt.Errorf("record %d: %w", i, err)
				}
				created++
			}
			fmt.Printf("created %d claims\n", created)
			return nil
		},
	}
	return cmd
}

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status <claim-id> <Pending|Approved|Rejected|In Review>",
		Short: "Update the status of a claim",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			body, err := json.Marshal(map[string]string{"status": args[1]})
			if err != nil {
				return err
			}
			req, err := http.NewRequestWithContext(ctx, http.MethodPut,
				serverURL+"/api/claims/"+args[0]+"/status", bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			resp, err := httpClient().Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				return responseError(resp)
			}
			fmt.Printf("claim %s is now %s\n", args[0], args[1])
			return nil
		},
	}
	return cmd
}

func httpClient() *http.Client {
	return &http.Client{Timeout: 30 * time.Second}
}

func get(ctx context.Context, target string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	resp, err := httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, responseError(resp)
	}
	return resp.Body, nil
}

func post(ctx context.Context, target string, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	return nil
}

func responseError(resp *http.Response) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Error.Message != "" {
		return fmt.Errorf("server: %s (%s)", envelope.Error.Message, envelope.Error.Code)
	}
	return fmt.Errorf("server returned %s", resp.Status)
}
