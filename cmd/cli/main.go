package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	apiURL string
	token  string

	reportStatus    string
	reportStartDate string
	reportEndDate   string
)

var rootCmd = &cobra.Command{
	Use:   "bbyte-cli",
	Short: "Bbyte moderation CLI",
	Long: `Bbyte CLI is a moderation tool for the Bbyte backend.
List and resolve abuse reports and inspect platform stats
directly from the terminal.`,
}

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "Abuse report moderation commands",
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List abuse reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		query := url.Values{}
		if reportStatus != "" {
			query.Set("status", reportStatus)
		}
		if reportStartDate != "" {
			query.Set("start_date", reportStartDate)
		}
		if reportEndDate != "" {
			query.Set("end_date", reportEndDate)
		}

		body, err := apiRequest(http.MethodGet, "/api/v1/reports?"+query.Encode(), nil)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

var reportsResolveCmd = &cobra.Command{
	Use:   "resolve <report-id>",
	Short: "Mark a report completed",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, _ := json.Marshal(map[string]string{"status": "completed"})
		body, err := apiRequest(http.MethodPatch, "/api/v1/reports/"+args[0], payload)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

var reportsReopenCmd = &cobra.Command{
	Use:   "reopen <report-id>",
	Short: "Move a report back to pending",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, _ := json.Marshal(map[string]string{"status": "pending"})
		body, err := apiRequest(http.MethodPatch, "/api/v1/reports/"+args[0], payload)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show platform totals",
	RunE: func(cmd *cobra.Command, args []string) error {
		body, err := apiRequest(http.MethodGet, "/api/v1/stats", nil)
		if err != nil {
			return err
		}
		return printJSON(body)
	},
}

func apiRequest(method, path string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, apiURL+path, reqBody)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, string(body))
	}
	return body, nil
}

func printJSON(body []byte) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		fmt.Println(string(body))
		return nil
	}
	fmt.Println(buf.String())
	return nil
}

func main() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", envOrDefault("BBYTE_API_URL", "http://localhost:8787"), "backend base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("BBYTE_TOKEN"), "bearer token")

	reportsListCmd.Flags().StringVar(&reportStatus, "status", "", "filter by status (pending|completed)")
	reportsListCmd.Flags().StringVar(&reportStartDate, "start-date", "", "filter from date (YYYY-MM-DD)")
	reportsListCmd.Flags().StringVar(&reportEndDate, "end-date", "", "filter to date (YYYY-MM-DD)")

	reportsCmd.AddCommand(reportsListCmd, reportsResolveCmd, reportsReopenCmd)
	rootCmd.AddCommand(reportsCmd, statsCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
