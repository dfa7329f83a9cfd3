// Command smoke probes a running API instance and verifies the public surface
// answers with the expected envelope. Intended for post-deploy checks:
//
//	go run ./scripts/smoke -base http://localhost:8080
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type check struct {
	Method string
	Path   string
	Status int
}

var checks = []check{
	{Method: http.MethodGet, Path: "/health", Status: http.StatusOK},
	{Method: http.MethodGet, Path: "/ready", Status: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/en/news", Status: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/en/documents", Status: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/en/branches", Status: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/auth/session", Status: http.StatusOK},
	{Method: http.MethodGet, Path: "/api/v1/claims", Status: http.StatusUnauthorized},
	{Method: http.MethodGet, Path: "/api/v1/users", Status: http.StatusUnauthorized},
}

type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code"`
}

func main() {
	base := flag.String("base", "http://localhost:8080", "base URL of the API")
	timeout := flag.Duration("timeout", 5*time.Second, "per-request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	failures := 0

	for _, ck := range checks {
		req, err := http.NewRequest(ck.Method, *base+ck.Path, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s %s: %v\n", ck.Method, ck.Path, err)
			failures++
			continue
		}

		resp, err := client.Do(req)
		if err != nil {
			fmt.Fprintf(os.Stderr, "FAIL %s %s: %v\n", ck.Method, ck.Path, err)
			failures++
			continue
		}

		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close() //nolint:errcheck

		if resp.StatusCode != ck.Status {
			fmt.Fprintf(os.Stderr, "FAIL %s %s: status %d, want %d\n", ck.Method, ck.Path, resp.StatusCode, ck.Status)
			failures++
			continue
		}

		var env envelope
		if err := json.Unmarshal(body, &env); err != nil || env.Success == nil {
			fmt.Fprintf(os.Stderr, "FAIL %s %s: response is not the standard envelope\n", ck.Method, ck.Path)
			failures++
			continue
		}

		fmt.Printf("ok   %s %s (%d)\n", ck.Method, ck.Path, resp.StatusCode)
	}

	if failures > 0 {
		fmt.Fprintf(os.Stderr, "%d check(s) failed\n", failures)
		os.Exit(1)
	}
	fmt.Println("all checks passed")
}
