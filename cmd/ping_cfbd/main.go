// Ping the College Football Data API to check credentials and latency before
// a season download.
//
// Usage:
//
//	go run ./cmd/ping_cfbd          # default: 10 requests
//	go run ./cmd/ping_cfbd -n 30
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/charleschow/opp-adjust/internal/config"
)

const (
	pingPath    = "/calendar?year=2023"
	httpTimeout = 10 * time.Second
)

func main() {
	n := flag.Int("n", 10, "Number of warm requests")
	flag.Parse()

	cfg := config.Load()
	target := strings.TrimRight(cfg.CFBDBaseURL, "/") + pingPath

	fmt.Printf("\n%s\n", strings.Repeat("=", 55))
	fmt.Printf("  CFBD  %s\n", cfg.CFBDBaseURL)
	fmt.Printf("%s\n", strings.Repeat("=", 55))
	if cfg.CFBDAPIKey == "" {
		fmt.Println("  [!] CFBD_API_KEY not set; expect HTTP 401")
	}

	fmt.Println("\n  Cold-start request (DNS + TLS + HTTP):")
	ms, code, err := measureHTTP(target, cfg.CFBDAPIKey, nil)
	if err != nil {
		fmt.Printf("    FAILED: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("    %.1f ms  (HTTP %d)\n", ms, code)
	if code == http.StatusUnauthorized {
		fmt.Println("  [!] API key rejected")
		os.Exit(1)
	}

	fmt.Printf("\n  Warm HTTP latency (%d requests, keep-alive):\n", *n)
	client := &http.Client{Timeout: httpTimeout}
	latencies := make([]float64, 0, *n)
	pad := len(fmt.Sprintf("%d", *n))
	for i := 1; i <= *n; i++ {
		ms, code, err := measureHTTP(target, cfg.CFBDAPIKey, client)
		if err != nil {
			fmt.Printf("  [%*d/%d]  FAILED: %v\n", pad, i, *n, err)
			continue
		}
		latencies = append(latencies, ms)
		fmt.Printf("  [%*d/%d]  %7.1f ms  (HTTP %d)\n", pad, i, *n, ms, code)
	}
	printStats(latencies)
	fmt.Println()
}

func measureHTTP(url, apiKey string, client *http.Client) (ms float64, statusCode int, err error) {
	req, err := http.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	c := client
	if c == nil {
		c = &http.Client{Timeout: httpTimeout}
	}
	start := time.Now()
	resp, err := c.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return 0, 0, err
	}
	defer resp.Body.Close()
	return float64(elapsed.Microseconds()) / 1000, resp.StatusCode, nil
}

func printStats(latencies []float64) {
	if len(latencies) < 2 {
		fmt.Println("\n  Not enough samples for statistics.")
		return
	}
	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)
	mean, stdev := stat.MeanStdDev(sorted, nil)

	fmt.Printf("\n  --- CFBD HTTP Stats (%d requests) ---\n", len(sorted))
	fmt.Printf("  Min:    %7.1f ms\n", sorted[0])
	fmt.Printf("  Max:    %7.1f ms\n", sorted[len(sorted)-1])
	fmt.Printf("  Mean:   %7.1f ms\n", mean)
	fmt.Printf("  Median: %7.1f ms\n", stat.Quantile(0.5, stat.Empirical, sorted, nil))
	fmt.Printf("  Stdev:  %7.1f ms\n", stdev)
	fmt.Printf("  p95:    %7.1f ms\n", stat.Quantile(0.95, stat.Empirical, sorted, nil))
}
