package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type config struct {
	baseURL     string
	total       int
	concurrency int
	timeout     time.Duration
	users       []int64
	products    []int64
	idempotent  bool
	outputPath  string
}

type latencySummary struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
	Avg float64 `json:"avg"`
	P50 float64 `json:"p50"`
	P95 float64 `json:"p95"`
	P99 float64 `json:"p99"`
}

type report struct {
	StartedAt       time.Time        `json:"started_at"`
	DurationSeconds float64          `json:"duration_seconds"`
	TotalRequests   int64            `json:"total_requests"`
	Success         int64            `json:"success"`
	Failed          int64            `json:"failed"`
	ErrorRate       float64          `json:"error_rate"`
	RPS             float64          `json:"rps"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	LatencyMs       latencySummary   `json:"latency_ms"`
}

type collector struct {
	mu        sync.Mutex
	calls     int64
	success   int64
	failed    int64
	codes     map[string]int64
	latencies []float64
}

func newCollector() *collector {
	return &collector{codes: make(map[string]int64)}
}

func (c *collector) record(latency time.Duration, statusCode int, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.calls++
	switch {
	case err != nil:
		c.failed++
		c.codes["transport_error"]++
	case statusCode == http.StatusNoContent:
		c.success++
		c.codes[fmt.Sprint(statusCode)]++
	default:
		c.failed++
		c.codes[fmt.Sprint(statusCode)]++
	}
	c.latencies = append(c.latencies, float64(latency.Microseconds())/1000.0)
}

func (c *collector) buildReport(startedAt time.Time, duration time.Duration) report {
	c.mu.Lock()
	defer c.mu.Unlock()

	codesCopy := make(map[string]int64, len(c.codes))
	for code, count := range c.codes {
		codesCopy[code] = count
	}

	result := report{
		StartedAt:       startedAt.UTC(),
		DurationSeconds: duration.Seconds(),
		TotalRequests:   c.calls,
		Success:         c.success,
		Failed:          c.failed,
		StatusCodes:     codesCopy,
		LatencyMs:       buildLatencySummary(c.latencies),
	}
	if c.calls > 0 {
		result.ErrorRate = float64(c.failed) / float64(c.calls)
	}
	if duration > 0 {
		result.RPS = float64(c.calls) / duration.Seconds()
	}
	return result
}

func buildLatencySummary(latencies []float64) latencySummary {
	if len(latencies) == 0 {
		return latencySummary{}
	}

	sorted := append([]float64(nil), latencies...)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}

	percentile := func(p float64) float64 {
		idx := int(p*float64(len(sorted))) - 1
		if idx < 0 {
			idx = 0
		}
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		return sorted[idx]
	}

	return latencySummary{
		Min: sorted[0],
		Max: sorted[len(sorted)-1],
		Avg: sum / float64(len(sorted)),
		P50: percentile(0.50),
		P95: percentile(0.95),
		P99: percentile(0.99),
	}
}

func parseConfig() (config, error) {
	var cfg config
	var timeoutValue, usersValue, productsValue string

	flag.StringVar(&cfg.baseURL, "url", "http://localhost:8080", "order API base URL")
	flag.IntVar(&cfg.total, "total", 400, "total create-order requests")
	flag.IntVar(&cfg.concurrency, "concurrency", 20, "number of concurrent workers")
	flag.StringVar(&timeoutValue, "timeout", "5s", "per-request timeout")
	flag.StringVar(&usersValue, "users", "1,2,3", "comma-separated user ids to spread orders over")
	flag.StringVar(&productsValue, "products", "10,20,30", "comma-separated product ids to pick items from")
	flag.BoolVar(&cfg.idempotent, "idempotency", true, "send a unique Idempotency-Key per request")
	flag.StringVar(&cfg.outputPath, "output", "", "optional JSON report output file path")
	flag.Parse()

	timeout, err := time.ParseDuration(strings.TrimSpace(timeoutValue))
	if err != nil {
		return cfg, fmt.Errorf("parse timeout: %w", err)
	}
	cfg.timeout = timeout

	if cfg.users, err = parseIDList(usersValue); err != nil {
		return cfg, fmt.Errorf("parse users: %w", err)
	}
	if cfg.products, err = parseIDList(productsValue); err != nil {
		return cfg, fmt.Errorf("parse products: %w", err)
	}
	if cfg.total <= 0 || cfg.concurrency <= 0 {
		return cfg, fmt.Errorf("total and concurrency must be positive")
	}
	return cfg, nil
}

func parseIDList(value string) ([]int64, error) {
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var id int64
		if _, err := fmt.Sscanf(part, "%d", &id); err != nil {
			return nil, fmt.Errorf("invalid id %q", part)
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("empty id list")
	}
	return ids, nil
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		fail("config: %v", err)
	}

	client := &http.Client{Timeout: cfg.timeout}
	stats := newCollector()
	jobs := make(chan int)

	startedAt := time.Now()

	var wg sync.WaitGroup
	for w := 0; w < cfg.concurrency; w++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for range jobs {
				runOne(client, cfg, rng, stats)
			}
		}(startedAt.UnixNano() + int64(w))
	}

	for i := 0; i < cfg.total; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := stats.buildReport(startedAt, time.Since(startedAt))
	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		fail("marshal report: %v", err)
	}

	fmt.Println(string(payload))
	if cfg.outputPath != "" {
		if err := os.WriteFile(cfg.outputPath, payload, 0o644); err != nil {
			fail("write report: %v", err)
		}
	}
}

func runOne(client *http.Client, cfg config, rng *rand.Rand, stats *collector) {
	userID := cfg.users[rng.Intn(len(cfg.users))]
	itemCount := 1 + rng.Intn(3)
	items := make([]map[string]int64, 0, itemCount)
	for i := 0; i < itemCount; i++ {
		items = append(items, map[string]int64{
			"productId": cfg.products[rng.Intn(len(cfg.products))],
		})
	}

	body, err := json.Marshal(map[string]any{
		"userId": userID,
		"items":  items,
	})
	if err != nil {
		stats.record(0, 0, err)
		return
	}

	req, err := http.NewRequest(http.MethodPost, cfg.baseURL+"/api/orders", bytes.NewReader(body))
	if err != nil {
		stats.record(0, 0, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if cfg.idempotent {
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	start := time.Now()
	resp, err := client.Do(req)
	latency := time.Since(start)
	if err != nil {
		stats.record(latency, 0, err)
		return
	}
	_ = resp.Body.Close()
	stats.record(latency, resp.StatusCode, nil)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
