package main

import (
	"fmt"
	"io"
	"math/rand"
	"net"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	baseURL      = "http://127.0.0.1:8090"
	numWorkers   = 50
	testDuration = 10 * time.Second
)

var (
	leagues    = []string{"EPL", "La Liga", "Serie A", "Bundesliga", "Ligue 1"}
	bookmakers = []string{"bet9ja", "sportybet", "1xbet", "betking"}
	sorts      = []string{"kickoff", "-kickoff", "odds", "confidence"}
	searches   = []string{"arsenal", "madrid", "milan", "united"}
)

var httpClient = &http.Client{
	Timeout: 5 * time.Second,
	Transport: &http.Transport{
		MaxIdleConns:        200,
		MaxIdleConnsPerHost: 200,
		IdleConnTimeout:     30 * time.Second,
		DialContext: (&net.Dialer{
			Timeout:   2 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
	},
}

type result struct {
	endpoint string
	status   int
	latency  time.Duration
	err      bool
}

type stats struct {
	count     int64
	errors    int64
	latencies []time.Duration
}

func main() {
	fmt.Println("=== BetCodes Load Test ===")
	fmt.Printf("Workers: %d | Duration: %s\n\n", numWorkers, testDuration)

	// Wait for server
	fmt.Print("Waiting for server... ")
	for i := 0; i < 30; i++ {
		resp, err := httpClient.Get(baseURL + "/health")
		if err == nil {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			break
		}
		if i == 29 {
			fmt.Println("FAILED: server not responding")
			return
		}
		time.Sleep(200 * time.Millisecond)
	}
	fmt.Println("OK")

	// Phase 1: premium state polling, the hottest path in the app
	fmt.Println("\n--- Phase 1: Premium state polling (GET /premium/state) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		return doGet("GET /premium/state", "/premium/state")
	})

	// Phase 2: list browsing with filters
	fmt.Println("\n--- Phase 2: List browsing (50% codes, 50% predictions) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		if rng.Float64() < 0.5 {
			return doGet("GET /codes", "/codes?"+randomQuery(rng, true).Encode())
		}
		return doGet("GET /predictions", "/predictions?"+randomQuery(rng, false).Encode())
	})

	// Phase 3: mixed, including throttled watch-ad requests
	fmt.Println("\n--- Phase 3: Mixed load (45% lists, 45% state, 10% watch-ad) ---")
	runPhase(testDuration, func(rng *rand.Rand) result {
		r := rng.Float64()
		switch {
		case r < 0.25:
			return doGet("GET /codes", "/codes?"+randomQuery(rng, true).Encode())
		case r < 0.45:
			return doGet("GET /predictions", "/predictions?"+randomQuery(rng, false).Encode())
		case r < 0.90:
			return doGet("GET /premium/state", "/premium/state")
		default:
			return doWatchAd()
		}
	})
}

func runPhase(duration time.Duration, workFn func(rng *rand.Rand) result) {
	results := make(chan result, 10000)
	var wg sync.WaitGroup
	var totalOps atomic.Int64
	stop := make(chan struct{})

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(seed))
			for {
				select {
				case <-stop:
					return
				default:
					r := workFn(rng)
					totalOps.Add(1)
					results <- r
				}
			}
		}(rand.Int63() + int64(i))
	}

	allResults := make(map[string]*stats)
	done := make(chan struct{})
	go func() {
		for r := range results {
			s, ok := allResults[r.endpoint]
			if !ok {
				s = &stats{}
				allResults[r.endpoint] = s
			}
			s.count++
			if r.err {
				s.errors++
			}
			s.latencies = append(s.latencies, r.latency)
		}
		close(done)
	}()

	time.Sleep(duration)
	close(stop)
	wg.Wait()
	close(results)
	<-done

	printResults(allResults, duration)
}

func printResults(allResults map[string]*stats, duration time.Duration) {
	var totalOps int64
	var totalErrors int64

	endpoints := make([]string, 0, len(allResults))
	for ep := range allResults {
		endpoints = append(endpoints, ep)
	}
	sort.Strings(endpoints)

	fmt.Printf("\n  %-26s %8s %6s %10s %10s %10s %10s\n",
		"Endpoint", "Reqs", "Errs", "Avg", "P50", "P95", "P99")
	fmt.Println("  " + strings.Repeat("-", 88))

	for _, ep := range endpoints {
		s := allResults[ep]
		totalOps += s.count
		totalErrors += s.errors

		sort.Slice(s.latencies, func(i, j int) bool {
			return s.latencies[i] < s.latencies[j]
		})

		avg := avgDuration(s.latencies)
		p50 := percentile(s.latencies, 0.50)
		p95 := percentile(s.latencies, 0.95)
		p99 := percentile(s.latencies, 0.99)

		fmt.Printf("  %-26s %8d %6d %10s %10s %10s %10s\n",
			ep, s.count, s.errors, fmtDur(avg), fmtDur(p50), fmtDur(p95), fmtDur(p99))
	}

	rps := float64(totalOps) / duration.Seconds()
	fmt.Println("  " + strings.Repeat("-", 88))
	fmt.Printf("  Total: %d reqs | Errors: %d (%.1f%%) | RPS: %.0f\n",
		totalOps, totalErrors, float64(totalErrors)/float64(totalOps)*100, rps)
}

func randomQuery(rng *rand.Rand, withBookmaker bool) url.Values {
	q := url.Values{}
	if rng.Float64() < 0.5 {
		q.Set("league", leagues[rng.Intn(len(leagues))])
	}
	if withBookmaker && rng.Float64() < 0.3 {
		q.Set("bookmaker", bookmakers[rng.Intn(len(bookmakers))])
	}
	if rng.Float64() < 0.2 {
		q.Set("q", searches[rng.Intn(len(searches))])
	}
	if rng.Float64() < 0.3 {
		q.Set("premium", fmt.Sprintf("%t", rng.Intn(2) == 0))
	}
	q.Set("sort", sorts[rng.Intn(len(sorts))])
	return q
}

func doGet(endpoint, path string) result {
	start := time.Now()
	resp, err := httpClient.Get(baseURL + path)
	lat := time.Since(start)
	if err != nil {
		return result{endpoint, 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	return result{endpoint, resp.StatusCode, lat, resp.StatusCode != 200}
}

// doWatchAd counts throttling and ad-not-ready answers as expected outcomes.
func doWatchAd() result {
	start := time.Now()
	resp, err := httpClient.Post(baseURL+"/premium/watch-ad", "application/json", nil)
	lat := time.Since(start)
	if err != nil {
		return result{"POST /premium/watch-ad", 0, lat, true}
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusConflict, http.StatusBadGateway:
		return result{"POST /premium/watch-ad", resp.StatusCode, lat, false}
	}
	return result{"POST /premium/watch-ad", resp.StatusCode, lat, true}
}

func avgDuration(d []time.Duration) time.Duration {
	if len(d) == 0 {
		return 0
	}
	var sum time.Duration
	for _, v := range d {
		sum += v
	}
	return sum / time.Duration(len(d))
}

func percentile(d []time.Duration, p float64) time.Duration {
	if len(d) == 0 {
		return 0
	}
	idx := int(float64(len(d)) * p)
	if idx >= len(d) {
		idx = len(d) - 1
	}
	return d[idx]
}

func fmtDur(d time.Duration) string {
	if d < time.Millisecond {
		return fmt.Sprintf("%dµs", d.Microseconds())
	}
	return fmt.Sprintf("%.1fms", float64(d.Microseconds())/1000.0)
}
