package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"player-analytics/internal/records"
	"player-analytics/internal/shared/filestorages"
	"player-analytics/internal/stores"
)

// ### Start - fixed configs (no change)
// These values define deterministic fixture generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalPlayers       = 2000
	totalTracking      = 500
	totalUsers         = 100
	conversionsPerUser = 3
	installEpochMillis = 1767225600000 // 2026-01-01T00:00:00Z
)

var (
	geos       = []string{"US", "VN", "us", ""}
	sources    = []string{"organic", "Organic", "facebook", "google"}
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
		"curl/7.88.1",
		"",
	}
)

// ### End - fixed configs

type reportTotals struct {
	Players  int `json:"players"`
	Tracking int `json:"tracking"`
}

type reportTable struct {
	Columns []string         `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}

type report struct {
	ID                string       `json:"id"`
	Strategy          string       `json:"strategy"`
	Totals            reportTotals `json:"totals"`
	LatestPlayers     reportTable  `json:"latestPlayers"`
	LatestConversions reportTable  `json:"latestConversions"`
	Warnings          []string     `json:"warnings"`
}

// main runs the e2e scenario: 001_seeded_file_store
//
// This scenario writes a deterministic PLAYERS/TRACKING/CONVERSIONS export into
// the file store directory, then asks a running server for a fresh report and
// hammers the latest-players API concurrently.
//
// Start the server with store.driver=file and store.root_dir pointing at
// FILE_STORE_DIR before running it.
//
// What it tests:
//   - Snapshot export and reads through the file store
//   - Forced report builds via GET /api/report?refresh=true
//   - Latest players ordering (newest Install_time first) under every strategy
//   - Latest conversions read through the nested fan-out
//   - Concurrent GET /api/players/latest requests
//
// Expected results:
//   - totals.players == 2000 and totals.tracking == 500
//   - latest players start at p01999 and descend
//   - latest conversions start with the newest conversion of u099
//   - no warnings
func main() {
	// these configs can be changed to run the scenario
	baseURL := getEnv("BASE_URL", "http://localhost:8080")
	fileStoreDir := getEnv("FILE_STORE_DIR", ".tmp/file-store")
	parallel := getEnvInt("PARALLEL", 8)
	requests := getEnvInt("REQUESTS", 200)
	seedOnly := getEnvBool("SEED_ONLY", false)

	projectRoot, err := findProjectRoot()
	if err != nil {
		fail("%v", err)
	}
	storePath, err := filepath.Abs(filepath.Join(projectRoot, fileStoreDir))
	if err != nil {
		fail("failed to resolve file store path: %v", err)
	}

	fmt.Println("Starting e2e scenario: 001_seeded_file_store")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("FILE_STORE_PATH: %s\n", storePath)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Printf("REQUESTS: %d\n", requests)
	fmt.Println()

	if err := seed(storePath); err != nil {
		fail("failed to seed file store: %v", err)
	}
	fmt.Println("File store seeded")
	if seedOnly {
		return
	}

	client := &http.Client{Timeout: 30 * time.Second}

	var rep report
	if err := getJSON(client, baseURL+"/api/report?refresh=true", &rep); err != nil {
		fail("report request failed: %v", err)
	}
	fmt.Printf("Report %s built with strategy %s\n", rep.ID, rep.Strategy)
	if err := checkReport(rep); err != nil {
		fail("%v", err)
	}

	var wg sync.WaitGroup
	workerChan := make(chan struct{}, parallel)
	var okCount, failCount int64
	for i := 0; i < requests; i++ {
		wg.Add(1)
		workerChan <- struct{}{}
		go func(limit int) {
			defer wg.Done()
			defer func() { <-workerChan }()

			var body struct {
				Limit   int              `json:"limit"`
				Players []map[string]any `json:"players"`
			}
			err := getJSON(client, fmt.Sprintf("%s/api/players/latest?limit=%d", baseURL, limit), &body)
			if err == nil && (len(body.Players) != limit || body.Players[0]["uid"] != "p01999") {
				err = fmt.Errorf("limit %d: got %d players", limit, len(body.Players))
			}
			if err != nil {
				atomic.AddInt64(&failCount, 1)
				fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
				return
			}
			atomic.AddInt64(&okCount, 1)
		}(1 + i%50)
	}
	wg.Wait()

	fmt.Println()
	fmt.Println("=== Statistics ===")
	fmt.Printf("Latest players requests ok: %d\n", atomic.LoadInt64(&okCount))
	fmt.Printf("Latest players requests failed: %d\n", atomic.LoadInt64(&failCount))
	if failCount > 0 {
		os.Exit(1)
	}
	fmt.Println("Scenario completed successfully")
}

func seed(dir string) error {
	if err := os.RemoveAll(dir); err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	fileStorage, err := filestorages.NewFileStorage(dir)
	if err != nil {
		return err
	}
	store := stores.NewFileStore(fileStorage)
	ctx := context.Background()

	collections := map[string]records.Snapshot{
		"PLAYERS":     records.SnapshotFromMap(players()),
		"TRACKING":    records.SnapshotFromMap(tracking()),
		"CONVERSIONS": records.SnapshotFromMap(conversions()),
	}
	for name, snap := range collections {
		if err := store.ExportSnapshot(ctx, name, snap, true); err != nil {
			return err
		}
	}
	return nil
}

func players() map[string]any {
	out := make(map[string]any, totalPlayers)
	for i := 0; i < totalPlayers; i++ {
		ip := fmt.Sprintf("10.%d.%d.%d", i/65536%256, i/256%256, i%256)
		switch {
		case i%10 == 0:
			ip = "10.255.255.1"
		case i%7 == 0:
			ip = fmt.Sprintf("2a00:1450::%x", i)
		}
		out[fmt.Sprintf("p%05d", i)] = map[string]any{
			"Install_time": installEpochMillis + int64(i)*60_000,
			"Geo":          geos[i%len(geos)],
			"IP":           ip,
			"Source":       sources[i%len(sources)],
			"Wins":         i % 50,
			"Goal":         "level_5",
			"Impressions":  10,
			"Ad_Revenue":   0.5,
		}
	}
	return out
}

func tracking() map[string]any {
	out := make(map[string]any, totalTracking)
	for i := 0; i < totalTracking; i++ {
		out[fmt.Sprintf("t%05d", i)] = map[string]any{
			"ip":         fmt.Sprintf("10.0.%d.%d", i/256%256, i%256),
			"user_agent": userAgents[i%len(userAgents)],
			"time":       installEpochMillis + int64(i)*1000,
		}
	}
	return out
}

func conversions() map[string]any {
	out := make(map[string]any, totalUsers)
	for u := 0; u < totalUsers; u++ {
		user := make(map[string]any, conversionsPerUser)
		for c := 0; c < conversionsPerUser; c++ {
			user[fmt.Sprintf("c%d", c)] = map[string]any{
				"time":   installEpochMillis + int64(u*conversionsPerUser+c)*1000,
				"goal":   "install",
				"source": sources[c%len(sources)],
			}
		}
		out[fmt.Sprintf("u%03d", u)] = user
	}
	return out
}

func checkReport(rep report) error {
	if len(rep.Warnings) > 0 {
		return fmt.Errorf("unexpected warnings: %v", rep.Warnings)
	}
	if rep.Totals.Players != totalPlayers || rep.Totals.Tracking != totalTracking {
		return fmt.Errorf("unexpected totals: %+v", rep.Totals)
	}
	rows := rep.LatestPlayers.Rows
	if len(rows) == 0 || rows[0]["uid"] != fmt.Sprintf("p%05d", totalPlayers-1) {
		return fmt.Errorf("unexpected latest players: %v", rows)
	}
	conv := rep.LatestConversions.Rows
	if len(conv) == 0 || conv[0]["user_id"] != fmt.Sprintf("u%03d", totalUsers-1) {
		return fmt.Errorf("unexpected latest conversions: %v", conv)
	}
	return nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, body)
	}
	return json.Unmarshal(body, out)
}

// findProjectRoot walks up from the working directory to the go.mod file.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	for i := 0; i < 10; i++ {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("could not find go.mod, run from the project root")
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
	os.Exit(1)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		var n int
		if _, err := fmt.Sscanf(value, "%d", &n); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	switch os.Getenv(key) {
	case "1", "true", "TRUE", "True":
		return true
	case "0", "false", "FALSE", "False":
		return false
	}
	return defaultValue
}
