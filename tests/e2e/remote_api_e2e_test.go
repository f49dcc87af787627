//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// Requires `quakenav serve` at E2E_BASE_URL with a reachable planner behind it.
func TestRemoteAPI_SimulationLifecycle(t *testing.T) {
	baseURL := strings.TrimRight(envOr("E2E_BASE_URL", "http://localhost:8080"), "/")
	client := &http.Client{Timeout: 20 * time.Second}

	t.Run("reset and tune", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/sim/reset", nil)
		if status != http.StatusOK {
			t.Fatalf("reset status=%d body=%s", status, string(body))
		}
		status, body = mustJSON(t, client, http.MethodPut, baseURL+"/api/sim/params", map[string]any{
			"freqPer10":   3,
			"stepDelayMs": 20,
		})
		if status != http.StatusOK {
			t.Fatalf("params status=%d body=%s", status, string(body))
		}
		var params map[string]any
		if err := json.Unmarshal(body, &params); err != nil {
			t.Fatalf("unmarshal params: %v body=%s", err, string(body))
		}
		if params["intervalTicks"] != float64(3) {
			t.Fatalf("expected intervalTicks 3, got %v", params["intervalTicks"])
		}
	})

	t.Run("start advances then pause holds", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/sim/start", nil)
		if status != http.StatusOK {
			t.Fatalf("start status=%d body=%s", status, string(body))
		}

		deadline := time.Now().Add(10 * time.Second)
		var sim map[string]any
		for time.Now().Before(deadline) {
			sim = readSim(t, client, baseURL)
			if sim["step"].(float64) > 0 || sim["state"] != "running" {
				break
			}
			time.Sleep(50 * time.Millisecond)
		}
		if sim["step"].(float64) == 0 {
			t.Fatalf("simulation did not advance: %v", sim)
		}
		if sim["error"] != nil {
			t.Fatalf("simulation failed: %v", sim)
		}

		mustJSON(t, client, http.MethodPost, baseURL+"/api/sim/pause", nil)
		before := readSim(t, client, baseURL)
		time.Sleep(200 * time.Millisecond)
		after := readSim(t, client, baseURL)
		if before["step"] != after["step"] {
			t.Fatalf("step advanced while paused: %v -> %v", before["step"], after["step"])
		}
	})

	t.Run("static solve decodes path", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodPost, baseURL+"/api/solve", map[string]any{
			"grid":  [][]int{{0, 0, 0}, {1, 1, 0}, {0, 0, 0}},
			"start": map[string]int{"r": 0, "c": 0},
			"end":   map[string]int{"r": 2, "c": 0},
			"algo":  "astar",
		})
		if status != http.StatusOK {
			t.Fatalf("solve status=%d body=%s", status, string(body))
		}
		var resp map[string]any
		if err := json.Unmarshal(body, &resp); err != nil {
			t.Fatalf("unmarshal solve: %v", err)
		}
		path := asSlice(resp["path"])
		if len(path) != len(asSlice(resp["triplets"]))+1 {
			t.Fatalf("expected path one longer than triplets, got %d/%d", len(path), len(asSlice(resp["triplets"])))
		}
		last := asMap(path[len(path)-1])
		if last["r"] != float64(2) || last["c"] != float64(0) {
			t.Fatalf("expected path to end at goal, got %v", last)
		}
	})

	t.Run("ops kpi", func(t *testing.T) {
		status, body := mustJSON(t, client, http.MethodGet, baseURL+"/ops/kpi", nil)
		if status != http.StatusOK {
			t.Fatalf("kpi status=%d body=%s", status, string(body))
		}
		var kpi map[string]any
		if err := json.Unmarshal(body, &kpi); err != nil {
			t.Fatalf("unmarshal kpi: %v", err)
		}
		if _, ok := kpi["step_total"]; !ok {
			t.Fatalf("kpi missing step_total: %s", string(body))
		}
	})
}

func readSim(t *testing.T, client *http.Client, baseURL string) map[string]any {
	t.Helper()
	status, body := mustJSON(t, client, http.MethodGet, baseURL+"/api/sim/state", nil)
	if status != http.StatusOK {
		t.Fatalf("state status=%d body=%s", status, string(body))
	}
	var resp map[string]any
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal state: %v body=%s", err, string(body))
	}
	return asMap(resp["sim"])
}

func mustJSON(t *testing.T, client *http.Client, method, url string, payload any) (int, []byte) {
	t.Helper()
	var raw []byte
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		raw = b
	}
	status, body, err := doRequest(client, method, url, raw)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	return status, body
}

func doRequest(client *http.Client, method, url string, payload []byte) (int, []byte, error) {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequest(method, url, bytes.NewReader(payload))
		if err != nil {
			return 0, nil, err
		}
		req.Header.Set("Content-Type", "application/json")
		resp, err := client.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 200 * time.Millisecond)
			continue
		}
		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return resp.StatusCode, respBody, nil
	}
	return 0, nil, lastErr
}

func envOr(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func asMap(v any) map[string]any {
	if m, ok := v.(map[string]any); ok {
		return m
	}
	return map[string]any{}
}

func asSlice(v any) []any {
	if s, ok := v.([]any); ok {
		return s
	}
	return nil
}
