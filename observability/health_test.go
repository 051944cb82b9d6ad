package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestHealthChecker_Register(t *testing.T) {
	hc := NewHealthChecker()

	check := HealthCheck{
		Name: "project",
		Check: func(ctx context.Context) HealthCheckResult {
			return HealthCheckResult{Status: HealthStatusHealthy}
		},
	}

	hc.Register(check)
	hc.Register(check)

	if len(hc.checks) != 1 {
		t.Errorf("Checks count = %d, want 1", len(hc.checks))
	}
}

func TestHealthChecker_Check(t *testing.T) {
	hc := NewHealthChecker()

	hc.Register(HealthCheck{
		Name: "healthy-check",
		Check: func(ctx context.Context) HealthCheckResult {
			return HealthCheckResult{Status: HealthStatusHealthy}
		},
	})

	hc.Register(HealthCheck{
		Name: "degraded-check",
		Check: func(ctx context.Context) HealthCheckResult {
			return HealthCheckResult{Status: HealthStatusDegraded}
		},
	})

	results := hc.Check(context.Background())

	if len(results) != 2 {
		t.Errorf("Results count = %d, want 2", len(results))
	}
	if results["healthy-check"].Status != HealthStatusHealthy {
		t.Errorf("healthy-check status = %s, want healthy", results["healthy-check"].Status)
	}
	if results["degraded-check"].Status != HealthStatusDegraded {
		t.Errorf("degraded-check status = %s, want degraded", results["degraded-check"].Status)
	}
}

func TestHealthChecker_OverallStatus(t *testing.T) {
	tests := []struct {
		name     string
		checks   []HealthCheckResult
		expected HealthStatus
	}{
		{
			name:     "no checks",
			expected: HealthStatusHealthy,
		},
		{
			name: "all healthy",
			checks: []HealthCheckResult{
				{Status: HealthStatusHealthy},
				{Status: HealthStatusHealthy},
			},
			expected: HealthStatusHealthy,
		},
		{
			name: "one degraded",
			checks: []HealthCheckResult{
				{Status: HealthStatusHealthy},
				{Status: HealthStatusDegraded},
			},
			expected: HealthStatusDegraded,
		},
		{
			name: "unhealthy wins over degraded",
			checks: []HealthCheckResult{
				{Status: HealthStatusDegraded},
				{Status: HealthStatusUnhealthy},
			},
			expected: HealthStatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			for i, result := range tt.checks {
				hc.Register(HealthCheck{
					Name: fmt.Sprintf("check-%d", i),
					Check: func(ctx context.Context) HealthCheckResult {
						return result
					},
				})
			}

			if status := OverallStatus(hc.Check(context.Background())); status != tt.expected {
				t.Errorf("OverallStatus = %s, want %s", status, tt.expected)
			}
		})
	}
}

func TestHealthChecker_Cache(t *testing.T) {
	hc := NewHealthChecker()

	callCount := 0
	hc.Register(HealthCheck{
		Name:   "cached-check",
		Cached: true,
		TTL:    100 * time.Millisecond,
		Check: func(ctx context.Context) HealthCheckResult {
			callCount++
			return HealthCheckResult{Status: HealthStatusHealthy}
		},
	})

	hc.Check(context.Background())
	if callCount != 1 {
		t.Errorf("First check call count = %d, want 1", callCount)
	}

	hc.Check(context.Background())
	if callCount != 1 {
		t.Errorf("Cached check call count = %d, want 1", callCount)
	}

	time.Sleep(150 * time.Millisecond)

	hc.Check(context.Background())
	if callCount != 2 {
		t.Errorf("After TTL check call count = %d, want 2", callCount)
	}
}

func TestHealthChecker_Handler(t *testing.T) {
	tests := []struct {
		name       string
		status     HealthStatus
		wantStatus int
	}{
		{"healthy", HealthStatusHealthy, http.StatusOK},
		{"degraded", HealthStatusDegraded, http.StatusOK},
		{"unhealthy", HealthStatusUnhealthy, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hc := NewHealthChecker()
			hc.Register(HealthCheck{
				Name: "project",
				Check: func(ctx context.Context) HealthCheckResult {
					return HealthCheckResult{Status: tt.status, Message: "test message"}
				},
			})

			w := httptest.NewRecorder()
			hc.Handler().ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))

			resp := w.Result()
			defer func() {
				if err := resp.Body.Close(); err != nil {
					t.Errorf("Failed to close response body: %v", err)
				}
			}()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
			if resp.Header.Get("Content-Type") != "application/json" {
				t.Errorf("Content-Type = %s, want application/json", resp.Header.Get("Content-Type"))
			}

			var body struct {
				Status HealthStatus                 `json:"status"`
				Checks map[string]HealthCheckResult `json:"checks"`
			}
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("Decode() failed: %v", err)
			}
			if body.Status != tt.status {
				t.Errorf("body status = %s, want %s", body.Status, tt.status)
			}
			if body.Checks["project"].Message != "test message" {
				t.Errorf("project message = %q, want %q", body.Checks["project"].Message, "test message")
			}
		})
	}
}

func TestProjectFileHealthCheck(t *testing.T) {
	dir := t.TempDir()
	project := filepath.Join(dir, "App.vcxproj")
	if err := os.WriteFile(project, []byte("<Project />"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
		want HealthStatus
	}{
		{"present", project, HealthStatusHealthy},
		{"no project", "", HealthStatusDegraded},
		{"missing", filepath.Join(dir, "Missing.vcxproj"), HealthStatusUnhealthy},
		{"directory", dir, HealthStatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			check := ProjectFileHealthCheck("project", func() string { return tt.path })
			result := check.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("Status = %s, want %s (%s)", result.Status, tt.want, result.Message)
			}
		})
	}
}

func TestSheetDirHealthCheck(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"zlib.props", "boost.props", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	check := SheetDirHealthCheck("sheets", func() string { return dir }, 0)
	if check.Cached {
		t.Error("zero TTL should disable caching")
	}

	result := check.Check(context.Background())
	if result.Status != HealthStatusHealthy {
		t.Fatalf("Status = %s, want healthy (%s)", result.Status, result.Message)
	}
	if result.Details["sheets"] != "2" {
		t.Errorf("sheets = %s, want 2", result.Details["sheets"])
	}

	missing := SheetDirHealthCheck("sheets", func() string { return filepath.Join(dir, "missing") }, time.Second)
	if !missing.Cached {
		t.Error("positive TTL should enable caching")
	}
	if result := missing.Check(context.Background()); result.Status != HealthStatusUnhealthy {
		t.Errorf("Status = %s, want unhealthy", result.Status)
	}
}
