package observability

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// HealthStatus represents the health status of a component
type HealthStatus string

const (
	// HealthStatusHealthy means the component can serve every intent.
	HealthStatusHealthy HealthStatus = "healthy"
	// HealthStatusDegraded means the shell runs but some intents will be rejected.
	HealthStatusDegraded HealthStatus = "degraded"
	// HealthStatusUnhealthy means the component cannot be used.
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck represents a single health check
type HealthCheck struct {
	Name   string
	Check  func(context.Context) HealthCheckResult
	Cached bool
	TTL    time.Duration
}

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthChecker manages and executes health checks
type HealthChecker struct {
	mu     sync.RWMutex
	checks map[string]*HealthCheck
	cache  map[string]*cachedHealthResult
}

type cachedHealthResult struct {
	result    HealthCheckResult
	timestamp time.Time
}

// NewHealthChecker creates a new health checker
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]*HealthCheck),
		cache:  make(map[string]*cachedHealthResult),
	}
}

// Register registers a new health check, replacing any check with the same name
func (hc *HealthChecker) Register(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name] = &check
	delete(hc.cache, check.Name)
}

// Check executes all health checks concurrently
func (hc *HealthChecker) Check(ctx context.Context) map[string]HealthCheckResult {
	hc.mu.RLock()
	checks := make([]*HealthCheck, 0, len(hc.checks))
	for _, check := range hc.checks {
		checks = append(checks, check)
	}
	hc.mu.RUnlock()

	results := make(map[string]HealthCheckResult, len(checks))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for _, check := range checks {
		wg.Add(1)
		go func(c *HealthCheck) {
			defer wg.Done()
			result := hc.executeCheck(ctx, c)
			mu.Lock()
			results[c.Name] = result
			mu.Unlock()
		}(check)
	}

	wg.Wait()
	return results
}

func (hc *HealthChecker) executeCheck(ctx context.Context, check *HealthCheck) HealthCheckResult {
	if check.Cached {
		hc.mu.RLock()
		cached, exists := hc.cache[check.Name]
		hc.mu.RUnlock()

		if exists && time.Since(cached.timestamp) < check.TTL {
			return cached.result
		}
	}

	result := check.Check(ctx)

	if check.Cached {
		hc.mu.Lock()
		hc.cache[check.Name] = &cachedHealthResult{
			result:    result,
			timestamp: time.Now(),
		}
		hc.mu.Unlock()
	}

	return result
}

// OverallStatus aggregates check results: any unhealthy check makes the whole
// unhealthy, else any degraded check makes it degraded.
func OverallStatus(results map[string]HealthCheckResult) HealthStatus {
	status := HealthStatusHealthy
	for _, result := range results {
		switch result.Status {
		case HealthStatusUnhealthy:
			return HealthStatusUnhealthy
		case HealthStatusDegraded:
			status = HealthStatusDegraded
		}
	}
	return status
}

// Handler returns an HTTP handler reporting every check as JSON.
// Unhealthy answers 503; degraded still answers 200.
func (hc *HealthChecker) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := hc.Check(r.Context())
		overall := OverallStatus(results)

		response := map[string]any{
			"status": overall,
			"checks": results,
		}

		w.Header().Set("Content-Type", "application/json")
		if overall == HealthStatusUnhealthy {
			w.WriteHeader(http.StatusServiceUnavailable)
		} else {
			w.WriteHeader(http.StatusOK)
		}

		// Response may be partially written; nothing left to report to
		_ = json.NewEncoder(w).Encode(response)
	}
}

// ProjectFileHealthCheck reports whether the project file path returned by path
// names a regular file. An empty path is degraded: the shell runs without a project.
func ProjectFileHealthCheck(name string, path func() string) HealthCheck {
	return HealthCheck{
		Name: name,
		Check: func(ctx context.Context) HealthCheckResult {
			p := path()
			if p == "" {
				return HealthCheckResult{
					Status:  HealthStatusDegraded,
					Message: "no project loaded",
				}
			}

			info, err := os.Stat(p)
			if err != nil {
				return HealthCheckResult{
					Status:  HealthStatusUnhealthy,
					Message: "project file unavailable: " + err.Error(),
					Details: map[string]string{"path": p},
				}
			}
			if !info.Mode().IsRegular() {
				return HealthCheckResult{
					Status:  HealthStatusUnhealthy,
					Message: "project path is not a regular file",
					Details: map[string]string{"path": p},
				}
			}

			return HealthCheckResult{
				Status:  HealthStatusHealthy,
				Message: "project file present",
				Details: map[string]string{"path": p},
			}
		},
	}
}

// SheetDirHealthCheck reports whether the directory returned by dir can be listed
// and how many property sheets it holds. Results are cached for ttl.
func SheetDirHealthCheck(name string, dir func() string, ttl time.Duration) HealthCheck {
	return HealthCheck{
		Name:   name,
		Cached: ttl > 0,
		TTL:    ttl,
		Check: func(ctx context.Context) HealthCheckResult {
			d := dir()
			entries, err := os.ReadDir(d)
			if err != nil {
				return HealthCheckResult{
					Status:  HealthStatusUnhealthy,
					Message: "sheet directory unreadable: " + err.Error(),
					Details: map[string]string{"dir": d},
				}
			}

			sheets := 0
			for _, entry := range entries {
				if !entry.IsDir() && filepath.Ext(entry.Name()) == ".props" {
					sheets++
				}
			}

			return HealthCheckResult{
				Status:  HealthStatusHealthy,
				Message: "sheet directory readable",
				Details: map[string]string{
					"dir":    d,
					"sheets": strconv.Itoa(sheets),
				},
			}
		},
	}
}
