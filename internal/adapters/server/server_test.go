package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/hylla/gridcell/internal/adapters/server/common"
)

// stubGrid returns fixed items and ignores gestures.
type stubGrid struct{}

// ListItems returns one fixture item.
func (stubGrid) ListItems(context.Context) ([]common.Item, error) {
	return []common.Item{{ID: "a"}}, nil
}

// GetItem returns the requested id.
func (stubGrid) GetItem(_ context.Context, id string) (common.Item, error) {
	return common.Item{ID: id}, nil
}

// Drag echoes the item id.
func (stubGrid) Drag(_ context.Context, req common.DragRequest) (common.Item, error) {
	return common.Item{ID: req.ItemID}, nil
}

// Resize echoes the item id.
func (stubGrid) Resize(_ context.Context, req common.ResizeRequest) (common.Item, error) {
	return common.Item{ID: req.ItemID}, nil
}

// Drop echoes the item id.
func (stubGrid) Drop(_ context.Context, req common.DropRequest) (common.Item, error) {
	return common.Item{ID: req.ItemID}, nil
}

// ListEvents returns no events.
func (stubGrid) ListEvents(context.Context, common.ListEventsRequest) ([]common.GestureEvent, error) {
	return nil, nil
}

// TestNewHandlerServesHealthAndAPI verifies the composed mux routes.
func TestNewHandlerServesHealthAndAPI(t *testing.T) {
	handler, cfg, err := NewHandler(Config{}, Dependencies{Grid: stubGrid{}})
	if err != nil {
		t.Fatalf("NewHandler() error = %v", err)
	}
	if cfg.HTTPBind != defaultBindAddress || cfg.APIEndpoint != "/api/v1" || cfg.MCPEndpoint != "/mcp" {
		t.Fatalf("unexpected normalized config %#v", cfg)
	}
	if cfg.ServerName != "gridcell" {
		t.Fatalf("ServerName = %q, want gridcell", cfg.ServerName)
	}

	for _, path := range []string{"/healthz", "/readyz"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("%s status = %d, want %d", path, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/items/b", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
	}
	var item common.Item
	if err := json.NewDecoder(rec.Body).Decode(&item); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if item.ID != "b" {
		t.Fatalf("item id = %q, want b", item.ID)
	}
}

// TestNewHandlerValidation verifies dependency and endpoint checks.
func TestNewHandlerValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
		deps Dependencies
	}{
		{name: "missing grid", cfg: Config{}, deps: Dependencies{}},
		{name: "endpoint collision", cfg: Config{APIEndpoint: "/x", MCPEndpoint: "x/"}, deps: Dependencies{Grid: stubGrid{}}},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := NewHandler(tt.cfg, tt.deps); err == nil {
				t.Fatal("NewHandler() error = nil, want error")
			}
		})
	}
}

// TestNormalizeConfigRejectsSharedMount verifies the collision error names the shared path.
func TestNormalizeConfigRejectsSharedMount(t *testing.T) {
	_, err := normalizeConfig(Config{APIEndpoint: "gestures/", MCPEndpoint: "/gestures"})
	if err == nil || !strings.Contains(err.Error(), `"/gestures"`) {
		t.Fatalf("normalizeConfig() error = %v, want collision on /gestures", err)
	}
	cfg, err := normalizeConfig(Config{})
	if err != nil {
		t.Fatalf("normalizeConfig() error = %v", err)
	}
	if cfg.APIEndpoint != defaultAPIEndpoint || cfg.MCPEndpoint != defaultMCPEndpoint || cfg.ServerVersion != "dev" {
		t.Fatalf("unexpected defaults %#v", cfg)
	}
}

// TestNormalizeEndpoint verifies endpoint fallback rules.
func TestNormalizeEndpoint(t *testing.T) {
	cases := map[string]string{
		"":          "/api/v1",
		"/":         "/api/v1",
		"custom":    "/custom",
		"//a/b//":   "/a/b",
		" /spaced ": "/spaced",
	}
	for in, want := range cases {
		if got := normalizeEndpoint(in, "/api/v1"); got != want {
			t.Fatalf("normalizeEndpoint(%q) = %q, want %q", in, got, want)
		}
	}
}
