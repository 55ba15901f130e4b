package qrhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewServer_HostsApp(t *testing.T) {
	h := newTestApp(&stubService{ready: true})
	srv := NewServer(AppConfig{}, h)
	if srv == nil {
		t.Fatalf("expected server")
	}
	if srv.Router() == nil {
		t.Fatalf("expected router")
	}
}

func TestAppInitializer_RegistersRoutes(t *testing.T) {
	app := AppInitializer(AppConfig{Name: "qr-test"}, newTestApp(&stubService{ready: true}))(nil)
	if got := app.Config().AppName; got != "qr-test" {
		t.Fatalf("expected app name qr-test, got %q", got)
	}
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
