package frontend

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jo-hoe/seoseed/internal/backend/commands"
	"github.com/jo-hoe/seoseed/internal/core"
	"github.com/labstack/echo/v4"
)

func newTestFrontend(t *testing.T) (*echo.Echo, *core.CoreService) {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Database = core.Database{Type: "sqlite", ConnectionString: ":memory:"}

	coreService, err := core.NewCoreService(context.Background(), cfg, io.Discard)
	if err != nil {
		t.Fatalf("failed to create core service: %v", err)
	}
	t.Cleanup(func() { _ = coreService.Close() })

	e := echo.New()
	NewFrontendService(coreService).SetRoutes(e)
	return e, coreService
}

func get(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestRootRedirect(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := get(e, "/")
	if rec.Code != http.StatusMovedPermanently {
		t.Fatalf("expected 301, got %d", rec.Code)
	}
	if loc := rec.Header().Get(echo.HeaderLocation); loc != "/"+MainPageName {
		t.Errorf("expected redirect to /%s, got %q", MainPageName, loc)
	}
}

func TestIndex_DefaultMetaTags(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := get(e, "/"+MainPageName)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{
		"<title>" + core.DefaultTitle + "</title>",
		`content="` + core.DefaultDescription + `"`,
		`href="/icon.svg"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected page to contain %q", want)
		}
	}
	if strings.Contains(body, "og:image") {
		t.Error("expected no og:image without a stored cover image")
	}
}

func TestIndex_WithStoredImages(t *testing.T) {
	e, coreService := newTestFrontend(t)
	ctx := context.Background()

	if err := coreService.UpdateSEOSettings(ctx, map[string]string{
		core.TitleKey:      "Jobs <fast>",
		core.CoverImageKey: commands.EncodeDataURI([]byte("cover")),
		core.FaviconKey:    commands.EncodeDataURI([]byte("favicon")),
	}); err != nil {
		t.Fatalf("failed to store settings: %v", err)
	}

	body := get(e, "/"+MainPageName).Body.String()
	if !strings.Contains(body, `<meta property="og:image" content="/seo/cover.png">`) {
		t.Error("expected og:image tag pointing at the stored cover")
	}
	if !strings.Contains(body, `<link rel="icon" href="/seo/favicon.png">`) {
		t.Error("expected favicon link to the stored favicon")
	}
	if !strings.Contains(body, "<title>Jobs &lt;fast&gt;</title>") {
		t.Error("expected title to be HTML escaped")
	}
}

func TestSEOImageHandler(t *testing.T) {
	e, coreService := newTestFrontend(t)

	logoCommand, err := commands.NewLogoImageCommand(nil)
	if err != nil {
		t.Fatalf("failed to create logo command: %v", err)
	}
	logo, err := logoCommand.Execute()
	if err != nil {
		t.Fatalf("failed to render logo: %v", err)
	}

	if rec := get(e, "/seo/logo.png"); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 before upload, got %d", rec.Code)
	}

	if err := coreService.SetSetting(context.Background(), core.LogoKey, commands.EncodeDataURI(logo)); err != nil {
		t.Fatalf("failed to store logo: %v", err)
	}

	rec := get(e, "/seo/logo.png")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != commands.MimePNG {
		t.Errorf("expected %s, got %q", commands.MimePNG, ct)
	}
	if !bytes.Equal(rec.Body.Bytes(), logo) {
		t.Error("expected decoded logo bytes")
	}
	if cc := rec.Header().Get("Cache-Control"); !strings.Contains(cc, "no-store") {
		t.Errorf("expected no-cache headers, got %q", cc)
	}

	if rec := get(e, "/seo/secrets.txt"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown image, got %d", rec.Code)
	}
}

func TestSEOImageHandler_CorruptValue(t *testing.T) {
	e, coreService := newTestFrontend(t)
	if err := coreService.SetSetting(context.Background(), core.FaviconKey, "not a data uri"); err != nil {
		t.Fatalf("failed to store value: %v", err)
	}
	if rec := get(e, "/seo/favicon.png"); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for corrupt value, got %d", rec.Code)
	}
}

func TestIconHandler(t *testing.T) {
	e, _ := newTestFrontend(t)

	rec := get(e, "/icon.svg")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != mimeSVG {
		t.Errorf("expected %s, got %q", mimeSVG, ct)
	}
	if !strings.Contains(rec.Body.String(), "<svg") {
		t.Error("expected SVG document")
	}
}
