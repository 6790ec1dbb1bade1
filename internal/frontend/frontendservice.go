package frontend

import (
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/jo-hoe/seoseed/internal/backend/commands"
	"github.com/jo-hoe/seoseed/internal/core"
	"github.com/labstack/echo/v4"
)

const (
	MainPageName = "index.html"
	mimeSVG      = "image/svg+xml"
)

type FrontendService struct {
	coreService *core.CoreService
}

// pageData feeds the meta tags of the main page.
type pageData struct {
	*core.SEOSettings
	HasCoverImage bool
	HasLogo       bool
	HasFavicon    bool
}

func NewFrontendService(coreService *core.CoreService) *FrontendService {
	return &FrontendService{
		coreService: coreService,
	}
}

// rootRedirectHandler redirects root path to index.html
func (service *FrontendService) rootRedirectHandler(ctx echo.Context) error {
	return ctx.Redirect(http.StatusMovedPermanently, "/"+MainPageName)
}

func (service *FrontendService) SetRoutes(e *echo.Echo) {
	e.Renderer = &Template{
		templates: template.Must(template.New("").ParseFS(templateFS, viewsPattern)),
	}

	e.GET("/", service.rootRedirectHandler)
	e.GET("/"+MainPageName, service.indexHandler)

	// Stored images, decoded from their data URIs
	e.GET("/seo/:name", service.seoImageHandler)

	// Generated logo as SVG, used while no logo has been uploaded
	e.GET("/icon.svg", service.iconHandler)
}

func (service *FrontendService) indexHandler(ctx echo.Context) error {
	settings, err := service.coreService.GetSEOSettings(ctx.Request().Context())
	if err != nil {
		slog.Error("indexHandler: failed to load SEO settings",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load page")
	}

	return ctx.Render(http.StatusOK, MainPageName, pageData{
		SEOSettings:   settings,
		HasCoverImage: settings.CoverImage != "",
		HasLogo:       settings.Logo != "",
		HasFavicon:    settings.Favicon != "",
	})
}

// seoImageKeys maps public file names to setting keys.
var seoImageKeys = map[string]string{
	"cover.png":   core.CoverImageKey,
	"logo.png":    core.LogoKey,
	"favicon.png": core.FaviconKey,
}

func (service *FrontendService) seoImageHandler(ctx echo.Context) error {
	name := strings.ToLower(ctx.Param("name"))
	key, ok := seoImageKeys[name]
	if !ok {
		return ctx.String(http.StatusNotFound, "Unknown image")
	}

	value, err := service.coreService.GetSetting(ctx.Request().Context(), key)
	if err != nil {
		slog.Error("seoImageHandler: failed to read setting",
			"status", http.StatusInternalServerError, "key", key, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load image")
	}
	if value == "" {
		return ctx.String(http.StatusNotFound, "Image not available")
	}

	mediaType, data, err := commands.DecodeDataURI(value)
	if err != nil {
		slog.Warn("seoImageHandler: stored value is not a data URI",
			"status", http.StatusNotFound, "key", key, "error", err)
		return ctx.String(http.StatusNotFound, "Image not available")
	}

	service.setNoCache(ctx)
	return ctx.Blob(http.StatusOK, mediaType, data)
}

func (service *FrontendService) iconHandler(ctx echo.Context) error {
	command, err := commands.NewLogoImageCommand(nil)
	if err != nil {
		slog.Error("iconHandler: failed to create logo command", "status", http.StatusInternalServerError, "error", err)
		return ctx.String(http.StatusInternalServerError, "Failed to load icon")
	}
	// Cache for 7 days
	ctx.Response().Header().Set("Cache-Control", "public, max-age=604800, immutable")
	return ctx.Blob(http.StatusOK, mimeSVG, command.(*commands.TargetMarkCommand).SVG())
}

func (service *FrontendService) setNoCache(ctx echo.Context) {
	ctx.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
	ctx.Response().Header().Set("Pragma", "no-cache")
	ctx.Response().Header().Set("Expires", "0")
}
