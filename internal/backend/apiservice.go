package backend

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/jo-hoe/seoseed/internal/backend/commands"
	"github.com/jo-hoe/seoseed/internal/backend/database"
	"github.com/jo-hoe/seoseed/internal/core"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	SEOSettingsRoute = "/api/admin/seo-settings"
	maxUploadSize    = 5 << 20
)

type APIService struct {
	coreService *core.CoreService
}

// seoTextRequest carries the text fields accepted by PUT and PATCH. PUT reads them
// from multipart or url-encoded forms as well as JSON.
type seoTextRequest struct {
	Title       string `json:"title" form:"title" validate:"omitempty,max=200"`
	Description string `json:"description" form:"description" validate:"omitempty,max=1000"`
	Keywords    string `json:"keywords" form:"keywords" validate:"omitempty,max=1000"`
}

type seoSettingsResponse struct {
	Success bool `json:"success"`
	*core.SEOSettings
}

type statusResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// imageFields maps multipart file fields to the keys they are stored under.
var imageFields = []struct {
	field string
	key   string
}{
	{"coverImage", core.CoverImageKey},
	{"logo", core.LogoKey},
	{"favicon", core.FaviconKey},
}

func NewAPIService(coreService *core.CoreService) *APIService {
	return &APIService{
		coreService: coreService,
	}
}

func (s *APIService) SetRoutes(e *echo.Echo) {
	// Set probe route
	e.GET("/probe", func(c echo.Context) error {
		return c.String(http.StatusOK, "API Service is running")
	})
	e.GET("/ready", s.readyHandler)

	admin := e.Group(SEOSettingsRoute, middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	admin.GET("", s.getSEOSettingsHandler)
	admin.PUT("", s.putSEOSettingsHandler, middleware.BodyLimit("16M"))
	admin.PATCH("", s.patchSEOSettingsHandler)
	admin.OPTIONS("", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
}

func (s *APIService) readyHandler(ctx echo.Context) error {
	if !s.coreService.IsStoreReachable(ctx.Request().Context()) {
		slog.Warn("readyHandler: settings store unreachable", "status", http.StatusServiceUnavailable)
		return ctx.String(http.StatusServiceUnavailable, "Settings store unreachable")
	}
	return ctx.String(http.StatusOK, "ready")
}

func (s *APIService) getSEOSettingsHandler(ctx echo.Context) error {
	settings, err := s.coreService.GetSEOSettings(ctx.Request().Context())
	if err != nil {
		slog.Error("getSEOSettingsHandler: failed to load settings",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, statusResponse{Message: "Failed to load SEO settings"})
	}

	slog.Debug("getSEOSettingsHandler: settings loaded",
		"has_cover_image", settings.CoverImage != "",
		"has_logo", settings.Logo != "",
		"has_favicon", settings.Favicon != "")

	return ctx.JSON(http.StatusOK, seoSettingsResponse{Success: true, SEOSettings: settings})
}

// putSEOSettingsHandler accepts the text fields plus optional coverImage, logo and
// favicon files. Files are stored as data URIs of their declared content type.
func (s *APIService) putSEOSettingsHandler(ctx echo.Context) error {
	request, err := s.bindTextRequest(ctx)
	if err != nil {
		return err
	}
	update := request.toUpdate()

	if strings.HasPrefix(ctx.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		for _, f := range imageFields {
			dataURI, err := readUploadedImage(ctx, f.field)
			if err != nil {
				slog.Warn("putSEOSettingsHandler: rejected uploaded file",
					"status", http.StatusBadRequest, "field", f.field, "error", err)
				return ctx.JSON(http.StatusBadRequest, statusResponse{Message: err.Error()})
			}
			if dataURI != "" {
				update[f.key] = dataURI
			}
		}
	}

	return s.applyUpdate(ctx, update)
}

// patchSEOSettingsHandler updates text fields only, from a JSON body.
func (s *APIService) patchSEOSettingsHandler(ctx echo.Context) error {
	request, err := s.bindTextRequest(ctx)
	if err != nil {
		return err
	}
	return s.applyUpdate(ctx, request.toUpdate())
}

func (s *APIService) bindTextRequest(ctx echo.Context) (*seoTextRequest, error) {
	request := new(seoTextRequest)
	if err := ctx.Bind(request); err != nil {
		return nil, err
	}
	if err := ctx.Validate(request); err != nil {
		return nil, err
	}
	return request, nil
}

func (s *APIService) applyUpdate(ctx echo.Context, update map[string]string) error {
	if err := s.coreService.UpdateSEOSettings(ctx.Request().Context(), update); err != nil {
		if errors.Is(err, database.ErrValueTooLarge) {
			slog.Warn("applyUpdate: value exceeds store limit",
				"status", http.StatusRequestEntityTooLarge, "error", err)
			return ctx.JSON(http.StatusRequestEntityTooLarge, statusResponse{
				Message: fmt.Sprintf("Failed to update SEO settings: %v", err),
			})
		}
		slog.Error("applyUpdate: failed to update settings",
			"status", http.StatusInternalServerError, "error", err)
		return ctx.JSON(http.StatusInternalServerError, statusResponse{
			Message: fmt.Sprintf("Failed to update SEO settings: %v", err),
		})
	}
	return ctx.JSON(http.StatusOK, statusResponse{Success: true, Message: "SEO settings updated successfully"})
}

func (r *seoTextRequest) toUpdate() map[string]string {
	return map[string]string{
		core.TitleKey:       r.Title,
		core.DescriptionKey: r.Description,
		core.KeywordsKey:    r.Keywords,
	}
}

// readUploadedImage returns the data URI of the named file field, or "" when the
// field is absent or empty.
func readUploadedImage(ctx echo.Context, field string) (string, error) {
	file, err := ctx.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}
	if file.Size == 0 {
		return "", nil
	}
	if file.Size > maxUploadSize {
		return "", fmt.Errorf("%s exceeds %d bytes", field, maxUploadSize)
	}

	data, err := readFileHeader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", field, err)
	}

	mediaType := file.Header.Get(echo.HeaderContentType)
	if mediaType == "" {
		mediaType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("%s must be an image, got %s", field, mediaType)
	}
	return commands.EncodeDataURIWithType(mediaType, data), nil
}

func readFileHeader(file *multipart.FileHeader) ([]byte, error) {
	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.Error("readFileHeader: failed to close uploaded file reader", "error", cerr, "filename", file.Filename)
		}
	}()
	return io.ReadAll(src)
}
