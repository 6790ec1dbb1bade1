package core

import (
	"context"
	"fmt"
	"log/slog"
)

// Keys of the text settings edited through the admin API.
const (
	TitleKey       = "seo_title"
	DescriptionKey = "seo_description"
	KeywordsKey    = "seo_keywords"
)

const (
	DefaultTitle       = "OCUS Job Hunter"
	DefaultDescription = "Automated job application Chrome extension"
	DefaultKeywords    = "job hunting, automation, chrome extension"
)

// SEOSettings is the full set of values a page needs for its meta tags. Image
// fields hold data URIs and are empty when nothing has been uploaded.
type SEOSettings struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
	CoverImage  string `json:"coverImage"`
	Logo        string `json:"logo"`
	Favicon     string `json:"favicon"`
}

// settingKeys fixes the write order of UpdateSEOSettings.
var settingKeys = []string{TitleKey, DescriptionKey, KeywordsKey, CoverImageKey, LogoKey, FaviconKey}

// GetSEOSettings reads every SEO key, substituting defaults for missing text values.
func (service *CoreService) GetSEOSettings(ctx context.Context) (*SEOSettings, error) {
	values := make(map[string]string, len(settingKeys))
	for _, key := range settingKeys {
		value, err := service.GetSetting(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", key, err)
		}
		values[key] = value
	}

	return &SEOSettings{
		Title:       orDefault(values[TitleKey], DefaultTitle),
		Description: orDefault(values[DescriptionKey], DefaultDescription),
		Keywords:    orDefault(values[KeywordsKey], DefaultKeywords),
		CoverImage:  values[CoverImageKey],
		Logo:        values[LogoKey],
		Favicon:     values[FaviconKey],
	}, nil
}

// UpdateSEOSettings stores the non-empty values of update and leaves the rest untouched.
func (service *CoreService) UpdateSEOSettings(ctx context.Context, update map[string]string) error {
	for _, key := range settingKeys {
		value := update[key]
		if value == "" {
			continue
		}
		if err := service.SetSetting(ctx, key, value); err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
		slog.Info("CoreService: SEO setting updated", "key", key, "value_length", len(value))
	}
	return nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
