package core

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"log/slog"

	"github.com/jo-hoe/seoseed/internal/backend/commands"
	"github.com/jo-hoe/seoseed/internal/backend/commandstructure"
	"github.com/jo-hoe/seoseed/internal/backend/database"
)

// GeneratedImage is one rendered asset ready for upload.
type GeneratedImage struct {
	Key     string
	Width   int
	Height  int
	PNG     []byte
	DataURI string
}

// UploadResult is the outcome of uploading one key.
type UploadResult struct {
	Key     string
	Success bool
}

type CoreService struct {
	config          *ServiceConfig
	databaseService database.SettingsService
	uploader        *Uploader
	out             io.Writer
}

type options struct {
	runner database.CommandRunner
}

// Option customizes NewCoreService.
type Option func(*options)

// WithCommandRunner replaces the shell used by the wrangler backend.
func WithCommandRunner(runner database.CommandRunner) Option {
	return func(o *options) {
		o.runner = runner
	}
}

// NewCoreService opens the configured settings store. Progress lines go to out.
func NewCoreService(ctx context.Context, config *ServiceConfig, out io.Writer, opts ...Option) (*CoreService, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	databaseService, err := getDatabaseService(ctx, config, o.runner)
	if err != nil {
		return nil, err
	}
	return &CoreService{
		config:          config,
		databaseService: databaseService,
		uploader:        NewUploader(databaseService, out, config.Verify),
		out:             out,
	}, nil
}

func getDatabaseService(ctx context.Context, config *ServiceConfig, runner database.CommandRunner) (database.SettingsService, error) {
	databaseService, err := database.NewDatabase(ctx, database.Config{
		Type:             config.Database.Type,
		ConnectionString: config.Database.ConnectionString,
		Table:            config.Database.Table,
		ScratchDir:       config.ScratchDir,
		Wrangler: database.WranglerOptions{
			WorkDir:     config.Wrangler.WorkDir,
			NvmScript:   config.Wrangler.NvmScript,
			NodeVersion: config.Wrangler.NodeVersion,
			Binary:      config.Wrangler.Binary,
			Database:    config.Wrangler.Database,
			Remote:      config.Wrangler.Remote,
		},
		Runner: runner,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized successfully", "type", config.Database.Type)
	return databaseService, nil
}

// Run generates every configured image and then uploads them in order. Per-key
// upload failures are part of the results; the returned error is reserved for
// failures that stop the run.
func (service *CoreService) Run(ctx context.Context) ([]UploadResult, error) {
	fmt.Fprintln(service.out, "Creating SEO images...")
	images, err := service.GenerateImages()
	if err != nil {
		return nil, err
	}

	fmt.Fprintln(service.out, "Uploading to database...")
	results, err := service.UploadImages(ctx, images)
	if err != nil {
		return results, err
	}

	fmt.Fprintln(service.out, "Done!")
	return results, nil
}

// GenerateImages renders the configured images in order.
func (service *CoreService) GenerateImages() ([]*GeneratedImage, error) {
	configs := make([]commandstructure.CommandConfig, 0, len(service.config.Images))
	for _, img := range service.config.Images {
		configs = append(configs, img.Command)
	}

	outputs, err := commandstructure.ExecuteCommands(configs)
	if err != nil {
		return nil, fmt.Errorf("failed to generate images: %w", err)
	}

	images := make([]*GeneratedImage, 0, len(outputs))
	for i, output := range outputs {
		cfg, err := png.DecodeConfig(bytes.NewReader(output))
		if err != nil {
			return nil, fmt.Errorf("generator %s produced invalid PNG: %w", configs[i].Name, err)
		}
		images = append(images, &GeneratedImage{
			Key:     service.config.Images[i].Key,
			Width:   cfg.Width,
			Height:  cfg.Height,
			PNG:     output,
			DataURI: commands.EncodeDataURI(output),
		})
	}
	return images, nil
}

// UploadImages uploads each image in order, continuing past per-key failures.
func (service *CoreService) UploadImages(ctx context.Context, images []*GeneratedImage) ([]UploadResult, error) {
	results := make([]UploadResult, 0, len(images))
	for _, img := range images {
		ok, err := service.uploader.Upload(ctx, img.Key, img.DataURI)
		if err != nil {
			return results, err
		}
		results = append(results, UploadResult{Key: img.Key, Success: ok})
	}
	return results, nil
}

// GetSetting returns the stored value for key, or "" when it is absent.
func (service *CoreService) GetSetting(ctx context.Context, key string) (string, error) {
	setting, err := service.databaseService.GetSetting(ctx, key)
	if err != nil {
		return "", err
	}
	if setting == nil {
		return "", nil
	}
	return setting.Value, nil
}

// SetSetting upserts a single value.
func (service *CoreService) SetSetting(ctx context.Context, key, value string) error {
	return service.databaseService.SetSetting(ctx, key, value)
}

// IsStoreReachable reports whether the settings store answers a trivial query.
func (service *CoreService) IsStoreReachable(ctx context.Context) bool {
	return service.databaseService.DoesDatabaseExist(ctx)
}

func (service *CoreService) Close() error {
	return service.databaseService.Close()
}
