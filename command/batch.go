package command

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	storefs "github.com/goliatone/go-qrexport/adapters/store/fs"
	"github.com/goliatone/go-qrexport/qrcode"
)

// BatchItem describes one export in a batch file. Logo is a file path
// resolved relative to the batch file.
type BatchItem struct {
	Key        string        `yaml:"key"`
	Format     qrcode.Format `yaml:"format"`
	Resolution int           `yaml:"resolution"`
	Filename   string        `yaml:"filename"`
	Form       qrcode.Form   `yaml:"form"`
	Style      qrcode.Style  `yaml:"style"`
	Logo       string        `yaml:"logo"`
}

// BatchFile is the YAML (or JSON) document read by the batch command.
type BatchFile struct {
	Exports []BatchItem `yaml:"exports"`
}

// BatchLoader loads batch items from a source.
type BatchLoader func(ctx context.Context) ([]BatchItem, error)

// Saver executes SaveQRCode messages.
type Saver interface {
	Execute(ctx context.Context, msg SaveQRCode) error
}

// DispatchSaver sends each save through the command dispatcher, so batch
// entries reach whatever SaveQRCode handler is subscribed.
type DispatchSaver struct{}

func (DispatchSaver) Execute(ctx context.Context, msg SaveQRCode) error {
	return dispatcher.Dispatch(ctx, msg)
}

// BatchLimits bounds batch execution throughput.
type BatchLimits struct {
	MaxItems    int
	MinInterval time.Duration
}

// BatchOption customizes batch commands.
type BatchOption func(*BatchCommand)

// WithBatchLimits overrides batch execution limits.
func WithBatchLimits(limits BatchLimits) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.limits = limits
	}
}

// WithBatchLoader sets the loader used when no file is given.
func WithBatchLoader(loader BatchLoader) BatchOption {
	return func(cmd *BatchCommand) {
		cmd.loader = loader
	}
}

// BatchCommand saves every item of a batch through the store.
type BatchCommand struct {
	saver  Saver
	loader BatchLoader
	limits BatchLimits
	sleep  func(time.Duration)
}

// NewBatchCommand creates a batch export command.
func NewBatchCommand(saver Saver, opts ...BatchOption) *BatchCommand {
	cmd := &BatchCommand{saver: saver, sleep: time.Sleep}
	for _, opt := range opts {
		if opt != nil {
			opt(cmd)
		}
	}
	return cmd
}

// Run saves the batch from path, or from the loader when path is empty. It
// returns the artifacts written before the first failure.
func (c *BatchCommand) Run(ctx context.Context, path string) ([]storefs.ArtifactRef, error) {
	if c == nil {
		return nil, errors.New("batch command is nil", errors.CategoryInternal).
			WithTextCode("BATCH_CMD_NIL")
	}
	if c.saver == nil {
		return nil, errors.New("batch saver is required", errors.CategoryValidation).
			WithTextCode("SAVER_REQUIRED")
	}

	items, baseDir, err := c.loadItems(ctx, path)
	if err != nil {
		return nil, err
	}

	refs := make([]storefs.ArtifactRef, 0, len(items))
	for i, item := range items {
		if c.limits.MaxItems > 0 && i >= c.limits.MaxItems {
			break
		}
		if err := ctx.Err(); err != nil {
			return refs, err
		}
		msg, err := item.message(baseDir)
		if err != nil {
			return refs, err
		}
		var ref storefs.ArtifactRef
		msg.Result = &ref
		if err := c.saver.Execute(ctx, msg); err != nil {
			return refs, err
		}
		refs = append(refs, ref)
		if c.limits.MinInterval > 0 && c.sleep != nil && i < len(items)-1 {
			c.sleep(c.limits.MinInterval)
		}
	}
	return refs, nil
}

func (c *BatchCommand) loadItems(ctx context.Context, path string) ([]BatchItem, string, error) {
	if strings.TrimSpace(path) != "" {
		items, err := LoadBatchFile(path)
		return items, filepath.Dir(path), err
	}
	if c.loader == nil {
		return nil, "", errors.New("batch loader not configured", errors.CategoryValidation).
			WithTextCode("LOADER_REQUIRED")
	}
	items, err := c.loader(ctx)
	return items, "", err
}

func (item BatchItem) message(baseDir string) (SaveQRCode, error) {
	style := item.Style
	if item.Logo != "" {
		logoPath := item.Logo
		if !filepath.IsAbs(logoPath) && baseDir != "" {
			logoPath = filepath.Join(baseDir, logoPath)
		}
		data, err := os.ReadFile(logoPath)
		if err != nil {
			return SaveQRCode{}, errors.Wrap(err, errors.CategoryValidation, "read logo failed").
				WithTextCode("LOGO_READ")
		}
		style.Logo = data
	}
	return SaveQRCode{
		Key: item.Key,
		Request: qrcode.ExportRequest{
			Form:       item.Form,
			Style:      style,
			Format:     item.Format,
			Resolution: item.Resolution,
			Filename:   item.Filename,
		},
	}, nil
}

// LoadBatchFile reads a batch document. JSON documents parse as YAML.
func LoadBatchFile(path string) ([]BatchItem, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "read batch file failed").
			WithTextCode("BATCH_FILE_READ")
	}

	var file BatchFile
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, errors.Wrap(err, errors.CategoryValidation, "batch file is invalid").
			WithTextCode("BATCH_FILE_INVALID")
	}
	return file.Exports, nil
}
