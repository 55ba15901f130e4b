package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-qrexport/qrcode"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "QREXPORT_"

// PDF engines.
const (
	EngineDocument    = "document"
	EngineChromium    = "chromium"
	EngineWKHTMLTOPDF = "wkhtmltopdf"
)

// Config holds the qrexport configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Render RenderConfig `yaml:"render"`
	PDF    PDFConfig    `yaml:"pdf"`
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         string        `yaml:"port"`
	AllowOrigins string        `yaml:"allow_origins"`
	AccessLog    bool          `yaml:"access_log"`
	BodyLimit    int           `yaml:"body_limit"`
	Title        string        `yaml:"title"`
	ShutdownWait time.Duration `yaml:"shutdown_wait"`
}

// RenderConfig holds preview and export sizing.
type RenderConfig struct {
	PreviewSize       int           `yaml:"preview_size"`
	DefaultResolution int           `yaml:"default_resolution"`
	MinResolution     int           `yaml:"min_resolution"`
	MaxResolution     int           `yaml:"max_resolution"`
	FilenameTemplate  string        `yaml:"filename_template"`
	Timeout           time.Duration `yaml:"timeout"`
	WarmTimeout       time.Duration `yaml:"warm_timeout"`
}

// PDFConfig holds PDF engine settings.
type PDFConfig struct {
	Enabled              bool          `yaml:"enabled"`
	Engine               string        `yaml:"engine"`
	WKHTMLTOPDFPath      string        `yaml:"wkhtmltopdf_path"`
	ChromiumPath         string        `yaml:"chromium_path"`
	Headless             bool          `yaml:"headless"`
	Args                 []string      `yaml:"args"`
	Timeout              time.Duration `yaml:"timeout"`
	PageSize             string        `yaml:"page_size"`
	PrintBackground      bool          `yaml:"print_background"`
	Scale                float64       `yaml:"scale"`
	ExternalAssetsPolicy string        `yaml:"external_assets_policy"`
}

// OutputConfig holds artifact store settings.
type OutputConfig struct {
	Dir       string `yaml:"dir"`
	Sidecar   bool   `yaml:"sidecar"`
	Overwrite bool   `yaml:"overwrite"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Host:         "localhost",
			Port:         "8080",
			AccessLog:    true,
			BodyLimit:    16 * 1024 * 1024,
			ShutdownWait: 10 * time.Second,
		},
		Render: RenderConfig{
			PreviewSize:       qrcode.DefaultPreviewSize,
			DefaultResolution: qrcode.DefaultResolution,
			MinResolution:     qrcode.DefaultMinResolution,
			MaxResolution:     qrcode.DefaultMaxResolution,
			Timeout:           30 * time.Second,
			WarmTimeout:       30 * time.Second,
		},
		PDF: PDFConfig{
			Enabled:         true,
			Engine:          EngineDocument,
			Headless:        true,
			Timeout:         30 * time.Second,
			PageSize:        "A4",
			PrintBackground: true,
		},
		Output: OutputConfig{
			Dir:     ".",
			Sidecar: false,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load returns defaults overlaid with the YAML file at path (when set) and
// then with QREXPORT_ environment variables.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if strings.TrimSpace(path) != "" {
		content, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrap(err, errors.CategoryExternal, "read config file failed").
				WithTextCode("CONFIG_READ")
		}
		if err := yaml.Unmarshal(content, &cfg); err != nil {
			return cfg, errors.Wrap(err, errors.CategoryValidation, "config file is invalid").
				WithTextCode("CONFIG_INVALID")
		}
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	env := envReader{lookup: lookup}

	env.str("HOST", &c.Server.Host)
	env.str("PORT", &c.Server.Port)
	env.str("ALLOW_ORIGINS", &c.Server.AllowOrigins)
	env.boolean("ACCESS_LOG", &c.Server.AccessLog)
	env.integer("BODY_LIMIT", &c.Server.BodyLimit)
	env.str("TITLE", &c.Server.Title)

	env.integer("PREVIEW_SIZE", &c.Render.PreviewSize)
	env.integer("DEFAULT_RESOLUTION", &c.Render.DefaultResolution)
	env.integer("MIN_RESOLUTION", &c.Render.MinResolution)
	env.integer("MAX_RESOLUTION", &c.Render.MaxResolution)
	env.str("FILENAME_TEMPLATE", &c.Render.FilenameTemplate)
	env.duration("RENDER_TIMEOUT", &c.Render.Timeout)

	env.boolean("PDF_ENABLED", &c.PDF.Enabled)
	env.str("PDF_ENGINE", &c.PDF.Engine)
	env.str("WKHTMLTOPDF_PATH", &c.PDF.WKHTMLTOPDFPath)
	env.str("PDF_CHROMIUM_PATH", &c.PDF.ChromiumPath)
	env.boolean("PDF_HEADLESS", &c.PDF.Headless)
	if args, ok := lookup(EnvPrefix + "PDF_CHROMIUM_ARGS"); ok && args != "" {
		c.PDF.Args = splitCSV(args)
	}
	env.duration("PDF_TIMEOUT", &c.PDF.Timeout)
	env.str("PDF_PAGE_SIZE", &c.PDF.PageSize)
	env.boolean("PDF_PRINT_BACKGROUND", &c.PDF.PrintBackground)
	env.float("PDF_SCALE", &c.PDF.Scale)
	env.str("PDF_EXTERNAL_ASSETS_POLICY", &c.PDF.ExternalAssetsPolicy)

	env.str("OUTPUT_DIR", &c.Output.Dir)
	env.boolean("OUTPUT_SIDECAR", &c.Output.Sidecar)
	env.boolean("OUTPUT_OVERWRITE", &c.Output.Overwrite)

	env.str("LOG_LEVEL", &c.Log.Level)

	return env.err
}

// Validate checks cross-field constraints.
func (c Config) Validate() error {
	if c.Render.MinResolution > c.Render.MaxResolution {
		return errors.New("min resolution exceeds max resolution", errors.CategoryValidation).
			WithTextCode("CONFIG_RESOLUTION")
	}
	if c.Render.DefaultResolution < c.Render.MinResolution || c.Render.DefaultResolution > c.Render.MaxResolution {
		return errors.New("default resolution is out of bounds", errors.CategoryValidation).
			WithTextCode("CONFIG_RESOLUTION")
	}
	switch strings.ToLower(strings.TrimSpace(c.PDF.Engine)) {
	case "", EngineDocument, EngineChromium, EngineWKHTMLTOPDF:
	default:
		return errors.New("unknown pdf engine "+c.PDF.Engine, errors.CategoryValidation).
			WithTextCode("CONFIG_PDF_ENGINE")
	}
	return nil
}

// Address returns host:port for the HTTP listener.
func (s ServerConfig) Address() string {
	return s.Host + ":" + s.Port
}

type envReader struct {
	lookup func(string) (string, bool)
	err    error
}

func (r *envReader) get(name string) (string, bool) {
	if r.lookup == nil {
		return "", false
	}
	value, ok := r.lookup(EnvPrefix + name)
	if !ok || value == "" {
		return "", false
	}
	return value, true
}

func (r *envReader) fail(name string, err error) {
	if r.err == nil {
		r.err = errors.Wrap(err, errors.CategoryValidation, "invalid value for "+EnvPrefix+name).
			WithTextCode("CONFIG_ENV")
	}
}

func (r *envReader) str(name string, dst *string) {
	if value, ok := r.get(name); ok {
		*dst = value
	}
}

func (r *envReader) boolean(name string, dst *bool) {
	value, ok := r.get(name)
	if !ok {
		return
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		r.fail(name, err)
		return
	}
	*dst = parsed
}

func (r *envReader) integer(name string, dst *int) {
	value, ok := r.get(name)
	if !ok {
		return
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		r.fail(name, err)
		return
	}
	*dst = parsed
}

func (r *envReader) float(name string, dst *float64) {
	value, ok := r.get(name)
	if !ok {
		return
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		r.fail(name, err)
		return
	}
	*dst = parsed
}

// durations accept Go syntax ("45s") or a bare number of seconds.
func (r *envReader) duration(name string, dst *time.Duration) {
	value, ok := r.get(name)
	if !ok {
		return
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		*dst = time.Duration(seconds) * time.Second
		return
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		r.fail(name, err)
		return
	}
	*dst = parsed
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
