package render

import (
	"bytes"
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/cli/browser"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// FlowImage holds both encodings of one rendered flow drawing. The PNG
// bytes are decoded into a bitmap at construction; the SVG bytes are kept
// verbatim and never re-encoded. Both views come from the same Graphviz
// layout, so they always match.
//
// A FlowImage is immutable after construction. Save, Encode, and Show
// only read the stored representations.
type FlowImage struct {
	raster image.Image
	svg    []byte
	logger *log.Logger
}

// Option configures FlowImage construction.
type Option func(*FlowImage)

// WithLogger sets the logger used for save warnings.
// Defaults to [log.Default].
func WithLogger(logger *log.Logger) Option {
	return func(f *FlowImage) { f.logger = logger }
}

// NewFlowImage wraps backend output into a FlowImage.
//
// The PNG bytes are decoded once here; a decode failure means the backend
// produced malformed output and is fatal. The SVG bytes are stored as-is.
func NewFlowImage(png, svg []byte, opts ...Option) (*FlowImage, error) {
	img, err := imaging.Decode(bytes.NewReader(png))
	if err != nil {
		return nil, fmt.Errorf("decode raster output: %w", err)
	}

	f := &FlowImage{
		raster: img,
		svg:    svg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Raster returns the decoded bitmap view.
func (f *FlowImage) Raster() image.Image { return f.raster }

// SVG returns the raw vector markup bytes.
func (f *FlowImage) SVG() []byte { return f.svg }

// SVGText returns the vector markup as text, for embedding in rich output
// consumers such as notebook cells.
func (f *FlowImage) SVGText() string { return string(f.svg) }

// saveConfig collects the optional save parameters.
type saveConfig struct {
	format    imaging.Format
	hasFormat bool
	encOpts   []imaging.EncodeOption
}

// SaveOption configures a [FlowImage.Save] or [FlowImage.Encode] call.
type SaveOption func(*saveConfig)

// WithFormat forces the raster encoding instead of inferring it from the
// destination extension.
func WithFormat(format imaging.Format) SaveOption {
	return func(c *saveConfig) {
		c.format = format
		c.hasFormat = true
	}
}

// WithEncodeOptions passes parameters through to the raster encoder,
// e.g. [imaging.JPEGQuality].
func WithEncodeOptions(opts ...imaging.EncodeOption) SaveOption {
	return func(c *saveConfig) { c.encOpts = append(c.encOpts, opts...) }
}

// destKind tags the two destination kinds a path save dispatches on.
// Streams are the third kind and have their own method, [FlowImage.Encode].
type destKind int

const (
	destVector destKind = iota // .svg path, markup written verbatim
	destRaster                 // any other path, delegated to the raster encoder
)

func classifyDest(dst string) destKind {
	if filepath.Ext(dst) == ".svg" {
		return destVector
	}
	return destRaster
}

// Save writes the image to the given path, exactly one file per call.
//
// A path ending in ".svg" receives the stored vector markup verbatim.
// Format and encoder options do not apply to markup output; supplying
// them logs a single warning and they are ignored.
//
// Any other extension goes through the raster encoder, with the format
// inferred from the extension unless [WithFormat] overrides it.
// Unsupported extensions surface [imaging.ErrUnsupportedFormat].
func (f *FlowImage) Save(dst string, opts ...SaveOption) error {
	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	switch classifyDest(dst) {
	case destVector:
		if cfg.hasFormat || len(cfg.encOpts) > 0 {
			f.logger.Warn("format and encode options are not supported for SVG output, writing markup verbatim", "path", dst)
		}
		return os.WriteFile(dst, f.svg, 0o644)

	default:
		if cfg.hasFormat {
			file, err := os.Create(dst)
			if err != nil {
				return err
			}
			err = imaging.Encode(file, f.raster, cfg.format, cfg.encOpts...)
			if cerr := file.Close(); err == nil {
				err = cerr
			}
			return err
		}
		return imaging.Save(f.raster, dst, cfg.encOpts...)
	}
}

// Encode writes the raster encoding to w. Vector markup is never written
// to a stream; use [FlowImage.SVG] for direct access. The format defaults
// to PNG when [WithFormat] is not given.
func (f *FlowImage) Encode(w io.Writer, opts ...SaveOption) error {
	var cfg saveConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	format := imaging.PNG
	if cfg.hasFormat {
		format = cfg.format
	}
	return imaging.Encode(w, f.raster, format, cfg.encOpts...)
}

// Show writes the bitmap to a temporary PNG and opens it with the
// system image viewer. The file is left in place for the viewer; the
// OS cleans the temp directory.
func (f *FlowImage) Show() error {
	path := filepath.Join(os.TempDir(), "flowviz-"+uuid.New().String()+".png")
	if err := imaging.Save(f.raster, path); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("open viewer: %w", err)
	}
	return nil
}
