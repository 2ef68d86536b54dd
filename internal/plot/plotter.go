package plot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/BourgeoisBear/rasterm"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-sixel"
	xdraw "golang.org/x/image/draw"

	"vaspio/internal/log"
	"vaspio/internal/theme"
)

// Inline image protocols understood by Show
const (
	ProtocolAuto  = "auto"
	ProtocolKitty = "kitty"
	ProtocolIterm = "iterm"
	ProtocolSixel = "sixel"
)

// ErrNotTerminal is returned by Show when stdout is not an interactive terminal
var ErrNotTerminal = errors.New("cannot show figure: stdout is not a terminal")

// Options configures figure size and output
type Options struct {
	Width     int
	Height    int
	LineWidth float64
	OutputDir string
	Protocol  string
	// ShowWidth caps the pixel width of figures displayed in the terminal; 0 keeps the rendered size
	ShowWidth int
}

// DefaultOptions returns an 800x600 figure with a 2.5px line saved to the working directory
func DefaultOptions() Options {
	return Options{
		Width:     800,
		Height:    600,
		LineWidth: 2.5,
		OutputDir: ".",
		Protocol:  ProtocolAuto,
	}
}

// Plotter renders series and routes the figures to a file or the terminal
type Plotter struct {
	opts       Options
	colors     theme.PlotColors
	out        io.Writer
	isTerminal func() bool
}

// NewPlotter creates a plotter using the current theme's figure colors
func NewPlotter(opts Options) *Plotter {
	return &Plotter{
		opts:   opts,
		colors: theme.Current().PlotColors(),
		out:    os.Stdout,
		isTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
	}
}

// Plot renders s and sends it to the sink selected by mode
func (p *Plotter) Plot(s Series, mode Mode) (*Figure, error) {
	fig, err := Render(s, p.opts, p.colors)
	if err != nil {
		return nil, err
	}

	switch mode {
	case ModeSave:
		err = p.Save(fig)
	case ModeShow:
		err = p.Show(fig)
	default:
		err = &InvalidModeError{Mode: mode.String()}
	}
	if err != nil {
		return nil, err
	}
	return fig, nil
}

// Save writes fig as "<ylabel>_vs_<xlabel>.png" in the output directory
func (p *Plotter) Save(fig *Figure) error {
	dir := p.opts.OutputDir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, FileName(fig.YLabel, fig.XLabel))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	if err := png.Encode(file, fig.Image); err != nil {
		file.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	fig.Path = path
	log.Info("saved figure", "path", path)
	return nil
}

// Show writes fig to the terminal using an inline image protocol
func (p *Plotter) Show(fig *Figure) error {
	if !p.isTerminal() {
		return ErrNotTerminal
	}

	img := p.fitWidth(fig.Image)
	protocol := p.protocol()
	log.Debug("showing figure", "protocol", protocol, "width", img.Bounds().Dx())

	var err error
	switch protocol {
	case ProtocolKitty:
		err = rasterm.KittyWriteImage(p.out, img, rasterm.KittyImgOpts{})
	case ProtocolIterm:
		err = rasterm.ItermWriteImage(p.out, img)
	default:
		encoder := sixel.NewEncoder(p.out)
		encoder.Dither = false
		err = encoder.Encode(img)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s image: %w", protocol, err)
	}

	_, err = io.WriteString(p.out, "\n")
	return err
}

func (p *Plotter) protocol() string {
	switch p.opts.Protocol {
	case ProtocolKitty, ProtocolIterm, ProtocolSixel:
		return p.opts.Protocol
	}
	if rasterm.IsKittyCapable() {
		return ProtocolKitty
	}
	if rasterm.IsItermCapable() {
		return ProtocolIterm
	}
	return ProtocolSixel
}

// fitWidth scales img down to ShowWidth, keeping the aspect ratio
func (p *Plotter) fitWidth(img image.Image) image.Image {
	bounds := img.Bounds()
	if p.opts.ShowWidth <= 0 || bounds.Dx() <= p.opts.ShowWidth {
		return img
	}

	height := bounds.Dy() * p.opts.ShowWidth / bounds.Dx()
	scaled := image.NewRGBA(image.Rect(0, 0, p.opts.ShowWidth, height))
	xdraw.BiLinear.Scale(scaled, scaled.Bounds(), img, bounds, xdraw.Over, nil)
	return scaled
}
