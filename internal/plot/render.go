package plot

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

const (
	defaultWidth    = 900
	defaultHeight   = 650
	defaultTitle    = "AoA vs Lift"
	defaultFontSize = 12.0

	minWidth       = 200
	minChartHeight = 150

	xAxisName = "AoA (°)"
	yAxisName = "Lift (N)"

	// Spans used when every sample has the same value on an axis.
	minAoASpan  = 1.0   // degrees
	minLiftSpan = 100.0 // N
)

var (
	// ErrNoSamples is returned when there is nothing to plot.
	ErrNoSamples = errors.New("no samples to plot")
	// ErrOffScale is returned when no sample has an AoA and lift that fit
	// on an axis.
	ErrOffScale = errors.New("no sample values within the chart range")
)

// RenderConfig holds the chart options. Zero values fall back to defaults,
// except InfoBar which is off unless set.
type RenderConfig struct {
	Width    int     // Image width in pixels
	Height   int     // Image height in pixels, info bar included
	Title    string  // Chart title
	FontSize float64 // Font size in points
	InfoBar  bool    // Draw a summary line below the chart
}

// Renderer draws AoA vs Lift charts.
type Renderer struct {
	config RenderConfig
	font   *truetype.Font
}

// NewRenderer creates a new chart renderer with the given configuration.
func NewRenderer(config RenderConfig) (*Renderer, error) {
	if config.Width == 0 {
		config.Width = defaultWidth
	}
	if config.Height == 0 {
		config.Height = defaultHeight
	}
	if config.Title == "" {
		config.Title = defaultTitle
	}
	if config.FontSize == 0 {
		config.FontSize = defaultFontSize
	}

	if config.Width < minWidth {
		return nil, fmt.Errorf("image width %d is below %d pixels", config.Width, minWidth)
	}
	if config.chartHeight() < minChartHeight {
		return nil, fmt.Errorf("image height %d leaves less than %d pixels for the chart", config.Height, minChartHeight)
	}

	parsedFont, err := freetype.ParseFont(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	return &Renderer{config: config, font: parsedFont}, nil
}

func (c RenderConfig) chartHeight() int {
	if c.InfoBar {
		return c.Height - infoBarHeight
	}
	return c.Height
}

// Config returns the effective configuration.
func (r *Renderer) Config() RenderConfig {
	return r.config
}

// Render plots lift against angle of attack for samples, in order. Samples
// whose lift or AoA is NaN, infinite or beyond ±1e300 are left out and
// counted in the info bar.
func (r *Renderer) Render(samples []flight.Sample) (*image.RGBA, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	points := onScale(samples)
	if len(points) == 0 {
		return nil, ErrOffScale
	}

	chartImg, err := r.renderChart(points)
	if err != nil {
		return nil, err
	}

	img := image.NewRGBA(image.Rect(0, 0, r.config.Width, r.config.Height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(img, chartImg.Bounds(), chartImg, chartImg.Bounds().Min, draw.Src)

	if !r.config.InfoBar {
		return img, nil
	}

	ann := newAnnotator(r.font, r.config.FontSize)
	defer ann.Close()

	sum := Summarize(points)
	sum.Skipped = len(samples) - len(points)
	if err = ann.drawInfoBar(img, r.config.chartHeight(), sum); err != nil {
		return nil, fmt.Errorf("drawing info bar: %w", err)
	}
	return img, nil
}

func onScale(samples []flight.Sample) []flight.Sample {
	out := make([]flight.Sample, 0, len(samples))
	for _, s := range samples {
		if plottable(s.AoADeg) && plottable(s.LiftForce) {
			out = append(out, s)
		}
	}
	return out
}

func (r *Renderer) renderChart(samples []flight.Sample) (image.Image, error) {
	xs := make([]float64, 0, len(samples)+1)
	ys := make([]float64, 0, len(samples)+1)
	for _, s := range samples {
		xs = append(xs, s.AoADeg)
		ys = append(ys, s.LiftForce)
	}
	if len(samples) == 1 {
		// go-chart needs two points to lay out a series
		xs = append(xs, xs[0])
		ys = append(ys, ys[0])
	}

	chartHeight := r.config.chartHeight()
	xb, xTicks := axis(dataBounds(xs, minAoASpan), r.config.Width)
	yb, yTicks := axis(dataBounds(ys, minLiftSpan), chartHeight)

	gridStyle := chart.Style{StrokeColor: gridColor, StrokeWidth: 1}

	ch := chart.Chart{
		Title:      r.config.Title,
		TitleStyle: chart.Style{FontSize: r.config.FontSize + 2},
		Width:      r.config.Width,
		Height:     chartHeight,
		Font:       r.font,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 24, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:           xAxisName,
			Range:          xb.Range(),
			Ticks:          xTicks,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Name:           yAxisName,
			Range:          yb.Range(),
			Ticks:          yTicks,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Lift",
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor:      lineColor,
					StrokeWidth:      2,
					DotWidth:         5,
					DotColorProvider: markerColor,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("decoding chart: %w", err)
	}
	return img, nil
}

// ImageFormat is the encoding of a saved chart.
type ImageFormat string

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"

	jpegQuality = 98
)

// FormatFromPath picks the image format from the file extension. Anything
// other than .jpg or .jpeg is written as PNG.
func FormatFromPath(path string) ImageFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return ImageJPEG
	default:
		return ImagePNG
	}
}

// Encode renders samples and writes them to w in the given format.
func (r *Renderer) Encode(w io.Writer, format ImageFormat, samples []flight.Sample) error {
	img, err := r.Render(samples)
	if err != nil {
		return err
	}

	switch format {
	case ImagePNG:
		err = png.Encode(w, img)
	case ImageJPEG:
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	default:
		return fmt.Errorf("unsupported image format: %s", format)
	}
	if err != nil {
		return fmt.Errorf("encoding image: %w", err)
	}
	return nil
}

// WritePNG renders samples and writes them to w as a PNG image.
func (r *Renderer) WritePNG(w io.Writer, samples []flight.Sample) error {
	return r.Encode(w, ImagePNG, samples)
}

// SaveFile renders samples into the file at path, replacing it. The format
// follows the file extension. The file is left as it was when rendering
// fails.
func (r *Renderer) SaveFile(path string, samples []flight.Sample) (err error) {
	var buf bytes.Buffer
	if err = r.Encode(&buf, FormatFromPath(path), samples); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	if _, err = buf.WriteTo(f); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
