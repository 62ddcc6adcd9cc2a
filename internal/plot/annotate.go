package plot

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

const (
	dpi = 72.0

	infoBarHeight = 32 // pixels below the chart
	infoBarLeft   = 16
)

var (
	infoBarBackground = color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff}
	stallTextColor    = color.RGBA{R: 0xc6, G: 0x28, B: 0x28, A: 0xff}
)

type annotator struct {
	context  *freetype.Context
	fontFace font.Face
	fontSize float64
}

func newAnnotator(f *truetype.Font, fontSize float64) *annotator {
	ctx := freetype.NewContext()
	ctx.SetDPI(dpi)
	ctx.SetFont(f)
	ctx.SetFontSize(fontSize)
	ctx.SetHinting(font.HintingFull)
	ctx.SetSrc(image.Black)

	return &annotator{
		context:  ctx,
		fontSize: fontSize,
		fontFace: truetype.NewFace(f, &truetype.Options{
			Size:    fontSize,
			DPI:     dpi,
			Hinting: font.HintingFull,
		}),
	}
}

func (a *annotator) Close() error {
	if a.fontFace != nil {
		return a.fontFace.Close()
	}
	return nil
}

// drawInfoBar fills the area below top with a one line summary of the series.
func (a *annotator) drawInfoBar(img *image.RGBA, top int, sum Summary) error {
	bar := image.Rect(0, top, img.Bounds().Dx(), img.Bounds().Max.Y)
	for y := bar.Min.Y; y < bar.Max.Y; y++ {
		for x := bar.Min.X; x < bar.Max.X; x++ {
			img.SetRGBA(x, y, infoBarBackground)
		}
	}

	a.context.SetClip(bar)
	a.context.SetDst(img)

	metrics := a.fontFace.Metrics()
	fontHeight := (metrics.Ascent + metrics.Descent).Round()
	textY := bar.Max.Y - (bar.Dy()-fontHeight)/2 - metrics.Descent.Round()

	pt := freetype.Pt(infoBarLeft, textY)
	end, err := a.context.DrawString(infoText(sum), pt)
	if err != nil {
		return fmt.Errorf("drawing info text: %w", err)
	}

	if sum.Stalls == 0 {
		return nil
	}

	a.context.SetSrc(image.NewUniform(stallTextColor))
	defer a.context.SetSrc(image.Black)

	warning := fmt.Sprintf("; Stall warnings: %d", sum.Stalls)
	if _, err = a.context.DrawString(warning, end); err != nil {
		return fmt.Errorf("drawing stall count: %w", err)
	}
	return nil
}

func infoText(sum Summary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Samples: %d", sum.Count))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("AoA: %.2f° to %.2f°", sum.MinAoA, sum.MaxAoA))
	sb.WriteString("; ")
	sb.WriteString(fmt.Sprintf("Lift: %s to %s", humanNewtons(sum.MinLift), humanNewtons(sum.MaxLift)))
	if sum.Skipped > 0 {
		sb.WriteString(fmt.Sprintf("; Off scale: %d", sum.Skipped))
	}

	return sb.String()
}

func humanNewtons(n float64) string {
	value, prefix := humanize.ComputeSI(n)
	return fmt.Sprintf("%.2f %sN", value, prefix)
}
