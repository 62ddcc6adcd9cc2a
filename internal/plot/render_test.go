package plot

import (
	"bytes"
	"image/jpeg"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

func samples(speeds ...[2]float64) []flight.Sample {
	a := flight.Airframe{WingArea: 20, AirDensity: flight.DefaultAirDensity}
	out := make([]flight.Sample, 0, len(speeds))
	for _, v := range speeds {
		out = append(out, flight.Calculate(a.Inputs(v[0], v[1])))
	}
	return out
}

func TestNewRenderer_Defaults(t *testing.T) {
	r, err := NewRenderer(RenderConfig{})
	require.NoError(t, err)

	cfg := r.Config()
	assert.Equal(t, defaultWidth, cfg.Width)
	assert.Equal(t, defaultHeight, cfg.Height)
	assert.Equal(t, defaultTitle, cfg.Title)
	assert.Equal(t, defaultFontSize, cfg.FontSize)
	assert.False(t, cfg.InfoBar)
}

func TestNewRenderer_TooSmall(t *testing.T) {
	_, err := NewRenderer(RenderConfig{Width: 100, Height: 400})
	assert.Error(t, err)

	_, err = NewRenderer(RenderConfig{Width: 400, Height: minChartHeight + 10, InfoBar: true})
	assert.Error(t, err)
}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name    string
		samples []flight.Sample
		infoBar bool
	}{
		{"single sample", samples([2]float64{10, 10}), false},
		{"single sample with info bar", samples([2]float64{10, 10}), true},
		{"series", samples([2]float64{0, 50}, [2]float64{1, 40}, [2]float64{3, 30}, [2]float64{8, 25}), true},
		{"stall and negative lift", samples([2]float64{-2, 20}, [2]float64{5, 0}, [2]float64{20, 30}), true},
		{"identical samples", samples([2]float64{1, 10}, [2]float64{1, 10}), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(RenderConfig{Width: 640, Height: 480, InfoBar: tt.infoBar})
			require.NoError(t, err)

			img, err := r.Render(tt.samples)
			require.NoError(t, err)
			assert.Equal(t, 640, img.Bounds().Dx())
			assert.Equal(t, 480, img.Bounds().Dy())

			if tt.infoBar {
				assert.Equal(t, infoBarBackground, img.RGBAAt(img.Bounds().Max.X-1, img.Bounds().Max.Y-1))
			}
		})
	}
}

func TestRenderer_RenderEmpty(t *testing.T) {
	r, err := NewRenderer(RenderConfig{})
	require.NoError(t, err)

	_, err = r.Render(nil)
	assert.ErrorIs(t, err, ErrNoSamples)

	err = r.SaveFile(filepath.Join(t.TempDir(), "chart.png"), nil)
	assert.ErrorIs(t, err, ErrNoSamples)
}

func TestRenderer_RenderNonFiniteLift(t *testing.T) {
	nanLift := samples([2]float64{0, 1e200})[0]
	infLift := samples([2]float64{1e200, 1e200})[0]
	require.True(t, math.IsNaN(nanLift.LiftForce))
	require.True(t, math.IsInf(infLift.LiftForce, 1))

	tests := []struct {
		name    string
		samples []flight.Sample
		wantErr error
	}{
		{"nan lift", []flight.Sample{nanLift}, ErrOffScale},
		{"infinite lift", []flight.Sample{infLift}, ErrOffScale},
		{"overflowing span", []flight.Sample{{AoADeg: 1, LiftForce: -1e308}, {AoADeg: 2, LiftForce: 1e308}}, ErrOffScale},
		{"nan aoa", []flight.Sample{{AoADeg: math.NaN(), LiftForce: 10}}, ErrOffScale},
		{"mixed with finite", append(samples([2]float64{1, 10}, [2]float64{2, 10}), nanLift, infLift), nil},
		{"widest plottable span", []flight.Sample{{AoADeg: 1, LiftForce: -1e300}, {AoADeg: 2, LiftForce: 1e300}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRenderer(RenderConfig{Width: 400, Height: 300, InfoBar: true})
			require.NoError(t, err)

			img, err := r.Render(tt.samples)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 400, img.Bounds().Dx())
		})
	}
}

func TestRenderer_SaveFileKeepsPreviousChartOnFailure(t *testing.T) {
	r, err := NewRenderer(RenderConfig{Width: 400, Height: 300})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, r.SaveFile(path, samples([2]float64{1, 10})))
	previous, err := os.ReadFile(path)
	require.NoError(t, err)

	err = r.SaveFile(path, samples([2]float64{0, 1e200}))
	assert.ErrorIs(t, err, ErrOffScale)

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, previous, current)

	missing := filepath.Join(t.TempDir(), "none.png")
	assert.Error(t, r.SaveFile(missing, nil))
	_, err = os.Stat(missing)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderer_WritePNG(t *testing.T) {
	r, err := NewRenderer(RenderConfig{Width: 400, Height: 300})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, r.WritePNG(&buf, samples([2]float64{1, 10}, [2]float64{2, 10})))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestRenderer_SaveFile(t *testing.T) {
	r, err := NewRenderer(RenderConfig{InfoBar: true})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chart.png")
	require.NoError(t, r.SaveFile(path, samples([2]float64{10, 10})))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	_, err = png.Decode(f)
	assert.NoError(t, err)
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, ImagePNG, FormatFromPath("chart.png"))
	assert.Equal(t, ImagePNG, FormatFromPath("chart"))
	assert.Equal(t, ImageJPEG, FormatFromPath("chart.JPG"))
	assert.Equal(t, ImageJPEG, FormatFromPath("out/chart.jpeg"))
}

func TestRenderer_SaveFileJPEG(t *testing.T) {
	r, err := NewRenderer(RenderConfig{Width: 400, Height: 300})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "chart.jpg")
	require.NoError(t, r.SaveFile(path, samples([2]float64{1, 10}, [2]float64{3, 10})))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 400, cfg.Width)
}

func TestRenderer_EncodeUnknownFormat(t *testing.T) {
	r, err := NewRenderer(RenderConfig{})
	require.NoError(t, err)

	err = r.Encode(&bytes.Buffer{}, ImageFormat("gif"), samples([2]float64{1, 10}))
	assert.Error(t, err)
}
