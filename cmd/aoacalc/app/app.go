package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/roman-kulish/flight-aoa/internal/flight"
	"github.com/roman-kulish/flight-aoa/internal/plot"
	"github.com/roman-kulish/flight-aoa/internal/storage"
)

var errFieldCount = errors.New("expected 'vs hs' or 'vs hs area density'")

// Run loads flight data, evaluates the speeds given on the command line and
// on the input, then draws the chart and appends the history to the CSV file.
// Each failed step is reported on out and the run carries on; the returned
// error joins every failure.
func Run(ctx context.Context, config *Config, logger *slog.Logger, in io.Reader, out io.Writer) error {
	c, err := newCalculator(config, logger, out)
	if err != nil {
		return err
	}

	var errs []error
	if config.Run.LoadPath != "" {
		errs = append(errs, c.load(config.Run.LoadPath))
	}

	if config.Run.HasSingleEvaluation() {
		c.form.VerticalSpeed = config.Run.VerticalSpeed
		c.form.HorizontalSpeed = config.Run.HorizontalSpeed
		errs = append(errs, c.calculate())
	}

	if config.Run.Interactive {
		prompt := NewPrompt(in, out,
			WithPromptLogger(logger),
			WithMaxInputErrors(config.Prompt.MaxInputErrors))

		err = prompt.Run(ctx, c.handleLine)
		switch {
		case errors.Is(err, context.Canceled):
			logger.Info("prompt interrupted")
		case err != nil:
			errs = append(errs, fmt.Errorf("running prompt: %w", err))
		}
	}

	errs = append(errs, c.plot())
	if c.session.History().Len() > 0 {
		errs = append(errs, c.save())
	}
	return errors.Join(errs...)
}

// calculator holds the state of the form the way a user fills it: the last
// typed value of every field, and the session of evaluated samples.
type calculator struct {
	form     flight.RawInputs
	session  *flight.Session
	store    storage.Store
	renderer *plot.Renderer
	config   *Config
	report   reporter
	logger   *slog.Logger
}

func newCalculator(config *Config, logger *slog.Logger, out io.Writer) (*calculator, error) {
	c := calculator{
		form: flight.RawInputs{
			WingArea:   config.Airframe.WingArea,
			AirDensity: config.Airframe.AirDensity,
		},
		session: flight.NewSession(),
		store:   storage.NewCSVStore(storage.WithCRLF(config.Storage.CRLF)),
		config:  config,
		report:  reporter{out: out},
		logger:  logger,
	}

	if config.Run.PlotPath != "" {
		renderer, err := plot.NewRenderer(plot.RenderConfig{
			Width:    config.Plot.Width,
			Height:   config.Plot.Height,
			Title:    config.Plot.Title,
			FontSize: config.Plot.Font,
			InfoBar:  config.Plot.InfoBar,
		})
		if err != nil {
			return nil, fmt.Errorf("creating chart renderer: %w", err)
		}
		c.renderer = renderer
	}

	return &c, nil
}

// calculate evaluates the form as it is.
func (c *calculator) calculate() error {
	s, err := c.session.EvaluateRaw(c.form)
	if err != nil {
		c.report.inputError()
		return err
	}

	c.logger.Debug("evaluated sample",
		slog.Float64("aoaDeg", s.AoADeg),
		slog.Float64("lift", s.LiftForce),
		slog.Float64("cl", s.LiftCoefficient),
		slog.Bool("stall", s.StallWarning()))

	c.report.result(s)
	return nil
}

// handleLine evaluates a prompt line of two or four numbers, or runs one of
// the save and plot commands.
func (c *calculator) handleLine(line string) error {
	fields := strings.Fields(line)
	switch {
	case len(fields) == 1 && strings.EqualFold(fields[0], "save"):
		if c.config.Run.SavePath == "" {
			c.report.printf("No CSV file to save to, run with -save")
			return nil
		}
		_ = c.save() // reported, the prompt carries on
		return nil
	case len(fields) == 1 && strings.EqualFold(fields[0], "plot"):
		if err := c.plot(); err != nil {
			c.report.printf("Could not save chart: %s", err)
		}
		return nil
	case len(fields) == 2:
		c.form.VerticalSpeed, c.form.HorizontalSpeed = fields[0], fields[1]
	case len(fields) == 4:
		c.form = flight.RawInputs{
			VerticalSpeed:   fields[0],
			HorizontalSpeed: fields[1],
			WingArea:        fields[2],
			AirDensity:      fields[3],
		}
	default:
		c.report.inputError()
		return &flight.InvalidInputError{Field: "line", Value: line, Err: errFieldCount}
	}

	if err := c.calculate(); err != nil {
		return err
	}
	if err := c.plot(); err != nil {
		c.logger.Error(err.Error())
		c.report.printf("Could not save chart: %s", err)
	}
	return nil
}

// load imports a CSV file with the current wing area and air density.
func (c *calculator) load(path string) error {
	airframe, err := flight.ParseAirframe(c.form.WingArea, c.form.AirDensity)
	if err != nil {
		c.report.inputError()
		return err
	}

	rows, err := c.store.Import(path, c.session, airframe)
	if rows > 0 {
		last, _ := c.session.Last()
		c.form.VerticalSpeed = formatNumber(last.VerticalSpeed)
		c.form.HorizontalSpeed = formatNumber(last.HorizontalSpeed)
		c.report.result(last)
	}
	if err != nil {
		c.logger.Error(err.Error(), slog.Int("rows", rows))
		c.report.loadError(err)
		return err
	}

	c.logger.Info("flight data loaded", slog.String("path", path), slog.Int("rows", rows))
	return nil
}

// save appends the history to the configured CSV file.
func (c *calculator) save() error {
	path := c.config.Run.SavePath
	if path == "" {
		return nil
	}

	rows, err := c.store.Export(path, c.session.History())
	if err != nil {
		c.logger.Error(err.Error())
		c.report.saveError(err)
		return err
	}

	attrs := []any{slog.String("path", path), slog.Int("rows", rows)}
	if stat, err := os.Stat(path); err == nil {
		attrs = append(attrs, slog.String("size", humanize.Bytes(uint64(stat.Size()))))
	}
	c.logger.Info("flight data saved", attrs...)

	c.report.saved(path)
	return nil
}

// plot redraws the chart from every sample evaluated so far.
func (c *calculator) plot() error {
	if c.renderer == nil {
		return nil
	}

	trace := c.session.Trace()
	if len(trace) == 0 {
		c.logger.Info("no flight data to plot")
		return nil
	}

	if err := c.renderer.SaveFile(c.config.Run.PlotPath, trace); err != nil {
		return fmt.Errorf("saving chart: %w", err)
	}

	c.logger.Debug("chart saved",
		slog.String("path", c.config.Run.PlotPath),
		slog.String("format", string(plot.FormatFromPath(c.config.Run.PlotPath))),
		slog.Int("samples", len(trace)))
	return nil
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
