package app

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

const (
	defaultLogLevel   = "info"
	defaultPlotWidth  = 900
	defaultPlotHeight = 650
)

// Config represents the main application configuration
type Config struct {
	Settings Settings       `yaml:"settings"`
	Airframe AirframeConfig `yaml:"airframe"`
	Plot     PlotConfig     `yaml:"plot"`
	Storage  StorageConfig  `yaml:"storage"`
	Prompt   PromptConfig   `yaml:"prompt"`

	// Run is set from the command line only
	Run RunOptions `yaml:"-"`
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// Level parses the configured log level.
func (s Settings) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log level '%s'", s.LogLevel)
	}
	return level, nil
}

// AirframeConfig holds the wing area and air density as typed. They are
// parsed together with the speed readings, so a bad value is reported as an
// input error rather than a configuration error.
type AirframeConfig struct {
	WingArea   string `yaml:"wingArea"`   // m²
	AirDensity string `yaml:"airDensity"` // kg/m³
}

// PlotConfig represents chart settings
type PlotConfig struct {
	Width   int     `yaml:"width"`
	Height  int     `yaml:"height"`
	Title   string  `yaml:"title"`
	Font    float64 `yaml:"fontSize"`
	InfoBar bool    `yaml:"infoBar"`
}

// StorageConfig represents flight record file settings
type StorageConfig struct {
	CRLF bool `yaml:"crlf"` // terminate rows with \r\n
}

// PromptConfig represents interactive prompt settings
type PromptConfig struct {
	// MaxInputErrors stops the prompt after that many consecutive invalid
	// lines. Zero means no limit.
	MaxInputErrors int `yaml:"maxInputErrors"`
}

// RunOptions select what a single run does.
type RunOptions struct {
	VerticalSpeed   string // evaluated once when both speeds are set
	HorizontalSpeed string
	LoadPath        string // CSV file imported first
	SavePath        string // CSV file the history is appended to at the end
	PlotPath        string // chart image, .png or .jpg
	Interactive     bool   // read speed pairs from the input

	// set by -vs and -hs even when their value is empty
	verticalSet   bool
	horizontalSet bool
}

func (o RunOptions) hasVertical() bool   { return o.verticalSet || o.VerticalSpeed != "" }
func (o RunOptions) hasHorizontal() bool { return o.horizontalSet || o.HorizontalSpeed != "" }

// HasSingleEvaluation reports whether speeds were given on the command line.
// An empty speed still counts and fails later as an input error.
func (o RunOptions) HasSingleEvaluation() bool {
	return o.hasVertical() || o.hasHorizontal()
}

func NewConfig() *Config {
	return &Config{
		Settings: Settings{LogLevel: defaultLogLevel},
		Airframe: AirframeConfig{
			AirDensity: strconv.FormatFloat(flight.DefaultAirDensity, 'f', -1, 64),
		},
		Plot: PlotConfig{
			Width:   defaultPlotWidth,
			Height:  defaultPlotHeight,
			InfoBar: true,
		},
	}
}

// LoadConfig reads a YAML configuration file on top of the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading configuration file: %w", err)
	}

	c := NewConfig()
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing configuration file: %w", err)
	}
	return c, nil
}

// NewConfigFromCLI parses the command line arguments, loads the
// configuration file given with -c and applies the flags over it.
func NewConfigFromCLI(args []string, output io.Writer) (*Config, error) {
	fs := flag.NewFlagSet("aoacalc", flag.ContinueOnError)
	fs.SetOutput(output)

	var configPath, wingArea, airDensity, logLevel string
	var plotWidth, plotHeight int
	var run RunOptions
	fs.StringVar(&configPath, "c", "", "Path to the configuration file")
	fs.StringVar(&run.VerticalSpeed, "vs", "", "Vertical speed in m/s")
	fs.StringVar(&run.HorizontalSpeed, "hs", "", "Horizontal speed in m/s")
	fs.StringVar(&wingArea, "area", "", "Wing area in m²")
	fs.StringVar(&airDensity, "density", "", "Air density in kg/m³ (default 1.225)")
	fs.StringVar(&run.LoadPath, "load", "", "CSV file to load flight data from")
	fs.StringVar(&run.SavePath, "save", "", "CSV file to append flight data to")
	fs.StringVar(&run.PlotPath, "plot", "", "Image file for the AoA vs Lift chart (.png or .jpg)")
	fs.IntVar(&plotWidth, "width", defaultPlotWidth, "Chart width in pixels")
	fs.IntVar(&plotHeight, "height", defaultPlotHeight, "Chart height in pixels")
	fs.BoolVar(&run.Interactive, "i", false, "Read speeds from standard input, one 'vs hs [area density]' per line")
	fs.StringVar(&logLevel, "log-level", defaultLogLevel, "Log level. [debug, info, warn, error]")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c := NewConfig()
	if configPath != "" {
		var err error
		if c, err = LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "vs":
			run.verticalSet = true
		case "hs":
			run.horizontalSet = true
		case "area":
			c.Airframe.WingArea = wingArea
		case "density":
			c.Airframe.AirDensity = airDensity
		case "width":
			c.Plot.Width = plotWidth
		case "height":
			c.Plot.Height = plotHeight
		case "log-level":
			c.Settings.LogLevel = logLevel
		}
	})
	c.Run = run

	if err := c.Validate(); err != nil {
		fs.Usage()
		return nil, err
	}
	return c, nil
}

// Validate checks the configuration for values no run can work with.
func (c *Config) Validate() error {
	if _, err := c.Settings.Level(); err != nil {
		return err
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return fmt.Errorf("invalid chart size %dx%d", c.Plot.Width, c.Plot.Height)
	}
	if c.Plot.Font < 0 {
		return fmt.Errorf("invalid chart font size %v", c.Plot.Font)
	}
	if c.Prompt.MaxInputErrors < 0 {
		return fmt.Errorf("invalid prompt maxInputErrors %d", c.Prompt.MaxInputErrors)
	}

	run := c.Run
	switch {
	case run.HasSingleEvaluation() && !(run.hasVertical() && run.hasHorizontal()):
		return errors.New("both -vs and -hs are required")
	case !run.HasSingleEvaluation() && run.LoadPath == "" && !run.Interactive:
		return errors.New("nothing to do: provide -vs and -hs, -load or -i")
	}
	return nil
}
