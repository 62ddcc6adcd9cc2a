package app

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/roman-kulish/flight-aoa/internal/flight"
)

const promptMarker = "> "

// ErrTooManyInputErrors is returned when the number of consecutive invalid
// lines reaches the configured threshold.
var ErrTooManyInputErrors = errors.New("too many consecutive input errors")

var quitCommands = map[string]struct{}{
	"q":    {},
	"quit": {},
	"exit": {},
}

// WithPromptLogger sets the logger for the prompt
func WithPromptLogger(logger *slog.Logger) func(p *Prompt) {
	return func(p *Prompt) {
		p.logger = logger.With(slog.String("component", "prompt"))
	}
}

// WithMaxInputErrors sets the threshold for consecutive invalid lines, zero
// disables it.
func WithMaxInputErrors(n int) func(p *Prompt) {
	return func(p *Prompt) {
		p.maxInputErrors = n
	}
}

// Prompt reads commands line by line and hands them to a handler until the
// input ends, a quit command is read or the context is cancelled.
type Prompt struct {
	in  io.Reader
	out io.Writer

	maxInputErrors int
	logger         *slog.Logger
}

// NewPrompt creates a new Prompt with a discard logger
func NewPrompt(in io.Reader, out io.Writer, options ...func(p *Prompt)) *Prompt {
	p := Prompt{
		in:     in,
		out:    out,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&p)
	}

	return &p
}

// Run reads lines until the input is exhausted. Blank lines are skipped.
// A handler error that wraps *flight.InvalidInputError is counted towards the
// input errors threshold and the loop continues; any other error stops it.
func (p *Prompt) Run(ctx context.Context, handle func(line string) error) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go p.scan(ctx, lines, readErr)

	var inputErrors int
	for {
		p.marker()

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				return <-readErr
			}
			line = l
		}

		if line == "" {
			continue
		}
		if _, ok := quitCommands[strings.ToLower(line)]; ok {
			return nil
		}

		err := handle(line)
		var inputErr *flight.InvalidInputError
		switch {
		case err == nil:
			inputErrors = 0
		case errors.As(err, &inputErr):
			inputErrors++
			p.logger.Warn(fmt.Sprintf("invalid input: %s", err.Error()), slog.String("line", line))

			if p.maxInputErrors > 0 && inputErrors >= p.maxInputErrors {
				return ErrTooManyInputErrors
			}
		default:
			return err
		}
	}
}

func (p *Prompt) marker() {
	_, _ = io.WriteString(p.out, promptMarker)
}

// scan reads from the input and sends trimmed lines until the input ends or
// the context is cancelled.
func (p *Prompt) scan(ctx context.Context, lines chan<- string, readErr chan<- error) {
	defer close(lines)

	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		select {
		case lines <- strings.TrimSpace(scanner.Text()):
		case <-ctx.Done():
			readErr <- nil
			return
		}
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
		readErr <- fmt.Errorf("reading input: %w", err)
		return
	}

	readErr <- nil
}
