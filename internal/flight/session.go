package flight

// History is an append-only, insertion-ordered sequence of samples waiting to
// be exported. It is not safe for concurrent use.
type History struct {
	samples []Sample
}

// Append adds a sample at the end of the history.
func (h *History) Append(s Sample) {
	h.samples = append(h.samples, s)
}

// Len returns the number of samples held.
func (h *History) Len() int {
	return len(h.samples)
}

// Samples returns a copy of the history in insertion order.
func (h *History) Samples() []Sample {
	if len(h.samples) == 0 {
		return nil
	}
	out := make([]Sample, len(h.samples))
	copy(out, h.samples)
	return out
}

// Clear removes all samples.
func (h *History) Clear() {
	h.samples = nil
}

// Session owns the state of one calculator run: the exportable History and
// the trace of every sample evaluated so far, which is what gets plotted.
// Exporting flushes the History but leaves the trace intact.
type Session struct {
	history History
	trace   []Sample
}

// NewSession returns an empty session.
func NewSession() *Session {
	return &Session{}
}

// Evaluate computes a sample from already parsed inputs and records it.
func (s *Session) Evaluate(in Inputs) Sample {
	sample := Calculate(in)
	s.history.Append(sample)
	s.trace = append(s.trace, sample)
	return sample
}

// EvaluateRaw parses the raw form fields and evaluates them. On an
// *InvalidInputError nothing is computed or recorded.
func (s *Session) EvaluateRaw(raw RawInputs) (Sample, error) {
	in, err := ParseInputs(raw)
	if err != nil {
		return Sample{}, err
	}
	return s.Evaluate(in), nil
}

// History returns the exportable history.
func (s *Session) History() *History {
	return &s.history
}

// Trace returns a copy of every sample evaluated in this session.
func (s *Session) Trace() []Sample {
	if len(s.trace) == 0 {
		return nil
	}
	out := make([]Sample, len(s.trace))
	copy(out, s.trace)
	return out
}

// Last returns the most recently evaluated sample.
func (s *Session) Last() (Sample, bool) {
	if len(s.trace) == 0 {
		return Sample{}, false
	}
	return s.trace[len(s.trace)-1], true
}
