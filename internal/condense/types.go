package condense

// ObservationSeries holds every reading extracted for one observation name,
// in the order the readings were encountered across the patient's notes.
// Values are never deduplicated: repeated identical readings are independent
// measurements, not noise.
type ObservationSeries struct {
	Name   string
	Values []string
}

// Document is the condensed form of a patient's full note set.
type Document struct {
	PatientID          string
	DeduplicatedText   string
	ObservationSummary string
	FullText           string
	Truncated          bool
}

// ObservationSet preserves first-encounter iteration order over series names.
type ObservationSet struct {
	order  []string
	series map[string]*ObservationSeries
}

func newObservationSet() *ObservationSet {
	return &ObservationSet{series: map[string]*ObservationSeries{}}
}

func (s *ObservationSet) append(name, value string) {
	entry, ok := s.series[name]
	if !ok {
		entry = &ObservationSeries{Name: name}
		s.series[name] = entry
		s.order = append(s.order, name)
	}
	entry.Values = append(entry.Values, value)
}

// Names returns series names in first-encounter order.
func (s *ObservationSet) Names() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Series returns the series for name, or nil if nothing was extracted for it.
func (s *ObservationSet) Series(name string) *ObservationSeries {
	return s.series[name]
}

// Len reports the number of distinct observation names.
func (s *ObservationSet) Len() int { return len(s.order) }
