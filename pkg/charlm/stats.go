package charlm

// Stats holds aggregated statistics for a trained model.
type Stats struct {
	WindowLength int `json:"window_length"`
	Windows      int `json:"windows"`      // The number of distinct windows observed.
	Transitions  int `json:"transitions"`  // The number of distinct window->character pairs.
	Observations int `json:"observations"` // The sum of all counts; the number of trained transitions.
	Alphabet     int `json:"alphabet"`     // The number of distinct characters seen after any window.
}

// Stats returns a snapshot of the model's statistics.
func (m *Model) Stats() Stats {
	s := Stats{
		WindowLength: m.windowLength,
		Windows:      m.table.Len(),
	}
	alphabet := make(map[rune]struct{})
	m.table.Each(func(_ string, list *EntryList) bool {
		s.Transitions += list.Len()
		for _, e := range list.entries {
			s.Observations += e.Count
			alphabet[e.Char] = struct{}{}
		}
		return true
	})
	s.Alphabet = len(alphabet)
	return s
}
