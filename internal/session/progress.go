package session

// Marker is the progress-bar state of one question slot.
type Marker int

const (
	MarkerAhead Marker = iota
	MarkerCurrent
	MarkerCorrect
	MarkerIncorrect
)

// Markers returns one marker per item. The current position wins over its
// answered state so the participant can see where they are.
func Markers(s *ExamSession) []Marker {
	out := make([]Marker, len(s.Items))
	for i, it := range s.Items {
		switch {
		case !s.Complete && i == s.Position:
			out[i] = MarkerCurrent
		case it.Result == ResultCorrect:
			out[i] = MarkerCorrect
		case it.Result == ResultIncorrect:
			out[i] = MarkerIncorrect
		default:
			out[i] = MarkerAhead
		}
	}
	return out
}
