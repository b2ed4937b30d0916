package domain

import "math"

// Stats summarizes the records held by the store
type Stats struct {
	Total         int
	ByStatus      map[Status]int
	TotalAmount   float64
	AverageAmount float64
}

// Finalize rounds the amounts to cents and derives the average
func (s *Stats) Finalize() {
	s.TotalAmount = roundCents(s.TotalAmount)
	if s.Total > 0 {
		s.AverageAmount = roundCents(s.TotalAmount / float64(s.Total))
	} else {
		s.AverageAmount = 0
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
