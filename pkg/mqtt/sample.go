package mqtt

// Sample passes every rate-th call, thinning high-frequency streams down
// to a publishable rate. A rate of 1 or less passes everything.
type Sample struct {
	count int
	rate  int
}

func NewSample(rate int) *Sample {
	if rate < 1 {
		rate = 1
	}
	return &Sample{rate: rate}
}

func (s *Sample) Ready() bool {
	s.count++
	if s.count%s.rate == 0 {
		s.count = 0
		return true
	}
	return false
}
