package mandel

// DefaultEscapeThreshold is the squared modulus past which an orbit counts as
// divergent. It corresponds to an escape radius of about 2.098; the common
// radius-2 bound is a threshold of 4.
const DefaultEscapeThreshold = 4.4

// Evaluate iterates z = z² + c from z = 0 at most maxIter times.
// It returns i/maxIter for the first iteration i whose |z|² exceeds threshold,
// or 1 if the orbit never escapes. maxIter == 0 always yields 1.
func Evaluate(c Complex, maxIter uint32, threshold float64) float64 {
	var z Complex
	for i := uint32(1); i <= maxIter; i++ {
		z = z.Squared().Add(c)
		if z.ModulusNoSqrt() > threshold {
			return float64(i) / float64(maxIter)
		}
	}
	return 1
}
