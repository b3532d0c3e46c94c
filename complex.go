package mandel

// Complex is a double precision complex number.
type Complex struct {
	Re, Im float64
}

// Squared returns z².
func (z Complex) Squared() Complex {
	return Complex{
		Re: z.Re*z.Re - z.Im*z.Im,
		Im: 2 * z.Re * z.Im,
	}
}

// Add returns z + w.
func (z Complex) Add(w Complex) Complex {
	return Complex{Re: z.Re + w.Re, Im: z.Im + w.Im}
}

// ModulusNoSqrt returns |z|². Compare it against a squared radius.
func (z Complex) ModulusNoSqrt() float64 {
	return z.Re*z.Re + z.Im*z.Im
}
