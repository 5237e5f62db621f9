package assign

// NoProviderError reports that assignment found nobody to lock. Contended
// distinguishes "the pool was empty" from "candidates existed but every
// lock attempt lost its race".
type NoProviderError struct {
	Contended bool
}

func (e *NoProviderError) Error() string {
	if e.Contended {
		return "providers became unavailable"
	}
	return "no providers available"
}
