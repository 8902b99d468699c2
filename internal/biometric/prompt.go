package biometric

// UnsupportedCode is reported by the fallback prompt on hosts without a
// native authentication surface. Like TimeoutCode it is reserved by this
// package and never produced by a real prompt.
const UnsupportedCode = -1001

type unsupportedPrompt struct{}

func (unsupportedPrompt) Evaluate(_ string) Outcome {
	return Outcome{
		Success:      false,
		ErrorMessage: "no authentication prompt available on this host",
		ErrorCode:    UnsupportedCode,
	}
}

// UnsupportedPrompt returns a Prompt that always refuses. It stands in where
// the platform bridge to the real prompt is not linked in.
func UnsupportedPrompt() Prompt {
	return unsupportedPrompt{}
}
