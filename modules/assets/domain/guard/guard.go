// Package guard holds the result type returned by the pure precondition
// checks of the asset pipeline.
package guard

type Result struct {
	Allowed bool
	Reason  string
	cause   error
}

func Allow() Result {
	return Result{Allowed: true}
}

func Deny(cause error) Result {
	return Result{Reason: cause.Error(), cause: cause}
}

// Err converts a denied result into its cause.
func (r Result) Err() error {
	if r.Allowed {
		return nil
	}
	return r.cause
}
