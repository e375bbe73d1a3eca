package errors

import (
	"errors"
	"fmt"
	"net"
)

// InvalidInputError reports a message that is empty or unusable after
// normalization. Recoverable: the caller rejects the turn and re-prompts.
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Reason)
}

// ModelLoadError reports a missing or corrupt classifier artifact. Fatal: the
// gate cannot operate without a loaded model, so this is never retried.
type ModelLoadError struct {
	Path string
	Err  error
}

func (e *ModelLoadError) Error() string {
	return fmt.Sprintf("load model %s: %v", e.Path, e.Err)
}

func (e *ModelLoadError) Unwrap() error {
	return e.Err
}

// FeatureDimensionMismatchError reports a feature vector whose length does not
// match the classifier head. Fatal configuration defect.
type FeatureDimensionMismatchError struct {
	Got  int
	Want int
}

func (e *FeatureDimensionMismatchError) Error() string {
	return fmt.Sprintf("feature dimension mismatch: got %d, classifier expects %d", e.Got, e.Want)
}

// ClassifierInferenceError reports a scoring failure at inference time.
// Callers must substitute the conservative MOVE verdict, never retry.
type ClassifierInferenceError struct {
	Err error
}

func (e *ClassifierInferenceError) Error() string {
	return fmt.Sprintf("classifier inference failed: %v", e.Err)
}

func (e *ClassifierInferenceError) Unwrap() error {
	return e.Err
}

// InvalidConfigError reports a bad threshold or rule configuration. Fatal and
// surfaced immediately; configuration is never silently corrected.
type InvalidConfigError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config %s: %s", e.Field, e.Reason)
}

// IsInvalidInput reports whether err is an InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsModelLoad reports whether err is a ModelLoadError.
func IsModelLoad(err error) bool {
	var target *ModelLoadError
	return errors.As(err, &target)
}

// IsDimensionMismatch reports whether err is a FeatureDimensionMismatchError.
func IsDimensionMismatch(err error) bool {
	var target *FeatureDimensionMismatchError
	return errors.As(err, &target)
}

// IsInference reports whether err is a ClassifierInferenceError.
func IsInference(err error) bool {
	var target *ClassifierInferenceError
	return errors.As(err, &target)
}

// IsInvalidConfig reports whether err is an InvalidConfigError.
func IsInvalidConfig(err error) bool {
	var target *InvalidConfigError
	return errors.As(err, &target)
}

// TransientError represents an LLM transport error that can be retried.
type TransientError struct {
	Err        error
	StatusCode int
	RetryAfter int // seconds, from Retry-After header when present
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient error: %v", e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// PermanentError represents an LLM transport error that should not be retried.
type PermanentError struct {
	Err        error
	StatusCode int
}

func (e *PermanentError) Error() string {
	return fmt.Sprintf("permanent error: %v", e.Err)
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// IsTransient checks whether an error is retry-able: explicitly marked
// transient, a network timeout, or a retryable HTTP status.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	var transientErr *TransientError
	if errors.As(err, &transientErr) {
		return true
	}

	var permanentErr *PermanentError
	if errors.As(err, &permanentErr) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}

// IsTransientHTTPStatus reports whether an HTTP status code warrants a retry.
func IsTransientHTTPStatus(statusCode int) bool {
	switch statusCode {
	case 408, 429, 500, 502, 503, 504:
		return true
	}
	return false
}
