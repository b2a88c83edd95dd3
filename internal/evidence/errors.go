package evidence

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Direction is the language direction of one evidence request.
type Direction int

const (
	SourceToTarget Direction = iota
	TargetToSource
)

func (d Direction) String() string {
	if d == TargetToSource {
		return "target->source"
	}
	return "source->target"
}

var (
	// ErrAlignmentMismatch matches every *AlignmentMismatchError.
	ErrAlignmentMismatch = errors.New("alignment mismatch")
	// ErrMalformedResponse marks a provider answer that could not be decoded.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrRejectedResponse marks a response refused by a ResponseChecker.
	ErrRejectedResponse = errors.New("rejected response")
)

// AlignmentMismatchError reports a translated document whose piece count
// differs from the number of sub-segments sent.
type AlignmentMismatchError struct {
	Provider  string
	Direction Direction
	Want      int
	Got       int
}

func (e *AlignmentMismatchError) Error() string {
	return fmt.Sprintf("%s %s: expected %d pieces, got %d", e.Provider, e.Direction, e.Want, e.Got)
}

func (e *AlignmentMismatchError) Is(target error) bool {
	return target == ErrAlignmentMismatch
}

// ProviderError wraps a failed provider call.
type ProviderError struct {
	Provider  string
	Direction Direction
	Err       error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Direction, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Code is a coarse error class used as a log field.
type Code string

const (
	CodeUnknown   Code = "unknown"
	CodeNetwork   Code = "network"
	CodeTimeout   Code = "timeout"
	CodeCancel    Code = "cancel"
	CodeProtocol  Code = "protocol"
	CodeAlignment Code = "alignment"
	CodeRejected  Code = "rejected"
)

// Classify maps err to a Code using sentinel and type checks only.
func Classify(err error) Code {
	switch {
	case err == nil:
		return CodeUnknown
	case errors.Is(err, ErrAlignmentMismatch):
		return CodeAlignment
	case errors.Is(err, context.DeadlineExceeded):
		return CodeTimeout
	case errors.Is(err, context.Canceled):
		return CodeCancel
	case errors.Is(err, ErrMalformedResponse):
		return CodeProtocol
	case errors.Is(err, ErrRejectedResponse):
		return CodeRejected
	}
	var nerr net.Error
	if errors.As(err, &nerr) {
		if nerr.Timeout() {
			return CodeTimeout
		}
		return CodeNetwork
	}
	return CodeUnknown
}
