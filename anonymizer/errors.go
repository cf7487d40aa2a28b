//
// Copyright 2024 The Data Anonymizer Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//

package anonymizer

import (
	"errors"
	"fmt"
)

// ErrorKind classifies engine failures. A run either completes fully or fails
// with exactly one Error; no partially anonymized dataset is ever returned.
type ErrorKind int

// Engine failure kinds.
const (
	// ConfigurationError marks an unknown method name, a missing required
	// option, or an option with an unusable value.
	ConfigurationError ErrorKind = iota
	// TypeMismatchError marks a method applied to a column whose declared
	// type it cannot handle.
	TypeMismatchError
	// ThresholdUnreachableError marks a k-anonymity run that exhausted its
	// generalization depth without every group reaching size k.
	ThresholdUnreachableError
	// RandomnessExhaustionError marks a deterministic substitution whose pool
	// is smaller than the number of distinct values requiring unique outputs.
	RandomnessExhaustionError
)

// String returns the name of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ConfigurationError:
		return "configuration error"
	case TypeMismatchError:
		return "type mismatch"
	case ThresholdUnreachableError:
		return "k-anonymity threshold unreachable"
	case RandomnessExhaustionError:
		return "randomness exhausted"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error carries enough structured detail for the caller to build a useful
// message: the failure kind, the column and method involved, and for
// threshold failures the minimum group size that was achieved.
type Error struct {
	Kind      ErrorKind
	Column    string
	Method    string
	AchievedK int // only set for ThresholdUnreachableError
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Column != "" {
		msg = fmt.Sprintf("%s: column %q", msg, e.Column)
	}
	if e.Method != "" {
		msg = fmt.Sprintf("%s: method %q", msg, e.Method)
	}
	if e.Kind == ThresholdUnreachableError {
		msg = fmt.Sprintf("%s: achieved minimum group size %d", msg, e.AchievedK)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf extracts the ErrorKind from an engine error. ok is false if err does
// not wrap an *Error.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return 0, false
}

func configError(column, method string, format string, args ...any) *Error {
	return &Error{Kind: ConfigurationError, Column: column, Method: method, Err: fmt.Errorf(format, args...)}
}

func typeError(column, method string, format string, args ...any) *Error {
	return &Error{Kind: TypeMismatchError, Column: column, Method: method, Err: fmt.Errorf(format, args...)}
}
