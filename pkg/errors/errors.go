/**
 * Copyright 2024 Robert Cronin
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package errors is the diagnostic type the analyzer reports through. The
// analyzer accumulates into a Stream instead of aborting on the first
// problem, so a single invocation can report everything wrong with a script
// at once; the lexer and parser stop at their first error instead (see
// Stream).
package errors

import (
	"fmt"

	"github.com/openabl/openabl/pkg/token"
)

// Kind classifies a diagnostic.
type Kind int

const (
	IOError Kind = iota
	SyntaxError
	UndeclaredVariable
	Redeclaration
	TypeMismatch
	NoMatchingOverload
	AmbiguousOverload
	AssignToConst
	IllegalForForm
	NonConstInitializer
	InvalidParamLiteral
	UnknownMember
	UnsupportedBackend
)

func (k Kind) String() string {
	switch k {
	case IOError:
		return "io error"
	case SyntaxError:
		return "syntax error"
	case UndeclaredVariable:
		return "undeclared variable"
	case Redeclaration:
		return "redeclaration"
	case TypeMismatch:
		return "type mismatch"
	case NoMatchingOverload:
		return "no matching overload"
	case AmbiguousOverload:
		return "ambiguous overload"
	case AssignToConst:
		return "assignment to const"
	case IllegalForForm:
		return "illegal for-loop form"
	case NonConstInitializer:
		return "non-constant initializer"
	case InvalidParamLiteral:
		return "invalid parameter literal"
	case UnknownMember:
		return "unknown member"
	case UnsupportedBackend:
		return "unsupported backend"
	default:
		return "error"
	}
}

// Error is one diagnostic at a source location.
type Error struct {
	Kind     Kind
	Message  string
	Location token.Position
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s on line %d: %s", e.Kind, e.Location.Line, e.Message)
}

// Stream accumulates diagnostics across a whole compilation pass. The lexer
// and parser stop at the first Error they hit (propagated as a Go error
// directly); the analyzer keeps walking and fills a Stream instead, so one
// run surfaces every diagnostic.
type Stream struct {
	errs []*Error
}

func NewStream() *Stream { return &Stream{} }

func (s *Stream) Add(kind Kind, loc token.Position, format string, args ...interface{}) {
	s.errs = append(s.errs, &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Location: loc})
}

func (s *Stream) HasErrors() bool { return len(s.errs) > 0 }

func (s *Stream) Errors() []*Error { return s.errs }

// Len reports how many diagnostics have been recorded.
func (s *Stream) Len() int { return len(s.errs) }

// PrintTo writes one "<msg> on line <line>" line per diagnostic, the default
// sink format.
func (s *Stream) PrintTo(w interface{ Write([]byte) (int, error) }) {
	for _, e := range s.errs {
		fmt.Fprintf(w, "%s on line %d\n", e.Message, e.Location.Line)
	}
}
