// Package errs defines the sentinel errors shared by the fedpower packages.
//
// Callers match them with errors.Is; functions wrap them with extra context
// using fmt.Errorf("%w: ...").
package errs

import "errors"

// Input validation errors.
var (
	// ErrDomain is returned when Box-Cox is requested on a sample holding a
	// zero or negative value.
	ErrDomain = errors.New("data must be strictly positive for boxcox")
	// ErrShape is returned when a lambda batch is empty.
	ErrShape = errors.New("lambda must be a scalar or a non-empty 1-D sequence")
	// ErrEmptySample is returned when no value is left after NaN removal.
	ErrEmptySample = errors.New("sample has no retained values")
	// ErrInvalidPartition is returned for a client count that cannot split the sample.
	ErrInvalidPartition = errors.New("invalid number of clients")
	// ErrUnknownFamily is returned when a transform family name is not recognised.
	ErrUnknownFamily = errors.New("unknown power transform family")
	// ErrUnknownVarianceMode is returned when a variance mode name is not recognised.
	ErrUnknownVarianceMode = errors.New("unknown variance computation mode")
	// ErrUnknownMethod is returned when an optimizer name is not recognised.
	ErrUnknownMethod = errors.New("unknown optimization method")
)

// Protocol errors.
var (
	// ErrNoClients is returned when a server is built without clients.
	ErrNoClients = errors.New("server needs at least one client")
	// ErrFamilyMismatch is returned when a client's family differs from the server's.
	ErrFamilyMismatch = errors.New("client and server use different transform families")
)

// Optimization errors.
var (
	// ErrInvalidBracket is returned when a supplied bracket violates
	// xa < xb < xc or f(xb) < min(f(xa), f(xc)).
	ErrInvalidBracket = errors.New("invalid bracket")
	// ErrBracketNotFound is returned when the bracket search cannot find a
	// valid bracket.
	ErrBracketNotFound = errors.New("no valid bracket found")
	// ErrNumericAnomaly is returned when the objective evaluates to NaN.
	ErrNumericAnomaly = errors.New("objective evaluated to NaN")
)
