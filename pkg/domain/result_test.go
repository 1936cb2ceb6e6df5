package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ResultSuite struct {
	suite.Suite
}

func TestResultSuite(t *testing.T) {
	suite.Run(t, new(ResultSuite))
}

func (s *ResultSuite) TestSuccess() {
	res := Success(42)

	s.True(res.IsSuccess())
	s.False(res.IsFailure())
	s.Equal(42, res.Value())

	s.Run("Err panics on a successful result", func() {
		s.Panics(func() { _ = res.Err() })
	})
}

func (s *ResultSuite) TestFailure() {
	cause := errors.New("boom")
	res := Failure[int](cause)

	s.True(res.IsFailure())
	s.False(res.IsSuccess())
	s.Equal(cause, res.Err())

	s.Run("Value panics on a failed result", func() {
		s.Panics(func() { _ = res.Value() })
	})

	s.Run("nil error panics at construction", func() {
		s.Panics(func() { Failure[int](nil) })
	})
}

func (s *ResultSuite) TestZeroValueIsFailureShaped() {
	// A zero Result reads as a failure with a nil error; code must never hand
	// one out, but the read side should still refuse to yield a value.
	var res Result[string]
	s.True(res.IsFailure())
	s.Panics(func() { _ = res.Value() })
}
