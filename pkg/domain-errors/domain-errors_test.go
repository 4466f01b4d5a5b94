package domainerrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

// DomainErrorsSuite covers the error primitives used at every trust boundary.
type DomainErrorsSuite struct {
	suite.Suite
}

func TestDomainErrorsSuite(t *testing.T) {
	suite.Run(t, new(DomainErrorsSuite))
}

func (s *DomainErrorsSuite) TestErrorString() {
	s.Run("message wins over code", func() {
		err := &Error{Code: CodeNotRegistered, Message: "owner has no record"}
		s.Equal("owner has no record", err.Error())
	})

	s.Run("code used when message is empty", func() {
		err := &Error{Code: CodeSelfConsent}
		s.Equal("self_consent", err.Error())
	})
}

func (s *DomainErrorsSuite) TestIsMatchesByCode() {
	denied := New(CodeAccessDenied, "caller may not read owner")

	s.True(errors.Is(denied, &Error{Code: CodeAccessDenied}))
	s.False(errors.Is(denied, &Error{Code: CodeNotRegistered}))
	s.False(errors.Is(denied, errors.New("access_denied")))

	s.Run("through a fmt wrap chain", func() {
		wrapped := fmt.Errorf("view record: %w", denied)
		s.True(errors.Is(wrapped, &Error{Code: CodeAccessDenied}))
	})
}

func (s *DomainErrorsSuite) TestWrap() {
	s.Run("keeps the inner domain code", func() {
		inner := New(CodeAlreadyRegistered, "owner already registered")
		wrapped := Wrap(inner, CodeInternal, "register person")

		s.True(HasCode(wrapped, CodeAlreadyRegistered))
		s.Equal("register person", wrapped.Error())
	})

	s.Run("applies code to foreign errors", func() {
		root := errors.New("connection reset")
		wrapped := Wrap(root, CodeInternal, "load record")

		s.True(HasCode(wrapped, CodeInternal))
		s.ErrorIs(wrapped, root)
	})
}

func (s *DomainErrorsSuite) TestHasCode() {
	s.True(HasCode(New(CodeInvalidIdentifier, "bad digits"), CodeInvalidIdentifier))
	s.False(HasCode(New(CodeInvalidIdentifier, "bad digits"), CodeValidation))
	s.False(HasCode(errors.New("plain"), CodeInternal))
	s.False(HasCode(nil, CodeInternal))
}

func (s *DomainErrorsSuite) TestCodeOf() {
	s.Equal(CodeNotRegistered, CodeOf(fmt.Errorf("outer: %w", New(CodeNotRegistered, ""))))
	s.Equal(CodeInternal, CodeOf(errors.New("plain")))
}
