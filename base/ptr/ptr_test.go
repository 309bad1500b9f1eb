package ptr

import (
	"testing"

	"github.com/stretchr/testify/suite"
)

type pointerSuite struct {
	suite.Suite
}

func (s *pointerSuite) TestPointer() {
	p1 := String(`abc123`)
	p2 := Int(123)

	s.Equal(*p1, `abc123`)
	s.Equal(*p2, int(123))
}

func TestPointerSuite(t *testing.T) {
	suite.Run(t, new(pointerSuite))
}
