package idgen_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/pkg/idgen"
)

type IDGenTestSuite struct {
	suite.Suite
}

func TestIDGenSuite(t *testing.T) {
	suite.Run(t, new(IDGenTestSuite))
}

func (s *IDGenTestSuite) TestSequential() {
	g := idgen.NewSequential("turn")
	s.Equal("turn_1", g.Generate())
	s.Equal("turn_2", g.Generate())

	s.Equal("1", idgen.NewSequential("").Generate())
}

func (s *IDGenTestSuite) TestUUID() {
	id := idgen.NewUUID("").Generate()
	_, err := uuid.Parse(id)
	s.NoError(err)

	s.Regexp(`^turn_[0-9a-f-]{36}$`, idgen.NewUUID("turn").Generate())
}
