package v1alpha1_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
	"github.com/KirkDiggler/rpg-dungeon/internal/handlers/dungeon/v1alpha1"
	"github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session"
	sessionmock "github.com/KirkDiggler/rpg-dungeon/internal/orchestrators/session/mock"
)

type HandlerTestSuite struct {
	suite.Suite
	ctrl        *gomock.Controller
	mockService *sessionmock.MockService
	handler     *v1alpha1.Handler
	ctx         context.Context
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockService = sessionmock.NewMockService(s.ctrl)
	s.ctx = context.Background()

	handler, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{
		Service: s.mockService,
	})
	s.Require().NoError(err)
	s.handler = handler
}

func (s *HandlerTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerTestSuite) request(fields map[string]any) *structpb.Struct {
	req, err := structpb.NewStruct(fields)
	s.Require().NoError(err)
	return req
}

func testState() *dungeon.State {
	return &dungeon.State{
		Namespace:  "default",
		Name:       "crypt",
		Difficulty: dungeon.DifficultyNormal,
		HeroClass:  dungeon.ClassRogue,
		HeroHP:     100,
		MaxHeroHP:  100,
		Monsters:   []dungeon.Monster{{HP: 50, MaxHP: 50, Alive: true}},
		Boss:       dungeon.Boss{HP: 400, MaxHP: 400, State: dungeon.BossPending},
		Inventory:  []dungeon.ItemID{},
	}
}

func (s *HandlerTestSuite) TestNewHandlerRequiresService() {
	_, err := v1alpha1.NewHandler(&v1alpha1.HandlerConfig{})
	s.True(errors.IsInvalidArgument(err))

	_, err = v1alpha1.NewHandler(nil)
	s.True(errors.IsInvalidArgument(err))
}

func (s *HandlerTestSuite) TestCreateDungeon() {
	s.mockService.EXPECT().
		CreateSession(s.ctx, &session.CreateSessionInput{
			Namespace:  "guild",
			Name:       "crypt",
			Difficulty: dungeon.DifficultyNormal,
			HeroClass:  dungeon.ClassRogue,
			Monsters:   4,
		}).
		Return(&session.CreateSessionOutput{State: testState()}, nil)

	resp, err := s.handler.CreateDungeon(s.ctx, s.request(map[string]any{
		"namespace":  "guild",
		"name":       "crypt",
		"difficulty": "normal",
		"hero_class": "rogue",
		"monsters":   4,
	}))
	s.Require().NoError(err)

	st := resp.GetFields()["dungeon"].GetStructValue()
	s.Require().NotNil(st)
	s.Equal("crypt", st.GetFields()["name"].GetStringValue())
	s.Equal(float64(100), st.GetFields()["hero_hp"].GetNumberValue())
}

func (s *HandlerTestSuite) TestCreateDungeonValidation() {
	testCases := []struct {
		name   string
		fields map[string]any
	}{
		{name: "missing name", fields: map[string]any{"difficulty": "easy"}},
		{name: "fractional monsters", fields: map[string]any{"name": "crypt", "monsters": 2.5}},
		{name: "string monsters", fields: map[string]any{"name": "crypt", "monsters": "many"}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.handler.CreateDungeon(s.ctx, s.request(tc.fields))
			s.Require().Error(err)
			s.Equal(codes.InvalidArgument, status.Code(err))
		})
	}
}

func (s *HandlerTestSuite) TestGetDungeonNotFound() {
	s.mockService.EXPECT().
		Snapshot(s.ctx, &session.SnapshotInput{Name: "crypt"}).
		Return(nil, errors.SessionNotFound("default", "crypt"))

	_, err := s.handler.GetDungeon(s.ctx, s.request(map[string]any{"name": "crypt"}))
	s.Require().Error(err)
	s.Equal(codes.NotFound, status.Code(err))

	restored := errors.FromGRPCError(err)
	s.True(errors.IsSessionNotFound(restored))
}

func (s *HandlerTestSuite) TestListDungeons() {
	s.mockService.EXPECT().
		ListSessions(s.ctx, &session.ListSessionsInput{Namespace: "guild"}).
		Return(&session.ListSessionsOutput{Sessions: []*session.Summary{
			{Namespace: "guild", Name: "crypt", LivingMonsters: 2, BossState: dungeon.BossPending},
			{Namespace: "guild", Name: "tomb", Victory: true, BossState: dungeon.BossDefeated},
		}}, nil)

	resp, err := s.handler.ListDungeons(s.ctx, s.request(map[string]any{"namespace": "guild"}))
	s.Require().NoError(err)

	list := resp.GetFields()["dungeons"].GetListValue().GetValues()
	s.Require().Len(list, 2)
	s.Equal("crypt", list[0].GetStructValue().GetFields()["name"].GetStringValue())
	s.True(list[1].GetStructValue().GetFields()["victory"].GetBoolValue())
}

func (s *HandlerTestSuite) TestDeleteDungeon() {
	s.mockService.EXPECT().
		DeleteSession(s.ctx, &session.DeleteSessionInput{Namespace: "guild", Name: "crypt"}).
		Return(&session.DeleteSessionOutput{}, nil)

	resp, err := s.handler.DeleteDungeon(s.ctx, s.request(map[string]any{"namespace": "guild", "name": "crypt"}))
	s.Require().NoError(err)
	s.Empty(resp.GetFields())
}

func (s *HandlerTestSuite) TestSubmitCommand() {
	testCases := []struct {
		name    string
		command any
		want    dungeon.Command
	}{
		{name: "short syntax", command: "backstab:monster-0", want: dungeon.Backstab("monster-0")},
		{name: "object", command: map[string]any{"kind": "use_item", "item": "hppotion-rare"}, want: dungeon.UseItem("hppotion-rare")},
		{name: "treasure", command: "treasure", want: dungeon.OpenTreasure()},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			log := &dungeon.CombatLog{
				TurnID:      "turn_1",
				Round:       1,
				HeroEvent:   dungeon.HeroEvent{Kind: dungeon.HeroBackstab, Amount: 36, Target: "monster-0"},
				EnemyEvents: []dungeon.EnemyEvent{{Source: "monster-0", Dodged: true}},
				Terminal:    dungeon.TerminalNone,
			}
			s.mockService.EXPECT().
				Submit(s.ctx, &session.SubmitInput{Name: "crypt", Command: tc.want}).
				Return(&session.SubmitOutput{State: testState(), Log: log}, nil)

			resp, err := s.handler.SubmitCommand(s.ctx, s.request(map[string]any{
				"name":    "crypt",
				"command": tc.command,
			}))
			s.Require().NoError(err)

			got := resp.GetFields()["log"].GetStructValue().GetFields()
			s.Equal("turn_1", got["turn_id"].GetStringValue())
			s.Equal(float64(36), got["hero_event"].GetStructValue().GetFields()["amount"].GetNumberValue())
		})
	}
}

func (s *HandlerTestSuite) TestSubmitCommandRejections() {
	testCases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "busy", err: errors.SessionBusy("default", "crypt"), code: codes.Aborted},
		{name: "game over", err: errors.GameOver("the hero was defeated"), code: codes.FailedPrecondition},
		{name: "invalid target", err: errors.InvalidTargetf("monster-7 does not exist"), code: codes.InvalidArgument},
		{name: "rate limited", err: errors.RateLimited("default", "crypt"), code: codes.ResourceExhausted},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			s.mockService.EXPECT().Submit(s.ctx, gomock.Any()).Return(nil, tc.err)

			_, err := s.handler.SubmitCommand(s.ctx, s.request(map[string]any{
				"name":    "crypt",
				"command": "attack:monster-7",
			}))
			s.Require().Error(err)
			s.Equal(tc.code, status.Code(err))
			s.Equal(errors.GetReason(tc.err), errors.GetReason(errors.FromGRPCError(err)))
		})
	}
}

func (s *HandlerTestSuite) TestSubmitCommandMalformed() {
	testCases := []struct {
		name   string
		fields map[string]any
	}{
		{name: "missing command", fields: map[string]any{"name": "crypt"}},
		{name: "unknown verb", fields: map[string]any{"name": "crypt", "command": "dance"}},
		{name: "object without kind", fields: map[string]any{"name": "crypt", "command": map[string]any{"target": "boss"}}},
		{name: "number", fields: map[string]any{"name": "crypt", "command": 3}},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.handler.SubmitCommand(s.ctx, s.request(tc.fields))
			s.Equal(codes.InvalidArgument, status.Code(err))
		})
	}
}
