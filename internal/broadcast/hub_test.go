package broadcast_test

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/rpg-toolkit/events"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"

	"github.com/KirkDiggler/rpg-dungeon/internal/broadcast"
	"github.com/KirkDiggler/rpg-dungeon/internal/entities/dungeon"
	"github.com/KirkDiggler/rpg-dungeon/internal/errors"
)

type HubTestSuite struct {
	suite.Suite
	bus    events.EventBus
	hub    *broadcast.Hub
	server *httptest.Server
	ctx    context.Context
}

func TestHubTestSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}

func (s *HubTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.bus = events.NewBus()

	hub, err := broadcast.NewHub(&broadcast.Config{EventBus: s.bus})
	s.Require().NoError(err)
	s.hub = hub
	s.server = httptest.NewServer(hub)
}

func (s *HubTestSuite) TearDownTest() {
	s.hub.Close()
	s.server.Close()
}

func (s *HubTestSuite) dial(query string) *websocket.Conn {
	url := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	s.Require().NoError(err)
	s.T().Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *HubTestSuite) waitForClients(n int) {
	s.Eventually(func() bool { return s.hub.Clients() == n }, time.Second, 5*time.Millisecond)
}

func (s *HubTestSuite) publish(ev *dungeon.Event) {
	s.Require().NoError(s.bus.Publish(s.ctx, events.NewGameEvent(ev.Type, ev, nil)))
}

func (s *HubTestSuite) read(conn *websocket.Conn) map[string]any {
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]any
	s.Require().NoError(conn.ReadJSON(&msg))
	return msg
}

func (s *HubTestSuite) TestNewHubRequiresBus() {
	_, err := broadcast.NewHub(&broadcast.Config{})
	s.True(errors.IsInvalidArgument(err))
}

func (s *HubTestSuite) TestTurnIsRelayedAsAttackThenUpdate() {
	conn := s.dial("")
	s.waitForClients(1)

	cmd := dungeon.Attack("monster-0")
	s.publish(&dungeon.Event{
		Type:      dungeon.EventTurnResolved,
		Namespace: "default",
		Name:      "crypt",
		Command:   &cmd,
		State:     &dungeon.State{Namespace: "default", Name: "crypt", TurnRound: 1},
		Log:       &dungeon.CombatLog{Round: 1, HeroEvent: dungeon.HeroEvent{Kind: dungeon.HeroAttack, Amount: 9}},
	})

	attack := s.read(conn)
	s.Equal(broadcast.TypeAttackEvent, attack["type"])
	s.Equal("crypt", attack["name"])
	payload := attack["payload"].(map[string]any)
	s.Equal("attack", payload["command"].(map[string]any)["kind"])
	s.Equal(float64(9), payload["log"].(map[string]any)["hero_event"].(map[string]any)["amount"])

	update := s.read(conn)
	s.Equal(broadcast.TypeDungeonUpdate, update["type"])
	s.Equal("update", update["action"])
	s.Equal(float64(1), update["payload"].(map[string]any)["turn_round"])
}

func (s *HubTestSuite) TestFiltersByNamespaceAndName() {
	tomb := s.dial("namespace=default&name=tomb")
	guild := s.dial("namespace=guild")
	s.waitForClients(2)

	s.publish(&dungeon.Event{Type: dungeon.EventDeleted, Namespace: "default", Name: "crypt"})
	s.publish(&dungeon.Event{Type: dungeon.EventDeleted, Namespace: "guild", Name: "lair"})
	s.publish(&dungeon.Event{
		Type:      dungeon.EventCreated,
		Namespace: "default",
		Name:      "tomb",
		State:     &dungeon.State{Namespace: "default", Name: "tomb"},
	})

	msg := s.read(tomb)
	s.Equal(broadcast.TypeDungeonUpdate, msg["type"])
	s.Equal("create", msg["action"])
	s.Equal("tomb", msg["name"])

	msg = s.read(guild)
	s.Equal(broadcast.TypeDungeonDelete, msg["type"])
	s.Equal("lair", msg["name"])
}

func (s *HubTestSuite) TestRejectionsAreNotRelayed() {
	conn := s.dial("")
	s.waitForClients(1)

	s.publish(&dungeon.Event{Type: dungeon.EventCommandRejected, Namespace: "default", Name: "crypt", Reason: "invalid_target"})
	s.publish(&dungeon.Event{Type: dungeon.EventDeleted, Namespace: "default", Name: "crypt"})

	msg := s.read(conn)
	s.Equal(broadcast.TypeDungeonDelete, msg["type"])
}

func (s *HubTestSuite) TestDisconnectRemovesClient() {
	conn := s.dial("")
	s.waitForClients(1)

	s.Require().NoError(conn.Close())
	s.waitForClients(0)
}

func (s *HubTestSuite) TestCloseDisconnectsClients() {
	conn := s.dial("")
	s.waitForClients(1)

	s.hub.Close()
	s.Equal(0, s.hub.Clients())

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	s.Error(err)
}
