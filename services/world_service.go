package services

import (
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"lumbridge-realm/server/combat"
	"lumbridge-realm/server/gather"
	"lumbridge-realm/server/loot"
	"lumbridge-realm/server/models"
	"lumbridge-realm/server/persistence"
	"lumbridge-realm/server/rng"
)

const (
	monsterRespawnDelay = 15.0
	wanderInterval      = 4.0
	wanderRadius        = 5
)

// Notifier routes game feedback to a player's client. One implementation
// serves the combat and gathering resolvers alike.
type Notifier interface {
	AddMessage(p *models.Player, text, channel string)
	UpdateStats(p *models.Player)
	UpdateInventory(p *models.Player)
}

// WorldService owns the realm: the tile map, players, monsters, resource
// nodes and the resolvers that drive them. All simulation state advances
// from the single Update call.
type WorldService struct {
	log      zerolog.Logger
	db       persistence.Storage
	src      rng.Source
	notifier Notifier

	gameMap  *models.GameMap
	players  map[string]*models.Player
	monsters map[string]*models.Monster
	nodes    map[string]*models.ResourceNode

	lootGen   *loot.Generator
	combatRes *combat.Resolver
	gatherRes *gather.Resolver

	mu sync.RWMutex
}

// NewWorldService builds the Lumbridge world and its resolvers. Persisted
// resource-node state is restored when the store has any.
func NewWorldService(db persistence.Storage, src rng.Source, notifier Notifier, tables *loot.Tables, log zerolog.Logger) *WorldService {
	ws := &WorldService{
		log:      log,
		db:       db,
		src:      src,
		notifier: notifier,
		players:  make(map[string]*models.Player),
		monsters: make(map[string]*models.Monster),
		nodes:    make(map[string]*models.ResourceNode),
	}

	ws.lootGen = loot.NewGenerator(src, tables)
	ws.combatRes = combat.NewResolver(src, ws.lootGen, notifier, log)
	ws.combatRes.SetMover(ws)
	ws.gatherRes = gather.NewResolver(src, notifier, log)

	ws.gameMap = buildLumbridgeMap()
	ws.spawnMonsters()
	ws.spawnResourceNodes()
	ws.restoreNodeStates()

	return ws
}

// SetSplash attaches the damage splash hook to combat.
func (ws *WorldService) SetSplash(fn combat.SplashFunc) {
	ws.combatRes.SetSplash(fn)
}

// AddPlayer adds a player to the world.
func (ws *WorldService) AddPlayer(player *models.Player) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	ws.players[player.ID] = player
}

// RemovePlayer removes a player from the world, disengaging any combat.
func (ws *WorldService) RemovePlayer(playerID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if p, ok := ws.players[playerID]; ok {
		ws.combatRes.StopCombat(p)
		delete(ws.players, playerID)
	}
}

// Player returns a player by ID.
func (ws *WorldService) Player(playerID string) (*models.Player, error) {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	p, ok := ws.players[playerID]
	if !ok {
		return nil, errors.New("player not found")
	}
	return p, nil
}

// MovePlayer processes a player movement request in one of eight
// directions, rejecting unwalkable destinations.
func (ws *WorldService) MovePlayer(playerID string, direction string) (*models.Position, error) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	player, ok := ws.players[playerID]
	if !ok {
		return nil, errors.New("player not found")
	}

	newPos := player.Pos
	switch direction {
	case "north":
		newPos.Y--
	case "south":
		newPos.Y++
	case "east":
		newPos.X++
	case "west":
		newPos.X--
	case "northeast":
		newPos.X++
		newPos.Y--
	case "northwest":
		newPos.X--
		newPos.Y--
	case "southeast":
		newPos.X++
		newPos.Y++
	case "southwest":
		newPos.X--
		newPos.Y++
	default:
		return nil, errors.New("invalid direction")
	}

	if !ws.gameMap.Walkable(newPos.X, newPos.Y) {
		return nil, errors.New("you can't walk there")
	}

	player.Pos = newPos
	return &newPos, nil
}

// Attack engages a player on a monster.
func (ws *WorldService) Attack(playerID, monsterID string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	player, ok := ws.players[playerID]
	if !ok {
		return errors.New("player not found")
	}
	monster, ok := ws.monsters[monsterID]
	if !ok {
		return errors.New("monster not found")
	}
	if monster.Dead {
		return errors.New("it is already dead")
	}
	ws.combatRes.AttackTarget(player, monster)
	return nil
}

// StopCombat disengages a player.
func (ws *WorldService) StopCombat(playerID string) {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	if p, ok := ws.players[playerID]; ok {
		ws.combatRes.StopCombat(p)
	}
}

// GatherNode attempts one gather on a resource node.
func (ws *WorldService) GatherNode(playerID, nodeID string) error {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	player, ok := ws.players[playerID]
	if !ok {
		return errors.New("player not found")
	}
	node, ok := ws.nodes[nodeID]
	if !ok {
		return errors.New("there is nothing to gather there")
	}
	if models.Distance(player.Pos, node.Pos) > 1 {
		return errors.New("you are too far away")
	}
	ws.gatherRes.Gather(player, node)
	return nil
}

// LootStats aggregates the loot history, optionally per enemy key.
func (ws *WorldService) LootStats(enemyKey string) loot.Stats {
	ws.mu.RLock()
	defer ws.mu.RUnlock()
	return ws.lootGen.Statistics(enemyKey)
}

// Update advances the whole simulation by delta seconds: combat cooldowns,
// node respawns, player and monster respawns and idle wandering.
func (ws *WorldService) Update(delta float64) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	ws.combatRes.Update(delta)
	ws.gatherRes.Update(delta)

	for _, p := range ws.players {
		if p.Dead {
			ws.respawnPlayer(p)
		}
	}

	for _, m := range ws.monsters {
		if m.Dead {
			m.RespawnTimer -= delta
			if m.RespawnTimer <= 0 {
				m.Respawn()
			}
			continue
		}
		if m.InCombat {
			continue
		}
		m.WanderTimer += delta
		if m.WanderTimer >= wanderInterval {
			m.WanderTimer = 0
			ws.wander(m)
		}
	}
}

// respawnPlayer returns a fallen player to the castle courtyard at full
// hitpoints on the tick after they die.
func (ws *WorldService) respawnPlayer(p *models.Player) {
	p.Dead = false
	p.CurrentHP = p.MaxHP
	p.Pos = PlayerSpawn
	if ws.notifier != nil {
		ws.notifier.AddMessage(p, "You wake up back in Lumbridge.", models.ChannelGame)
		ws.notifier.UpdateStats(p)
	}
	ws.log.Info().Str("player", p.Username).Msg("player respawned")
}

// wander takes one random step, staying near the spawn point and off
// unwalkable tiles.
func (ws *WorldService) wander(m *models.Monster) {
	dx := rng.IntBetween(ws.src, -1, 1)
	dy := rng.IntBetween(ws.src, -1, 1)
	next := models.Position{X: m.Pos.X + dx, Y: m.Pos.Y + dy}
	if models.Distance(next, m.Spawn) > wanderRadius {
		return
	}
	if !ws.gameMap.Walkable(next.X, next.Y) {
		return
	}
	m.Pos = next
}

// RequestMove implements combat.Mover: one diagonal-capable step toward
// the destination, respecting walkability.
func (ws *WorldService) RequestMove(p *models.Player, to models.Position) {
	step := func(v int) int {
		if v > 0 {
			return 1
		}
		if v < 0 {
			return -1
		}
		return 0
	}
	next := models.Position{
		X: p.Pos.X + step(to.X-p.Pos.X),
		Y: p.Pos.Y + step(to.Y-p.Pos.Y),
	}
	if ws.gameMap.Walkable(next.X, next.Y) {
		p.Pos = next
	}
}

// SaveState persists the depletion state of every resource node.
func (ws *WorldService) SaveState() error {
	ws.mu.RLock()
	states := make(map[string]models.NodeState, len(ws.nodes))
	for id, n := range ws.nodes {
		states[id] = n.State()
	}
	ws.mu.RUnlock()

	if err := ws.db.SaveNodeStates(states); err != nil {
		return fmt.Errorf("failed to save node states: %w", err)
	}
	return nil
}

func (ws *WorldService) restoreNodeStates() {
	states, err := ws.db.LoadNodeStates()
	if err != nil {
		ws.log.Warn().Err(err).Msg("could not restore resource node states")
		return
	}
	for id, s := range states {
		if node, ok := ws.nodes[id]; ok {
			node.Restore(s)
		}
	}
}
