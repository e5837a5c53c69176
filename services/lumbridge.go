package services

import (
	"fmt"

	"lumbridge-realm/server/models"
)

// World dimensions in tiles. The River Lum runs north-south with a bridge
// at its middle, castle grounds to the west, goblin territory to the east.
const (
	mapWidth  = 64
	mapHeight = 48

	riverWest = 38
	riverEast = 41
	bridgeTop = 22
	bridgeBot = 24
)

// buildLumbridgeMap lays out the starting area tile grid.
func buildLumbridgeMap() *models.GameMap {
	tiles := make([][]int, mapHeight)
	for y := 0; y < mapHeight; y++ {
		tiles[y] = make([]int, mapWidth)
		for x := 0; x < mapWidth; x++ {
			switch {
			case x >= riverWest && x <= riverEast && !(y >= bridgeTop && y <= bridgeBot):
				tiles[y][x] = models.TileWater
			case x >= riverWest && x <= riverEast:
				tiles[y][x] = models.TileBridge
			default:
				tiles[y][x] = models.TileGrass
			}
		}
	}

	// Castle walls west of the river.
	for x := 18; x <= 28; x++ {
		tiles[12][x] = models.TileWall
		tiles[20][x] = models.TileWall
	}
	for y := 12; y <= 20; y++ {
		tiles[y][18] = models.TileWall
		tiles[y][28] = models.TileWall
	}
	tiles[20][23] = models.TilePath // castle gate

	// Road from the castle gate to the bridge.
	for x := 23; x <= riverWest; x++ {
		tiles[23][x] = models.TilePath
	}

	return &models.GameMap{Width: mapWidth, Height: mapHeight, Tiles: tiles}
}

// PlayerSpawn is where new adventurers appear: the castle courtyard gate.
var PlayerSpawn = models.Position{X: 23, Y: 22}

type monsterTemplate struct {
	kind     models.MonsterKind
	name     string
	attack   int
	strength int
	defence  int
	hp       int
	xpReward int
}

var monsterTemplates = map[string]monsterTemplate{
	"chicken":  {kind: models.KindChicken, name: "Chicken", attack: 1, strength: 1, defence: 1, hp: 3, xpReward: 12},
	"goblin_2": {kind: models.KindGoblin, name: "Goblin (level 2)", attack: 1, strength: 1, defence: 1, hp: 5, xpReward: 20},
	"goblin_5": {kind: models.KindGoblin, name: "Goblin (level 5)", attack: 3, strength: 4, defence: 3, hp: 12, xpReward: 50},
	"cow":      {kind: models.KindCow, name: "Cow", attack: 1, strength: 2, defence: 1, hp: 8, xpReward: 26},
	"rat":      {kind: models.KindGiantRat, name: "Giant rat", attack: 2, strength: 3, defence: 2, hp: 5, xpReward: 15},
}

func (ws *WorldService) addMonster(template string, x, y int) {
	t, ok := monsterTemplates[template]
	if !ok {
		return
	}
	id := fmt.Sprintf("%s_%d_%d", template, x, y)
	ws.monsters[id] = &models.Monster{
		ID:            id,
		Kind:          t.kind,
		Name:          t.name,
		Pos:           models.Position{X: x, Y: y},
		Spawn:         models.Position{X: x, Y: y},
		AttackLevel:   t.attack,
		StrengthLevel: t.strength,
		DefenceLevel:  t.defence,
		CurrentHP:     t.hp,
		MaxHP:         t.hp,
		XPReward:      t.xpReward,
		DropTable:     string(t.kind),
		RespawnDelay:  monsterRespawnDelay,
	}
}

// spawnMonsters places the training enemies: chickens by the farm,
// goblins east of the river, cows in the north fields, rats by the swamp.
func (ws *WorldService) spawnMonsters() {
	chickenPen := [][2]int{{8, 26}, {9, 28}, {11, 27}, {10, 25}, {12, 29}, {8, 30}, {13, 26}}
	for _, pos := range chickenPen {
		ws.addMonster("chicken", pos[0], pos[1])
	}

	goblinField := [][2]int{{46, 20}, {48, 23}, {50, 19}, {47, 26}, {52, 24}}
	for _, pos := range goblinField {
		ws.addMonster("goblin_2", pos[0], pos[1])
	}
	for _, pos := range [][2]int{{54, 21}, {55, 26}, {57, 23}} {
		ws.addMonster("goblin_5", pos[0], pos[1])
	}

	cowField := [][2]int{{6, 8}, {8, 10}, {11, 7}, {9, 12}, {13, 9}}
	for _, pos := range cowField {
		ws.addMonster("cow", pos[0], pos[1])
	}

	for _, pos := range [][2]int{{22, 40}, {25, 42}, {28, 39}} {
		ws.addMonster("rat", pos[0], pos[1])
	}
}

func (ws *WorldService) addNode(nodeType models.ResourceType, x, y, levelRequired, xpReward, hp int, respawn float64) {
	id := fmt.Sprintf("%s_%d_%d", nodeType, x, y)
	node := &models.ResourceNode{
		ID:            id,
		Type:          nodeType,
		Pos:           models.Position{X: x, Y: y},
		LevelRequired: levelRequired,
		XPReward:      xpReward,
		HP:            hp,
		MaxHP:         hp,
		RespawnDelay:  respawn,
	}
	ws.nodes[id] = node
	ws.gatherRes.Track(node)
}

// spawnResourceNodes places the gatherable world objects.
func (ws *WorldService) spawnResourceNodes() {
	for _, pos := range [][2]int{{4, 18}, {6, 21}, {15, 35}, {33, 8}, {45, 36}} {
		ws.addNode(models.ResourceTree, pos[0], pos[1], 1, 25, 3, 10)
	}
	for _, pos := range [][2]int{{31, 5}, {48, 8}} {
		ws.addNode(models.ResourceOakTree, pos[0], pos[1], 15, 38, 5, 20)
	}
	for _, pos := range [][2]int{{50, 40}, {52, 42}} {
		ws.addNode(models.ResourceCopperRock, pos[0], pos[1], 1, 18, 2, 8)
	}
	for _, pos := range [][2]int{{54, 41}, {56, 43}} {
		ws.addNode(models.ResourceTinRock, pos[0], pos[1], 1, 18, 2, 8)
	}
	// Fishing spots hug the riverbank south of the bridge.
	for _, pos := range [][2]int{{37, 30}, {42, 33}} {
		ws.addNode(models.ResourceFishingSpot, pos[0], pos[1], 1, 10, 4, 5)
	}
}
