package persistence

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/lib/pq" // PostgreSQL driver

	"lumbridge-realm/server/models"
)

// PostgresStore handles database operations using PostgreSQL. Skills and
// inventory are stored as JSONB so the schema follows the data model
// without a migration per skill.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL storage manager.
func NewPostgresStore(connectionString string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	store := &PostgresStore{db: db}
	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (ps *PostgresStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS players (
		id TEXT PRIMARY KEY,
		username TEXT UNIQUE NOT NULL,
		x INTEGER NOT NULL,
		y INTEGER NOT NULL,
		skills JSONB NOT NULL,
		equipment JSONB NOT NULL,
		inventory JSONB NOT NULL,
		current_hp INTEGER NOT NULL,
		max_hp INTEGER NOT NULL,
		gold INTEGER NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS resource_nodes (
		id TEXT PRIMARY KEY,
		hp INTEGER NOT NULL,
		depleted BOOLEAN NOT NULL,
		respawn_timer DOUBLE PRECISION NOT NULL,
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	);
	`
	_, err := ps.db.Exec(schema)
	return err
}

// SavePlayer saves a player to the database.
func (ps *PostgresStore) SavePlayer(player *models.Player) error {
	skillsJSON, err := json.Marshal(player.Skills)
	if err != nil {
		return fmt.Errorf("failed to marshal player skills: %w", err)
	}
	equipmentJSON, err := json.Marshal(player.Equipment)
	if err != nil {
		return fmt.Errorf("failed to marshal player equipment: %w", err)
	}
	inventoryJSON, err := json.Marshal(player.Inventory)
	if err != nil {
		return fmt.Errorf("failed to marshal player inventory: %w", err)
	}

	query := `
	INSERT INTO players (id, username, x, y, skills, equipment, inventory, current_hp, max_hp, gold)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	ON CONFLICT (id)
	DO UPDATE SET
		x = $3, y = $4, skills = $5, equipment = $6, inventory = $7,
		current_hp = $8, max_hp = $9, gold = $10,
		updated_at = NOW()
	`

	_, err = ps.db.Exec(query,
		player.ID, player.Username, player.Pos.X, player.Pos.Y,
		string(skillsJSON), string(equipmentJSON), string(inventoryJSON),
		player.CurrentHP, player.MaxHP, player.Gold)
	if err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}
	return nil
}

func (ps *PostgresStore) scanPlayer(row *sql.Row) (*models.Player, error) {
	var player models.Player
	var skillsJSON, equipmentJSON, inventoryJSON string

	err := row.Scan(
		&player.ID, &player.Username, &player.Pos.X, &player.Pos.Y,
		&skillsJSON, &equipmentJSON, &inventoryJSON,
		&player.CurrentHP, &player.MaxHP, &player.Gold,
		&player.CreatedAt, &player.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(skillsJSON), &player.Skills); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player skills: %w", err)
	}
	if err := json.Unmarshal([]byte(equipmentJSON), &player.Equipment); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player equipment: %w", err)
	}
	if err := json.Unmarshal([]byte(inventoryJSON), &player.Inventory); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player inventory: %w", err)
	}

	normalize(&player)
	return &player, nil
}

const playerColumns = `id, username, x, y, skills, equipment, inventory, current_hp, max_hp, gold, created_at, updated_at`

// LoadPlayer loads a player from the database by ID.
func (ps *PostgresStore) LoadPlayer(playerID string) (*models.Player, error) {
	row := ps.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE id = $1`, playerID)
	player, err := ps.scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player with ID %s not found", playerID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	return player, nil
}

// LoadPlayerByUsername loads a player from the database by username.
func (ps *PostgresStore) LoadPlayerByUsername(username string) (*models.Player, error) {
	row := ps.db.QueryRow(`SELECT `+playerColumns+` FROM players WHERE username = $1`, username)
	player, err := ps.scanPlayer(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("player with username %s not found", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load player: %w", err)
	}
	return player, nil
}

// SaveNodeStates upserts resource node depletion state keyed by node ID.
func (ps *PostgresStore) SaveNodeStates(states map[string]models.NodeState) error {
	tx, err := ps.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
	INSERT INTO resource_nodes (id, hp, depleted, respawn_timer)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (id)
	DO UPDATE SET hp = $2, depleted = $3, respawn_timer = $4, updated_at = NOW()
	`
	for id, s := range states {
		if _, err := tx.Exec(query, id, s.HP, s.Depleted, s.RespawnTimer); err != nil {
			return fmt.Errorf("failed to save node %s: %w", id, err)
		}
	}
	return tx.Commit()
}

// LoadNodeStates loads all persisted resource node states.
func (ps *PostgresStore) LoadNodeStates() (map[string]models.NodeState, error) {
	rows, err := ps.db.Query(`SELECT id, hp, depleted, respawn_timer FROM resource_nodes`)
	if err != nil {
		return nil, fmt.Errorf("failed to load node states: %w", err)
	}
	defer rows.Close()

	states := make(map[string]models.NodeState)
	for rows.Next() {
		var id string
		var s models.NodeState
		if err := rows.Scan(&id, &s.HP, &s.Depleted, &s.RespawnTimer); err != nil {
			return nil, fmt.Errorf("failed to scan node state: %w", err)
		}
		states[id] = s
	}
	return states, rows.Err()
}

// Close closes the database connection.
func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
