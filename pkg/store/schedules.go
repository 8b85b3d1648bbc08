package store

import (
	"database/sql"
	"errors"
	"time"
)

// ErrNotFound is returned when a schedule id does not exist.
var ErrNotFound = errors.New("schedule not found")

// Schedule is a recurring directive-bearing prompt owned by one agent.
type Schedule struct {
	ID         string
	AgentID    string
	Name       string
	Expression string
	Prompt     string
	Enabled    bool
	LastRun    time.Time
	LastResult string
}

func (s *Store) PutSchedule(sc Schedule) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO schedules (id, agent_id, name, expression, prompt, enabled, last_run, last_result)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.AgentID, sc.Name, sc.Expression, sc.Prompt, sc.Enabled, sc.LastRun, sc.LastResult,
	)
	return err
}

func (s *Store) GetSchedule(id string) (Schedule, error) {
	row := s.db.QueryRow(
		"SELECT id, agent_id, name, expression, prompt, enabled, last_run, last_result FROM schedules WHERE id = ?", id)
	return scanSchedule(row)
}

// ListSchedules returns every schedule, or only one agent's when
// agentID is non-empty.
func (s *Store) ListSchedules(agentID string) ([]Schedule, error) {
	query := "SELECT id, agent_id, name, expression, prompt, enabled, last_run, last_result FROM schedules"
	args := []any{}
	if agentID != "" {
		query += " WHERE agent_id = ?"
		args = append(args, agentID)
	}
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Schedule
	for rows.Next() {
		sc, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *Store) DeleteSchedule(id string) error {
	_, err := s.db.Exec("DELETE FROM schedules WHERE id = ?", id)
	return err
}

// MarkScheduleRun records the firing time and a result summary.
func (s *Store) MarkScheduleRun(id string, at time.Time, result string) error {
	res, err := s.db.Exec("UPDATE schedules SET last_run = ?, last_result = ? WHERE id = ?", at, result, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSchedule(r rowScanner) (Schedule, error) {
	var sc Schedule
	var lastRun sql.NullTime
	var lastResult sql.NullString
	err := r.Scan(&sc.ID, &sc.AgentID, &sc.Name, &sc.Expression, &sc.Prompt, &sc.Enabled, &lastRun, &lastResult)
	if errors.Is(err, sql.ErrNoRows) {
		return Schedule{}, ErrNotFound
	}
	if err != nil {
		return Schedule{}, err
	}
	sc.LastRun = lastRun.Time
	sc.LastResult = lastResult.String
	return sc, nil
}
