package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"resilinet/internal/model"
)

// SQLiteRecorder persists simulation history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, log *zap.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the engine writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: log}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS resets (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			banks     INTEGER,
			edges     INTEGER,
			source    TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS rounds (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp      INTEGER NOT NULL,
			round          INTEGER NOT NULL,
			panic_level    REAL,
			active         INTEGER,
			defaulted      INTEGER,
			shocked_bank   TEXT,
			cleared_volume REAL,
			round_penalty  INTEGER,
			status         TEXT,
			circuit_status TEXT,
			butterfly_risk REAL,
			system_entropy REAL,
			ccp_payoff     REAL,
			ccp_penalty    INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_round ON rounds(round)`,

		`CREATE TABLE IF NOT EXISTS default_events (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp     INTEGER NOT NULL,
			round         INTEGER NOT NULL,
			bank_id       TEXT NOT NULL,
			capital_ratio REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_defaults_round ON default_events(round)`,

		`CREATE TABLE IF NOT EXISTS ledger_transactions (
			id       INTEGER PRIMARY KEY AUTOINCREMENT,
			round    INTEGER NOT NULL,
			tx_id    TEXT NOT NULL,
			tx_time  TEXT,
			source   TEXT,
			target   TEXT,
			type     TEXT,
			amount   INTEGER,
			status   TEXT,
			penalty  INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_round ON ledger_transactions(round)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReset(banks, edges int, source string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO resets (timestamp, banks, edges, source) VALUES (?,?,?,?)`,
		time.Now().Unix(), banks, edges, source)
	return err
}

func (r *SQLiteRecorder) RecordRound(rec *RoundRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO rounds
		(timestamp, round, panic_level, active, defaulted, shocked_bank,
		 cleared_volume, round_penalty, status, circuit_status,
		 butterfly_risk, system_entropy, ccp_payoff, ccp_penalty)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		time.Now().Unix(), rec.Round, rec.PanicLevel, rec.Active, rec.Defaulted, rec.ShockedBank,
		rec.ClearedVolume, rec.RoundPenalty, string(rec.Stability.Status), string(rec.Stability.CircuitStatus),
		rec.Stability.ButterflyRisk, rec.Stability.SystemEntropy, rec.Stability.CCPPayoff, rec.Stability.CCPPenalty,
	)
	return err
}

func (r *SQLiteRecorder) RecordDefault(round int, bankID string, capitalRatio float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO default_events (timestamp, round, bank_id, capital_ratio) VALUES (?,?,?,?)`,
		time.Now().Unix(), round, bankID, capitalRatio)
	return err
}

func (r *SQLiteRecorder) RecordTransactions(round int, txs []model.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO ledger_transactions
		(round, tx_id, tx_time, source, target, type, amount, status, penalty)
		VALUES (?,?,?,?,?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()

	for _, t := range txs {
		if _, err := stmt.Exec(round, t.ID, t.Time, t.Source, t.Target, string(t.Type), t.Amount, string(t.Status), t.Penalty); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
