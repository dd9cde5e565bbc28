package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
)

// SetupStoreSchema initializes the corpus and generation-log tables in the
// provided database. It is idempotent and safe to call on an
// already-initialized database.
func SetupStoreSchema(db *sql.DB) error {

	const (
		schemaCorpora = `
CREATE TABLE IF NOT EXISTS corpora (
    corpus_id INTEGER PRIMARY KEY,
    corpus_name TEXT NOT NULL UNIQUE
);
`
		schemaWords = `
CREATE TABLE IF NOT EXISTS corpus_words (
    corpus_id INTEGER NOT NULL,
    word TEXT NOT NULL
);
`
		schemaLog = `
CREATE TABLE IF NOT EXISTS generation_log (
    log_id INTEGER PRIMARY KEY,
    word TEXT NOT NULL,
    created_at TEXT NOT NULL DEFAULT (datetime('now'))
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	// If the transaction succeeds, tx.Commit() will be called first, and the rollback will do nothing.
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaCorpora); err != nil {
		return fmt.Errorf("could not create corpora schema: %w", err)
	}
	if _, err = tx.Exec(schemaWords); err != nil {
		return fmt.Errorf("could not create corpus words schema: %w", err)
	}
	if _, err = tx.Exec(schemaLog); err != nil {
		return fmt.Errorf("could not create generation log schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// CorpusInfo holds the metadata for one stored training corpus.
type CorpusInfo struct {
	Id    int    `json:"id"`
	Name  string `json:"name"`
	Words int    `json:"words"`
}

// Store persists named training corpora and a log of generated words. It
// holds the database connection and prepared SQL statements for efficient
// access.
type Store struct {
	db               *sql.DB
	stmtGetCorpusID  *sql.Stmt
	stmtInsertCorpus *sql.Stmt
	stmtListCorpora  *sql.Stmt
	stmtInsertWord   *sql.Stmt
	stmtAllWords     *sql.Stmt
	stmtLogWord      *sql.Stmt
	stmtCountLog     *sql.Stmt
	logger           *slog.Logger
}

// NewStore creates and returns a new Store, pre-compiling all necessary SQL
// statements. An error is returned if any preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	stmtGetCorpusID, err := db.Prepare(`SELECT corpus_id FROM corpora WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtInsertCorpus, err := db.Prepare(`INSERT INTO corpora (corpus_name) VALUES (?) ON CONFLICT(corpus_name) DO UPDATE SET corpus_name=excluded.corpus_name RETURNING corpus_id;`)
	if err != nil {
		return nil, err
	}

	stmtListCorpora, err := db.Prepare(`SELECT c.corpus_id, c.corpus_name, COUNT(w.word) FROM corpora c LEFT JOIN corpus_words w ON w.corpus_id = c.corpus_id GROUP BY c.corpus_id, c.corpus_name;`)
	if err != nil {
		return nil, err
	}

	stmtInsertWord, err := db.Prepare(`INSERT INTO corpus_words (corpus_id, word) VALUES (?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtAllWords, err := db.Prepare(`SELECT word FROM corpus_words ORDER BY corpus_id, rowid;`)
	if err != nil {
		return nil, err
	}

	stmtLogWord, err := db.Prepare(`INSERT INTO generation_log (word) VALUES (?);`)
	if err != nil {
		return nil, err
	}

	stmtCountLog, err := db.Prepare(`SELECT COUNT(*) FROM generation_log;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:               db,
		stmtGetCorpusID:  stmtGetCorpusID,
		stmtInsertCorpus: stmtInsertCorpus,
		stmtListCorpora:  stmtListCorpora,
		stmtInsertWord:   stmtInsertWord,
		stmtAllWords:     stmtAllWords,
		stmtLogWord:      stmtLogWord,
		stmtCountLog:     stmtCountLog,
		logger:           slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store.
func (s *Store) Close() {
	_ = s.stmtGetCorpusID.Close()
	_ = s.stmtInsertCorpus.Close()
	_ = s.stmtListCorpora.Close()
	_ = s.stmtInsertWord.Close()
	_ = s.stmtAllWords.Close()
	_ = s.stmtLogWord.Close()
	_ = s.stmtCountLog.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// SaveCorpus stores a named corpus, replacing its word list if the name
// already exists. The operation is performed within a transaction.
func (s *Store) SaveCorpus(ctx context.Context, name string, words []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	var corpusID int
	if err = tx.StmtContext(ctx, s.stmtInsertCorpus).QueryRowContext(ctx, name).Scan(&corpusID); err != nil {
		return fmt.Errorf("failed to get/insert corpus '%s': %w", name, err)
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM corpus_words WHERE corpus_id = ?`, corpusID); err != nil {
		return fmt.Errorf("failed to clear corpus %d: %w", corpusID, err)
	}

	stmtInsertWord := tx.StmtContext(ctx, s.stmtInsertWord)
	for _, word := range words {
		if _, err = stmtInsertWord.ExecContext(ctx, corpusID, word); err != nil {
			return fmt.Errorf("failed to insert word into corpus %d: %w", corpusID, err)
		}
	}

	s.logger.InfoContext(ctx, "Corpus saved",
		slog.String("corpus_name", name),
		slog.Int("corpus_id", corpusID),
		slog.Int("words", len(words)),
	)

	return tx.Commit()
}

// RemoveCorpus deletes a corpus and all of its words. The operation is
// performed within a transaction. Removing an unknown corpus is a no-op.
func (s *Store) RemoveCorpus(ctx context.Context, name string) error {
	var corpusID int
	err := s.stmtGetCorpusID.QueryRowContext(ctx, name).Scan(&corpusID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return fmt.Errorf("failed to look up corpus '%s': %w", name, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, `DELETE FROM corpus_words WHERE corpus_id = ?`, corpusID); err != nil {
		return fmt.Errorf("failed to remove words for corpus %d: %w", corpusID, err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM corpora WHERE corpus_id = ?`, corpusID); err != nil {
		return fmt.Errorf("failed to remove corpus %d: %w", corpusID, err)
	}

	s.logger.InfoContext(ctx, "Corpus removed",
		slog.String("corpus_name", name),
		slog.Int("corpus_id", corpusID),
	)

	return tx.Commit()
}

// ListCorpora returns the metadata for all stored corpora.
func (s *Store) ListCorpora(ctx context.Context) ([]CorpusInfo, error) {
	rows, err := s.stmtListCorpora.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	corpora := make([]CorpusInfo, 0)
	for rows.Next() {
		var info CorpusInfo
		if err = rows.Scan(&info.Id, &info.Name, &info.Words); err != nil {
			return nil, err
		}
		corpora = append(corpora, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return corpora, nil
}

// AllWords returns the words of every stored corpus in insertion order,
// ready to be handed to the trainer.
func (s *Store) AllWords(ctx context.Context) ([]string, error) {
	rows, err := s.stmtAllWords.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var words []string
	for rows.Next() {
		var word string
		if err = rows.Scan(&word); err != nil {
			return nil, err
		}
		words = append(words, word)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// LogGenerated appends sampled words to the generation log.
func (s *Store) LogGenerated(ctx context.Context, words []string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	stmtLogWord := tx.StmtContext(ctx, s.stmtLogWord)
	for _, word := range words {
		if _, err = stmtLogWord.ExecContext(ctx, word); err != nil {
			return fmt.Errorf("failed to log generated word: %w", err)
		}
	}
	return tx.Commit()
}

// GeneratedCount returns the total number of words ever logged.
func (s *Store) GeneratedCount(ctx context.Context) (int, error) {
	var count int
	err := s.stmtCountLog.QueryRowContext(ctx).Scan(&count)
	return count, err
}
