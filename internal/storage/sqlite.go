package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (creating if needed) the database at dbPath.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", "file:"+dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database tables if they don't exist
func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		subject TEXT,
		grade_level TEXT,
		time_limit INTEGER NOT NULL,
		difficulty TEXT NOT NULL,
		file_ref TEXT,
		source_format TEXT NOT NULL,
		approved INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS questions (
		assessment_id TEXT NOT NULL,
		question_index INTEGER NOT NULL,
		question_text TEXT NOT NULL,
		options TEXT NOT NULL,
		correct_answer INTEGER NOT NULL,
		marks INTEGER NOT NULL,
		type TEXT NOT NULL,
		origin TEXT NOT NULL,
		PRIMARY KEY (assessment_id, question_index),
		FOREIGN KEY (assessment_id) REFERENCES assessments(id) ON DELETE CASCADE
	);

	CREATE INDEX IF NOT EXISTS idx_assessments_approved ON assessments(approved);
	CREATE INDEX IF NOT EXISTS idx_assessments_file_ref ON assessments(file_ref);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *SQLiteStore) StoreAssessment(ctx context.Context, a *models.Assessment) (string, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	if a.TimeLimit <= 0 {
		a.TimeLimit = models.DefaultTimeLimit
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT OR REPLACE INTO assessments (id, title, subject, grade_level, time_limit, difficulty, file_ref, source_format, approved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, a.ID, a.Title, a.Subject, a.GradeLevel, a.TimeLimit, string(a.Difficulty),
		a.FileRef, string(a.SourceFormat), a.Approved, a.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("failed to insert assessment: %w", err)
	}

	if err := replaceQuestions(ctx, tx, a.ID, a.Questions); err != nil {
		return "", err
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	return a.ID, nil
}

func replaceQuestions(ctx context.Context, tx *sql.Tx, id string, questions []models.Question) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE assessment_id = ?`, id); err != nil {
		return fmt.Errorf("failed to clear questions: %w", err)
	}
	for i, q := range questions {
		optionsJSON, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO questions (assessment_id, question_index, question_text, options, correct_answer, marks, type, origin)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, id, i, q.QuestionText, string(optionsJSON), q.CorrectAnswer, q.Marks, string(q.Type), string(q.Origin))
		if err != nil {
			return fmt.Errorf("failed to insert question %d: %w", i, err)
		}
	}
	return nil
}

func (s *SQLiteStore) GetAssessment(ctx context.Context, id string) (*models.Assessment, error) {
	var a models.Assessment
	var subject, gradeLevel, fileRef sql.NullString
	var difficulty, format string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, subject, grade_level, time_limit, difficulty, file_ref, source_format, approved, created_at
		FROM assessments
		WHERE id = ?
	`, id).Scan(&a.ID, &a.Title, &subject, &gradeLevel, &a.TimeLimit, &difficulty,
		&fileRef, &format, &a.Approved, &a.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query assessment: %w", err)
	}
	a.Subject = subject.String
	a.GradeLevel = gradeLevel.String
	a.FileRef = fileRef.String
	a.Difficulty = models.Difficulty(difficulty)
	a.SourceFormat = models.SourceFormat(format)

	a.Questions, err = s.queryQuestions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *SQLiteStore) exists(ctx context.Context, id string) error {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return fmt.Errorf("failed to query assessment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) GetQuestions(ctx context.Context, id string) ([]models.Question, error) {
	if err := s.exists(ctx, id); err != nil {
		return nil, err
	}
	return s.queryQuestions(ctx, id)
}

func (s *SQLiteStore) queryQuestions(ctx context.Context, id string) ([]models.Question, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT question_text, options, correct_answer, marks, type, origin FROM questions
		WHERE assessment_id = ?
		ORDER BY question_index
	`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	questions := []models.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}

	return questions, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanQuestion(row rowScanner) (*models.Question, error) {
	var q models.Question
	var optionsJSON, qType, origin string
	if err := row.Scan(&q.QuestionText, &optionsJSON, &q.CorrectAnswer, &q.Marks, &qType, &origin); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(optionsJSON), &q.Options); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}
	q.Type = models.QuestionType(qType)
	q.Origin = models.Origin(origin)
	return &q, nil
}

func (s *SQLiteStore) GetQuestion(ctx context.Context, id string, index int) (*models.Question, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT question_text, options, correct_answer, marks, type, origin FROM questions
		WHERE assessment_id = ? AND question_index = ?
	`, id, index)

	q, err := scanQuestion(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("question %d of assessment %s: %w", index, id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query question: %w", err)
	}
	return q, nil
}

func (s *SQLiteStore) ListAssessments(ctx context.Context, status Status) ([]models.AssessmentInfo, error) {
	query := `
		SELECT a.id, a.title, a.subject, a.grade_level, a.difficulty, a.source_format, a.approved, a.created_at,
			COUNT(q.question_index), COALESCE(SUM(q.marks), 0)
		FROM assessments a
		LEFT JOIN questions q ON q.assessment_id = a.id`
	var args []any
	switch status {
	case StatusPending:
		query += ` WHERE a.approved = ?`
		args = append(args, false)
	case StatusApproved:
		query += ` WHERE a.approved = ?`
		args = append(args, true)
	}
	query += ` GROUP BY a.id ORDER BY a.created_at DESC, a.id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query assessments: %w", err)
	}
	defer rows.Close()

	infos := []models.AssessmentInfo{}
	for rows.Next() {
		var info models.AssessmentInfo
		var subject, gradeLevel sql.NullString
		var difficulty, format string
		if err := rows.Scan(&info.ID, &info.Title, &subject, &gradeLevel, &difficulty, &format,
			&info.Approved, &info.CreatedAt, &info.QuestionCount, &info.TotalMarks); err != nil {
			return nil, fmt.Errorf("failed to scan assessment: %w", err)
		}
		info.Subject = subject.String
		info.GradeLevel = gradeLevel.String
		info.Difficulty = models.Difficulty(difficulty)
		info.SourceFormat = models.SourceFormat(format)
		infos = append(infos, info)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assessments: %w", err)
	}

	return infos, nil
}

func (s *SQLiteStore) ApproveAssessment(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE assessments SET approved = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to approve assessment: %w", err)
	}
	return requireAffected(res, id)
}

func (s *SQLiteStore) UpdateQuestions(ctx context.Context, id string, questions []models.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var n int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM assessments WHERE id = ?`, id).Scan(&n); err != nil {
		return fmt.Errorf("failed to query assessment: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}

	if err := replaceQuestions(ctx, tx, id, questions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *SQLiteStore) DeleteAssessment(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE assessment_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete questions: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM assessments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete assessment: %w", err)
	}
	if err := requireAffected(res, id); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func requireAffected(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("assessment %s: %w", id, ErrNotFound)
	}
	return nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
