package question

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const queryTimeout = 3 * time.Second

// Filter narrows question listings.
type Filter struct {
	AskerID *uuid.UUID
	Query   *string
}

type Pagination struct {
	Offset int
	Limit  int
}

type Repository interface {
	Create(ctx context.Context, q *Question) error
	GetByID(ctx context.Context, id uuid.UUID) (*Question, error)
	List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Question, int, error)
	Delete(ctx context.Context, id uuid.UUID) error

	AddAnswer(ctx context.Context, a *Answer) error
	CountAnswers(ctx context.Context, questionID uuid.UUID) (int, error)
	HasAnswerBy(ctx context.Context, questionID, answererID uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, q *Question) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO questions (id, asker_id, title, content, credit, optional_image_credit, picture_url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, q.ID, q.AskerID, q.Title, q.Content, q.Credit, q.OptionalImageCredit, q.PictureURL)
	if err != nil {
		return fmt.Errorf("%w: create question", ErrInternal)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Question, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var q Question
	err := r.db.GetContext(ctx2, &q, `
		SELECT id, asker_id, title, content, credit, optional_image_credit, picture_url, created_at, updated_at
		FROM questions
		WHERE id = $1
	`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: get question", ErrInternal)
	}

	if err := r.attachAnswers(ctx2, []*Question{&q}); err != nil {
		return nil, err
	}

	return &q, nil
}

func (r *repository) List(ctx context.Context, filter *Filter, pagination *Pagination) ([]*Question, int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	where := " WHERE 1=1"
	args := make([]interface{}, 0, 4)
	idx := 1

	if filter != nil && filter.AskerID != nil {
		where += fmt.Sprintf(" AND asker_id = $%d", idx)
		args = append(args, *filter.AskerID)
		idx++
	}
	if filter != nil && filter.Query != nil && *filter.Query != "" {
		where += fmt.Sprintf(" AND (title ILIKE $%d OR content ILIKE $%d)", idx, idx)
		args = append(args, "%"+*filter.Query+"%")
		idx++
	}

	var total int
	if err := r.db.GetContext(ctx2, &total, `SELECT COUNT(*) FROM questions`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: count questions", ErrInternal)
	}

	limit := 20
	offset := 0
	if pagination != nil {
		if pagination.Limit > 0 {
			limit = pagination.Limit
		}
		if pagination.Offset > 0 {
			offset = pagination.Offset
		}
	}

	query := `
		SELECT id, asker_id, title, content, credit, optional_image_credit, picture_url, created_at, updated_at
		FROM questions` + where + fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", idx, idx+1)
	args = append(args, limit, offset)

	questions := make([]*Question, 0)
	if err := r.db.SelectContext(ctx2, &questions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("%w: list questions", ErrInternal)
	}

	if err := r.attachAnswers(ctx2, questions); err != nil {
		return nil, 0, err
	}

	return questions, total, nil
}

func (r *repository) attachAnswers(ctx context.Context, questions []*Question) error {
	if len(questions) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(questions))
	byID := make(map[uuid.UUID]*Question, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
		byID[q.ID] = q
		q.Answers = make([]Answer, 0)
	}

	var answers []Answer
	err := r.db.SelectContext(ctx, &answers, `
		SELECT id, question_id, answerer_id, content, credit, is_public, created_at
		FROM answers
		WHERE question_id = ANY($1)
		ORDER BY created_at ASC
	`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("%w: load answers", ErrInternal)
	}

	for _, a := range answers {
		q := byID[a.QuestionID]
		q.Answers = append(q.Answers, a)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx2, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%w: delete question", ErrInternal)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: rows affected", ErrInternal)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

func (r *repository) AddAnswer(ctx context.Context, a *Answer) error {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.db.ExecContext(ctx2, `
		INSERT INTO answers (id, question_id, answerer_id, content, credit, is_public)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, a.ID, a.QuestionID, a.AnswererID, a.Content, a.Credit, a.IsPublic)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) {
			switch pqErr.Code {
			case "23503":
				return ErrNotFound
			case "23505":
				return ErrAlreadyAnswered
			}
		}
		return fmt.Errorf("%w: add answer", ErrInternal)
	}

	return nil
}

func (r *repository) CountAnswers(ctx context.Context, questionID uuid.UUID) (int, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var count int
	err := r.db.GetContext(ctx2, &count, `SELECT COUNT(*) FROM answers WHERE question_id = $1`, questionID)
	if err != nil {
		return 0, fmt.Errorf("%w: count answers", ErrInternal)
	}

	return count, nil
}

func (r *repository) HasAnswerBy(ctx context.Context, questionID, answererID uuid.UUID) (bool, error) {
	ctx2, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var exists bool
	err := r.db.GetContext(ctx2, &exists, `
		SELECT EXISTS (SELECT 1 FROM answers WHERE question_id = $1 AND answerer_id = $2)
	`, questionID, answererID)
	if err != nil {
		return false, fmt.Errorf("%w: check existing answer", ErrInternal)
	}

	return exists, nil
}
