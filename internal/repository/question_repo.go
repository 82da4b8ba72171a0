package repository

import (
	"context"
	"database/sql"
	"fmt"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

const questionSelect = `SELECT q.id, q.content,
	q.answer_1, q.answer_2, q.answer_3, q.answer_4, q.answer_5,
	q.correct_answer, c.id, c.name
	FROM questions q
	LEFT JOIN question_category qc ON qc.question_fk = q.id
	LEFT JOIN category c ON c.id = qc.category_fk`

type QuestionRepository struct {
	db *sql.DB
}

func NewQuestionRepository(db *sql.DB) *QuestionRepository {
	return &QuestionRepository{db: db}
}

func (r *QuestionRepository) List(ctx context.Context) ([]model.Question, error) {
	return r.query(ctx, "list questions", questionSelect+` ORDER BY q.id, c.id`)
}

func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]model.Question, error) {
	return r.query(ctx, "list questions by category",
		questionSelect+`
		WHERE q.id IN (SELECT question_fk FROM question_category WHERE category_fk = $1)
		ORDER BY q.id, c.id`, categoryID)
}

func (r *QuestionRepository) FindByID(ctx context.Context, id int) (model.Question, error) {
	questions, err := r.query(ctx, "find question", questionSelect+` WHERE q.id = $1 ORDER BY c.id`, id)
	if err != nil {
		return model.Question{}, err
	}
	if len(questions) == 0 {
		return model.Question{}, model.ErrQuestionNotFound
	}
	return questions[0], nil
}

// query folds the one-row-per-category join back into questions, keeping row order.
func (r *QuestionRepository) query(ctx context.Context, op string, query string, args ...any) ([]model.Question, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apierror.Database(op, err)
	}
	defer rows.Close()

	questions := make([]model.Question, 0)
	index := make(map[int]int)

	for rows.Next() {
		var (
			q            model.Question
			answers      [model.AnswerCount]string
			correct      sql.NullInt64
			categoryID   sql.NullInt64
			categoryName sql.NullString
		)
		if err := rows.Scan(&q.ID, &q.Content,
			&answers[0], &answers[1], &answers[2], &answers[3], &answers[4],
			&correct, &categoryID, &categoryName); err != nil {
			return nil, apierror.Database(op, err)
		}

		i, seen := index[q.ID]
		if !seen {
			q.Answers = answers[:]
			q.CorrectAnswer = intPtr(correct)
			q.Categories = make([]model.Category, 0)
			questions = append(questions, q)
			i = len(questions) - 1
			index[q.ID] = i
		}
		if categoryID.Valid {
			questions[i].Categories = append(questions[i].Categories,
				model.Category{ID: int(categoryID.Int64), Name: categoryName.String})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Database(op, err)
	}
	return questions, nil
}

// Create inserts the question and its category links in one transaction.
func (r *QuestionRepository) Create(ctx context.Context, in model.NewQuestion) (model.Question, error) {
	if len(in.Answers) != model.AnswerCount {
		return model.Question{}, apierror.BadRequest("invalid question", fmt.Sprintf("exactly %d answers required", model.AnswerCount))
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Question{}, apierror.Database("begin transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

	var id int
	err = tx.QueryRowContext(ctx,
		`INSERT INTO questions (content, answer_1, answer_2, answer_3, answer_4, answer_5, correct_answer)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		in.Content, in.Answers[0], in.Answers[1], in.Answers[2], in.Answers[3], in.Answers[4],
		nullInt(in.CorrectAnswer)).Scan(&id)
	if err != nil {
		return model.Question{}, apierror.Database("create question", err)
	}

	for _, categoryID := range in.CategoryIDs {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO question_category (question_fk, category_fk) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`, id, categoryID)
		if pgErrorCode(err) == pgForeignKeyViolation {
			return model.Question{}, model.ErrCategoryNotFound
		}
		if err != nil {
			return model.Question{}, apierror.Database("link question category", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Question{}, apierror.Database("commit question", err)
	}
	return r.FindByID(ctx, id)
}

func (r *QuestionRepository) Update(ctx context.Context, in model.ModifyQuestion) (model.Question, error) {
	if len(in.Answers) != model.AnswerCount {
		return model.Question{}, apierror.BadRequest("invalid question", fmt.Sprintf("exactly %d answers required", model.AnswerCount))
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE questions
		 SET content = $2, answer_1 = $3, answer_2 = $4, answer_3 = $5, answer_4 = $6, answer_5 = $7,
		     correct_answer = $8
		 WHERE id = $1`,
		in.ID, in.Content, in.Answers[0], in.Answers[1], in.Answers[2], in.Answers[3], in.Answers[4],
		nullInt(in.CorrectAnswer))
	if err != nil {
		return model.Question{}, apierror.Database("update question", err)
	}
	if err := requireAffected(res, model.ErrQuestionNotFound); err != nil {
		return model.Question{}, err
	}
	return r.FindByID(ctx, in.ID)
}
