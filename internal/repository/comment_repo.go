package repository

import (
	"context"
	"database/sql"
	"errors"

	"quiz-backend/internal/model"
	"quiz-backend/pkg/apierror"
)

const commentColumns = `c.id, c.content, c.suggested_answer, c.questions_fk,
	u.id, u.username, u.nickname, u.is_admin,
	(SELECT COUNT(*) FROM comment_user cu WHERE cu.comment_fk = c.id)`

type CommentRepository struct {
	db *sql.DB
}

func NewCommentRepository(db *sql.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanComment(row rowScanner) (model.Comment, error) {
	var (
		c         model.Comment
		suggested sql.NullInt64
	)
	err := row.Scan(&c.ID, &c.Content, &suggested, &c.QuestionID,
		&c.Author.ID, &c.Author.Username, &c.Author.Nickname, &c.Author.IsAdmin,
		&c.Likes)
	if err != nil {
		return model.Comment{}, err
	}
	c.SuggestedAnswer = intPtr(suggested)
	return c, nil
}

func intPtr(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func (r *CommentRepository) FindByID(ctx context.Context, id int) (model.Comment, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+commentColumns+`
		 FROM comments c JOIN users u ON u.id = c.users_fk
		 WHERE c.id = $1`, id)

	c, err := scanComment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Comment{}, model.ErrCommentNotFound
	}
	if err != nil {
		return model.Comment{}, apierror.Database("find comment", err)
	}
	return c, nil
}

func (r *CommentRepository) ListForQuestion(ctx context.Context, questionID int) ([]model.Comment, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+commentColumns+`
		 FROM comments c JOIN users u ON u.id = c.users_fk
		 WHERE c.questions_fk = $1
		 ORDER BY c.id`, questionID)
	if err != nil {
		return nil, apierror.Database("list comments", err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		c, err := scanComment(rows)
		if err != nil {
			return nil, apierror.Database("scan comment", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apierror.Database("list comments", err)
	}
	return comments, nil
}

func (r *CommentRepository) Create(ctx context.Context, rec model.CommentRecord) (model.Comment, error) {
	var id int
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO comments (content, suggested_answer, users_fk, questions_fk)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		rec.Content, nullInt(rec.SuggestedAnswer), rec.UserID, rec.QuestionID).Scan(&id)

	if pgErrorCode(err) == pgForeignKeyViolation {
		return model.Comment{}, model.ErrQuestionNotFound
	}
	if err != nil {
		return model.Comment{}, apierror.Database("create comment", err)
	}
	return r.FindByID(ctx, id)
}

func (r *CommentRepository) Update(ctx context.Context, in model.ModifyComment) (model.Comment, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE comments SET content = $2, suggested_answer = $3 WHERE id = $1`,
		in.ID, in.Content, nullInt(in.SuggestedAnswer))
	if err != nil {
		return model.Comment{}, apierror.Database("update comment", err)
	}
	if err := requireAffected(res, model.ErrCommentNotFound); err != nil {
		return model.Comment{}, err
	}
	return r.FindByID(ctx, in.ID)
}

func (r *CommentRepository) Delete(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return apierror.Database("delete comment", err)
	}
	return requireAffected(res, model.ErrCommentNotFound)
}

// Like records one like per user; repeating it is a no-op.
func (r *CommentRepository) Like(ctx context.Context, commentID, userID int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO comment_user (comment_fk, user_fk) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`, commentID, userID)

	if pgErrorCode(err) == pgForeignKeyViolation {
		return model.ErrCommentNotFound
	}
	if err != nil {
		return apierror.Database("like comment", err)
	}
	return nil
}
