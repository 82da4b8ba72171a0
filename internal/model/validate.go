package model

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// Validate will run the signup rules. Password length is bounded by bcrypt's
// 72 byte input limit.
func (u NewUser) Validate() error {
	return validation.ValidateStruct(&u,
		validation.Field(&u.Username, validation.Required, validation.Length(3, 32), is.Alphanumeric),
		validation.Field(&u.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&u.Nickname, validation.Required, validation.Length(1, 64)),
	)
}

func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r RefreshRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.RefreshToken, validation.Required),
	)
}

func (c NewComment) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Content, validation.Required, validation.Length(1, 2000)),
		validation.Field(&c.SuggestedAnswer, validation.By(answerIndex)),
		validation.Field(&c.QuestionID, validation.Required, validation.Min(1)),
	)
}

func (c ModifyComment) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.ID, validation.Required, validation.Min(1)),
		validation.Field(&c.Content, validation.Required, validation.Length(1, 2000)),
		validation.Field(&c.SuggestedAnswer, validation.By(answerIndex)),
	)
}

// MaxCategoryName matches the category.name column width.
const MaxCategoryName = 128

func (c NewCategory) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Name, validation.Required, validation.Length(1, MaxCategoryName)),
	)
}

func (q NewQuestion) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.Content, validation.Required),
		validation.Field(&q.Answers, validation.Required, validation.Length(AnswerCount, AnswerCount), validation.By(nonBlank)),
		validation.Field(&q.CorrectAnswer, validation.By(answerIndex)),
	)
}

func (q ModifyQuestion) Validate() error {
	return validation.ValidateStruct(&q,
		validation.Field(&q.ID, validation.Required, validation.Min(1)),
		validation.Field(&q.Content, validation.Required),
		validation.Field(&q.Answers, validation.Required, validation.Length(AnswerCount, AnswerCount), validation.By(nonBlank)),
		validation.Field(&q.CorrectAnswer, validation.By(answerIndex)),
	)
}

// answerIndex accepts nil or a 1-based index into the answers. Min/Max would
// skip a zero value.
func answerIndex(value interface{}) error {
	idx, _ := value.(*int)
	if idx != nil && (*idx < 1 || *idx > AnswerCount) {
		return fmt.Errorf("must be between 1 and %d", AnswerCount)
	}
	return nil
}

func nonBlank(value interface{}) error {
	answers, _ := value.([]string)
	for _, a := range answers {
		if strings.TrimSpace(a) == "" {
			return errors.New("answers must not be blank")
		}
	}
	return nil
}
