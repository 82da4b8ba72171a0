package model

const AnswerCount = 5

type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Question struct {
	ID            int        `json:"id"`
	Content       string     `json:"content"`
	Answers       []string   `json:"answers"`
	CorrectAnswer *int       `json:"correct_answer,omitempty"`
	Categories    []Category `json:"categories"`
}

type Comment struct {
	ID              int      `json:"id"`
	Content         string   `json:"content"`
	SuggestedAnswer *int     `json:"suggested_answer,omitempty"`
	QuestionID      int      `json:"question_id"`
	Author          SafeUser `json:"author"`
	Likes           int      `json:"likes"`
}

// OwnerID is the users_fk of the comment.
func (c Comment) OwnerID() int {
	return c.Author.ID
}
