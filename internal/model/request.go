package model

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type NewComment struct {
	Content         string `json:"content"`
	SuggestedAnswer *int   `json:"suggested_answer,omitempty"`
	QuestionID      int    `json:"question_id"`
}

type ModifyComment struct {
	ID              int    `json:"id"`
	Content         string `json:"content"`
	SuggestedAnswer *int   `json:"suggested_answer,omitempty"`
}

// CommentRecord is what the repository inserts.
type CommentRecord struct {
	Content         string
	SuggestedAnswer *int
	UserID          int
	QuestionID      int
}

type NewCategory struct {
	Name string `json:"name"`
}

type NewQuestion struct {
	Content       string   `json:"content"`
	Answers       []string `json:"answers"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
	CategoryIDs   []int    `json:"category_ids,omitempty"`
}

type ModifyQuestion struct {
	ID            int      `json:"id"`
	Content       string   `json:"content"`
	Answers       []string `json:"answers"`
	CorrectAnswer *int     `json:"correct_answer,omitempty"`
}
