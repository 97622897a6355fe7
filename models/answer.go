package models

// Answer is a reply to a question.
type Answer struct {
	Model
	Content    string `json:"content" gorm:"type:varchar(1000);not null"`
	AuthorID   string `json:"authorId" gorm:"type:varchar(50);not null;index"`
	QuestionID string `json:"questionId" gorm:"type:varchar(50);index"`
}

type CreateAnswerRequest struct {
	Content  string `json:"content" conform:"trim" validate:"required,max=1000"`
	AuthorID string `json:"authorId" conform:"trim" validate:"required,max=50"`
}
