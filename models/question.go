package models

// Question is a question posted by an author.
type Question struct {
	Model
	Title    string `json:"title" gorm:"type:varchar(100);not null"`
	Content  string `json:"content" gorm:"type:varchar(10000);not null"`
	AuthorID string `json:"authorId" gorm:"type:varchar(50);not null;index"`
}

type CreateQuestionRequest struct {
	Title    string `json:"title" conform:"trim" validate:"required,min=5,max=100"`
	Content  string `json:"content" conform:"trim" validate:"required,max=10000"`
	AuthorID string `json:"authorId" conform:"trim" validate:"required,max=50"`
}
