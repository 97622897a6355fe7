package models

// Comment is a short remark attached to a question or an answer.
type Comment struct {
	Model
	Content  string     `json:"content" gorm:"type:varchar(10000);not null"`
	AuthorID string     `json:"authorId" gorm:"type:varchar(50);not null"`
	Type     TargetType `json:"type" gorm:"type:varchar(16);not null;index:idx_comment_target,priority:1"`
	TypeID   string     `json:"typeId" gorm:"type:varchar(50);not null;index:idx_comment_target,priority:2"`
}

type CreateCommentRequest struct {
	Content  string `json:"content" conform:"trim" validate:"required,max=10000"`
	AuthorID string `json:"authorId" conform:"trim" validate:"required,max=50"`
	Type     string `json:"type" conform:"trim,lower" validate:"required,oneof=question answer"`
	TypeID   string `json:"typeId" conform:"trim" validate:"required,max=50"`
}

// CommentQuery selects the comments of one target.
type CommentQuery struct {
	Type   string `form:"type" json:"type" conform:"trim,lower" validate:"required,oneof=question answer"`
	TypeID string `form:"typeId" json:"typeId" conform:"trim" validate:"required,max=50"`
	Page
}
