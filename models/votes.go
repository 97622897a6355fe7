package models

// VoteStatus is the stance a voter takes on a target.
type VoteStatus string

const (
	Upvoted   VoteStatus = "upvoted"
	Downvoted VoteStatus = "downvoted"
)

// Weight is the reputation effect a vote with this status has on the author.
func (s VoteStatus) Weight() int {
	switch s {
	case Upvoted:
		return 1
	case Downvoted:
		return -1
	}
	return 0
}

// TargetType names the kind of document a vote or comment points at.
type TargetType string

const (
	TargetQuestion TargetType = "question"
	TargetAnswer   TargetType = "answer"
)

// Vote is one voter's stance on one question or answer.
type Vote struct {
	Model
	Type       TargetType `json:"type" gorm:"type:varchar(16);not null;uniqueIndex:idx_vote_target_voter,priority:1;index:idx_vote_target,priority:1"`
	TypeID     string     `json:"typeId" gorm:"type:varchar(50);not null;uniqueIndex:idx_vote_target_voter,priority:2;index:idx_vote_target,priority:2"`
	VotedByID  string     `json:"votedById" gorm:"type:varchar(50);not null;uniqueIndex:idx_vote_target_voter,priority:3"`
	VoteStatus VoteStatus `json:"voteStatus" gorm:"type:varchar(16);not null"`
}

// VoteRequest is the body of POST /api/vote.
type VoteRequest struct {
	VotedByID  string `json:"votedById" conform:"trim" validate:"required,max=50"`
	VoteStatus string `json:"voteStatus" conform:"trim,lower" validate:"required,oneof=upvoted downvoted"`
	Type       string `json:"type" conform:"trim,lower" validate:"required,oneof=question answer"`
	TypeID     string `json:"typeId" conform:"trim" validate:"required,max=50"`
}

// VoteFilter selects votes on a target, optionally narrowed to a status or a voter.
type VoteFilter struct {
	Type       TargetType
	TypeID     string
	VoteStatus VoteStatus
	VotedByID  string
}

// Tally is the score of a target.
type Tally struct {
	Upvotes    int64 `json:"upvotes"`
	Downvotes  int64 `json:"downvotes"`
	VoteResult int64 `json:"voteResult"`
}

// VoteResultResponse is the data of a successful vote.
type VoteResultResponse struct {
	Document   *Vote `json:"document"`
	VoteResult int64 `json:"voteResult"`
}

// TallyQuery selects the target of GET /api/vote and the vote feed.
type TallyQuery struct {
	Type      string `form:"type" json:"type" conform:"trim,lower" validate:"required,oneof=question answer"`
	TypeID    string `form:"typeId" json:"typeId" conform:"trim" validate:"required,max=50"`
	VotedByID string `form:"votedById" json:"votedById" conform:"trim" validate:"max=50"`
}
