package models

type CommentStatus string

const (
	StatusPublic  CommentStatus = "PUBLIC"
	StatusPrivate CommentStatus = "PRIVATE"
)

func (s CommentStatus) Valid() bool {
	return s == StatusPublic || s == StatusPrivate
}

// UserComment 写在用户主页上的留言。
// 同一结构也用于"某用户写过的作品评论"列表，此时 PortfolioCommentID/PortfolioID 非零
type UserComment struct {
	UserCommentID      int64         `json:"userCommentId"`
	UserID             int64         `json:"userId"`
	UserName           string        `json:"userName"`
	UserProfileImg     string        `json:"userProfileImg"`
	WriterID           int64         `json:"writerId"`
	WriterName         string        `json:"writerName"`
	WriterProfileImg   string        `json:"writerProfileImg"`
	Content            string        `json:"content"`
	Status             CommentStatus `json:"status"`
	Auth               bool          `json:"auth"`
	Deletable          bool          `json:"deletable"`
	PortfolioCommentID int64         `json:"portfolioCommentId,omitempty"`
	PortfolioID        int64         `json:"portfolioId,omitempty"`
	CreatedAt          Timestamp     `json:"createdAt"`
	UpdatedAt          Timestamp     `json:"updatedAt"`
}

// VisibleTo PRIVATE 留言只对主页主人和留言作者可见
func (c UserComment) VisibleTo(viewerID int64) bool {
	if c.Status != StatusPrivate {
		return true
	}
	if viewerID <= 0 {
		return false
	}
	return viewerID == c.UserID || viewerID == c.WriterID
}

type PortfolioComment struct {
	PortfolioCommentID int64     `json:"portfolioCommentId"`
	PortfolioID        int64     `json:"portfolioId"`
	UserID             int64     `json:"userId"`
	UserName           string    `json:"userName"`
	UserProfileImg     string    `json:"userProfileImg"`
	Content            string    `json:"content"`
	Auth               bool      `json:"auth"`
	CreatedAt          Timestamp `json:"createdAt"`
	UpdatedAt          Timestamp `json:"updatedAt"`
}

// UserCommentInput POST /api/usercomments 请求体
type UserCommentInput struct {
	UserID            int64         `json:"userId" validate:"required,gt=0"`
	WriterID          int64         `json:"writerId" validate:"required,gt=0"`
	Content           string        `json:"content" validate:"required,max=500"`
	UserCommentStatus CommentStatus `json:"userCommentStatus" validate:"required,oneof=PUBLIC PRIVATE"`
}

type UserCommentPatch struct {
	Content           string        `json:"content" validate:"required,max=500"`
	UserCommentStatus CommentStatus `json:"userCommentStatus" validate:"required,oneof=PUBLIC PRIVATE"`
}

type PortfolioCommentInput struct {
	UserID      int64  `json:"userId" validate:"required,gt=0"`
	PortfolioID int64  `json:"portfolioId" validate:"required,gt=0"`
	Content     string `json:"content" validate:"required,max=500"`
}

type PortfolioCommentPatch struct {
	Content string `json:"content" validate:"required,max=500"`
}
