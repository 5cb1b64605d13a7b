package models

type SortOption string

const (
	SortCreatedAt SortOption = "createdAt"
	SortLikes     SortOption = "likes"
	SortViews     SortOption = "views"
)

func ParseSortOption(s string) SortOption {
	switch SortOption(s) {
	case SortLikes, SortViews:
		return SortOption(s)
	}
	return SortCreatedAt
}

type SearchCategory string

const (
	SearchTitle    SearchCategory = "title"
	SearchUserName SearchCategory = "userName"
	SearchSkill    SearchCategory = "skill"
)

func ParseSearchCategory(s string) SearchCategory {
	switch SearchCategory(s) {
	case SearchUserName, SearchSkill:
		return SearchCategory(s)
	}
	return SearchTitle
}

type Portfolio struct {
	PortfolioID          int64     `json:"portfolioId"`
	UserID               int64     `json:"userId"`
	Name                 string    `json:"name"`
	ProfileImg           string    `json:"profileImg"`
	Title                string    `json:"title"`
	GitLink              string    `json:"gitLink"`
	DistributionLink     string    `json:"distributionLink"`
	Description          string    `json:"description"`
	Content              string    `json:"content"`
	Skills               []string  `json:"skills"`
	ImgURL               []string  `json:"imgUrl,omitempty"`
	FileURL              []string  `json:"fileUrl,omitempty"`
	RepresentativeImgURL string    `json:"representativeImgUrl"`
	ViewCount            int64     `json:"viewCount"`
	LikesCount           int64     `json:"likesCount"`
	Likes                bool      `json:"likes"`
	Auth                 bool      `json:"auth"`
	CreatedAt            Timestamp `json:"createdAt"`
	UpdatedAt            Timestamp `json:"updatedAt"`
}

// PortfolioSummary 列表项
type PortfolioSummary struct {
	PortfolioID          int64     `json:"portfolioId"`
	UserID               int64     `json:"userId"`
	Name                 string    `json:"name"`
	ProfileImg           string    `json:"profileImg"`
	Title                string    `json:"title"`
	Description          string    `json:"description"`
	Skills               []string  `json:"skills"`
	RepresentativeImgURL string    `json:"representativeImgUrl"`
	ViewCount            int64     `json:"viewCount"`
	LikesCount           int64     `json:"likesCount"`
	CreatedAt            Timestamp `json:"createdAt"`
	UpdatedAt            Timestamp `json:"updatedAt"`
}

// PortfolioInput 创建/编辑作品的请求体（不含图片）
type PortfolioInput struct {
	Title            string   `json:"title" validate:"required,max=100"`
	GitLink          string   `json:"gitLink" validate:"omitempty,url"`
	DistributionLink string   `json:"distributionLink" validate:"omitempty,url"`
	Description      string   `json:"description" validate:"max=300"`
	Content          string   `json:"content" validate:"required"`
	Skills           []string `json:"skills" validate:"max=20,dive,required,max=30"`
}

// PortfolioCreated 是创建接口的返回
type PortfolioCreated struct {
	PortfolioID int64 `json:"portfolioId"`
}
