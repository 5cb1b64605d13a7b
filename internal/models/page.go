package models

type PageInfo struct {
	Page          int   `json:"page,omitempty"`
	Size          int   `json:"size,omitempty"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
}

// Page 是 API 分页响应；CurrentPage 从 1 开始
type Page[T any] struct {
	CurrentPage int      `json:"currentPage"`
	Data        []T      `json:"data"`
	PageInfo    PageInfo `json:"pageInfo"`
}

// Empty 对应 totalPages == 0，页面应展示空状态而不是错误
func (p *Page[T]) Empty() bool {
	return p == nil || p.PageInfo.TotalPages == 0
}

func (p *Page[T]) HasPrev() bool {
	return p != nil && p.CurrentPage > 1
}

func (p *Page[T]) HasNext() bool {
	return p != nil && p.CurrentPage < p.PageInfo.TotalPages
}

// Single 对应 {"data": ...} 包装的单条响应
type Single[T any] struct {
	Data T `json:"data"`
}
