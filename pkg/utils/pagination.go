package utils

// 课程列表一页 12 个，与前端卡片栅格一致
const (
	DefaultPageLimit = 12
	MaxPageLimit     = 50
)

// Pagination 列表分页参数，page 从 1 开始
type Pagination struct {
	Page  int `json:"page" form:"page" binding:"omitempty,min=1"`
	Limit int `json:"limit" form:"limit" binding:"omitempty,min=1"`
}

// PageResult 分页结果。不统计总数的列表 Total 为 -1，只看 HasMore
type PageResult struct {
	List    interface{} `json:"list"`
	Total   int64       `json:"total"`
	Page    int         `json:"page"`
	Limit   int         `json:"limit"`
	HasMore bool        `json:"hasMore"`
}

// Normalize 补齐默认值，超过上限的 limit 截断
func (p Pagination) Normalize() Pagination {
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	return p
}

func (p Pagination) Offset() int {
	p = p.Normalize()
	return (p.Page - 1) * p.Limit
}

// NewPageResult 已知总数的分页结果
func NewPageResult(list interface{}, total int64, p Pagination) *PageResult {
	p = p.Normalize()
	return &PageResult{
		List:    list,
		Total:   total,
		Page:    p.Page,
		Limit:   p.Limit,
		HasMore: int64(p.Offset()+p.Limit) < total,
	}
}

// Window 多取一条判断是否还有下一页，n 为实际取到的条数，返回应保留的条数
func (p Pagination) Window(n int) (keep int, hasMore bool) {
	p = p.Normalize()
	if n > p.Limit {
		return p.Limit, true
	}
	return n, false
}
