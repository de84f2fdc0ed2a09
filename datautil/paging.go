package datautil

// Paging stores paging information. The first page is page 0.
type Paging struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewPaging creates paging information with a default page size of 25 when
// none is provided.
func NewPaging(page, pageSize int) Paging {
	if pageSize <= 0 {
		pageSize = 25
	}
	if page < 0 {
		page = 0
	}
	return Paging{Page: page, PageSize: pageSize}
}

// Offset returns the number of items to skip.
func (p Paging) Offset() int {
	return p.Page * p.PageSize
}

// Limit returns the number of items per page.
func (p Paging) Limit() int {
	return p.PageSize
}
