package examtrackv1

// Empty is returned by calls without a payload.
type Empty struct{}

// IDRequest addresses a single resource.
type IDRequest struct {
	ID int64 `json:"id" validate:"gt=0"`
}

// PaginationRequest selects a page; zero values fall back to server defaults.
type PaginationRequest struct {
	PageNo   int32 `json:"page_no,omitempty" validate:"gte=0"`
	PageSize int32 `json:"page_size,omitempty" validate:"gte=0,lte=100"`
}

func (p *PaginationRequest) GetPageNo() int32 {
	if p == nil {
		return 0
	}
	return p.PageNo
}

func (p *PaginationRequest) GetPageSize() int32 {
	if p == nil {
		return 0
	}
	return p.PageSize
}

type PaginationResponse struct {
	Total  int32 `json:"total"`
	PageNo int32 `json:"page_no"`
}
