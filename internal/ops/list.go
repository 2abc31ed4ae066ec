package ops

import (
	"context"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 20, max: 100
	Offset int // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items              []Summary  `json:"items"`
	CurrentWorkspaceID string     `json:"current_workspace_id,omitempty"`
	Pagination         Pagination `json:"pagination"`
	Sort               string     `json:"sort"`
}

// List returns workspace summaries in creation order.
func List(ctx context.Context, d *Deps, input ListInput) (*ListOutput, error) {
	m, err := d.load(ctx)
	if err != nil {
		return nil, err
	}

	limit, offset := page(input.Limit, input.Offset)
	all := m.GetWorkspaces()
	current := m.GetCurrentWorkspaceID()

	items := []Summary{}
	for i := offset; i < len(all) && len(items) < limit; i++ {
		items = append(items, summarize(all[i], current))
	}

	return &ListOutput{
		Items:              items,
		CurrentWorkspaceID: current,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < len(all),
			Total:   len(all),
		},
		Sort: "created",
	}, nil
}
