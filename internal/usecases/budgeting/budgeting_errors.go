package budgeting

import "errors"

var (
	ErrCampaignGroupNotFound = errors.New("campaign group not found")
	ErrBudgetNotFound        = errors.New("no budget saved for campaign group")
	ErrInvalidRequest        = errors.New("invalid budget request")
)
