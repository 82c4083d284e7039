package orchestrating

import "errors"

var (
	ErrCampaignGroupNotFound = errors.New("campaign group not found")
	ErrBudgetNotFound        = errors.New("no budget saved for campaign group")
	ErrNothingToLaunch       = errors.New("no campaign pending platform creation")
	ErrMissingProfile        = errors.New("campaign group has no advertising profile")
)
