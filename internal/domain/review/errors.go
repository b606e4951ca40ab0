package review

import "errors"

var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrNotEligible     = errors.New("only guests with a completed stay at this camp can review it")
	ErrAlreadyReviewed = errors.New("this booking has already been reviewed")
	ErrNotAuthor       = errors.New("only the author can remove a review")
)
