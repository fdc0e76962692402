package controllers

import "strings"

type ControllerOptions struct {
	Currency    string
	PageSize    int
	MaxPageSize int
	Uploads     UploadLimits
}

// listQuery holds the filters shared by the request and asset listings.
// Status accepts a comma separated list.
type listQuery struct {
	Status    string `form:"status"`
	Category  string `form:"category"`
	Search    string `form:"q"`
	UserID    int64  `form:"user_id"`
	RequestID int64  `form:"request_id"`
}

func splitStatuses[S ~string](raw string) []S {
	var out []S
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, S(part))
		}
	}
	return out
}
