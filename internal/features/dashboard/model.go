package dashboard

import (
	"sourcevia/pkg/lifecycle"
	"sourcevia/pkg/permissions"
)

type StatusCount struct {
	Status lifecycle.Status `bson:"_id" json:"status"`
	Count  int64            `bson:"count" json:"count"`
}

type ModuleSummary struct {
	Module permissions.Module `json:"module"`
	Total  int64              `json:"total"`
	Counts []StatusCount      `json:"counts"`
}

type Summary struct {
	Modules          []ModuleSummary `json:"modules"`
	PendingApprovals int64           `json:"pending_approvals"`
}
