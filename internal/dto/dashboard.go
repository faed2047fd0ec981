package dto

import "finance-ledger/internal/models"

// PeriodQuery is the month selector shared by the read endpoints
type PeriodQuery struct {
	Month     string `query:"month" validate:"omitempty,period"`
	AccountID string `query:"accountId" validate:"omitempty,uuid"`
}

type ReportResponse struct {
	Period string              `json:"period"`
	Lines  []models.ReportLine `json:"categories"`
}
