package dto

import (
	"time"

	"barkeep/internal/domain/cashbox"
)

// OpenDayRequest opens a cash session for a trading day.
type OpenDayRequest struct {
	BusinessDate  time.Time `json:"businessDate"`
	OpeningAmount string    `json:"openingAmount" binding:"required"`
}

// CloseDayRequest closes the open cash session with the counted amount.
type CloseDayRequest struct {
	CountedAmount string `json:"countedAmount" binding:"required"`
	Notes         string `json:"notes"`
}

// CashSessionResponse is the API shape of a cash session.
type CashSessionResponse struct {
	ID            string     `json:"id"`
	BusinessDate  time.Time  `json:"businessDate"`
	OpeningAmount string     `json:"openingAmount"`
	ClosingAmount *string    `json:"closingAmount,omitempty"`
	CashSales     string     `json:"cashSales"`
	Expected      string     `json:"expected"`
	Variance      string     `json:"variance"`
	Notes         string     `json:"notes,omitempty"`
	OpenedAt      time.Time  `json:"openedAt"`
	ClosedAt      *time.Time `json:"closedAt,omitempty"`
}

// FromCashSession converts a session into its API shape.
func FromCashSession(s *cashbox.CashSession) CashSessionResponse {
	resp := CashSessionResponse{
		ID:            s.ID.String(),
		BusinessDate:  s.BusinessDate,
		OpeningAmount: s.OpeningAmount.String(),
		CashSales:     s.CashSales.String(),
		Expected:      s.Expected().String(),
		Variance:      s.Variance().String(),
		Notes:         s.Notes,
		OpenedAt:      s.OpenedAt,
		ClosedAt:      s.ClosedAt,
	}
	if s.ClosingAmount != nil {
		closing := s.ClosingAmount.String()
		resp.ClosingAmount = &closing
	}
	return resp
}

// FromCashSessions converts sessions into API shapes.
func FromCashSessions(list []*cashbox.CashSession) []CashSessionResponse {
	out := make([]CashSessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, FromCashSession(s))
	}
	return out
}
