package dto

import (
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/cuongbtq/settlement-pipeline/internal/domain"
)

// DateLayout is the wire format of calendar dates
const DateLayout = "2006-01-02"

// MonthLayout is also accepted for billing_month
const MonthLayout = "2006-01"

// Roles accepted by the list endpoint
const (
	RoleUser    = "user"
	RolePayroll = "payroll"
)

type CreateRequestRequest struct {
	Title        string             `json:"title" binding:"required"`
	Person       string             `json:"person" binding:"required"`
	Company      string             `json:"company"`
	Category     string             `json:"category"`
	Amount       float64            `json:"amount" binding:"gte=0"`
	Owner        string             `json:"owner" binding:"required"`
	BillingMonth *string            `json:"billing_month"`
	PremiumStart *string            `json:"premium_start"`
	PremiumEnd   *string            `json:"premium_end"`
	Hours        map[string]float64 `json:"hours"`
	Comment      string             `json:"comment"`
}

// ToRecord converts the request into a new Waiting record
func (r *CreateRequestRequest) ToRecord() (*domain.Record, error) {
	billingMonth, err := parseDate(r.BillingMonth, DateLayout, MonthLayout)
	if err != nil {
		return nil, fmt.Errorf("billing_month: %w", err)
	}
	premiumStart, err := parseDate(r.PremiumStart, DateLayout)
	if err != nil {
		return nil, fmt.Errorf("premium_start: %w", err)
	}
	premiumEnd, err := parseDate(r.PremiumEnd, DateLayout)
	if err != nil {
		return nil, fmt.Errorf("premium_end: %w", err)
	}

	return &domain.Record{
		Title:        r.Title,
		Person:       r.Person,
		Company:      r.Company,
		Category:     r.Category,
		Amount:       r.Amount,
		Owner:        r.Owner,
		BillingMonth: billingMonth,
		PremiumStart: premiumStart,
		PremiumEnd:   premiumEnd,
		Hours:        domain.Hours(r.Hours),
		Comment:      r.Comment,
		Status:       domain.StatusWaiting,
	}, nil
}

func parseDate(s *string, layouts ...string) (mo.Option[time.Time], error) {
	if s == nil || *s == "" {
		return mo.None[time.Time](), nil
	}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, *s)
		if err == nil {
			return mo.Some(t), nil
		}
		lastErr = err
	}
	return mo.None[time.Time](), fmt.Errorf("invalid date %q: %w", *s, lastErr)
}

type CreateRequestResponse struct {
	Status    string    `json:"status"`
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Queued    bool      `json:"queued"`
}

type ListRequestsRequest struct {
	Owner    string `form:"owner"`
	Role     string `form:"role"`
	Status   string `form:"status"`
	PageSize int    `form:"page_size"`
	Cursor   string `form:"cursor"`
}

type ListRequestsResponse struct {
	Requests   []RequestDTO `json:"requests"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

type RequestDTO struct {
	ID           int64              `json:"id"`
	Title        string             `json:"title"`
	Person       string             `json:"person"`
	Company      string             `json:"company"`
	Category     string             `json:"category"`
	Amount       float64            `json:"amount"`
	Owner        string             `json:"owner"`
	BillingMonth *string            `json:"billing_month"`
	PremiumStart *string            `json:"premium_start"`
	PremiumEnd   *string            `json:"premium_end"`
	Hours        map[string]float64 `json:"hours"`
	Comment      string             `json:"comment"`
	Status       string             `json:"status"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

// NewRequestDTO renders a record for the wire
func NewRequestDTO(rec *domain.Record) RequestDTO {
	hours := map[string]float64(rec.Hours)
	if hours == nil {
		hours = map[string]float64{}
	}

	return RequestDTO{
		ID:           rec.ID,
		Title:        rec.Title,
		Person:       rec.Person,
		Company:      rec.Company,
		Category:     rec.Category,
		Amount:       rec.Amount,
		Owner:        rec.Owner,
		BillingMonth: formatDate(rec.BillingMonth),
		PremiumStart: formatDate(rec.PremiumStart),
		PremiumEnd:   formatDate(rec.PremiumEnd),
		Hours:        hours,
		Comment:      rec.Comment,
		Status:       rec.Status.String(),
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    rec.UpdatedAt.Format(time.RFC3339),
	}
}

func formatDate(d mo.Option[time.Time]) *string {
	t, ok := d.Get()
	if !ok {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}

type UpdateStatusResponse struct {
	Message   string `json:"message"`
	ID        int64  `json:"id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

type StatsResponse struct {
	Total         int            `json:"total"`
	ByStatus      map[string]int `json:"by_status"`
	TotalAmount   float64        `json:"total_amount"`
	AverageAmount float64        `json:"average_amount"`
}

// NewStatsResponse renders aggregated stats for the wire
func NewStatsResponse(s *domain.Stats) StatsResponse {
	byStatus := make(map[string]int, len(s.ByStatus))
	for status, n := range s.ByStatus {
		byStatus[status.String()] = n
	}
	return StatsResponse{
		Total:         s.Total,
		ByStatus:      byStatus,
		TotalAmount:   s.TotalAmount,
		AverageAmount: s.AverageAmount,
	}
}
