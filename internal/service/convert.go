package service

import (
	"github.com/mmynk/splitty/internal/exchange"
	"github.com/mmynk/splitty/internal/models"
	"github.com/mmynk/splitty/pkg/api"
)

func toAPIEvent(e *models.Event) *api.Event {
	return &api.Event{
		ID:         e.ID,
		Title:      e.Title,
		InviteCode: e.InviteCode,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}

func toAPIParticipant(p *models.Participant) *api.Participant {
	return &api.Participant{
		ID:      p.ID,
		EventID: p.EventID,
		Name:    p.Name,
		Email:   p.Email,
		IBAN:    p.IBAN,
		BIC:     p.BIC,
	}
}

func toAPIExpense(e *models.Expense) *api.Expense {
	expense := &api.Expense{
		ID:           e.ID,
		EventID:      e.EventID,
		PayerID:      e.PayerID,
		Amount:       e.Amount.String(),
		Purpose:      e.Purpose,
		OwingIDs:     e.OwingIDs,
		IsSettlement: e.IsSettlement,
		CreatedAt:    e.CreatedAt,
	}
	if expense.OwingIDs == nil {
		expense.OwingIDs = []string{}
	}
	if !e.Date.IsZero() {
		expense.Date = e.Date.Format(exchange.DateLayout)
	}
	return expense
}
