package service

import (
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/merocrm/mero-crm/internal/domain/enum"
)

func TestLeadLifecycle(t *testing.T) {
	env := newTestEnv(t)
	client := env.newClient(t, "Acme Buyer")

	lead, err := env.pipeline.CreateLead(env.ctx, env.ownerID, &LeadInput{Name: ptr("Jane Prospect"), Company: ptr("Umbrella")})
	if err != nil {
		t.Fatalf("CreateLead() error = %v", err)
	}
	if lead.Status != enum.LeadStatusNew {
		t.Errorf("status = %s, want new", lead.Status)
	}

	lead, err = env.pipeline.UpdateLead(env.ctx, lead.ID, &LeadInput{Status: ptr("converted"), ClientID: ptr(client.ID.String())})
	if err != nil {
		t.Fatalf("UpdateLead() error = %v", err)
	}
	if lead.ClientID == nil || *lead.ClientID != client.ID {
		t.Errorf("client = %v", lead.ClientID)
	}

	page, err := env.pipeline.ListLeads(env.ctx, &ListInput{Status: "converted"})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("converted leads = %d", page.Total)
	}

	_, err = env.pipeline.UpdateLead(env.ctx, lead.ID, &LeadInput{Status: ptr("won")})
	wantCode(t, err, http.StatusUnprocessableEntity)

	if err := env.pipeline.DeleteLead(env.ctx, lead.ID); err != nil {
		t.Fatal(err)
	}
	_, err = env.pipeline.GetLead(env.ctx, lead.ID)
	wantCode(t, err, http.StatusNotFound)
}

func TestDealAndActivityValidation(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name string
		run  func() error
	}{
		{"deal without title", func() error {
			_, err := env.pipeline.CreateDeal(env.ctx, env.ownerID, &DealInput{})
			return err
		}},
		{"probability out of range", func() error {
			_, err := env.pipeline.CreateDeal(env.ctx, env.ownerID, &DealInput{Title: ptr("Big"), Probability: ptr(150)})
			return err
		}},
		{"deal for unknown client", func() error {
			_, err := env.pipeline.CreateDeal(env.ctx, env.ownerID, &DealInput{Title: ptr("Big"), ClientID: ptr(uuid.NewString())})
			return err
		}},
		{"activity without type", func() error {
			_, err := env.pipeline.CreateActivity(env.ctx, env.ownerID, &ActivityInput{Subject: ptr("Call back")})
			return err
		}},
		{"activity for unknown deal", func() error {
			_, err := env.pipeline.CreateActivity(env.ctx, env.ownerID, &ActivityInput{Type: ptr("call"), Subject: ptr("Call back"), DealID: ptr(uuid.NewString())})
			return err
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wantCode(t, tt.run(), http.StatusUnprocessableEntity)
		})
	}

	deal, err := env.pipeline.CreateDeal(env.ctx, env.ownerID, &DealInput{Title: ptr("Renewal"), Value: ptr(1200.0), Currency: ptr("eur")})
	if err != nil {
		t.Fatal(err)
	}
	if deal.Currency != "EUR" || deal.Stage != enum.DealStageProspecting {
		t.Errorf("deal = %+v", deal)
	}

	activity, err := env.pipeline.CreateActivity(env.ctx, env.ownerID, &ActivityInput{Type: ptr("meeting"), Subject: ptr("Kickoff"), DealID: ptr(deal.ID.String())})
	if err != nil {
		t.Fatalf("CreateActivity() error = %v", err)
	}
	if activity.Status != enum.ActivityStatusPlanned {
		t.Errorf("status = %s", activity.Status)
	}

	page, err := env.pipeline.ListActivities(env.ctx, &ListInput{Filters: map[string]string{"deal_id": deal.ID.String()}})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 {
		t.Errorf("activities for deal = %d", page.Total)
	}
}
