package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/juniorgolf-backend/internal/settings"
	"github.com/angelmondragon/juniorgolf-backend/pkg/enums"
)

type stubSettingsService struct {
	userID  uuid.UUID
	updated *settings.UpdateRequest
}

func (s *stubSettingsService) Get(_ context.Context, userID uuid.UUID) (*settings.SettingsDTO, error) {
	s.userID = userID
	return &settings.SettingsDTO{UserID: userID, Theme: "light", Language: "en", StreakGoal: enums.StreakGoalThreePerWeek}, nil
}

func (s *stubSettingsService) Update(_ context.Context, userID uuid.UUID, req settings.UpdateRequest) (*settings.SettingsDTO, error) {
	s.userID, s.updated = userID, &req
	return &settings.SettingsDTO{UserID: userID}, nil
}

func TestSettingsGetUsesCaller(t *testing.T) {
	svc := &stubSettingsService{}
	c := newCaller()
	resp := serve(t, c, http.MethodGet, "/settings", "/settings", "", SettingsGet(svc, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.userID != c.userID {
		t.Fatalf("expected user %s got %s", c.userID, svc.userID)
	}
}

func TestSettingsUpdateNullReminder(t *testing.T) {
	svc := &stubSettingsService{}
	resp := serve(t, newCaller(), http.MethodPatch, "/settings", "/settings",
		`{"dailyReminderTime":null,"theme":"dark"}`, SettingsUpdate(svc, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	req := svc.updated
	if !req.DailyReminderTime.Valid || req.DailyReminderTime.Value != nil {
		t.Fatalf("expected explicit null reminder, got %+v", req.DailyReminderTime)
	}
	if req.Theme == nil || *req.Theme != "dark" {
		t.Fatalf("theme not decoded")
	}
}

func TestSettingsUpdateRejectsTheme(t *testing.T) {
	svc := &stubSettingsService{}
	resp := serve(t, newCaller(), http.MethodPatch, "/settings", "/settings", `{"theme":"neon"}`, SettingsUpdate(svc, nil))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.updated != nil {
		t.Fatalf("service must not run")
	}
}
