package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dogeracehq/dogerace/internal/domain"
)

// fakeEngine is a scripted RaceEngine for handler tests.
type fakeEngine struct {
	race       domain.Race
	hasRace    bool
	bet        domain.Bet
	hasBet     bool
	placeErr   error
	stats      domain.UserStats
	history    []domain.PastRace
	resetCalls int

	placedModel  string
	placedAmount float64
}

func (f *fakeEngine) Snapshot() (domain.Race, bool)  { return f.race, f.hasRace }
func (f *fakeEngine) CurrentBet() (domain.Bet, bool) { return f.bet, f.hasBet }
func (f *fakeEngine) Ledger() domain.UserStats       { return f.stats }
func (f *fakeEngine) Reset()                         { f.resetCalls++ }

func (f *fakeEngine) PlaceBet(modelID string, amount float64) (domain.Bet, error) {
	f.placedModel = modelID
	f.placedAmount = amount
	if f.placeErr != nil {
		return domain.Bet{}, f.placeErr
	}
	return f.bet, nil
}

func (f *fakeEngine) History(limit int) []domain.PastRace {
	if limit > 0 && limit < len(f.history) {
		return f.history[:limit]
	}
	return f.history
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestGetRace_ReturnsSnapshotWithBet(t *testing.T) {
	eng := &fakeEngine{
		hasRace: true,
		race: domain.Race{
			ID:            "race-001",
			Status:        domain.RaceStatusBetting,
			TimeRemaining: 120,
			Models:        []domain.Model{{ID: "m1", Name: "Wow Oracle"}},
		},
		hasBet: true,
		bet:    domain.Bet{ID: "b1", RaceID: "race-001", ModelID: "m1", Amount: 100, Status: domain.BetStatusActive},
	}
	h := NewRaceHandler(eng, discardLogger())

	rec := httptest.NewRecorder()
	h.GetRace(rec, httptest.NewRequest(http.MethodGet, "/api/race", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Race struct {
			ID            string `json:"id"`
			Status        string `json:"status"`
			TimeRemaining int    `json:"time_remaining"`
		} `json:"race"`
		UserBet *struct {
			ID string `json:"id"`
		} `json:"user_bet"`
	}
	decodeBody(t, rec, &resp)
	if resp.Race.ID != "race-001" || resp.Race.Status != "betting" || resp.Race.TimeRemaining != 120 {
		t.Errorf("race = %+v", resp.Race)
	}
	if resp.UserBet == nil || resp.UserBet.ID != "b1" {
		t.Errorf("user_bet = %+v, want bet b1", resp.UserBet)
	}
}

func TestGetRace_NoActiveRace(t *testing.T) {
	h := NewRaceHandler(&fakeEngine{}, discardLogger())

	rec := httptest.NewRecorder()
	h.GetRace(rec, httptest.NewRequest(http.MethodGet, "/api/race", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestResetSession(t *testing.T) {
	eng := &fakeEngine{}
	h := NewRaceHandler(eng, discardLogger())

	rec := httptest.NewRecorder()
	h.ResetSession(rec, httptest.NewRequest(http.MethodPost, "/api/session/reset", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if eng.resetCalls != 1 {
		t.Errorf("reset called %d times, want 1", eng.resetCalls)
	}
}

func TestPlaceBet_Created(t *testing.T) {
	eng := &fakeEngine{
		bet: domain.Bet{ID: "b1", RaceID: "race-001", ModelID: "m2", Amount: 250, Status: domain.BetStatusActive},
	}
	h := NewBetHandler(eng, discardLogger())

	body := strings.NewReader(`{"model_id":"m2","amount":250}`)
	rec := httptest.NewRecorder()
	h.PlaceBet(rec, httptest.NewRequest(http.MethodPost, "/api/bets", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201, body %s", rec.Code, rec.Body.String())
	}
	if eng.placedModel != "m2" || eng.placedAmount != 250 {
		t.Errorf("engine received %s/%g, want m2/250", eng.placedModel, eng.placedAmount)
	}
	var resp struct {
		ID     string  `json:"id"`
		Status string  `json:"status"`
		Amount float64 `json:"amount"`
	}
	decodeBody(t, rec, &resp)
	if resp.ID != "b1" || resp.Status != "active" || resp.Amount != 250 {
		t.Errorf("response = %+v", resp)
	}
}

func TestPlaceBet_BadRequests(t *testing.T) {
	h := NewBetHandler(&fakeEngine{}, discardLogger())

	cases := []struct {
		name string
		body string
	}{
		{"malformed json", `{"model_id":`},
		{"missing model", `{"amount":100}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.PlaceBet(rec, httptest.NewRequest(http.MethodPost, "/api/bets", strings.NewReader(tc.body)))
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

func TestPlaceBet_DomainErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no active race", domain.ErrNoActiveRace, http.StatusNotFound},
		{"unknown model", domain.ErrUnknownModel, http.StatusNotFound},
		{"betting closed", domain.ErrBettingClosed, http.StatusConflict},
		{"invalid amount", domain.ErrInvalidAmount, http.StatusBadRequest},
		{"insufficient funds", domain.ErrInsufficientFunds, http.StatusPaymentRequired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := NewBetHandler(&fakeEngine{placeErr: tc.err}, discardLogger())
			rec := httptest.NewRecorder()
			h.PlaceBet(rec, httptest.NewRequest(http.MethodPost, "/api/bets",
				strings.NewReader(`{"model_id":"m1","amount":100}`)))
			if rec.Code != tc.want {
				t.Errorf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}
}

func TestGetStats(t *testing.T) {
	eng := &fakeEngine{
		stats: domain.UserStats{Balance: 5200, TotalBets: 3, TotalWon: 1, WinRate: 33, TotalEarnings: 200},
	}
	h := NewStatsHandler(eng, discardLogger())

	rec := httptest.NewRecorder()
	h.GetStats(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Balance       float64 `json:"balance"`
		TotalBets     int     `json:"total_bets"`
		WinRate       int     `json:"win_rate"`
		TotalEarnings float64 `json:"total_earnings"`
	}
	decodeBody(t, rec, &resp)
	if resp.Balance != 5200 || resp.TotalBets != 3 || resp.WinRate != 33 || resp.TotalEarnings != 200 {
		t.Errorf("response = %+v", resp)
	}
}

func TestListHistory_AppliesLimit(t *testing.T) {
	eng := &fakeEngine{
		history: []domain.PastRace{
			{ID: "race-003"},
			{ID: "race-002"},
			{ID: "race-001"},
		},
	}
	h := NewStatsHandler(eng, discardLogger())

	rec := httptest.NewRecorder()
	h.ListHistory(rec, httptest.NewRequest(http.MethodGet, "/api/races/history?limit=2", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Races []struct {
			ID string `json:"id"`
		} `json:"races"`
		Count int `json:"count"`
	}
	decodeBody(t, rec, &resp)
	if resp.Count != 2 || len(resp.Races) != 2 {
		t.Fatalf("count = %d with %d races, want 2/2", resp.Count, len(resp.Races))
	}
	if resp.Races[0].ID != "race-003" || resp.Races[1].ID != "race-002" {
		t.Errorf("races = %+v, want newest first", resp.Races)
	}
}

func TestHealthCheck(t *testing.T) {
	h := NewHealthHandler(discardLogger())

	rec := httptest.NewRecorder()
	h.HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]any
	decodeBody(t, rec, &resp)
	if resp["status"] != "ok" {
		t.Errorf("status field = %v, want ok", resp["status"])
	}
}
