package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hotelledger/backend/internal/domain"
)

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok": true,
		"at": time.Now().UTC().Format(time.RFC3339),
	})
}

func (a *API) handleProfitAndLoss(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	report, err := a.service.ProfitAndLoss(r.Context(), domain.PLRequest{
		Departments:  parseDepartments(q),
		Start:        strings.TrimSpace(q.Get("start")),
		End:          strings.TrimSpace(q.Get("end")),
		Compare:      domain.ComparisonMode(strings.ToLower(strings.TrimSpace(q.Get("compare")))),
		CompareStart: strings.TrimSpace(q.Get("compare_start")),
		CompareEnd:   strings.TrimSpace(q.Get("compare_end")),
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

type batchRequest struct {
	Requests []domain.PLRequest `json:"requests"`
}

func (a *API) handleProfitAndLossBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(r, &req); err != nil {
		a.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json payload: %w", err))
		return
	}
	reports, err := a.service.ProfitAndLossBatch(r.Context(), req.Requests)
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (a *API) handlePeriodOverPeriod(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	granularity := strings.ToLower(strings.TrimSpace(q.Get("granularity")))
	if granularity == "" {
		granularity = domain.GranularityMonth
	}
	report, err := a.service.PeriodOverPeriod(r.Context(), domain.PeriodRequest{
		Departments: parseDepartments(q),
		Date:        strings.TrimSpace(q.Get("date")),
		Granularity: granularity,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lookback, err := parseOptionalInt(q, "lookback_days")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}
	horizon, err := parseOptionalInt(q, "horizon_days")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := a.service.Forecast(r.Context(), domain.ForecastRequest{
		Departments:  parseDepartments(q),
		End:          strings.TrimSpace(q.Get("end")),
		LookbackDays: lookback,
		HorizonDays:  horizon,
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleSeasonality(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	months, err := parseOptionalInt(q, "lookback_months")
	if err != nil {
		a.writeError(w, http.StatusBadRequest, err)
		return
	}

	report, err := a.service.Seasonality(r.Context(), domain.SeasonalityRequest{
		Departments:    parseDepartments(q),
		End:            strings.TrimSpace(q.Get("end")),
		LookbackMonths: months,
		Granularity:    strings.ToLower(strings.TrimSpace(q.Get("granularity"))),
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (a *API) handleRecipeAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := a.service.AnalyzeRecipes(r.Context(), domain.RecipeAnalysisRequest{
		Departments: parseDepartments(r.URL.Query()),
	})
	if err != nil {
		a.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// parseDepartments accepts repeated and comma separated values. Unknown names
// are passed through for the service to reject.
func parseDepartments(q url.Values) []domain.Department {
	var out []domain.Department
	for _, raw := range q["departments"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			if part != "" {
				out = append(out, domain.Department(part))
			}
		}
	}
	return out
}

func parseOptionalInt(q url.Values, key string) (int, error) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return val, nil
}
