package domain

import "time"

type Trend string

const (
	TrendUp     Trend = "up"
	TrendDown   Trend = "down"
	TrendStable Trend = "stable"
)

type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

type Season string

const (
	SeasonPeak    Season = "peak"
	SeasonHigh    Season = "high"
	SeasonNormal  Season = "normal"
	SeasonLow     Season = "low"
	SeasonOffPeak Season = "off_peak"
)

const (
	GranularityMonth   = "month"
	GranularityQuarter = "quarter"
	GranularityYear    = "year"
)

// DailyPoint is one observed day. Days without orders are absent, not zero.
type DailyPoint struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	COGS    float64   `json:"cogs"`
	Orders  int       `json:"orders"`
}

type ProjectedDay struct {
	Date    time.Time `json:"date"`
	Revenue float64   `json:"revenue"`
	COGS    float64   `json:"cogs"`
	Profit  float64   `json:"profit"`
}

type ForecastResult struct {
	HorizonDays         int            `json:"horizon_days"`
	DataPoints          int            `json:"data_points"`
	AverageDailyRevenue float64        `json:"average_daily_revenue"`
	Slope               float64        `json:"slope"`
	RSquared            float64        `json:"r_squared"`
	GrowthRate          float64        `json:"growth_rate"`
	Trend               Trend          `json:"trend"`
	Confidence          Confidence     `json:"confidence"`
	ProjectedRevenue    float64        `json:"projected_revenue"`
	ProjectedCOGS       float64        `json:"projected_cogs"`
	ProjectedProfit     float64        `json:"projected_profit"`
	Days                []ProjectedDay `json:"days"`
}

type WeekdayStat struct {
	Weekday        string  `json:"weekday"`
	DayIndex       int     `json:"day_index"`
	Observations   int     `json:"observations"`
	AverageRevenue float64 `json:"average_revenue"`
	Index          float64 `json:"index"`
}

type SeasonalPeriod struct {
	Key            string  `json:"key"`
	Label          string  `json:"label"`
	Observations   int     `json:"observations"`
	TotalRevenue   float64 `json:"total_revenue"`
	AverageRevenue float64 `json:"average_revenue"`
	IndexPercent   float64 `json:"index_percent"`
	Season         Season  `json:"season"`
}

type SeasonalityReport struct {
	Granularity      string           `json:"granularity"`
	Window           Window           `json:"window"`
	OverallMean      float64          `json:"overall_mean"`
	SeasonalityIndex float64          `json:"seasonality_index"`
	Periods          []SeasonalPeriod `json:"periods"`
}

type RevenueAnomaly struct {
	Date     time.Time `json:"date"`
	Revenue  float64   `json:"revenue"`
	Expected float64   `json:"expected"`
	DropPct  float64   `json:"drop_pct"`
	Severity string    `json:"severity"`
}

type ForecastRequest struct {
	Departments  []Department `json:"departments" validate:"omitempty,dive,oneof=bar restaurant kitchen spa housekeeping front_office"`
	End          string       `json:"end" validate:"omitempty,datetime=2006-01-02"`
	LookbackDays int          `json:"lookback_days" validate:"omitempty,min=1,max=730"`
	HorizonDays  int          `json:"horizon_days" validate:"omitempty,min=1,max=90"`
}

type ForecastReport struct {
	Departments []Department     `json:"departments"`
	History     Window           `json:"history"`
	Series      []DailyPoint     `json:"series"`
	Forecast    ForecastResult   `json:"forecast"`
	DayOfWeek   []WeekdayStat    `json:"day_of_week"`
	Anomalies   []RevenueAnomaly `json:"anomalies"`
}

type SeasonalityRequest struct {
	Departments    []Department `json:"departments" validate:"omitempty,dive,oneof=bar restaurant kitchen spa housekeeping front_office"`
	End            string       `json:"end" validate:"omitempty,datetime=2006-01-02"`
	LookbackMonths int          `json:"lookback_months" validate:"omitempty,min=1,max=60"`
	Granularity    string       `json:"granularity" validate:"omitempty,oneof=month quarter"`
}
