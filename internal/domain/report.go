package domain

type DepartmentPL struct {
	Department        Department `json:"department"`
	CostingMethod     string     `json:"costing_method"`
	Revenue           float64    `json:"revenue"`
	COGS              float64    `json:"cogs"`
	GrossProfit       float64    `json:"gross_profit"`
	GrossMargin       float64    `json:"gross_margin"`
	Tax               float64    `json:"tax"`
	Discount          float64    `json:"discount"`
	NetProfit         float64    `json:"net_profit"`
	NetMargin         float64    `json:"net_margin"`
	OrderCount        int        `json:"order_count"`
	AverageOrderValue float64    `json:"average_order_value"`
}

type PeriodPL struct {
	Label             string         `json:"label"`
	Window            Window         `json:"window"`
	Revenue           float64        `json:"revenue"`
	COGS              float64        `json:"cogs"`
	GrossProfit       float64        `json:"gross_profit"`
	GrossMargin       float64        `json:"gross_margin"`
	Tax               float64        `json:"tax"`
	Discount          float64        `json:"discount"`
	NetProfit         float64        `json:"net_profit"`
	NetMargin         float64        `json:"net_margin"`
	OrderCount        int            `json:"order_count"`
	AverageOrderValue float64        `json:"average_order_value"`
	Departments       []DepartmentPL `json:"departments"`
}

// Department returns the sub-record for dept, or false if it was not aggregated.
func (p PeriodPL) Department(dept Department) (DepartmentPL, bool) {
	for _, record := range p.Departments {
		if record.Department == dept {
			return record, true
		}
	}
	return DepartmentPL{}, false
}

type Variance struct {
	Metric         string  `json:"metric"`
	Current        float64 `json:"current"`
	Previous       float64 `json:"previous"`
	Change         float64 `json:"change"`
	Percentage     float64 `json:"percentage"`
	IsPositive     bool    `json:"is_positive"`
	HigherIsBetter bool    `json:"higher_is_better"`
}

type DepartmentVariance struct {
	Department        Department `json:"department"`
	Revenue           Variance   `json:"revenue"`
	COGS              Variance   `json:"cogs"`
	GrossProfit       Variance   `json:"gross_profit"`
	NetProfit         Variance   `json:"net_profit"`
	OrderCount        Variance   `json:"order_count"`
	GrossMarginChange float64    `json:"gross_margin_change"`
	NetMarginChange   float64    `json:"net_margin_change"`
}

type PLRequest struct {
	Departments  []Department   `json:"departments" validate:"omitempty,dive,oneof=bar restaurant kitchen spa housekeeping front_office"`
	Start        string         `json:"start" validate:"required,datetime=2006-01-02"`
	End          string         `json:"end" validate:"required,datetime=2006-01-02"`
	Compare      ComparisonMode `json:"compare" validate:"omitempty,oneof=previous last_week last_month last_year custom"`
	CompareStart string         `json:"compare_start" validate:"omitempty,datetime=2006-01-02"`
	CompareEnd   string         `json:"compare_end" validate:"omitempty,datetime=2006-01-02"`
}

type PLReport struct {
	Departments         []Department         `json:"departments"`
	Mode                ComparisonMode       `json:"mode,omitempty"`
	Current             PeriodPL             `json:"current"`
	Previous            *PeriodPL            `json:"previous,omitempty"`
	Variances           []Variance           `json:"variances,omitempty"`
	DepartmentVariances []DepartmentVariance `json:"department_variances,omitempty"`
}

// PeriodRequest asks for the calendar period containing Date compared with
// the period before it. An empty Date means today.
type PeriodRequest struct {
	Departments []Department `json:"departments" validate:"omitempty,dive,oneof=bar restaurant kitchen spa housekeeping front_office"`
	Date        string       `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Granularity string       `json:"granularity" validate:"required,oneof=month quarter year"`
}
