package domain

// WeeklyFigures holds the derived financials for one vehicle-week.
type WeeklyFigures struct {
	TotalRevenue    float64 `json:"totalRevenue"`
	TotalDeductions float64 `json:"totalDeductions"`
	NetProfit       float64 `json:"netProfit"`
	ProfitMargin    float64 `json:"profitMargin"`
}

// ComputeWeekly derives totals and margin from the six raw amounts.
// Derived values are never trusted from the caller; every write goes
// through this function. Margin is 0 when revenue is 0, never NaN.
func ComputeWeekly(cash, online, diesel, tolls, maintenance, other float64) WeeklyFigures {
	revenue := cash + online
	deductions := diesel + tolls + maintenance + other
	profit := revenue - deductions

	margin := 0.0
	if revenue > 0 {
		margin = profit / revenue * 100
	}

	return WeeklyFigures{
		TotalRevenue:    revenue,
		TotalDeductions: deductions,
		NetProfit:       profit,
		ProfitMargin:    margin,
	}
}

// MarginOf recomputes a margin from already-summed revenue and profit.
// Fleet-level margins use this instead of averaging per-vehicle margins.
func MarginOf(revenue, profit float64) float64 {
	if revenue <= 0 {
		return 0
	}
	return profit / revenue * 100
}
