package stats

// DailyActivity is one day's bucket in the trailing-week analytics view.
type DailyActivity struct {
	Date     string `json:"date"`
	Sessions int    `json:"sessions"`
	Minutes  int    `json:"minutes"`
}

type Analytics struct {
	TotalSessions        int             `json:"totalSessions"`
	TotalMinutes         int             `json:"totalMinutes"`
	TotalPoints          int             `json:"totalPoints"`
	SessionsByType       map[string]int  `json:"sessionsByType"`
	Last7Days            []DailyActivity `json:"last7Days"`
	AverageSessionLength int             `json:"averageSessionLength"`
}
