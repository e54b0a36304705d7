package leaderboard

type Entry struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	XP       int    `json:"xp"`
	Sessions int    `json:"sessions"`
	Minutes  int    `json:"minutes"`
}

type Position struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	XP    int    `json:"xp"`
	Rank  int    `json:"rank"`
}

type Leaderboard struct {
	Entries []*Entry  `json:"leaderboard"`
	Me      *Position `json:"me"`
}
