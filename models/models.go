package models

// Question 题目数据模型
type Question struct {
	ID       int    `json:"id" bson:"id"`
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer,omitempty" bson:"answer,omitempty"`
}

// LeaderboardEntry 排行榜条目，按 crates 降序、timeTaken 升序排名
type LeaderboardEntry struct {
	TeamName  string `json:"teamName" bson:"teamName"`
	TimeTaken int    `json:"timeTaken" bson:"timeTaken"`
	Crates    int    `json:"crates" bson:"crates"`
}
