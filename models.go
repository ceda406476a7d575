package main

import (
	"time"

	"gorm.io/datatypes"
)

// Schema for the football data the prediction pipelines read and write.
// These are plain records: relationships are foreign-key id fields resolved
// by explicit store lookups, never live object references. The ELO, feature
// and ML values are produced by external collaborators; this service only
// stores and serves them.

// Division is a league (E0 = Premier League, SP1 = La Liga, ...).
type Division struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;size:10;not null" json:"code"`
	Name      string    `gorm:"index;size:100;not null" json:"name"`
	NameAPI   *string   `gorm:"size:100" json:"name_api,omitempty"`
	Country   *string   `gorm:"size:3" json:"country,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Division) TableName() string { return "divisions" }

type Team struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Name         string     `gorm:"uniqueIndex;size:100;not null" json:"name"`
	NameAPI      *string    `gorm:"size:100" json:"name_api,omitempty"`
	Country      *string    `gorm:"size:3" json:"country,omitempty"`
	CurrentElo   *float64   `json:"current_elo,omitempty"`
	EloUpdatedAt *time.Time `json:"elo_updated_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (Team) TableName() string { return "teams" }

// TeamStats holds a team's rolling last-5-match averages (one row per team).
// The feature pipeline overwrites it after every played match.
type TeamStats struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	TeamID uint `gorm:"uniqueIndex;not null" json:"team_id"`

	AvgGoalsScored5   *float64 `json:"avg_goals_scored_5,omitempty"`
	AvgGoalsConceded5 *float64 `json:"avg_goals_conceded_5,omitempty"`
	AvgShots5         *float64 `json:"avg_shots_5,omitempty"`
	AvgShotsTarget5   *float64 `json:"avg_shots_target_5,omitempty"`
	AvgCorners5       *float64 `json:"avg_corners_5,omitempty"`
	AvgCornersConc5   *float64 `gorm:"column:avg_corners_conceded_5" json:"avg_corners_conceded_5,omitempty"`

	CurrentForm   *int `json:"current_form,omitempty"`
	WinStreak     int  `gorm:"not null;default:0" json:"win_streak"`
	ScoringStreak int  `gorm:"not null;default:0" json:"scoring_streak"`

	UpdatedAt time.Time `json:"updated_at"`
}

func (TeamStats) TableName() string { return "team_stats" }

// EloHistory stores the twice-monthly ClubElo snapshots per team.
type EloHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TeamID    uint      `gorm:"index;not null" json:"team_id"`
	Date      time.Time `gorm:"type:date;index" json:"date"`
	Elo       float64   `gorm:"not null" json:"elo"`
	CreatedAt time.Time `json:"created_at"`
}

func (EloHistory) TableName() string { return "elo_history" }

// Match result codes: home win, away win, draw.
const (
	ResultHome = "H"
	ResultAway = "A"
	ResultDraw = "D"
)

type Match struct {
	ID uint `gorm:"primaryKey" json:"id"`

	DivisionID uint      `gorm:"index;not null" json:"division_id"`
	MatchDate  time.Time `gorm:"type:date;index;not null" json:"match_date"`
	MatchTime  *string   `gorm:"size:8" json:"match_time,omitempty"`

	HomeTeamID uint `gorm:"index;not null" json:"home_team_id"`
	AwayTeamID uint `gorm:"index;not null" json:"away_team_id"`

	// Pre-match features (model input)
	HomeTeamElo *float64 `json:"home_team_elo,omitempty"`
	AwayTeamElo *float64 `json:"away_team_elo,omitempty"`
	Form3Home   *int     `json:"form3_home,omitempty"`
	Form3Away   *int     `json:"form3_away,omitempty"`
	Form5Home   *int     `json:"form5_home,omitempty"`
	Form5Away   *int     `json:"form5_away,omitempty"`

	// Full-time result (model target)
	FTHome   *int    `gorm:"column:ft_home" json:"ft_home,omitempty"`
	FTAway   *int    `gorm:"column:ft_away" json:"ft_away,omitempty"`
	FTResult *string `gorm:"column:ft_result;size:1" json:"ft_result,omitempty"`

	// Half-time
	HTHome   *int    `gorm:"column:ht_home" json:"ht_home,omitempty"`
	HTAway   *int    `gorm:"column:ht_away" json:"ht_away,omitempty"`
	HTResult *string `gorm:"column:ht_result;size:1" json:"ht_result,omitempty"`

	// Match statistics (CSV feed)
	HomeShots       *int `json:"home_shots,omitempty"`
	AwayShots       *int `json:"away_shots,omitempty"`
	HomeShotsTarget *int `json:"home_shots_target,omitempty"`
	AwayShotsTarget *int `json:"away_shots_target,omitempty"`
	HomeCorners     *int `json:"home_corners,omitempty"`
	AwayCorners     *int `json:"away_corners,omitempty"`
	HomeFouls       *int `json:"home_fouls,omitempty"`
	AwayFouls       *int `json:"away_fouls,omitempty"`
	HomeYellow      *int `json:"home_yellow,omitempty"`
	AwayYellow      *int `json:"away_yellow,omitempty"`
	HomeRed         *int `json:"home_red,omitempty"`
	AwayRed         *int `json:"away_red,omitempty"`

	// Extended statistics (API feed)
	HomePossession *int     `json:"home_possession,omitempty"`
	AwayPossession *int     `json:"away_possession,omitempty"`
	HomeXG         *float64 `gorm:"column:home_xg" json:"home_xg,omitempty"`
	AwayXG         *float64 `gorm:"column:away_xg" json:"away_xg,omitempty"`
	HomeOffsides   *int     `json:"home_offsides,omitempty"`
	AwayOffsides   *int     `json:"away_offsides,omitempty"`
	HomeSaves      *int     `json:"home_saves,omitempty"`
	AwaySaves      *int     `json:"away_saves,omitempty"`

	// Bookmaker odds
	OddHome    *float64 `json:"odd_home,omitempty"`
	OddDraw    *float64 `json:"odd_draw,omitempty"`
	OddAway    *float64 `json:"odd_away,omitempty"`
	OddOver25  *float64 `gorm:"column:odd_over25" json:"odd_over25,omitempty"`
	OddUnder25 *float64 `gorm:"column:odd_under25" json:"odd_under25,omitempty"`

	// Cluster features
	CHtb *float64 `gorm:"column:c_htb" json:"c_htb,omitempty"`
	CPhb *float64 `gorm:"column:c_phb" json:"c_phb,omitempty"`
	CVhd *float64 `gorm:"column:c_vhd" json:"c_vhd,omitempty"`
	CVad *float64 `gorm:"column:c_vad" json:"c_vad,omitempty"`
	CLth *float64 `gorm:"column:c_lth" json:"c_lth,omitempty"`
	CLta *float64 `gorm:"column:c_lta" json:"c_lta,omitempty"`

	Source    string    `gorm:"size:20;not null;default:csv" json:"source"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Match) TableName() string { return "matches" }

// TotalGoals is nil until the full-time score is in.
func (m *Match) TotalGoals() *int {
	if m.FTHome == nil || m.FTAway == nil {
		return nil
	}
	n := *m.FTHome + *m.FTAway
	return &n
}

func (m *Match) EloDiff() *float64 {
	if m.HomeTeamElo == nil || m.AwayTeamElo == nil {
		return nil
	}
	d := *m.HomeTeamElo - *m.AwayTeamElo
	return &d
}

// Prediction is one model output for one match and market. Outcome fields
// (is_correct, actual_value) stay null until the match is graded.
type Prediction struct {
	ID      uint `gorm:"primaryKey" json:"id"`
	MatchID uint `gorm:"index;not null" json:"match_id"`

	Market         string         `gorm:"size:50;not null" json:"market"`
	Prediction     *string        `gorm:"size:10" json:"prediction,omitempty"`
	Probability    *float64       `json:"probability,omitempty"`
	ProbDetails    datatypes.JSON `json:"prob_details,omitempty"`
	PredictedValue *float64       `json:"predicted_value,omitempty"`

	ModelVersion *string        `gorm:"size:50" json:"model_version,omitempty"`
	FeaturesUsed datatypes.JSON `json:"features_used,omitempty"`

	IsCorrect   *bool     `json:"is_correct,omitempty"`
	ActualValue *string   `gorm:"size:50" json:"actual_value,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Prediction) TableName() string { return "predictions" }

// MLModel is trained-model metadata. Each training run inserts a row; the
// row with is_active=true per name is the one serving production.
type MLModel struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;not null" json:"name"`
	Version  string `gorm:"size:20;not null" json:"version"`
	FilePath string `gorm:"size:255;not null" json:"file_path"`

	TrainedAt       time.Time      `gorm:"not null" json:"trained_at"`
	TrainingSamples *int           `json:"training_samples,omitempty"`
	FeatureNames    datatypes.JSON `json:"feature_names,omitempty"`
	Hyperparameters datatypes.JSON `json:"hyperparameters,omitempty"`

	Accuracy *float64 `json:"accuracy,omitempty"`
	F1Score  *float64 `json:"f1_score,omitempty"`
	AUCScore *float64 `gorm:"column:auc_score" json:"auc_score,omitempty"`
	LogLoss  *float64 `json:"log_loss,omitempty"`
	MAE      *float64 `gorm:"column:mae" json:"mae,omitempty"`

	IsActive  bool      `gorm:"not null;default:false" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (MLModel) TableName() string { return "ml_models" }
