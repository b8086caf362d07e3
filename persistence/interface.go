// persistence/interface.go
package persistence

import (
	"context"
	"errors"

	"github.com/cratequest/gameserver/models"
)

// Store 文档存储接口
type Store interface {
	// GetRanked returns all leaderboard entries ordered by crates
	// descending, ties broken by timeTaken ascending.
	GetRanked(ctx context.Context) ([]models.LeaderboardEntry, error)
	// EnsureTeam returns the entry for teamName, creating a zeroed one
	// on first sight. Reports whether the team already existed.
	EnsureTeam(ctx context.Context, teamName string) (*models.LeaderboardEntry, bool, error)
	// UpdateScore overwrites timeTaken and crates for an existing team.
	UpdateScore(ctx context.Context, teamName string, timeTaken, crates int) error
	// Questions returns every question with the answer withheld.
	Questions(ctx context.Context) ([]models.Question, error)
	// Answer returns the stored answer for a question id.
	Answer(ctx context.Context, questionID int) (string, error)
	Close(ctx context.Context) error
}

// 错误定义
var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrQuestionNotFound = errors.New("question not found")
)
