package repository

import (
	"context"

	"matchTracker/internal/registry"
	"matchTracker/models"
)

// UserRepositoryI defines operations on UserAccount entities.
type UserRepositoryI interface {
	Create(ctx context.Context, username, passwordHash string, role models.Role) (*models.UserAccount, error)
	GetByUsername(ctx context.Context, username string) (*models.UserAccount, error)
	GetByID(ctx context.Context, id int64) (*models.UserAccount, error)
	UpdateRoleByUsername(ctx context.Context, username string, role models.Role) (bool, error)
}

// EntryRepositoryI defines the generic operations on registry tables.
type EntryRepositoryI interface {
	List(ctx context.Context, t registry.TableDescriptor) ([]models.Row, error)
	Get(ctx context.Context, t registry.TableDescriptor, id any) ([]models.Row, error)
	Insert(ctx context.Context, t registry.TableDescriptor, values map[string]any) (int64, error)
	Update(ctx context.Context, t registry.TableDescriptor, id any, values map[string]any) (int64, error)
	Delete(ctx context.Context, t registry.TableDescriptor, id any) (int64, error)
}

// TournamentRepositoryI defines the fixed read queries.
type TournamentRepositoryI interface {
	Upcoming(ctx context.Context, now string) ([]models.Row, error)
	ByFormat(ctx context.Context, format string) ([]models.Row, error)
	Matches(ctx context.Context, tournamentName string) ([]models.Row, error)
	PlacementPoints(ctx context.Context, tournamentName string) ([]models.PlacementPoints, error)
	TeamsInMatches(ctx context.Context, tournamentName string) ([]models.MatchTeam, error)
	TeamWins(ctx context.Context, teamName string) ([]models.TeamWins, error)
	ByGame(ctx context.Context, gameID any) (*models.GameOverview, error)
}

var (
	_ UserRepositoryI       = (*UserRepository)(nil)
	_ EntryRepositoryI      = (*EntryRepository)(nil)
	_ TournamentRepositoryI = (*TournamentRepository)(nil)
)
