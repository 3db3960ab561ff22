package postgres

import (
	"context"
	"fmt"

	userDatamodel "github.com/frahmantamala/church-management/internal/core/datamodel/user"
	"github.com/frahmantamala/church-management/internal/user"
	"github.com/jmoiron/sqlx"
)

// StatsRepository answers the dashboard aggregate with one raw query.
type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

const dashboardStatsQuery = `
SELECT
	COUNT(*) AS total_usuarios,
	COUNT(*) FILTER (WHERE aprovado = FALSE) AS usuarios_pendentes,
	COUNT(*) FILTER (WHERE aprovado = TRUE AND papel = $1) AS total_membros,
	COUNT(*) FILTER (WHERE aprovado = TRUE AND papel = $2) AS total_congregados
FROM usuarios`

func (r *StatsRepository) DashboardStats(ctx context.Context) (user.DashboardStats, error) {
	var stats user.DashboardStats
	if err := r.db.GetContext(ctx, &stats, dashboardStatsQuery, userDatamodel.RoleMember, userDatamodel.RoleCongregant); err != nil {
		return user.DashboardStats{}, fmt.Errorf("query dashboard stats: %w", err)
	}
	return stats, nil
}
