package repository

import (
	"context"

	"github.com/spec-kit/chat-service/internal/domain"
)

// SettingRepository reads and writes application switches.
type SettingRepository interface {
	List(ctx context.Context) ([]domain.Setting, error)
	Update(ctx context.Context, name string, value bool) error
}

type settingRepository struct {
	db DB
}

// NewSettingRepository builds repository.
func NewSettingRepository(db DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]domain.Setting, error) {
	const query = `SELECT setting_name, setting_value FROM app_settings ORDER BY setting_name`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.Setting, 0)
	for rows.Next() {
		var s domain.Setting
		if err := rows.Scan(&s.Name, &s.Value); err != nil {
			return nil, err
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

// Update only touches provisioned settings; unknown names report ErrNotFound.
func (r *settingRepository) Update(ctx context.Context, name string, value bool) error {
	const query = `UPDATE app_settings SET setting_value=$1 WHERE setting_name=$2`
	cmd, err := r.db.Exec(ctx, query, value, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
