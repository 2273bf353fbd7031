package projects

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/yash-srivastava19/canopy/internal/mindmap"
)

// projectRow is the table layout. Nodes are stored as one JSON document.
type projectRow struct {
	ID            string `gorm:"primaryKey;size:64"`
	Name          string `gorm:"not null;size:200"`
	Nodes         string `gorm:"type:text;not null"`
	Orientation   string `gorm:"size:16;not null"`
	CreatedMillis int64  `gorm:"column:created_at;not null"`
	UpdatedMillis int64  `gorm:"column:updated_at;not null;index"`
}

func (projectRow) TableName() string {
	return "projects"
}

func rowFromProject(p Project) (projectRow, error) {
	nodes := p.Nodes
	if nodes == nil {
		nodes = []mindmap.Node{}
	}
	data, err := json.Marshal(nodes)
	if err != nil {
		return projectRow{}, err
	}
	return projectRow{
		ID:            p.ID,
		Name:          p.Name,
		Nodes:         string(data),
		Orientation:   p.Orientation.String(),
		CreatedMillis: p.CreatedAt,
		UpdatedMillis: p.UpdatedAt,
	}, nil
}

func (r projectRow) project() (Project, error) {
	var nodes []mindmap.Node
	if err := json.Unmarshal([]byte(r.Nodes), &nodes); err != nil {
		return Project{}, fmt.Errorf("decode nodes of %s: %w", r.ID, err)
	}
	o, err := mindmap.ParseOrientation(r.Orientation)
	if err != nil {
		return Project{}, err
	}
	return Project{
		ID:          r.ID,
		Name:        r.Name,
		Nodes:       nodes,
		Orientation: o,
		CreatedAt:   r.CreatedMillis,
		UpdatedAt:   r.UpdatedMillis,
	}, nil
}

// SQLStore keeps projects in a relational table through gorm.
type SQLStore struct {
	db *gorm.DB
}

func OpenSQLite(path string) (*SQLStore, error) {
	return openSQL(sqlite.Open(path))
}

func OpenPostgres(dsn string) (*SQLStore, error) {
	return openSQL(postgres.Open(dsn))
}

func openSQL(d gorm.Dialector) (*SQLStore, error) {
	db, err := gorm.Open(d, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&projectRow{}); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) List(ctx context.Context) ([]Project, error) {
	var rows []projectRow
	if err := s.db.WithContext(ctx).Order("updated_at desc").Find(&rows).Error; err != nil {
		return nil, err
	}
	list := make([]Project, 0, len(rows))
	for _, r := range rows {
		p, err := r.project()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (Project, error) {
	var row projectRow
	err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Project{}, fmt.Errorf("get %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Project{}, err
	}
	return row.project()
}

func (s *SQLStore) Put(ctx context.Context, p Project) (Project, error) {
	if err := validID(p.ID); err != nil {
		return Project{}, err
	}
	var out Project
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing *Project
		var row projectRow
		err := tx.First(&row, "id = ?", p.ID).Error
		switch {
		case err == nil:
			old, err := row.project()
			if err != nil {
				return err
			}
			existing = &old
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		out = merge(existing, p)
		next, err := rowFromProject(out)
		if err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&next).Error
	})
	if err != nil {
		return Project{}, err
	}
	return out, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Delete(&projectRow{}, "id = ?", id).Error
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
