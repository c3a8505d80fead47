package project

import (
	"time"

	"github.com/google/uuid"
)

type Project struct {
	ID         uuid.UUID  `json:"id"`
	Name       string     `json:"name"`
	Color      string     `json:"color,omitempty"`
	ColorType  string     `json:"color_type,omitempty"`
	Emoji      string     `json:"emoji,omitempty"`
	ViewType   ViewType   `json:"view_type"`
	ParentID   *uuid.UUID `json:"parent_id,omitempty"`
	DataSource DataSource `json:"data_source,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

type ViewType string

const ViewStatus ViewType = "status"
const ViewDate ViewType = "date"
const ViewPriority ViewType = "priority"

// DataSource - происхождение записи. Используется только при слиянии
// проектов из нескольких источников, не в обычной логике.
type DataSource string

const SourceUser DataSource = "user"
const SourceBackup DataSource = "localStorage"
const SourceTemplate DataSource = "template"
const SourceHardcoded DataSource = "hardcoded"

// SourcePriority - полный порядок источников: кто выше, тот выигрывает конфликт.
func SourcePriority(s DataSource) int {
	switch s {
	case SourceUser:
		return 3
	case SourceBackup:
		return 2
	case SourceTemplate:
		return 1
	default:
		return 0
	}
}

// DefaultProjectID - фиксированный идентификатор проекта по умолчанию.
// Этот проект существует всегда и не может быть удалён.
var DefaultProjectID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func NewDefault() *Project {
	return &Project{
		ID:         DefaultProjectID,
		Name:       "Входящие",
		Color:      "#808080",
		ViewType:   ViewStatus,
		DataSource: SourceHardcoded,
		CreatedAt:  time.Now(),
	}
}

func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	clone := *p
	if p.ParentID != nil {
		id := *p.ParentID
		clone.ParentID = &id
	}
	if p.UpdatedAt != nil {
		u := *p.UpdatedAt
		clone.UpdatedAt = &u
	}
	return &clone
}

func CloneAll(projects []*Project) []*Project {
	res := make([]*Project, len(projects))
	for i, p := range projects {
		res[i] = p.Clone()
	}
	return res
}
