package domain

import "time"

type PreSale struct {
	ID                int64     `json:"id" gorm:"primaryKey"`
	GroupID           int64     `json:"group_id" gorm:"not null;index"`
	StatusID          int64     `json:"status_id" gorm:"not null"`
	ResultID          int64     `json:"result_id" gorm:"not null"`
	RegionID          *int64    `json:"region_id,omitempty"`
	Organization      string    `json:"organization" gorm:"type:text;not null"`
	ResponsibleUserID *int64    `json:"responsible_user_id,omitempty"`
	CreatedAt         time.Time `json:"created_at" gorm:"not null"`
	ChangedAt         time.Time `json:"changed_at" gorm:"not null"`
}

func (PreSale) TableName() string { return "presales" }

type Group struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"type:text;not null"`
	StatusID     int64     `json:"status_id" gorm:"not null"`
	DepartmentID *int64    `json:"department_id,omitempty"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
	ChangedAt    time.Time `json:"changed_at" gorm:"not null"`
}

func (Group) TableName() string { return "presale_groups" }

type Status struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

func (Status) TableName() string { return "presale_statuses" }

type Result struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

func (Result) TableName() string { return "presale_results" }

type Region struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:text;not null"`
}

func (Region) TableName() string { return "presale_regions" }

type GroupStatus struct {
	ID   int64  `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"type:text;not null;uniqueIndex"`
}

func (GroupStatus) TableName() string { return "presale_group_statuses" }
