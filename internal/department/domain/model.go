package domain

type Department struct {
	ID       int64  `gorm:"primaryKey"`
	Name     string `gorm:"type:varchar(255);not null"`
	ParentID *int64 `gorm:"index"`
}

func (Department) TableName() string { return "departments" }
