package entity

type User struct {
	BaseEntity
	Name     string  `json:"name" gorm:"type:varchar(50);not null"`
	Email    string  `json:"email" gorm:"uniqueIndex;type:varchar(100);not null"`
	Slug     string  `json:"slug" gorm:"uniqueIndex;type:varchar(80);not null"`
	Image    string  `json:"image" gorm:"type:text"`
	Location *string `json:"location,omitempty" gorm:"type:varchar(100)"`
	Bio      *string `json:"bio,omitempty" gorm:"type:text"`
}
