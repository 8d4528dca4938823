package entity

type Account struct {
	BaseEntity
	UserID   string `json:"userId" gorm:"type:varchar(36);uniqueIndex;not null"`
	Password string `json:"-" gorm:"type:varchar(255);not null"`
	User     User   `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnDelete:CASCADE;"`
}
