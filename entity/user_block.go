package entity

type UserBlock struct {
	BaseEntity
	BlockerID string `json:"blockerId" gorm:"type:varchar(36);not null;uniqueIndex:idx_blocker_blocked"`
	BlockedID string `json:"blockedId" gorm:"type:varchar(36);not null;uniqueIndex:idx_blocker_blocked;index"`

	Blocker User `json:"-" gorm:"foreignKey:BlockerID;references:ID;constraint:OnDelete:CASCADE;"`
	Blocked User `json:"-" gorm:"foreignKey:BlockedID;references:ID;constraint:OnDelete:CASCADE;"`
}
