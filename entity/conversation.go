package entity

// Conversation pairs two users. PairKey is the sorted participant pair and is
// unique, so at most one conversation exists per unordered pair.
type Conversation struct {
	BaseEntity
	Participant1ID string `json:"participant1Id" gorm:"type:varchar(36);not null;index"`
	Participant2ID string `json:"participant2Id" gorm:"type:varchar(36);not null;index"`
	PairKey        string `json:"-" gorm:"type:varchar(80);not null;uniqueIndex"`

	Participant1 User            `json:"-" gorm:"foreignKey:Participant1ID;references:ID"`
	Participant2 User            `json:"-" gorm:"foreignKey:Participant2ID;references:ID"`
	Messages     []DirectMessage `json:"-" gorm:"foreignKey:ConversationID;constraint:OnDelete:CASCADE;"`
}

func PairKeyOf(userA, userB string) string {
	if userA > userB {
		userA, userB = userB, userA
	}
	return userA + "|" + userB
}

func (c *Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.Participant1ID == userID || c.Participant2ID == userID)
}

// OtherParticipant returns the id of the participant that is not userID.
func (c *Conversation) OtherParticipant(userID string) string {
	if c.Participant1ID == userID {
		return c.Participant2ID
	}
	return c.Participant1ID
}

// IsPair reports whether the conversation joins exactly userA and userB.
func (c *Conversation) IsPair(userA, userB string) bool {
	return c.PairKey == PairKeyOf(userA, userB)
}
