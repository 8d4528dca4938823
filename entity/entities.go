package entity

// All lists every table in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Account{},
		&Conversation{},
		&DirectMessage{},
		&UserBlock{},
	}
}
