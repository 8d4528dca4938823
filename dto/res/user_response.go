package res

import "time"

type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Slug      string    `json:"slug"`
	Image     string    `json:"image"`
	Location  *string   `json:"location,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Image string `json:"image"`
}

type BlockStatusResponse struct {
	IsBlocked  bool `json:"isBlocked"`
	HasBlocked bool `json:"hasBlocked"`
}

type UploadResponse struct {
	URLs []string `json:"urls"`
}
