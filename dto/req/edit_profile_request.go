package req

type EditProfileRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=50"`
	Location *string `json:"location" validate:"omitempty,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=1000"`
	Image    *string `json:"image"`
}
