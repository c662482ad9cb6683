package dto

type CreatePetRequest struct {
	Name      string `json:"name" binding:"required"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	BirthDate string `json:"birth_date"`
	PhotoURL  string `json:"photo_url"`
}
