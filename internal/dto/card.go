package dto

type CreateDeckRequest struct {
	Name        string   `json:"name" validate:"required" example:"Spanish Vocabulary"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type UpdateDeckRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type DeckResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	CardCount   int64    `json:"card_count"`
	CreatedAt   string   `json:"created_at"`
}

type CreateCardRequest struct {
	DeckID string `json:"deck_id" validate:"required"`
	Front  string `json:"front" validate:"required" example:"la manzana"`
	Back   string `json:"back" validate:"required" example:"the apple"`
}

type UpdateCardRequest struct {
	Front *string `json:"front,omitempty"`
	Back  *string `json:"back,omitempty"`
}

type RateCardRequest struct {
	Rating string `json:"rating" validate:"required" enums:"again,hard,good,easy"`
}
