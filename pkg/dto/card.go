package dto

// CardCreate is a DTO for adding a card to the wallet.
type CardCreate struct {
	Name       string `json:"card_name" validate:"required,max=50"`
	Number     string `json:"card_number" validate:"required,min=12,max=23"`
	Type       string `json:"card_type" validate:"required"`
	NameOnCard string `json:"name_on_card" validate:"max=100"`
	Expiry     string `json:"expiry" validate:"omitempty,len=5"` // MM/YY
	CVV        string `json:"cvv" validate:"omitempty,numeric,min=3,max=4"`
	Color      string `json:"color" validate:"max=32"`
}

// CardUpdate replaces every editable field of a card.
type CardUpdate CardCreate
