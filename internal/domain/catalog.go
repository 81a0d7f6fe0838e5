package domain

import "encoding/json"

// Banner es contenido promocional del catalogo publico.
type Banner struct {
	ID    int64           `json:"id"`
	Name  string          `json:"banner_name"`
	Image json.RawMessage `json:"banner_image,omitempty"`
}

// Category agrupa eventos en el catalogo publico.
type Category struct {
	ID    int64           `json:"id"`
	Name  string          `json:"category_name"`
	Image json.RawMessage `json:"category_image,omitempty"`
}

// Event es un evento publicado en el catalogo.
type Event struct {
	ID          int64           `json:"id"`
	Name        string          `json:"event_name"`
	Image       json.RawMessage `json:"event_image,omitempty"`
	Date        json.RawMessage `json:"event_date,omitempty"`
	Time        string          `json:"event_time,omitempty"`
	Location    string          `json:"event_location"`
	SaleDate    string          `json:"sale_date,omitempty"`
	TicketPrice json.RawMessage `json:"ticket_price,omitempty"`
	CategoryID  *int64          `json:"category_id,omitempty"`
}
