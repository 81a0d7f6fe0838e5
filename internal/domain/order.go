package domain

import "time"

// Order pertenece a un Customer; las referencias son anulables porque la
// cuenta o el evento pueden borrarse despues de creada la orden.
type Order struct {
	ID         int64     `json:"id"`
	OrderTime  time.Time `json:"order_time"`
	CustomerID *string   `json:"customer_id,omitempty"`
	EventID    *int64    `json:"event_id,omitempty"`
}

// OwnerID devuelve el dueño directo de la orden. ok es false si la cuenta
// fue removida.
func (o Order) OwnerID() (string, bool) {
	if o.CustomerID == nil || *o.CustomerID == "" {
		return "", false
	}
	return *o.CustomerID, true
}

// Ticket pertenece a una Order; el dueño se resuelve de forma transitiva
// Ticket -> Order -> Customer.
type Ticket struct {
	ID           int64  `json:"id"`
	PassportName string `json:"passport_name"`
	FacebookName string `json:"facebook_name"`
	MemberCode   string `json:"member_code,omitempty"`
	PriorityDate string `json:"priority_date,omitempty"`
	FstPt        string `json:"fst_pt,omitempty"`
	SndPt        string `json:"snd_pt,omitempty"`
	TrdPt        string `json:"trd_pt,omitempty"`
	Status       string `json:"status"`
	EventID      *int64 `json:"event_id,omitempty"`
	OrderID      *int64 `json:"order_id,omitempty"`
}

// TicketOwnership empareja un ticket con su orden ya cargada para resolver
// el dueño con exactamente un salto. Una orden ausente niega la propiedad.
type TicketOwnership struct {
	Ticket Ticket
	Order  *Order
}

func (t TicketOwnership) OwnerID() (string, bool) {
	if t.Order == nil {
		return "", false
	}
	return t.Order.OwnerID()
}
