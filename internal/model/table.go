package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table estados mirrored verbatim from the server. The client never computes a
// transition locally; every status shown comes from a server response.
const (
	TableAvailable    = "DISPONIBLE"
	TableOccupied     = "OCUPADA"
	TableReserved     = "RESERVADA"
	TableOutOfService = "FUERA_DE_SERVICIO"
)

// RestaurantTable is one dine-in table with its optional active session.
type RestaurantTable struct {
	ID            int64         `json:"id"`
	TableNumber   int           `json:"tableNumber"`
	Name          string        `json:"name"`
	Zone          string        `json:"zone,omitempty"`
	Capacity      int           `json:"capacity"`
	Status        string        `json:"status"`
	ActiveSession *TableSession `json:"activeSession,omitempty"`
}

// TableSession is the server-owned dine-in session. The client always replaces
// its copy wholesale from the latest owning response; no field-level merge.
type TableSession struct {
	TableID    int64           `json:"tableId"`
	InvoiceID  int64           `json:"invoiceId"`
	OpenedBy   string          `json:"openedBy"`
	OpenedAt   time.Time       `json:"openedAt"`
	GuestCount int             `json:"guestCount"`
	Lines      []InvoiceDetail `json:"lines"`
	Subtotal   decimal.Decimal `json:"subtotal"`
	Total      decimal.Decimal `json:"total"`
	Status     string          `json:"status"`
}

// IsAvailable reports whether the table can start a new session.
func (t *RestaurantTable) IsAvailable() bool { return t.Status == TableAvailable }

// IsOccupied reports whether the table has an open session.
func (t *RestaurantTable) IsOccupied() bool { return t.Status == TableOccupied }
