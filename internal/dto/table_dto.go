package dto

// OpenTableRequest starts a session on an available table.
type OpenTableRequest struct {
	GuestCount int    `json:"guest_count" validate:"required,min=1,max=50"`
	CustomerID *int64 `json:"customer_id"`
	Notes      string `json:"notes" validate:"max=500"`
}

// ChangeTableStatusRequest is the admin override (RESERVADA /
// FUERA_DE_SERVICIO and back). Regular open/pay transitions never go through
// here.
type ChangeTableStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DISPONIBLE RESERVADA FUERA_DE_SERVICIO"`
}

// RemoveSessionItemRequest deletes one line from the table's open session.
type RemoveSessionItemRequest struct {
	DetailID int64 `json:"detail_id" validate:"required,min=1"`
}
