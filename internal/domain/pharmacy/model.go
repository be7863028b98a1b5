package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for expiry and order dates.
const DateLayout = "2006-01-02"

// Medicine maps to the medicine table. MedicineID is the display
// identifier (M1, M2, ...) allocated when the medicine is added.
type Medicine struct {
	ID          uuid.UUID `db:"id" json:"id"`
	MedicineID  string    `db:"medicine_id" json:"medicine_id"`
	Name        string    `db:"name" json:"name"`
	Category    string    `db:"category" json:"category"`
	Description string    `db:"description" json:"description"`
	Stock       int       `db:"stock" json:"stock"`
	Price       float64   `db:"price" json:"price"`
	ExpiryDate  time.Time `db:"expiry_date" json:"expiry_date"`
}

// AddMedicineRequest carries a new inventory entry.
type AddMedicineRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Stock       int     `json:"stock"`
	Price       float64 `json:"price"`
	ExpiryDate  string  `json:"expiry_date"`
}

// UpdateStockRequest replaces a medicine's stock level.
type UpdateStockRequest struct {
	Stock int `json:"stock"`
}

// Order maps to the medicine_order table.
type Order struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PatientID string    `db:"patient_id" json:"patient_id"`
	Cost      float64   `db:"cost" json:"cost"`
	Address   string    `db:"address" json:"address"`
	OrderedAt time.Time `db:"ordered_at" json:"ordered_at"`
}

// PlaceOrderRequest carries a pharmacy order. The order time comes from
// the server clock.
type PlaceOrderRequest struct {
	PatientID string  `json:"patient_id"`
	Cost      float64 `json:"cost"`
	Address   string  `json:"address"`
}
