package repository

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrParcelNotFound   = errors.New("parcel not found")
	ErrCustomerNotFound = errors.New("customer not found")
	ErrTaskNotFound     = errors.New("outbox task not found")
)

// Parcel is one trackable shipment. ID is the internally generated tracking
// code; EDIReference is the partner-supplied idempotency key. Both are unique
// and immutable once written.
type Parcel struct {
	ID           string `db:"id"`
	EDIReference string `db:"edi_reference"`
	Status       string `db:"status"`
	Priority     string `db:"priority"`

	SenderCode    string `db:"sender_code"`
	RecipientCode string `db:"recipient_code"`

	PickupStreet    string `db:"pickup_street"`
	PickupCity      string `db:"pickup_city"`
	PickupState     string `db:"pickup_state"`
	PickupPostal    string `db:"pickup_postal"`
	PickupCountry   string `db:"pickup_country"`
	DeliveryStreet  string `db:"delivery_street"`
	DeliveryCity    string `db:"delivery_city"`
	DeliveryState   string `db:"delivery_state"`
	DeliveryPostal  string `db:"delivery_postal"`
	DeliveryCountry string `db:"delivery_country"`

	Description string  `db:"description"`
	Weight      float64 `db:"weight"`
	Dimensions  string  `db:"dimensions"`

	EstimatedDeliveryAt *time.Time `db:"estimated_delivery_at"`
	ActualDeliveryAt    *time.Time `db:"actual_delivery_at"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// TrackingEvent is an append-only record of one lifecycle transition. Events
// are never updated or deleted after insertion.
type TrackingEvent struct {
	ID             int64     `db:"id"`
	ParcelID       string    `db:"parcel_id"`
	EventType      string    `db:"event_type"`
	Description    string    `db:"description"`
	EventTimestamp time.Time `db:"event_timestamp"`
	Location       *string   `db:"location"`
	VehicleID      *string   `db:"vehicle_id"`
	DriverName     *string   `db:"driver_name"`
	AdditionalInfo *string   `db:"additional_info"`
	CreatedAt      time.Time `db:"created_at"`
}

// Customer is a sender/recipient record referenced by parcels via Code only.
type Customer struct {
	Code      string    `db:"code"`
	Name      string    `db:"name"`
	Email     string    `db:"email"`
	Phone     string    `db:"phone"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type TaskStatus string

const (
	TaskStatusCreated    TaskStatus = "CREATED"
	TaskStatusProcessing TaskStatus = "PROCESSING"
	TaskStatusDone       TaskStatus = "DONE"
	TaskStatusFailed     TaskStatus = "FAILED"
)

// OutboxTask is a pending broker publication recorded in the same transaction
// as the state change that produced it.
type OutboxTask struct {
	ID          uuid.UUID  `db:"id"`
	Status      TaskStatus `db:"status"`
	Topic       string     `db:"topic"`
	Key         string     `db:"key"`
	Payload     []byte     `db:"payload"`
	Attempts    int        `db:"attempts"`
	LastError   *string    `db:"last_error"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
	CompletedAt *time.Time `db:"completed_at"`
}
