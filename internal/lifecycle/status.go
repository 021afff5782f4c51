package lifecycle

// Status is one of the fixed parcel lifecycle states. The set is closed;
// transitions are not user-definable.
type Status string

const (
	StatusRegistered           Status = "REGISTERED"
	StatusPickupScheduled      Status = "PICKUP_SCHEDULED"
	StatusPickedUp             Status = "PICKED_UP"
	StatusArrivedAtFacility    Status = "ARRIVED_AT_FACILITY"
	StatusDepartedFromFacility Status = "DEPARTED_FROM_FACILITY"
	StatusLoadedInTruck        Status = "LOADED_IN_TRUCK"
	StatusInTransit            Status = "IN_TRANSIT"
	StatusOutForDelivery       Status = "OUT_FOR_DELIVERY"
	StatusDeliveryAttempted    Status = "DELIVERY_ATTEMPTED"
	StatusDelivered            Status = "DELIVERED"
	StatusFailedDelivery       Status = "FAILED_DELIVERY"
	StatusReturnedToFacility   Status = "RETURNED_TO_FACILITY"
	StatusCancelled            Status = "CANCELLED"
	StatusException            Status = "EXCEPTION"
)

var allStatuses = map[Status]struct{}{
	StatusRegistered:           {},
	StatusPickupScheduled:      {},
	StatusPickedUp:             {},
	StatusArrivedAtFacility:    {},
	StatusDepartedFromFacility: {},
	StatusLoadedInTruck:        {},
	StatusInTransit:            {},
	StatusOutForDelivery:       {},
	StatusDeliveryAttempted:    {},
	StatusDelivered:            {},
	StatusFailedDelivery:       {},
	StatusReturnedToFacility:   {},
	StatusCancelled:            {},
	StatusException:            {},
}

var terminalStatuses = map[Status]struct{}{
	StatusDelivered:          {},
	StatusReturnedToFacility: {},
	StatusCancelled:          {},
}

// IsValid reports whether s belongs to the fixed status set.
func IsValid(s Status) bool {
	_, ok := allStatuses[s]
	return ok
}

// IsTerminal reports whether no further transitions are accepted out of s.
func IsTerminal(s Status) bool {
	_, ok := terminalStatuses[s]
	return ok
}
