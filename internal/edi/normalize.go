package edi

import (
	"fmt"
	"regexp"
	"strings"
)

// ValidationError reports a malformed or incomplete order document. It is
// terminal for the request that carried the document and is never retried.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid order: %s %s", e.Field, e.Reason)
}

var emailRe = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Normalize validates a raw order document and produces its canonical form.
func Normalize(doc OrderDocument) (*NormalizedOrder, error) {
	ref := strings.TrimSpace(doc.EDIReference)
	if ref == "" {
		return nil, &ValidationError{Field: "ediReference", Reason: "is required"}
	}

	sender, err := normalizeParty("sender", doc.Sender)
	if err != nil {
		return nil, err
	}
	recipient, err := normalizeParty("recipient", doc.Recipient)
	if err != nil {
		return nil, err
	}

	pickup, err := normalizeAddress("pickupAddress", doc.PickupAddress)
	if err != nil {
		return nil, err
	}
	delivery, err := normalizeAddress("deliveryAddress", doc.DeliveryAddress)
	if err != nil {
		return nil, err
	}

	var weight float64
	if doc.ParcelDetails.Weight != nil {
		if *doc.ParcelDetails.Weight <= 0 {
			return nil, &ValidationError{Field: "parcelDetails.weight", Reason: "must be positive"}
		}
		weight = *doc.ParcelDetails.Weight
	}

	priority, err := normalizePriority(doc.ServiceOptions.Priority)
	if err != nil {
		return nil, err
	}

	return &NormalizedOrder{
		EDIReference:          ref,
		Sender:                sender,
		Recipient:             recipient,
		PickupAddress:         pickup,
		DeliveryAddress:       delivery,
		Description:           strings.TrimSpace(doc.ParcelDetails.Description),
		Weight:                weight,
		Dimensions:            strings.TrimSpace(doc.ParcelDetails.Dimensions),
		Priority:              priority,
		EstimatedDeliveryDate: doc.ServiceOptions.EstimatedDeliveryDate,
	}, nil
}

func normalizeParty(field string, p Party) (Party, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return Party{}, &ValidationError{Field: field + ".name", Reason: "is required"}
	}

	email := strings.ToLower(strings.TrimSpace(p.Email))
	if email != "" && !emailRe.MatchString(email) {
		return Party{}, &ValidationError{Field: field + ".email", Reason: "is not a valid email address"}
	}

	return Party{
		Name:         name,
		Email:        email,
		Phone:        strings.TrimSpace(p.Phone),
		CustomerCode: strings.TrimSpace(p.CustomerCode),
	}, nil
}

func normalizeAddress(field string, a Address) (Address, error) {
	street := strings.TrimSpace(a.StreetAddress)
	if street == "" {
		return Address{}, &ValidationError{Field: field + ".streetAddress", Reason: "is required"}
	}

	return Address{
		StreetAddress: street,
		City:          strings.TrimSpace(a.City),
		State:         strings.TrimSpace(a.State),
		PostalCode:    strings.TrimSpace(a.PostalCode),
		Country:       strings.TrimSpace(a.Country),
	}, nil
}

func normalizePriority(p string) (string, error) {
	switch strings.ToUpper(strings.TrimSpace(p)) {
	case "":
		return PriorityStandard, nil
	case PriorityStandard:
		return PriorityStandard, nil
	case PriorityExpress:
		return PriorityExpress, nil
	case PriorityUrgent:
		return PriorityUrgent, nil
	default:
		return "", &ValidationError{Field: "serviceOptions.priority", Reason: "must be STANDARD, EXPRESS or URGENT"}
	}
}
