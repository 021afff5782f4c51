// Package edi parses raw partner order documents into the canonical form the
// rest of the pipeline works with. Everything here is pure computation: no
// I/O, no clock, same output for the same input.
package edi

import "time"

// OrderDocument is the wire shape accepted on both intake paths.
type OrderDocument struct {
	EDIReference    string         `json:"ediReference"`
	Sender          Party          `json:"sender"`
	Recipient       Party          `json:"recipient"`
	PickupAddress   Address        `json:"pickupAddress"`
	DeliveryAddress Address        `json:"deliveryAddress"`
	ParcelDetails   ParcelDetails  `json:"parcelDetails"`
	ServiceOptions  ServiceOptions `json:"serviceOptions"`
}

type Party struct {
	Name         string `json:"name"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	CustomerCode string `json:"customerCode,omitempty"`
}

type Address struct {
	StreetAddress string `json:"streetAddress"`
	City          string `json:"city"`
	State         string `json:"state"`
	PostalCode    string `json:"postalCode"`
	Country       string `json:"country"`
}

type ParcelDetails struct {
	Description string   `json:"description"`
	Weight      *float64 `json:"weight,omitempty"`
	Dimensions  string   `json:"dimensions,omitempty"`
}

type ServiceOptions struct {
	Priority              string     `json:"priority,omitempty"`
	EstimatedDeliveryDate *time.Time `json:"estimatedDeliveryDate,omitempty"`
}

// NormalizedOrder is the canonical internal representation. Fields are
// trimmed, cased and defaulted; a NormalizedOrder never carries partial or
// ambiguous values.
type NormalizedOrder struct {
	EDIReference    string
	Sender          Party
	Recipient       Party
	PickupAddress   Address
	DeliveryAddress Address
	Description     string
	Weight          float64
	Dimensions      string
	Priority        string

	EstimatedDeliveryDate *time.Time
}

const (
	PriorityStandard = "STANDARD"
	PriorityExpress  = "EXPRESS"
	PriorityUrgent   = "URGENT"
)
