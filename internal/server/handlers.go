package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"gitlab.com/courexa/edi-gateway/internal/edi"
	"gitlab.com/courexa/edi-gateway/internal/kafka"
	"gitlab.com/courexa/edi-gateway/internal/lifecycle"
	"gitlab.com/courexa/edi-gateway/internal/registrar"
	"gitlab.com/courexa/edi-gateway/internal/repository"
)

type processResponse struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	ParcelID     string    `json:"parcelId,omitempty"`
	EDIReference string    `json:"ediReference,omitempty"`
	Status       string    `json:"status,omitempty"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

type submitResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	EDIReference string `json:"ediReference,omitempty"`
	Topic        string `json:"topic,omitempty"`
	Status       string `json:"status,omitempty"`
}

type statusResponse struct {
	Success             bool       `json:"success"`
	Message             string     `json:"message,omitempty"`
	ParcelID            string     `json:"parcelId,omitempty"`
	EDIReference        string     `json:"ediReference,omitempty"`
	Status              string     `json:"status,omitempty"`
	Priority            string     `json:"priority,omitempty"`
	EstimatedDeliveryAt *time.Time `json:"estimatedDeliveryAt,omitempty"`
	ActualDeliveryAt    *time.Time `json:"actualDeliveryAt,omitempty"`
	CreatedAt           time.Time  `json:"createdAt,omitempty"`
	UpdatedAt           time.Time  `json:"updatedAt,omitempty"`
}

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// handleProcess is the synchronous intake path: normalize, register, answer.
// Duplicate references resolve to the existing parcel with a 200.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var doc edi.OrderDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	order, err := edi.Normalize(doc)
	if err != nil {
		var vErr *edi.ValidationError
		if errors.As(err, &vErr) {
			respondJSON(w, http.StatusBadRequest, errorResponse{Message: vErr.Error()})
			return
		}
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid order document"})
		return
	}

	parcel, isNew, err := s.registrar.Register(r.Context(), order)
	if err != nil {
		if errors.Is(err, registrar.ErrStorageUnavailable) {
			respondJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "Storage temporarily unavailable, please retry"})
			return
		}
		s.logger.Error("registration failed", zap.String("edi_reference", order.EDIReference), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Registration failed"})
		return
	}

	s.parcelCache.Set(parcel)

	message := "Parcel registered successfully"
	if !isNew {
		message = "Order already registered, returning existing parcel"
	}
	respondJSON(w, http.StatusOK, processResponse{
		Success:      true,
		Message:      message,
		ParcelID:     parcel.ID,
		EDIReference: parcel.EDIReference,
		Status:       parcel.Status,
		CreatedAt:    parcel.CreatedAt,
	})
}

// handleSubmit is the asynchronous intake path. A 202 acknowledges acceptance
// for processing, not registration.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var doc edi.OrderDocument
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	// Validate before queueing so malformed orders are rejected while the
	// partner is still on the line.
	if _, err := edi.Normalize(doc); err != nil {
		var vErr *edi.ValidationError
		if errors.As(err, &vErr) {
			respondJSON(w, http.StatusBadRequest, errorResponse{Message: vErr.Error()})
			return
		}
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid order document"})
		return
	}

	if err := s.submitter.Submit(r.Context(), doc); err != nil {
		if errors.Is(err, kafka.ErrPublish) {
			respondJSON(w, http.StatusServiceUnavailable, errorResponse{Message: "Broker unavailable, use /edi/process for synchronous intake"})
			return
		}
		s.logger.Error("submit failed", zap.String("edi_reference", doc.EDIReference), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Submit failed"})
		return
	}

	respondJSON(w, http.StatusAccepted, submitResponse{
		Success:      true,
		Message:      "Order accepted for processing",
		EDIReference: doc.EDIReference,
		Topic:        s.submitter.Topic(),
		Status:       "SUBMITTED",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ediReference")

	parcel, found := s.parcelCache.Get(ref)
	if !found {
		var err error
		parcel, err = s.parcels.GetByEDIReference(r.Context(), ref)
		if err != nil {
			if errors.Is(err, repository.ErrParcelNotFound) {
				respondJSON(w, http.StatusNotFound, errorResponse{Message: "Parcel not found for EDI reference " + ref})
				return
			}
			s.logger.Error("status lookup failed", zap.String("edi_reference", ref), zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Status lookup failed"})
			return
		}
		s.parcelCache.Set(parcel)
	}

	respondJSON(w, http.StatusOK, statusResponse{
		Success:             true,
		ParcelID:            parcel.ID,
		EDIReference:        parcel.EDIReference,
		Status:              parcel.Status,
		Priority:            parcel.Priority,
		EstimatedDeliveryAt: parcel.EstimatedDeliveryAt,
		ActualDeliveryAt:    parcel.ActualDeliveryAt,
		CreatedAt:           parcel.CreatedAt,
		UpdatedAt:           parcel.UpdatedAt,
	})
}

type trackingEventResponse struct {
	EventType      string    `json:"eventType"`
	Description    string    `json:"description,omitempty"`
	EventTimestamp time.Time `json:"eventTimestamp"`
	Location       *string   `json:"location,omitempty"`
	VehicleID      *string   `json:"vehicleId,omitempty"`
	DriverName     *string   `json:"driverName,omitempty"`
	AdditionalInfo *string   `json:"additionalInfo,omitempty"`
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ediReference")

	parcel, err := s.parcels.GetByEDIReference(r.Context(), ref)
	if err != nil {
		if errors.Is(err, repository.ErrParcelNotFound) {
			respondJSON(w, http.StatusNotFound, errorResponse{Message: "Parcel not found for EDI reference " + ref})
			return
		}
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Event lookup failed"})
		return
	}

	events, err := s.machine.Events(r.Context(), parcel.ID)
	if err != nil {
		s.logger.Error("event lookup failed", zap.String("parcel_id", parcel.ID), zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Event lookup failed"})
		return
	}

	out := make([]trackingEventResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, trackingEventResponse{
			EventType:      ev.EventType,
			Description:    ev.Description,
			EventTimestamp: ev.EventTimestamp,
			Location:       ev.Location,
			VehicleID:      ev.VehicleID,
			DriverName:     ev.DriverName,
			AdditionalInfo: ev.AdditionalInfo,
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"ediReference": ref,
		"events":       out,
	})
}

type transitionRequest struct {
	Status         string     `json:"status"`
	Description    string     `json:"description,omitempty"`
	EventTimestamp *time.Time `json:"eventTimestamp,omitempty"`
	Location       *string    `json:"location,omitempty"`
	VehicleID      *string    `json:"vehicleId,omitempty"`
	DriverName     *string    `json:"driverName,omitempty"`
}

func (s *Server) handleTransition(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("ediReference")

	var req transitionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Message: "Invalid request body"})
		return
	}

	meta := lifecycle.TransitionMeta{
		Description: req.Description,
		Location:    req.Location,
		VehicleID:   req.VehicleID,
		DriverName:  req.DriverName,
	}
	if req.EventTimestamp != nil {
		meta.EventTimestamp = *req.EventTimestamp
	}

	ev, err := s.machine.ApplyTransition(r.Context(), ref, lifecycle.Status(req.Status), meta)
	if err != nil {
		var tErr *lifecycle.InvalidTransitionError
		switch {
		case errors.As(err, &tErr):
			respondJSON(w, http.StatusConflict, errorResponse{Message: tErr.Error()})
		case errors.Is(err, repository.ErrParcelNotFound):
			respondJSON(w, http.StatusNotFound, errorResponse{Message: "Parcel not found for EDI reference " + ref})
		default:
			s.logger.Error("transition failed", zap.String("edi_reference", ref), zap.Error(err))
			respondJSON(w, http.StatusInternalServerError, errorResponse{Message: "Transition failed"})
		}
		return
	}

	s.parcelCache.Invalidate(ref)

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success":        true,
		"ediReference":   ref,
		"status":         ev.EventType,
		"eventTimestamp": ev.EventTimestamp,
	})
}

// handleHealth is the availability probe used by remote clients. It reports
// storage reachability and is independent of any circuit-breaker state.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.health.Ping(r.Context()); err != nil {
		respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "DOWN"})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "UP"})
}
