package handlers

import (
	"strings"
	"time"

	"github.com/polkiloo/storepickup/internal/domain/model"
	"github.com/polkiloo/storepickup/internal/server/http/dto"
)

func storeResponse(s model.Store) dto.StoreResponse {
	hours := make(map[string]dto.DayHoursResponse, len(s.Hours))
	for day, h := range s.Hours {
		hours[strings.ToLower(day.String())] = dto.DayHoursResponse{Open: h.Open, Close: h.Close, Closed: h.Closed}
	}
	caps := s.Capabilities
	if caps == nil {
		caps = []string{}
	}
	return dto.StoreResponse{
		ID:   s.ID,
		Name: s.Name,
		Address: dto.AddressResponse{
			Street:     s.Address.Street,
			City:       s.Address.City,
			State:      s.Address.State,
			PostalCode: s.Address.PostalCode,
			Country:    s.Address.Country,
		},
		Lat:                        s.Location.Lat,
		Lng:                        s.Location.Lng,
		Phone:                      s.Phone,
		Hours:                      hours,
		Capabilities:               caps,
		PickupAvailable:            s.PickupAvailable,
		EstimatedPickupTimeMinutes: s.EstimatedPickupTimeMinutes,
		MaxPickupTimeHours:         s.MaxPickupTimeHours,
		SlotCapacity:               s.Capacity(),
		IsActive:                   s.IsActive,
	}
}

func slotResponse(s model.PickupTimeSlot) dto.SlotResponse {
	return dto.SlotResponse{Time: s.Time, Start: s.Start, Available: s.Available, Capacity: s.Capacity, Booked: s.Booked}
}

// orderResponse renders an order. The pickup code is hidden from customers until the order is ready.
func orderResponse(o model.PickupOrder, revealCode bool) dto.OrderResponse {
	items := make([]dto.LineItemPayload, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, dto.LineItemPayload{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price, Notes: it.Notes})
	}
	resp := dto.OrderResponse{
		ID:      o.ID,
		StoreID: o.StoreID,
		Items:   items,
		Customer: dto.CustomerPayload{
			Name:       o.Customer.Name,
			Phone:      o.Customer.Phone,
			Email:      o.Customer.Email,
			IDDocument: o.Customer.IDDocument,
		},
		ScheduledTime:          o.ScheduledTime,
		Notes:                  o.Notes,
		PreparationTimeMinutes: o.PreparationTimeMinutes,
		ActualReadyTime:        o.ActualReadyTime,
		Status:                 string(o.Status),
		Total:                  o.Total,
		CreatedAt:              o.CreatedAt,
		UpdatedAt:              o.UpdatedAt,
		ExpiresAt:              o.ExpiresAt,
	}
	if revealCode || o.Status == model.OrderStatusReady {
		resp.PickupCode = o.PickupCode
	}
	return resp
}

func staffOrderResponse(o model.PickupOrder) dto.OrderResponse {
	resp := orderResponse(o, true)
	resp.Notifications = &dto.NotificationsResponse{
		OrderReceived: o.Notifications.OrderReceived,
		Preparing:     o.Notifications.Preparing,
		Ready:         o.Notifications.Ready,
		ReminderSent:  o.Notifications.ReminderSent,
	}
	return resp
}

func ordersResponse(orders []model.PickupOrder, render func(model.PickupOrder) dto.OrderResponse) []dto.OrderResponse {
	result := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		result = append(result, render(o))
	}
	return result
}

func customerOrderResponse(o model.PickupOrder) dto.OrderResponse {
	return orderResponse(o, false)
}

func draftFromRequest(req dto.CreateOrderRequest, userID int64, scheduled *time.Time) model.OrderDraft {
	items := make([]model.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.LineItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: it.Price, Notes: it.Notes})
	}
	return model.OrderDraft{
		StoreID: req.StoreID,
		UserID:  userID,
		Items:   items,
		Customer: model.CustomerInfo{
			Name:       req.Customer.Name,
			Phone:      req.Customer.Phone,
			Email:      req.Customer.Email,
			IDDocument: req.Customer.IDDocument,
		},
		Total:         req.Total,
		ScheduledTime: scheduled,
		Notes:         req.Notes,
	}
}
