// Package projection maps between the stored row shape (snake_case
// keys, as exported/imported and as the remote store returns them) and
// the application entity shape (camelCase JSON structs). The mapping
// must be a lossless round trip for every field the application writes;
// numeric fields are coerced on read because the store may hand back
// numbers as strings.
package projection

import (
	"encoding/json"
	"strconv"

	"squarepg-backend/internal/model"
)

// Row is a stored row as a loose key/value map.
type Row = map[string]any

func str(v any) string {
	s, _ := v.(string)
	return s
}

func num(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case json.Number:
		f, _ := n.Float64()
		return f
	case string:
		f, _ := strconv.ParseFloat(n, 64)
		return f
	default:
		return 0
	}
}

func integer(v any) int { return int(num(v)) }
func id(v any) uint     { return uint(num(v)) }

// RoomFromRow builds a Room entity from a stored row. A missing
// capacity defaults to 1 and a missing current_occupancy to 0.
func RoomFromRow(r Row) model.Room {
	capacity := integer(r["capacity"])
	if capacity == 0 {
		capacity = 1
	}
	return model.Room{
		ID:               id(r["id"]),
		OwnerID:          str(r["owner_id"]),
		Number:           str(r["number"]),
		Type:             str(r["type"]),
		Capacity:         capacity,
		CurrentOccupancy: integer(r["current_occupancy"]),
		Status:           str(r["status"]),
		Price:            num(r["price"]),
		Floor:            integer(r["floor"]),
	}
}

// RoomToRow flattens a Room entity back into the stored row shape.
func RoomToRow(m model.Room) Row {
	return Row{
		"id":                m.ID,
		"owner_id":          m.OwnerID,
		"number":            m.Number,
		"type":              m.Type,
		"capacity":          m.Capacity,
		"current_occupancy": m.CurrentOccupancy,
		"status":            m.Status,
		"price":             m.Price,
		"floor":             m.Floor,
	}
}

// TenantFromRow builds a Tenant entity from a stored row.
func TenantFromRow(r Row) model.Tenant {
	return model.Tenant{
		ID:         id(r["id"]),
		OwnerID:    str(r["owner_id"]),
		Name:       str(r["name"]),
		RoomNumber: str(r["room_number"]),
		JoinDate:   str(r["join_date"]),
		Status:     str(r["status"]),
		RentStatus: str(r["rent_status"]),
		Phone:      str(r["phone"]),
		Email:      str(r["email"]),
		RentAmount: num(r["rent_amount"]),
	}
}

// TenantToRow flattens a Tenant entity back into the stored row shape.
func TenantToRow(m model.Tenant) Row {
	return Row{
		"id":          m.ID,
		"owner_id":    m.OwnerID,
		"name":        m.Name,
		"room_number": m.RoomNumber,
		"join_date":   m.JoinDate,
		"status":      m.Status,
		"rent_status": m.RentStatus,
		"phone":       m.Phone,
		"email":       m.Email,
		"rent_amount": m.RentAmount,
	}
}

// PaymentFromRow builds a Payment entity from a stored row.
func PaymentFromRow(r Row) model.Payment {
	return model.Payment{
		ID:         id(r["id"]),
		OwnerID:    str(r["owner_id"]),
		TenantID:   id(r["tenant_id"]),
		TenantName: str(r["tenant_name"]),
		Amount:     num(r["amount"]),
		Date:       str(r["date"]),
		Type:       str(r["type"]),
		Method:     str(r["method"]),
	}
}

// PaymentToRow flattens a Payment entity back into the stored row shape.
func PaymentToRow(m model.Payment) Row {
	return Row{
		"id":          m.ID,
		"owner_id":    m.OwnerID,
		"tenant_id":   m.TenantID,
		"tenant_name": m.TenantName,
		"amount":      m.Amount,
		"date":        m.Date,
		"type":        m.Type,
		"method":      m.Method,
	}
}

// ComplaintFromRow builds a Complaint entity from a stored row.
func ComplaintFromRow(r Row) model.Complaint {
	return model.Complaint{
		ID:          id(r["id"]),
		OwnerID:     str(r["owner_id"]),
		TenantID:    id(r["tenant_id"]),
		TenantName:  str(r["tenant_name"]),
		Title:       str(r["title"]),
		Description: str(r["description"]),
		Status:      str(r["status"]),
		Priority:    str(r["priority"]),
		Date:        str(r["date"]),
	}
}

// ComplaintToRow flattens a Complaint entity back into the stored row shape.
func ComplaintToRow(m model.Complaint) Row {
	return Row{
		"id":          m.ID,
		"owner_id":    m.OwnerID,
		"tenant_id":   m.TenantID,
		"tenant_name": m.TenantName,
		"title":       m.Title,
		"description": m.Description,
		"status":      m.Status,
		"priority":    m.Priority,
		"date":        m.Date,
	}
}
