package datastore

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Pedidos-api/internal/application/ports"
	"github.com/jhoicas/Pedidos-api/internal/domain/entity"
)

// Tablas del remoto.
const (
	tableProducts     = "products"
	tableProfiles     = "profiles"
	tableOrders       = "orders"
	tableOrderItems   = "order_items"
	tableInteractions = "interactions"
)

// remoteID indica si id puede existir en el remoto (los IDs remotos son UUID).
// Evita mandar al backend IDs locales como "u1", que fallarían al convertirse a uuid.
func remoteID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// remoteIDs filtra los IDs que pueden existir en el remoto, sin repetidos.
func remoteIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || !remoteID(id) {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// ─── Product ─────────────────────────────────────────────────────────────────

func productFromRow(row ports.Row) entity.Product {
	p := entity.Product{
		ID:          str(row, "id"),
		Code:        str(row, "code"),
		Description: str(row, "description"),
		Reference:   str(row, "reference"),
		Colors:      strSlice(row, "colors"),
		ImageURL:    str(row, "image_url"),
		Category:    str(row, "category"),
		Subcategory: str(row, "subcategory"),
		Line:        str(row, "line"),
		Amperage:    decimalPtr(row, "amperage"),
		Details:     strPtr(row, "details"),
	}
	p.Origin = rowOrigin(row, p.ID)
	return p
}

// productToRow no incluye id: en insert lo genera el remoto y en update va aparte.
func productToRow(p *entity.Product) ports.Row {
	colors := p.Colors
	if colors == nil {
		colors = []string{}
	}
	row := ports.Row{
		"code":        p.Code,
		"description": p.Description,
		"reference":   p.Reference,
		"colors":      colors,
		"image_url":   p.ImageURL,
		"category":    p.Category,
		"subcategory": p.Subcategory,
		"line":        p.Line,
		"amperage":    nil,
		"details":     nil,
		"origin":      string(entity.OriginRemote),
	}
	if p.Amperage != nil {
		row["amperage"] = *p.Amperage
	}
	if p.Details != nil {
		row["details"] = *p.Details
	}
	return row
}

// ─── User ────────────────────────────────────────────────────────────────────

// userFromRow un rol desconocido para este binario se degrada al de menor privilegio.
func userFromRow(row ports.Row) entity.User {
	role, ok := entity.ParseRole(str(row, "role"))
	if !ok {
		role = entity.RoleRepresentative
	}
	u := entity.User{
		ID:    str(row, "id"),
		Email: str(row, "email"),
		Name:  str(row, "name"),
		Role:  role,
	}
	u.Origin = rowOrigin(row, u.ID)
	return u
}

func userToRow(u *entity.User) ports.Row {
	return ports.Row{
		"email":  strings.TrimSpace(u.Email),
		"name":   u.Name,
		"role":   string(u.Role),
		"origin": string(entity.OriginRemote),
	}
}

// ─── Order ───────────────────────────────────────────────────────────────────

func headerFromRow(row ports.Row) entity.OrderHeader {
	h := entity.OrderHeader{
		ID:               str(row, "id"),
		CustomerName:     strPtr(row, "customer_name"),
		CustomerContact:  strPtr(row, "customer_contact"),
		RepresentativeID: str(row, "representative_id"),
		Status:           entity.OrderStatusNew,
		CreatedAt:        timeOf(row, "created_at"),
		Notes:            str(row, "notes"),
	}
	if st, ok := entity.ParseOrderStatus(str(row, "status")); ok {
		h.Status = st
	}
	h.Origin = rowOrigin(row, h.ID)
	return h
}

func headerToRow(h *entity.OrderHeader) ports.Row {
	status := h.Status
	if status == "" {
		status = entity.OrderStatusNew
	}
	row := ports.Row{
		"status":            string(status),
		"customer_name":     nil,
		"customer_contact":  nil,
		"notes":             h.Notes,
		"representative_id": h.RepresentativeID,
		"origin":            string(entity.OriginRemote),
	}
	if h.CustomerName != nil {
		row["customer_name"] = *h.CustomerName
	}
	if h.CustomerContact != nil {
		row["customer_contact"] = *h.CustomerContact
	}
	return row
}

func itemFromRow(row ports.Row) entity.OrderItem {
	return entity.OrderItem{
		OrderID:   str(row, "order_id"),
		ProductID: str(row, "product_id"),
		Quantity:  intOf(row, "quantity"),
	}
}

func itemToRow(it entity.OrderItem) ports.Row {
	return ports.Row{
		"order_id":   it.OrderID,
		"product_id": it.ProductID,
		"quantity":   it.Quantity,
	}
}

func interactionFromRow(row ports.Row) entity.OrderInteraction {
	return entity.OrderInteraction{
		OrderID: str(row, "order_id"),
		Interaction: entity.CRMInteraction{
			ID:         str(row, "id"),
			Date:       timeOf(row, "date"),
			Type:       entity.InteractionType(str(row, "type")),
			Content:    str(row, "content"),
			AuthorName: str(row, "author_name"),
		},
	}
}

func interactionToRow(in *entity.OrderInteraction) ports.Row {
	row := ports.Row{
		"order_id":    in.OrderID,
		"date":        in.Interaction.Date,
		"type":        string(in.Interaction.Type),
		"content":     in.Interaction.Content,
		"author_name": in.Interaction.AuthorName,
	}
	if in.Interaction.ID != "" {
		row["id"] = in.Interaction.ID
	}
	return row
}

// ─── Lectura tolerante de columnas ───────────────────────────────────────────

// rowOrigin toma la procedencia de la columna origin; sin ella, lo leído del remoto es remoto.
func rowOrigin(row ports.Row, id string) entity.Origin {
	if o := entity.Origin(str(row, "origin")); o == entity.OriginRemote || o == entity.OriginLocal {
		return o
	}
	if id == "" {
		return entity.OriginRemote
	}
	return entity.ResolveOrigin(entity.OriginUnknown, id)
}

func str(row ports.Row, col string) string {
	switch v := row[col].(type) {
	case nil:
		return ""
	case string:
		return v
	case *string:
		if v == nil {
			return ""
		}
		return *v
	case [16]byte:
		return uuid.UUID(v).String()
	case uuid.UUID:
		return v.String()
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

func strPtr(row ports.Row, col string) *string {
	if row[col] == nil {
		return nil
	}
	s := str(row, col)
	return &s
}

func strSlice(row ports.Row, col string) []string {
	switch v := row[col].(type) {
	case []string:
		return append([]string{}, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, x := range v {
			if s, ok := x.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case string:
		// Algunos backends devuelven el array como literal "{a,b}".
		trimmed := strings.Trim(v, "{}")
		if trimmed == "" {
			return []string{}
		}
		parts := strings.Split(trimmed, ",")
		for i := range parts {
			parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `"`)
		}
		return parts
	default:
		return []string{}
	}
}

func decimalPtr(row ports.Row, col string) *decimal.Decimal {
	var d decimal.Decimal
	switch v := row[col].(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return nil
		}
		d = *v
	case decimal.NullDecimal:
		if !v.Valid {
			return nil
		}
		d = v.Decimal
	case float64:
		d = decimal.NewFromFloat(v)
	case float32:
		d = decimal.NewFromFloat32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case int32:
		d = decimal.NewFromInt32(v)
	case int:
		d = decimal.NewFromInt(int64(v))
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil
		}
		d = parsed
	default:
		return nil
	}
	return &d
}

func timeOf(row ports.Row, col string) time.Time {
	switch v := row[col].(type) {
	case time.Time:
		return v
	case *time.Time:
		if v != nil {
			return *v
		}
	case string:
		if t, err := time.Parse(time.RFC3339Nano, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func intOf(row ports.Row, col string) int {
	switch v := row[col].(type) {
	case int:
		return v
	case int16:
		return int(v)
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(strings.TrimSpace(v))
		return n
	}
	return 0
}
