package backend

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

// The backend is fed from spreadsheets, so numbers arrive as strings, strings
// as numbers and absent cells as null or "". The flex types absorb that.

// flexString accepts a JSON string, number, bool or null.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		*f = ""
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
	default:
		*f = flexString(data)
	}
	return nil
}

// flexDecimal accepts numbers, numeric strings with decoration ("₹1,200") and null.
type flexDecimal decimal.Decimal

func (f *flexDecimal) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	*f = flexDecimal(parsePrice(string(s)))
	return nil
}

func (f flexDecimal) Decimal() decimal.Decimal {
	return decimal.Decimal(f)
}

func parsePrice(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d
	}
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

// flexBool accepts true/false and the strings "true"/"false".
type flexBool bool

func (f *flexBool) UnmarshalJSON(data []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	v, _ := strconv.ParseBool(strings.TrimSpace(string(s)))
	*f = flexBool(v)
	return nil
}

// flexList accepts a JSON array of strings or one comma separated string.
type flexList []string

func (f *flexList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var items []flexString
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			if s := strings.TrimSpace(string(it)); s != "" {
				out = append(out, s)
			}
		}
		*f = out
		return nil
	}
	var s flexString
	if err := s.UnmarshalJSON(data); err != nil {
		return err
	}
	var out []string
	for _, part := range strings.Split(string(s), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	*f = out
	return nil
}

// sheetTimeLayout is how the backend writes Added_At.
const sheetTimeLayout = "2006-01-02 15:04:05"

func parseAddedAt(s flexString) *time.Time {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return nil
	}
	for _, layout := range []string{sheetTimeLayout, time.RFC3339} {
		if t, err := time.Parse(layout, v); err == nil {
			return &t
		}
	}
	return nil
}

type productDTO struct {
	ID          flexString             `json:"id"`
	Name        flexString             `json:"name"`
	DisplayName flexString             `json:"displayName"`
	Category    flexString             `json:"category"`
	Price       flexDecimal            `json:"price"`
	Prices      map[string]flexDecimal `json:"prices"`
	Image       flexString             `json:"image"`
	Description flexString             `json:"description"`
	Benefits    flexList               `json:"benefits"`
	Offer       flexBool               `json:"offer"`
}

func (p productDTO) toDomain() domain.Product {
	out := domain.Product{
		ID:          string(p.ID),
		Name:        string(p.Name),
		DisplayName: string(p.DisplayName),
		Category:    string(p.Category),
		Price:       p.Price.Decimal(),
		Image:       string(p.Image),
		Description: string(p.Description),
		Benefits:    []string(p.Benefits),
		Offer:       bool(p.Offer),
	}
	if out.ID == "" {
		out.ID = out.Name
	}
	if len(p.Prices) > 0 {
		out.Prices = make(map[string]decimal.Decimal, len(p.Prices))
		for variant, price := range p.Prices {
			out.Prices[variant] = price.Decimal()
		}
	}
	return out
}

// cartItemDTO is a product hydrated with cart-history fields.
type cartItemDTO struct {
	productDTO
	ProductID flexString `json:"product_id"`
	Quantity  flexString `json:"quantity"`
	Variant   flexString `json:"variant"`
	AddedAt   flexString `json:"added_at"`
}

func (c cartItemDTO) toDomain() domain.CartLine {
	p := c.productDTO.toDomain()
	id := p.ID
	if id == "" {
		id = string(c.ProductID)
	}
	variant := strings.TrimSpace(string(c.Variant))
	if variant == "" {
		variant = domain.DefaultVariant
	}
	qty, err := strconv.Atoi(strings.TrimSpace(string(c.Quantity)))
	if err != nil {
		qty = 1
	}
	return domain.CartLine{
		ProductID:   id,
		Variant:     variant,
		Quantity:    qty,
		UnitPrice:   p.PriceFor(variant),
		Name:        p.Name,
		DisplayName: p.DisplayName,
		Image:       p.Image,
		Category:    p.Category,
		AddedAt:     parseAddedAt(c.AddedAt),
	}
}

type wishlistEntryDTO struct {
	ProductID flexString `json:"product_id"`
	AddedAt   flexString `json:"added_at"`
}

type identityDTO struct {
	Email           flexString `json:"email"`
	Username        flexString `json:"username"`
	FullName        flexString `json:"full_name"`
	Phone           flexString `json:"phone"`
	Address         flexString `json:"address"`
	City            flexString `json:"city"`
	State           flexString `json:"state"`
	Pincode         flexString `json:"pincode"`
	ProfileComplete flexBool   `json:"profile_complete"`
}

func (i identityDTO) toDomain() domain.Identity {
	return domain.Identity{
		Email:           string(i.Email),
		Username:        string(i.Username),
		FullName:        string(i.FullName),
		Phone:           string(i.Phone),
		Address:         string(i.Address),
		City:            string(i.City),
		State:           string(i.State),
		Pincode:         string(i.Pincode),
		ProfileComplete: bool(i.ProfileComplete),
	}
}

type categoryDTO struct {
	ID            flexString   `json:"id"`
	Name          flexString   `json:"name"`
	Subcategories []flexString `json:"subcategories"`
}

func (c categoryDTO) toDomain() domain.Category {
	out := domain.Category{ID: string(c.ID), Name: string(c.Name)}
	for _, s := range c.Subcategories {
		out.Subcategories = append(out.Subcategories, string(s))
	}
	return out
}

// orderFromMap keeps every column in Raw and lifts the known ones.
func orderFromMap(raw map[string]interface{}) domain.Order {
	str := func(key string) string {
		v, ok := raw[key]
		if !ok || v == nil {
			return ""
		}
		switch t := v.(type) {
		case string:
			return t
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		default:
			b, _ := json.Marshal(t)
			return string(b)
		}
	}
	return domain.Order{
		ID:            str("Order_ID"),
		Email:         str("User_Email"),
		Name:          str("User_Name"),
		Items:         str("Items"),
		TotalAmount:   str("Total_Amount"),
		Status:        str("Status"),
		PaymentMode:   str("Payment_Mode"),
		CreatedAt:     str("Created_At"),
		TrackingStage: domain.TrackingStage(str("Tracking_Stage")),
		Raw:           raw,
	}
}
