package domain

import "github.com/shopspring/decimal"

type TrackingStage string

const (
	StagePlaced    TrackingStage = "Order Placed"
	StageConfirmed TrackingStage = "Order Confirmed"
	StagePicked    TrackingStage = "Order Picked"
	StageOnTheWay  TrackingStage = "On the Way"
	StageDelivered TrackingStage = "Delivered"
	StageCancelled TrackingStage = "Cancelled"
)

// IsTerminal reports whether the stage can no longer change.
func (s TrackingStage) IsTerminal() bool {
	return s == StageDelivered || s == StageCancelled
}

type OrderItem struct {
	ProductID string          `json:"id"`
	Name      string          `json:"name"`
	Variant   string          `json:"variant"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order is the backend's order record. Field names follow the backend sheet
// columns; anything not modelled is kept in Raw.
type Order struct {
	ID            string                 `json:"Order_ID"`
	Email         string                 `json:"User_Email,omitempty"`
	Name          string                 `json:"User_Name,omitempty"`
	Items         string                 `json:"Items,omitempty"`
	TotalAmount   string                 `json:"Total_Amount,omitempty"`
	Status        string                 `json:"Status,omitempty"`
	PaymentMode   string                 `json:"Payment_Mode,omitempty"`
	CreatedAt     string                 `json:"Created_At,omitempty"`
	TrackingStage TrackingStage          `json:"Tracking_Stage"`
	Raw           map[string]interface{} `json:"-"`
}
