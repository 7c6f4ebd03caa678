// Package tracking maps a backend order's tracking stage onto the five
// customer-facing delivery steps.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/The-WildNuts/The-Wild-Nuts/internal/domain"
)

// DefaultWatchInterval is used by Watch when no positive interval is given.
const DefaultWatchInterval = 30 * time.Second

var (
	ErrOrderIDRequired  = errors.New("order id is required")
	ErrNotAuthenticated = errors.New("not authenticated")
)

type Step struct {
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Description string `json:"description"`
}

// Steps are the delivery milestones in order.
var Steps = []Step{
	{Label: "Order Placed", Icon: "fa-clipboard-check", Description: "We have received your order."},
	{Label: "Order Confirmed", Icon: "fa-user-check", Description: "Our team has verified your selection via WhatsApp."},
	{Label: "Order Picked", Icon: "fa-box-open", Description: "Hand-picked for quality."},
	{Label: "On the Way", Icon: "fa-truck-fast", Description: "Out for delivery to your doorstep."},
	{Label: "Delivered", Icon: "fa-house-circle-check", Description: "Enjoy your Wild Nuts!"},
}

var stepIndex = map[domain.TrackingStage]int{
	domain.StagePlaced:    0,
	domain.StageConfirmed: 1,
	"Confirmed":           1,
	domain.StagePicked:    2,
	"Picked":              2,
	domain.StageOnTheWay:  3,
	"Shipped":             3,
	domain.StageDelivered: 4,
}

type Status struct {
	OrderID   string               `json:"order_id"`
	Stage     domain.TrackingStage `json:"stage"`
	Step      int                  `json:"step"`
	Cancelled bool                 `json:"cancelled"`
	Final     bool                 `json:"final"`
	Steps     []Step               `json:"steps"`
}

// StepFor returns the step index of stage and whether the order was
// cancelled. Unknown stages count as just placed.
func StepFor(stage domain.TrackingStage) (int, bool) {
	s := strings.TrimSpace(string(stage))
	if strings.EqualFold(s, string(domain.StageCancelled)) {
		return 0, true
	}
	return stepIndex[domain.TrackingStage(s)], false
}

type OrderSource interface {
	Order(ctx context.Context, orderID string) (domain.Order, error)
}

type Tracker struct {
	orders OrderSource
}

func NewTracker(orders OrderSource) *Tracker {
	return &Tracker{orders: orders}
}

func (t *Tracker) Track(ctx context.Context, orderID string) (Status, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return Status{}, ErrOrderIDRequired
	}
	order, err := t.orders.Order(ctx, orderID)
	if err != nil {
		return Status{}, fmt.Errorf("failed to get order %s: %w", orderID, err)
	}
	return StatusOf(order), nil
}

// Watch polls the order every interval and calls fn with each status until
// the order reaches a final stage or ctx is done. A failed poll ends the watch.
func (t *Tracker) Watch(ctx context.Context, orderID string, interval time.Duration, fn func(Status)) error {
	if interval <= 0 {
		interval = DefaultWatchInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		status, err := t.Track(ctx, orderID)
		if err != nil {
			return err
		}
		fn(status)
		if status.Final {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// StatusOf derives the tracking status of an order already in hand.
func StatusOf(order domain.Order) Status {
	stage := order.TrackingStage
	if strings.TrimSpace(string(stage)) == "" {
		stage = domain.StagePlaced
	}
	step, cancelled := StepFor(stage)
	if cancelled {
		stage = domain.StageCancelled
	}
	return Status{
		OrderID:   order.ID,
		Stage:     stage,
		Step:      step,
		Cancelled: cancelled,
		Final:     stage.IsTerminal(),
		Steps:     Steps,
	}
}
