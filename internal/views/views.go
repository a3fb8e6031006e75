// Package views renders core state into display-ready models. Rendering is pure: the
// same input always yields the same output and nothing is mutated.
package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/ecodott-storefront/internal/cart"
	"github.com/angelmondragon/ecodott-storefront/internal/checkout"
	"github.com/angelmondragon/ecodott-storefront/internal/orders"
	"github.com/angelmondragon/ecodott-storefront/internal/payments"
	"github.com/angelmondragon/ecodott-storefront/pkg/enums"
	"github.com/angelmondragon/ecodott-storefront/pkg/money"
)

const (
	DeliveryEstimate = "Your plants will be delivered within 3-5 business days"

	titleCustomerDetails = "Customer Details"
	titlePaymentMethod   = "Choose Payment Method"
	titleCompletePayment = "Complete Payment"
	titleVerifying       = "Verifying Payment..."
	titleProcessing      = "Processing..."
	titleConfirmed       = "Order Confirmed!"
	titleFailed          = "Payment Failed"
)

type CartLine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unitPrice"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"lineTotal"`
}

type CartView struct {
	Lines        []CartLine `json:"lines"`
	Subtotal     string     `json:"subtotal"`
	Shipping     string     `json:"shipping"`
	Total        string     `json:"total"`
	ItemCount    int        `json:"itemCount"`
	Empty        bool       `json:"empty"`
	FreeShipping bool       `json:"freeShipping"`
}

func RenderCart(snap cart.Snapshot) CartView {
	return CartView{
		Lines:        renderLines(snap.Items),
		Subtotal:     money.Display(snap.Totals.Subtotal),
		Shipping:     money.Display(snap.Totals.ShippingFee),
		Total:        money.Display(snap.Totals.Total),
		ItemCount:    snap.ItemCount,
		Empty:        len(snap.Items) == 0,
		FreeShipping: len(snap.Items) > 0 && snap.Totals.ShippingFee.IsZero(),
	}
}

func renderLines(items []cart.LineItem) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, CartLine{
			ID:        item.ID,
			Name:      item.Name,
			UnitPrice: money.Display(item.UnitPrice),
			Quantity:  item.Quantity,
			LineTotal: money.Display(item.LineTotal()),
		})
	}
	return lines
}

// ConfirmView is the "complete payment" screen shown while the countdown runs.
type ConfirmView struct {
	Amount        string `json:"amount"`
	Merchant      string `json:"merchant"`
	MerchantUPIID string `json:"merchantUpiId"`
	DeepLink      string `json:"deepLink"`
	Countdown     string `json:"countdown"`
}

type ProgressView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type FailureView struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type CheckoutView struct {
	State      enums.CheckoutState `json:"state"`
	Title      string              `json:"title,omitempty"`
	Summary    CartView            `json:"summary"`
	Method     string              `json:"method,omitempty"`
	App        string              `json:"app,omitempty"`
	PayLabel   string              `json:"payLabel,omitempty"`
	PayEnabled bool                `json:"payEnabled"`
	Confirm    *ConfirmView        `json:"confirm,omitempty"`
	Progress   *ProgressView       `json:"progress,omitempty"`
	Failure    *FailureView        `json:"failure,omitempty"`
	Order      *OrderView          `json:"order,omitempty"`
}

// RenderCheckout renders the checkout modal for the current snapshot. Once an attempt
// has captured its items the summary shows those, so it always agrees with the pay
// label; before that it shows the live cart.
func RenderCheckout(snap checkout.Snapshot, live cart.Snapshot, merchant payments.Merchant) CheckoutView {
	summary := live
	if len(snap.Items) > 0 {
		summary = cart.Snapshot{
			Items:     snap.Items,
			Totals:    cart.ComputeTotals(snap.Items),
			ItemCount: cart.ItemCount(snap.Items),
		}
	}
	view := CheckoutView{
		State:      snap.State,
		Summary:    RenderCart(summary),
		Method:     snap.Method.String(),
		App:        snap.App.String(),
		PayEnabled: snap.PayEnabled,
	}

	switch snap.State {
	case enums.CheckoutStateCustomerDetails:
		view.Title = titleCustomerDetails
	case enums.CheckoutStatePaymentMethodSelection:
		view.Title = titlePaymentMethod
		view.PayLabel = PayLabel(snap)
	case enums.CheckoutStatePaymentProcessing:
		renderProcessing(&view, snap, merchant)
	case enums.CheckoutStateSuccess:
		view.Title = titleConfirmed
		if snap.LastOrder != nil {
			order := RenderOrder(*snap.LastOrder)
			view.Order = &order
		}
	case enums.CheckoutStateFailed:
		view.Title = titleFailed
		view.Failure = &FailureView{Title: titleFailed}
		if snap.LastError != nil {
			view.Failure.Message = snap.LastError.Message
			view.Failure.Code = string(snap.LastError.Code)
		}
	}
	return view
}

func renderProcessing(view *CheckoutView, snap checkout.Snapshot, merchant payments.Merchant) {
	pending := snap.Pending
	if pending == nil {
		view.Title = titleProcessing
		return
	}
	switch pending.Phase {
	case checkout.PhaseAwaitingConfirmation:
		view.Title = titleCompletePayment
		view.Confirm = &ConfirmView{
			Amount:        money.Display(pending.Amount),
			Merchant:      merchant.Name,
			MerchantUPIID: merchant.UPIID,
			DeepLink:      pending.DeepLink,
			Countdown:     Countdown(pending.SecondsRemaining),
		}
	case checkout.PhaseVerifying:
		view.Title = titleVerifying
		view.Progress = &ProgressView{Title: titleVerifying, Message: "Please wait while we confirm your payment"}
	default:
		view.Title = titleProcessing
		view.Progress = &ProgressView{Title: titleProcessing, Message: "Please wait while we process your order"}
	}
}

// PayLabel is "Pay ₹X" for UPI and "Place Order ₹X" once cash on delivery is chosen.
func PayLabel(snap checkout.Snapshot) string {
	if snap.Method == enums.PaymentMethodCOD {
		return "Place Order " + money.Display(snap.Amount)
	}
	return "Pay " + money.Display(snap.Amount)
}

// Countdown formats seconds as m:ss.
func Countdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

type DeliveryView struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Pincode string `json:"pincode"`
}

type OrderView struct {
	OrderID          string       `json:"orderId"`
	Amount           string       `json:"amount"`
	PaymentMethod    string       `json:"paymentMethod"`
	TransactionID    string       `json:"transactionId,omitempty"`
	Lines            []CartLine   `json:"lines"`
	Delivery         DeliveryView `json:"delivery"`
	DeliveryEstimate string       `json:"deliveryEstimate"`
	PlacedAt         string       `json:"placedAt"`
}

func RenderOrder(order orders.Order) OrderView {
	return OrderView{
		OrderID:       order.OrderID,
		Amount:        money.Display(order.Amount),
		PaymentMethod: strings.ToUpper(order.PaymentMethod.String()),
		TransactionID: order.TransactionID,
		Lines:         renderLines(order.Items),
		Delivery: DeliveryView{
			Name:    order.Customer.Name,
			Phone:   order.Customer.Phone,
			Address: order.Customer.Address,
			Pincode: order.Customer.Pincode,
		},
		DeliveryEstimate: DeliveryEstimate,
		PlacedAt:         order.CreatedAt.UTC().Format(time.RFC3339),
	}
}
