// Package notify abstracts outbound customer/courier notification so the
// delivery channel (log, WhatsApp link, future SMS/webhook) is pluggable.
package notify

import (
	"fmt"
	"net/url"
	"strings"

	"epraja-api/models"

	"github.com/sirupsen/logrus"
)

// Notifier delivers a human-readable message to a phone contact
type Notifier interface {
	NotifyOrderPlaced(order *models.Order, restaurantPhone string) error
	NotifyCourierAssigned(order *models.Order, courierPhone string) error
}

// LogNotifier writes notifications to the structured log. Default in
// development and in tests.
type LogNotifier struct {
	Logger *logrus.Logger
}

func (n *LogNotifier) NotifyOrderPlaced(order *models.Order, restaurantPhone string) error {
	n.Logger.WithFields(logrus.Fields{
		"order_id":  order.ID,
		"reference": order.Reference,
		"phone":     restaurantPhone,
		"total":     order.TotalPrice,
	}).Info("Order placed notification")
	return nil
}

func (n *LogNotifier) NotifyCourierAssigned(order *models.Order, courierPhone string) error {
	n.Logger.WithFields(logrus.Fields{
		"order_id":     order.ID,
		"reference":    order.Reference,
		"phone":        courierPhone,
		"delivery_fee": order.DeliveryFee,
	}).Info("Courier assigned notification")
	return nil
}

// OrderMessage renders the order summary text used by link-based notifiers
func OrderMessage(order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*New order %s*\n", order.Reference)
	fmt.Fprintf(&b, "Customer: %s\n", order.CustomerName)
	fmt.Fprintf(&b, "Address: %s\n", order.DeliveryAddress)
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%dx %s\n", item.Quantity, item.Name)
	}
	fmt.Fprintf(&b, "*Total:* %.2f\n*Payment:* %s\n", order.TotalPrice, order.PaymentMethod)
	if order.ChangeFor > 0 {
		fmt.Fprintf(&b, "(Change for %.2f)\n", order.ChangeFor)
	}
	return b.String()
}

// WhatsAppLink builds a wa.me deep link carrying the order summary.
// WhatsAppNotifier logs the link rather than calling out; following it is a
// client-side action.
func WhatsAppLink(phone string, text string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return "https://wa.me/" + digits + "?text=" + url.QueryEscape(text)
}

// WhatsAppNotifier emits wa.me deep links for each notification
type WhatsAppNotifier struct {
	Logger *logrus.Logger
}

func (n *WhatsAppNotifier) NotifyOrderPlaced(order *models.Order, restaurantPhone string) error {
	link := WhatsAppLink(restaurantPhone, OrderMessage(order))
	n.Logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"link":     link,
	}).Info("Order placed WhatsApp link")
	return nil
}

func (n *WhatsAppNotifier) NotifyCourierAssigned(order *models.Order, courierPhone string) error {
	text := fmt.Sprintf("*Delivery %s*\n%s\nFee: %.2f", order.Reference, order.DeliveryAddress, order.DeliveryFee)
	link := WhatsAppLink(courierPhone, text)
	n.Logger.WithFields(logrus.Fields{
		"order_id": order.ID,
		"link":     link,
	}).Info("Courier assigned WhatsApp link")
	return nil
}
