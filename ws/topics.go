package ws

import "fmt"

// Topic names. Private topics are authorized against the caller's role
// before Serve is invoked; TrackTopic is the public tracking deep link.
const (
	AdminRestaurantsTopic = "admin:restaurants"
	BroadcastTopic        = "broadcast"
)

func RestaurantOrdersTopic(restaurantID uint) string {
	return fmt.Sprintf("restaurant:%d:orders", restaurantID)
}

func CourierTopic(courierID uint) string {
	return fmt.Sprintf("courier:%d", courierID)
}

func TrackTopic(restaurantID, orderID uint) string {
	return fmt.Sprintf("track:%d:%d", restaurantID, orderID)
}
