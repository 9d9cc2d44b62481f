package statemachine

import (
	"fmt"

	"epraja-api/models"
)

// Actors that may drive an order forward
const (
	ActorRestaurant = "restaurant"
	ActorCourier    = "courier"
	ActorManager    = "manager"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

// validTransitions is the authoritative state machine definition.
// Strictly forward, one step at a time; there is no cancel or reverse path.
var validTransitions = []Transition{
	// Restaurant starts preparing a received order
	{From: models.StatusReceived, To: models.StatusPreparing, Actor: ActorRestaurant},
	// Restaurant hands the order to a courier (via assignment)
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: ActorRestaurant},
	// Assigned courier completes the delivery
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorCourier},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// TransitionError reports a rejected status change
type TransitionError struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor string
}

func (e *TransitionError) Error() string {
	valid := ValidTransitionsFrom(e.From)
	if len(valid) == 0 {
		return fmt.Sprintf("invalid transition: %s -> %s is not allowed for actor %q (%s is a terminal state)",
			e.From, e.To, e.Actor, e.From)
	}
	return fmt.Sprintf("invalid transition: %s -> %s is not allowed for actor %q; valid next states: %v",
		e.From, e.To, e.Actor, valid)
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another.
// The manager bypasses the table entirely (audited force-override).
func CanTransition(from, to models.OrderStatus, actor string) error {
	if actor == ActorManager {
		return nil
	}
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor}
}

// IsTerminal reports whether no actor can leave the given state
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
