// Package outbox holds the durable queue of mutations that have not yet been
// confirmed by the FasterFoods service. Operations replay in enqueue order,
// and payloads referencing temporary entity ids are rewritten in place once
// the server assigns durable ids.
package outbox

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"
)

// Kind identifies the remote mutation an operation represents. The set is
// closed: decoding an unknown kind fails.
type Kind string

const (
	KindCreateShoppingList Kind = "create-list"
	KindAddShoppingItem    Kind = "add-item"
	KindToggleShoppingItem Kind = "toggle-item"
	KindDeleteShoppingItem Kind = "delete-item"
	KindDeleteShoppingList Kind = "delete-list"
	KindAddPantryItem      Kind = "add-pantry-item"
	KindUpdatePantryItem   Kind = "update-pantry-item"
	KindTogglePantryItem   Kind = "toggle-pantry-item"
	KindDeletePantryItem   Kind = "delete-pantry-item"
	KindAddFoodLog         Kind = "add-food-log"
	KindDeleteFoodLog      Kind = "delete-food-log"
	KindAddWorkout         Kind = "add-workout"
	KindDeleteWorkout      Kind = "delete-workout"
	KindAddCustomMetric    Kind = "add-custom-metric"
	KindDeleteCustomMetric Kind = "delete-custom-metric"
)

// Payload is the kind-specific body of an operation. Every payload type must
// declare which entity ids it references and which temporary entity it
// creates, so id reconciliation and moot pruning cannot miss a field.
type Payload interface {
	Kind() Kind
	// RewriteIDs replaces every occurrence of oldID with newID, reporting
	// whether any field changed.
	RewriteIDs(oldID, newID string) bool
	// ReferencedIDs returns the ids of entities this operation depends on,
	// excluding the entity it creates itself.
	ReferencedIDs() []string
	// CreatedTempID returns the locally generated id of the entity this
	// operation creates, or "" for non-create kinds.
	CreatedTempID() string
}

// Operation is one pending mutation.
type Operation struct {
	ID        string
	Kind      Kind
	Payload   Payload
	CreatedAt time.Time
}

// References reports whether the operation's payload creates or depends on
// the given entity id.
func (o Operation) References(id string) bool {
	if o.Payload == nil {
		return false
	}
	if o.Payload.CreatedTempID() == id {
		return true
	}
	return slices.Contains(o.Payload.ReferencedIDs(), id)
}

type operationDocument struct {
	ID        string          `json:"id"`
	Kind      Kind            `json:"kind"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"createdAt"`
}

// MarshalJSON encodes the operation with its payload nested under the kind tag.
func (o Operation) MarshalJSON() ([]byte, error) {
	if o.Payload == nil {
		return nil, fmt.Errorf("operation %s has no payload", o.ID)
	}
	body, err := json.Marshal(o.Payload)
	if err != nil {
		return nil, err
	}
	return json.Marshal(operationDocument{
		ID:        o.ID,
		Kind:      o.Kind,
		Payload:   body,
		CreatedAt: o.CreatedAt,
	})
}

// UnmarshalJSON decodes the payload into the concrete type selected by kind.
func (o *Operation) UnmarshalJSON(data []byte) error {
	var doc operationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	payload, err := newPayload(doc.Kind)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(doc.Payload, payload); err != nil {
		return err
	}
	o.ID = doc.ID
	o.Kind = doc.Kind
	o.Payload = payload
	o.CreatedAt = doc.CreatedAt
	return nil
}

func newPayload(kind Kind) (Payload, error) {
	switch kind {
	case KindCreateShoppingList:
		return &CreateShoppingListPayload{}, nil
	case KindAddShoppingItem:
		return &AddShoppingItemPayload{}, nil
	case KindToggleShoppingItem:
		return &ToggleShoppingItemPayload{}, nil
	case KindDeleteShoppingItem:
		return &DeleteShoppingItemPayload{}, nil
	case KindDeleteShoppingList:
		return &DeleteShoppingListPayload{}, nil
	case KindAddPantryItem:
		return &AddPantryItemPayload{}, nil
	case KindUpdatePantryItem:
		return &UpdatePantryItemPayload{}, nil
	case KindTogglePantryItem:
		return &TogglePantryItemPayload{}, nil
	case KindDeletePantryItem:
		return &DeletePantryItemPayload{}, nil
	case KindAddFoodLog:
		return &AddFoodLogPayload{}, nil
	case KindDeleteFoodLog:
		return &DeleteFoodLogPayload{}, nil
	case KindAddWorkout:
		return &AddWorkoutPayload{}, nil
	case KindDeleteWorkout:
		return &DeleteWorkoutPayload{}, nil
	case KindAddCustomMetric:
		return &AddCustomMetricPayload{}, nil
	case KindDeleteCustomMetric:
		return &DeleteCustomMetricPayload{}, nil
	default:
		return nil, fmt.Errorf("unknown operation kind %q", kind)
	}
}

func (o Operation) clone() Operation {
	data, err := json.Marshal(o)
	if err != nil {
		return o
	}
	var dup Operation
	if err := json.Unmarshal(data, &dup); err != nil {
		return o
	}
	return dup
}

func rewrite(field *string, oldID, newID string) bool {
	if *field == oldID {
		*field = newID
		return true
	}
	return false
}
