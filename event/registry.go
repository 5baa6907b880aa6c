package event

import (
	"reflect"
	"sync"
)

var (
	nameToType    = make(map[string]EventType)
	typeToName    = make(map[EventType]string)
	typeToPayload = make(map[EventType]reflect.Type)
	registryOnce  sync.Once
)

// RegisterType maps a string name to an EventType and its payload struct type
// Pass nil if the event has no payload
func RegisterType(name string, et EventType, payloadInstance any) {
	nameToType[name] = et
	typeToName[et] = name
	if payloadInstance != nil {
		t := reflect.TypeOf(payloadInstance)
		if t.Kind() == reflect.Ptr {
			t = t.Elem()
		}
		typeToPayload[et] = t
	}
}

// GetEventType returns the EventType for a given name
func GetEventType(name string) (EventType, bool) {
	et, ok := nameToType[name]
	return et, ok
}

// GetEventName returns the string name for an EventType
func GetEventName(et EventType) string {
	if name, ok := typeToName[et]; ok {
		return name
	}
	return "EventNone"
}

// NewPayloadStruct returns a new pointer to a zero-value payload struct for the event type
// Returns nil if no payload is registered
func NewPayloadStruct(et EventType) any {
	t, ok := typeToPayload[et]
	if !ok {
		return nil
	}
	return reflect.New(t).Interface()
}

// InitRegistry populates the registry with all game events
// Safe to call more than once
func InitRegistry() {
	registryOnce.Do(func() {
		RegisterType("EventCustomerStatus", EventCustomerStatus, &StatusPayload{})
		RegisterType("EventEmployeeStatus", EventEmployeeStatus, &StatusPayload{})
		RegisterType("EventApplianceStatus", EventApplianceStatus, &StatusPayload{})

		RegisterType("EventBubble", EventBubble, &BubblePayload{})
		RegisterType("EventApplianceLevelUp", EventApplianceLevelUp, &LevelUpPayload{})
		RegisterType("EventMoneyChanged", EventMoneyChanged, &MoneyChangedPayload{})

		RegisterType("EventCustomerSpawned", EventCustomerSpawned, &CustomerSpawnedPayload{})
		RegisterType("EventCustomerLeft", EventCustomerLeft, &CustomerLeftPayload{})
		RegisterType("EventProductCompleted", EventProductCompleted, &ProductCompletedPayload{})

		RegisterType("EventEmployeeHired", EventEmployeeHired, &PurchasePayload{})
		RegisterType("EventApplianceBought", EventApplianceBought, &PurchasePayload{})
		RegisterType("EventDecorationBought", EventDecorationBought, &PurchasePayload{})
		RegisterType("EventPurchaseRejected", EventPurchaseRejected, &RejectedPayload{})
		RegisterType("EventGameReset", EventGameReset, nil)
	})
}

// AllTypes returns every registered event type
func AllTypes() []EventType {
	InitRegistry()
	types := make([]EventType, 0, len(typeToName))
	for et := EventCustomerStatus; et <= EventGameReset; et++ {
		if _, ok := typeToName[et]; ok {
			types = append(types, et)
		}
	}
	return types
}
