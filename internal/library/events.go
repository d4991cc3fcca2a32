package library

import (
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type EventKind string

const (
	EventAdded   EventKind = "Added"
	EventUpdated EventKind = "Updated"
	EventDeleted EventKind = "Deleted"
)

// DomainEvent records a state change after it has been persisted.
type DomainEvent struct {
	EventID   string            `json:"event_id"`
	Name      string            `json:"name"`
	Group     string            `json:"group"`
	Key       string            `json:"key"`
	Kind      EventKind         `json:"kind"`
	Metadata  map[string]string `json:"metadata"`
	JSONData  string            `json:"json_data"`
	CreatedAt Timestamp         `json:"created_at"`
}

func (e *DomainEvent) GetID() string { return e.EventID }
func (e *DomainEvent) GetVersion() int64 { return 0 }
func (e *DomainEvent) Subject() string { return e.Group + "." + e.Name }

// NewEvent serializes data and stamps a fresh id and creation time.
func NewEvent(kind EventKind, name, group, key string, metadata map[string]string, data any) (*DomainEvent, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return nil, Serialization(err, "failed to encode %s event payload", name)
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	return &DomainEvent{
		EventID:   uuid.NewString(),
		Name:      name,
		Group:     group,
		Key:       key,
		Kind:      kind,
		Metadata:  metadata,
		JSONData:  string(payload),
		CreatedAt: Now(),
	}, nil
}

func Added(name, group, key string, metadata map[string]string, data any) (*DomainEvent, error) {
	return NewEvent(EventAdded, name, group, key, metadata, data)
}

func Updated(name, group, key string, metadata map[string]string, data any) (*DomainEvent, error) {
	return NewEvent(EventUpdated, name, group, key, metadata, data)
}

func Deleted(name, group, key string, metadata map[string]string, data any) (*DomainEvent, error) {
	return NewEvent(EventDeleted, name, group, key, metadata, data)
}
