package document

import "time"

type OutboxDocument struct {
	ID         string    `bson:"_id"`
	EventName  string    `bson:"event_name"`
	EntityName string    `bson:"entity_name"`
	EventData  string    `bson:"event_data"`
	CreatedAt  time.Time `bson:"created_at"`
}
