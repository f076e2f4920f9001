package contracts

import "github.com/hilthontt/codeboard/internal/domain"

// AmqpMessage is the message structure for AMQP.
type AmqpMessage struct {
	RoomID string `json:"roomId"`
	Data   []byte `json:"data"`
}

// Routing keys
const (
	EventRoomCreated    = "room.created"
	EventRoomTerminated = "room.terminated"
	EventRoomExpired    = "room.expired"
	EventRoomFull       = "room.full"
	EventMemberJoined   = "member.joined"
	EventMemberLeft     = "member.left"
	EventAdminPromoted  = "member.promoted"
)

var routingKeys = map[domain.RoomEventType]string{
	domain.EventRoomCreated:    EventRoomCreated,
	domain.EventRoomTerminated: EventRoomTerminated,
	domain.EventRoomExpired:    EventRoomExpired,
	domain.EventRoomFull:       EventRoomFull,
	domain.EventMemberJoined:   EventMemberJoined,
	domain.EventMemberLeft:     EventMemberLeft,
	domain.EventAdminPromoted:  EventAdminPromoted,
}

// RoutingKey maps a room event to its routing key.
func RoutingKey(t domain.RoomEventType) (string, bool) {
	key, ok := routingKeys[t]
	return key, ok
}

// RoomRoutingKeys lists every key bound to the rooms queue.
func RoomRoutingKeys() []string {
	keys := make([]string, 0, len(routingKeys))
	for _, k := range routingKeys {
		keys = append(keys, k)
	}
	return keys
}
