package event

import "time"

type Type string

const (
	TypeClassroomCreated Type = "classroom.created"
	TypeClassroomUpdated Type = "classroom.updated"
	TypeClassroomDeleted Type = "classroom.deleted"
	TypeStudentCreated   Type = "student.created"
	TypeStudentUpdated   Type = "student.updated"
	TypeStudentDeleted   Type = "student.deleted"
	TypeMemberAdded      Type = "roster.added"
	TypeMemberRemoved    Type = "roster.removed"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Resource  string    `json:"resource"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	// Who triggered the event
	ActorID   string `json:"actor_id,omitempty"`
	ActorName string `json:"actor_name,omitempty"`
}

type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func()) // Returns channel and unsubscribe function
}
