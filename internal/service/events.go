package service

import (
	"context"

	"school-admin/internal/event"
	"school-admin/internal/middleware"
)

// publish announces a committed change on bus, attributed to the operator
// of the request. A nil bus disables events.
func publish(ctx context.Context, bus event.Bus, typ event.Type, resource string, payload any) {
	if bus == nil {
		return
	}

	e := event.Event{Type: typ, Resource: resource, Payload: payload}
	if claims, ok := middleware.ClaimsFromContext(ctx); ok {
		e.ActorID = claims.UserID
		e.ActorName = claims.Username
	}
	bus.Publish(e)
}

func classroomResource(id string) string {
	return "classroom/" + id
}

func studentResource(id string) string {
	return "student/" + id
}

func rosterResource(classroomID string, studentID string) string {
	return classroomResource(classroomID) + "/student/" + studentID
}
