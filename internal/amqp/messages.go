package amqp

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Reminder event actions.
const (
	ActionSchedule = "schedule"
	ActionCancel   = "cancel"
)

// ReminderEvent tells the reminder worker to start or stop the daily
// notification for one goal. Schedule events carry the wall-clock time of
// day; cancel events only need the goal id.
type ReminderEvent struct {
	GoalID    uuid.UUID `json:"goal_id"`
	Action    string    `json:"action"`
	TimeOfDay string    `json:"time_of_day,omitempty"` // "HH:MM"
	GoalTitle string    `json:"goal_title,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func NewScheduleEvent(goalID uuid.UUID, title, timeOfDay string) *ReminderEvent {
	return &ReminderEvent{
		GoalID:    goalID,
		Action:    ActionSchedule,
		TimeOfDay: timeOfDay,
		GoalTitle: title,
		Timestamp: time.Now(),
	}
}

func NewCancelEvent(goalID uuid.UUID) *ReminderEvent {
	return &ReminderEvent{
		GoalID:    goalID,
		Action:    ActionCancel,
		Timestamp: time.Now(),
	}
}

// Validate rejects events that the worker could not act on.
func (e *ReminderEvent) Validate() error {
	if e.GoalID == uuid.Nil {
		return fmt.Errorf("reminder event missing goal id")
	}
	switch e.Action {
	case ActionSchedule:
		if _, err := time.Parse("15:04", e.TimeOfDay); err != nil {
			return fmt.Errorf("invalid time of day %q: %w", e.TimeOfDay, err)
		}
	case ActionCancel:
	default:
		return fmt.Errorf("unknown reminder action %q", e.Action)
	}
	return nil
}

func (e *ReminderEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func ReminderEventFromJSON(data []byte) (*ReminderEvent, error) {
	var ev ReminderEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
