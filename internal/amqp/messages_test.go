package amqp

import (
	"testing"

	"github.com/google/uuid"
)

func TestReminderEventValidate(t *testing.T) {
	goalID := uuid.New()

	tests := []struct {
		name    string
		event   *ReminderEvent
		wantErr bool
	}{
		{
			name:  "valid schedule",
			event: NewScheduleEvent(goalID, "Vacation", "09:00"),
		},
		{
			name:  "valid cancel",
			event: NewCancelEvent(goalID),
		},
		{
			name:    "missing goal id",
			event:   &ReminderEvent{Action: ActionCancel},
			wantErr: true,
		},
		{
			name:    "schedule without time of day",
			event:   &ReminderEvent{GoalID: goalID, Action: ActionSchedule},
			wantErr: true,
		},
		{
			name:    "schedule with malformed time",
			event:   &ReminderEvent{GoalID: goalID, Action: ActionSchedule, TimeOfDay: "9am"},
			wantErr: true,
		},
		{
			name:    "unknown action",
			event:   &ReminderEvent{GoalID: goalID, Action: "snooze"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestReminderEventRoundTrip(t *testing.T) {
	ev := NewScheduleEvent(uuid.New(), "Vacation", "21:30")

	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	got, err := ReminderEventFromJSON(data)
	if err != nil {
		t.Fatalf("ReminderEventFromJSON() error = %v", err)
	}
	if got.GoalID != ev.GoalID {
		t.Errorf("GoalID = %v, want %v", got.GoalID, ev.GoalID)
	}
	if got.Action != ActionSchedule {
		t.Errorf("Action = %q, want %q", got.Action, ActionSchedule)
	}
	if got.TimeOfDay != "21:30" {
		t.Errorf("TimeOfDay = %q, want %q", got.TimeOfDay, "21:30")
	}
	if got.GoalTitle != "Vacation" {
		t.Errorf("GoalTitle = %q, want %q", got.GoalTitle, "Vacation")
	}
}

func TestReminderEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := ReminderEventFromJSON([]byte("not json")); err == nil {
		t.Error("expected error for malformed payload")
	}
}
