package enum

// ActivityType classifies an activity
type ActivityType string

const (
	ActivityTypeCall    ActivityType = "call"
	ActivityTypeMeeting ActivityType = "meeting"
	ActivityTypeEmail   ActivityType = "email"
	ActivityTypeTask    ActivityType = "task"
	ActivityTypeNote    ActivityType = "note"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeCall, ActivityTypeMeeting, ActivityTypeEmail, ActivityTypeTask, ActivityTypeNote:
		return true
	}
	return false
}

// ActivityStatus is whether an activity is still to be done
type ActivityStatus string

const (
	ActivityStatusPlanned   ActivityStatus = "planned"
	ActivityStatusCompleted ActivityStatus = "completed"
	ActivityStatusCancelled ActivityStatus = "cancelled"
)

func (s ActivityStatus) Valid() bool {
	return s == ActivityStatusPlanned || s == ActivityStatusCompleted || s == ActivityStatusCancelled
}
