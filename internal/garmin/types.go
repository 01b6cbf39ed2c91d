package garmin

import "fmt"

// PrivacyLevel is a Garmin Connect visibility setting for an activity.
type PrivacyLevel string

const (
	PrivacyPrivate     PrivacyLevel = "private"
	PrivacySubscribers PrivacyLevel = "subscribers"
	PrivacyGroups      PrivacyLevel = "groups"
	PrivacyPublic      PrivacyLevel = "public"
)

// privacyAliases maps the legacy numeric spellings onto the named levels.
var privacyAliases = map[string]PrivacyLevel{
	"1": PrivacyPrivate,
	"2": PrivacySubscribers,
	"3": PrivacyGroups,
	"4": PrivacyPublic,
}

// ParsePrivacyLevel resolves a level name or its numeric alias (1-4).
func ParsePrivacyLevel(s string) (PrivacyLevel, error) {
	switch PrivacyLevel(s) {
	case PrivacyPrivate, PrivacySubscribers, PrivacyGroups, PrivacyPublic:
		return PrivacyLevel(s), nil
	}
	if level, ok := privacyAliases[s]; ok {
		return level, nil
	}
	return "", fmt.Errorf("unknown privacy level %q (expected private, subscribers, groups, public, or 1-4)", s)
}

// Description returns the human meaning shown in the Garmin Connect UI.
func (p PrivacyLevel) Description() string {
	switch p {
	case PrivacyPrivate:
		return "Only Me"
	case PrivacySubscribers:
		return "My Connections"
	case PrivacyGroups:
		return "My Connections and Groups"
	case PrivacyPublic:
		return "Everyone"
	}
	return string(p)
}

// DateRange bounds an activity search. Either side may be empty, which
// leaves that side of the range open. Values are YYYY-MM-DD strings already
// validated by the caller; the service defines the behavior when Start is
// after End.
type DateRange struct {
	Start string
	End   string
}

// ActivitySummary is the subset of a listed activity needed to target a
// privacy update.
type ActivitySummary struct {
	ActivityID     int64  `json:"activityId"`
	StartTimeLocal string `json:"startTimeLocal"`
	ActivityName   string `json:"activityName"`
}
