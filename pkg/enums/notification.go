package enums

import "fmt"

// NotificationType picks the styling of a transient storefront notice.
type NotificationType string

const (
	NotificationTypeSuccess NotificationType = "success"
	NotificationTypeInfo    NotificationType = "info"
	NotificationTypeWarning NotificationType = "warning"
	NotificationTypeDanger  NotificationType = "danger"
)

var validNotificationTypes = []NotificationType{
	NotificationTypeSuccess,
	NotificationTypeInfo,
	NotificationTypeWarning,
	NotificationTypeDanger,
}

// IsValid checks whether the given type matches the canonical enum.
func (n NotificationType) IsValid() bool {
	for _, candidate := range validNotificationTypes {
		if candidate == n {
			return true
		}
	}
	return false
}

// Icon returns the icon name the storefront renders next to the message.
func (n NotificationType) Icon() string {
	if n == NotificationTypeSuccess {
		return "check-circle"
	}
	return "info-circle"
}

// ParseNotificationType converts raw strings into NotificationType.
func ParseNotificationType(value string) (NotificationType, error) {
	for _, candidate := range validNotificationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notification type %q", value)
}
