package authz

import (
	"fmt"
	"strings"
)

const (
	rolePrefix            = "role"
	subjectSeparator      = ":"
	defaultActionWildcard = "*"
)

// Request encapsulates all parameters required to evaluate a Casbin rule.
type Request struct {
	Subject string
	Object  string
	Action  string
}

// NewRequest constructs a Request with normalized action.
func NewRequest(subject, object, action string) Request {
	return Request{
		Subject: subject,
		Object:  strings.ToLower(strings.TrimSpace(object)),
		Action:  NormalizeAction(action),
	}
}

// SubjectForRole returns the canonical identifier for a role-based subject.
func SubjectForRole(roleSlug string) string {
	roleSlug = strings.TrimSpace(roleSlug)
	if roleSlug == "" {
		roleSlug = "anonymous"
	}
	if strings.HasPrefix(roleSlug, rolePrefix+subjectSeparator) {
		return roleSlug
	}
	return fmt.Sprintf("%s%s%s", rolePrefix, subjectSeparator, strings.ToLower(roleSlug))
}

// NormalizeAction returns a normalized action string.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return defaultActionWildcard
	}
	return action
}
