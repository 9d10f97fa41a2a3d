// internal/app/system/status/status.go
package status

// Account status values stored on user documents.
const (
	Active   = "active"
	Disabled = "disabled"
)

// IsValid reports whether s is a recognized account status.
func IsValid(s string) bool {
	return s == Active || s == Disabled
}
