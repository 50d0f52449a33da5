//go:build !debug_segfit

package segfit

const (
	// PoisonOnFree indicates whether released payloads are overwritten with PoisonByte so that
	// use-after-release reads surface as an obvious pattern instead of stale data
	PoisonOnFree bool = false
	// PoisonByte is the pattern written across released payloads when PoisonOnFree is set
	PoisonByte byte = 0x66
)

// PoisonBytes writes an easy-to-identify marker across the provided span.
// This method no-ops unless the debug_segfit build tag is present.
func PoisonBytes(data []byte) {
}

// CheckPoison verifies that the easy-to-identify marker written by PoisonBytes is still present.
// It returns true if the marker is still present and false otherwise.
// This method no-ops unless the debug_segfit build tag is present.
func CheckPoison(data []byte) bool {
	return true
}

// DebugValidate will call Validate on the provided object and panics if any errors are returned. This
// method no-ops unless the debug_segfit build tag is present
func DebugValidate(validatable Validatable) {
}

// DebugCheckPow2 will verify that the numerical value passed in is a power of two, and panics if it is not.
// This method no-ops unless the debug_segfit build tag is present.
func DebugCheckPow2[T Number](value T, name string) {
}
