package api

// ConfigSource is the read-only view of the host virtual machine configuration that parameterizes architecture
// detection. Every method returns an error wrapping ErrConfigNotFound when the host does not expose the entry.
//
// The host must not mutate the source while a backend is being assembled. Assembly reads everything it needs once, at
// the start, so implementations are never re-queried afterwards.
type ConfigSource interface {
	// BooleanFlag returns the value of the named boolean VM flag, e.g. "UseCompressedOops".
	BooleanFlag(name string) (bool, error)

	// IntegerFlag returns the value of the named integer VM flag, e.g. "UseSSE".
	IntegerFlag(name string) (int32, error)

	// LongConstant returns the value of the named VM constant, e.g. "VM_Version::CPU_SSE2".
	LongConstant(name string) (int64, error)

	// FieldValue returns the raw value of a VM field given its symbolic path, e.g. "Abstract_VM_Version::_features".
	// typeName is the C type the caller expects the field to have, e.g. "uint64_t". A field whose type differs is
	// reported as not found.
	FieldValue(path, typeName string) (uint64, error)

	// SavedProperty returns the named system property captured when the VM started, e.g. "os.name".
	SavedProperty(name string) (string, error)
}
