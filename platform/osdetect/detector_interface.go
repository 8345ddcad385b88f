package osdetect

// Detector maps partition paths to the name of the operating system found on them
type Detector interface {
	GetOSDict() (map[string]string, error)
}
