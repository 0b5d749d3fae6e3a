package enums

import "fmt"

// BeanProcess captures how a coffee lot was processed after harvest.
type BeanProcess string

const (
	BeanProcessWashed    BeanProcess = "washed"
	BeanProcessNatural   BeanProcess = "natural"
	BeanProcessHoney     BeanProcess = "honey"
	BeanProcessAnaerobic BeanProcess = "anaerobic"
)

var validBeanProcesses = []BeanProcess{
	BeanProcessWashed,
	BeanProcessNatural,
	BeanProcessHoney,
	BeanProcessAnaerobic,
}

// String implements fmt.Stringer.
func (b BeanProcess) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BeanProcess.
func (b BeanProcess) IsValid() bool {
	for _, candidate := range validBeanProcesses {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBeanProcess converts raw input into a BeanProcess.
func ParseBeanProcess(value string) (BeanProcess, error) {
	for _, candidate := range validBeanProcesses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bean process %q", value)
}
