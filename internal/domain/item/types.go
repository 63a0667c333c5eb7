package item

type AvailabilityStatus string

const (
	StatusAvailable          AvailabilityStatus = "available"
	StatusPartiallyAvailable AvailabilityStatus = "partially_available"
	StatusFullyBorrowed      AvailabilityStatus = "fully_borrowed"
	StatusNotAvailable       AvailabilityStatus = "not_available"
)

var statusDescriptions = map[AvailabilityStatus]string{
	StatusAvailable:          "All copies are on the shelf",
	StatusPartiallyAvailable: "Some copies are on loan",
	StatusFullyBorrowed:      "Every copy is on loan",
	StatusNotAvailable:       "No copies are registered",
}

func (s AvailabilityStatus) String() string {
	return string(s)
}

func (s AvailabilityStatus) IsValid() bool {
	_, ok := statusDescriptions[s]
	return ok
}

func (s AvailabilityStatus) Description() string {
	return statusDescriptions[s]
}

func ParseAvailabilityStatus(s string) (AvailabilityStatus, error) {
	status := AvailabilityStatus(s)
	if !status.IsValid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// StatusOf derives availability from the two stored counters.
func StatusOf(total, available int) AvailabilityStatus {
	switch {
	case total == 0:
		return StatusNotAvailable
	case available == 0:
		return StatusFullyBorrowed
	case available == total:
		return StatusAvailable
	default:
		return StatusPartiallyAvailable
	}
}
